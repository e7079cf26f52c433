package reporter

// Inspector provides read access to what a backend has registered.
// Snapshot semantics: best-effort at call time.
// Methods must be safe for concurrent use.
type Inspector interface {
	CounterValue(name string, tags Tags) (float64, bool)
	TimerSnapshot(name string, tags Tags) (TimerSnapshot, bool)
	GaugeValue(name string, tags Tags) (int64, bool)

	// RegistrationCount returns how many times an instrument of type t was registered
	// under name, across all tag sets and including rejected registrations.
	RegistrationCount(t InstrumentType, name string) int

	// List returns enumeration for admin/debug UIs.
	List() []InstrumentEntry
}

// InstrumentEntry describes one registered instrument.
type InstrumentEntry struct {
	Type InstrumentType
	Name string
	Tags Tags
}
