package reporter

// InstrumentKey identifies an instrument inside BasicBackend.
type InstrumentKey struct {
	Type InstrumentType
	Name string
	// Tags is the canonical encoding of the instrument's tag set.
	Tags string
}

// NewInstrumentKey builds the key for an instrument of type t registered under name and tags.
func NewInstrumentKey(t InstrumentType, name string, tags Tags) InstrumentKey {
	return InstrumentKey{Type: t, Name: name, Tags: tags.identity()}
}

func (k InstrumentKey) String() string {
	return k.Type.String() + ":" + k.Name
}
