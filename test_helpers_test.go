package reporter

// test helper: read metadata stored for an instrument identity.
// Placed in a _test.go file so it is test-only and not part of the public API.
func metaLoad(b *BasicBackend, t InstrumentType, name string, tags Tags) (InstrumentEntry, bool) {
	v, ok := b.meta.Load(NewInstrumentKey(t, name, tags))
	if !ok {
		return InstrumentEntry{}, false
	}
	e, ok := v.(InstrumentEntry)
	return e, ok
}
