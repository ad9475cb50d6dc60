package types

// KeyValueStore is a small persisted key/value record. The seed lifecycle
// uses it to remember whether the default dataset has been imported.
type KeyValueStore interface {
	Has(key string) (bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// ErrorReporter receives failures from work the caller did not wait on.
type ErrorReporter interface {
	Report(err error)
}

// ErrorReporterFunc adapts a function to ErrorReporter.
type ErrorReporterFunc func(err error)

// Report calls f(err).
func (f ErrorReporterFunc) Report(err error) { f(err) }
