// Package error defines the coded errors the use cases return. Each domain
// has its own code type so the HTTP layer can map codes to statuses per
// domain. Codes read PREFIX-XXYYYY: XX is the category, YYYY the error.
package error

// coded carries a stable code and a client-facing message. Err, when set,
// is the sentinel or cause the error wraps.
type coded[C ~string] struct {
	Code    C
	Message string
	Err     error
}

func (e *coded[C]) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *coded[C]) Unwrap() error {
	return e.Err
}
