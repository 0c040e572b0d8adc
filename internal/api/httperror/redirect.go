// Package httperror carries presentation hints alongside domain errors.
package httperror

// RedirectError tells the client where to navigate after err, so a front end
// can redirect instead of showing an error dialog.
type RedirectError struct {
	Err error
	To  string
}

func (e *RedirectError) Error() string { return e.Err.Error() }

func (e *RedirectError) Unwrap() error { return e.Err }

// WithRedirect attaches a navigation target to err. A nil err stays nil.
func WithRedirect(err error, to string) error {
	if err == nil {
		return nil
	}
	return &RedirectError{Err: err, To: to}
}
