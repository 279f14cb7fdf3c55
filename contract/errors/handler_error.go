package errors

// HandlerError attributes a notification handler failure to the handler that
// produced it. Parallel collecting strategies wrap each individual failure in
// a HandlerError before joining them, so callers of errors.As or Attributed
// can recover which handler failed.
type HandlerError struct {
	Handler string
	Err     error
}

func (e *HandlerError) Error() string { return e.Handler + ": " + e.Err.Error() }

func (e *HandlerError) Unwrap() error { return e.Err }

// Attributed walks err, including aggregates produced by errors.Join, and
// returns every HandlerError it contains in encounter order.
func Attributed(err error) []*HandlerError {
	if err == nil {
		return nil
	}

	var out []*HandlerError

	var walk func(error)
	walk = func(e error) {
		if he, ok := e.(*HandlerError); ok {
			out = append(out, he)
			return
		}

		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			if inner := u.Unwrap(); inner != nil {
				walk(inner)
			}
		}
	}
	walk(err)

	return out
}
