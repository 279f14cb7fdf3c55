package errors

// Error codes for the dispatch contracts. Keep stable; used across the engine and adapters.
const (
	ErrCodeHandlerNotFound     = "mediator.handler_not_found"
	ErrCodeDuplicateHandler    = "mediator.duplicate_handler"
	ErrCodeHandlerTypeMismatch = "mediator.handler_type_mismatch"
	ErrCodeForwardFailed       = "mediator.forward_failed"
	ErrCodeSerializationFailed = "mediator.serialization_failed"
)

// Code returns an error value that carries only a code string.
// It implements error by returning the code string in Error().
func Code(code string) error { return codedError(code) }

type codedError string

func (e codedError) Error() string { return string(e) }

var (
	ErrHandlerNotFound     = Code(ErrCodeHandlerNotFound)
	ErrDuplicateHandler    = Code(ErrCodeDuplicateHandler)
	ErrHandlerTypeMismatch = Code(ErrCodeHandlerTypeMismatch)
	ErrForwardFailed       = Code(ErrCodeForwardFailed)
	ErrSerializationFailed = Code(ErrCodeSerializationFailed)
)
