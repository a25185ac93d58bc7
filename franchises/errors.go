package franchises

import "errors"

var (
	NotPermittedErr   = errors.New("action not permitted")
	ParentInactiveErr = errors.New("parent entity is inactive")
)

// ValidationError is a local, pre-flight failure. Requests that fail
// validation are never sent to the service.
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
