package api

import "github.com/pkg/errors"

// FallbackMessage is surfaced when the service answers an error status with
// no usable message body. The text matches what the service's own frontend
// shows.
const FallbackMessage = "Ha ocurrido un error inesperado. Intenta nuevamente."

// RemoteError is a 4xx/5xx rejection from the service, carrying the
// server-supplied message (or the canned fallback when absent).
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// AsRemote unwraps a RemoteError from err, if one is present.
func AsRemote(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
