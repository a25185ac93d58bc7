package session

import "errors"

var (
	InvalidCredentialsErr     = errors.New("invalid credentials")
	InvalidCurrentPasswordErr = errors.New("current password is incorrect")
	NotAuthenticatedErr       = errors.New("no active session")
	NotPermittedErr           = errors.New("reset token has not been validated")
	SessionExpiredErr         = errors.New("stored session has expired")
)
