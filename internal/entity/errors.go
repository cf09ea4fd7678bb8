package entity

import "errors"

// Validation failures. Rendered as plain text on the same page.
var (
	ErrDuplicateUsername = errors.New("username already exists")
	ErrWeakPassword      = errors.New("password should contain at least 6 characters")
	ErrPasswordTooLong   = errors.New("password should contain at most 72 bytes")
	ErrInvalidCredential = errors.New("wrong password")
)

// Lookup and infrastructure failures.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInferenceUnavailable = errors.New("inference service unavailable")
	ErrStorageUnavailable   = errors.New("storage unavailable")
	ErrSessionDestroyFailed = errors.New("session destroy failed")
)

// IsValidation reports whether err should be shown to the user verbatim.
func IsValidation(err error) bool {
	return errors.Is(err, ErrDuplicateUsername) ||
		errors.Is(err, ErrWeakPassword) ||
		errors.Is(err, ErrPasswordTooLong) ||
		errors.Is(err, ErrInvalidCredential)
}
