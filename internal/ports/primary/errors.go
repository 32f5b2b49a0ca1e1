package primary

import "errors"

// Sentinel errors returned by services so transports can pick a status code.
var (
	// ErrInvalidInput marks a request rejected by validation or a guard.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTokenExpired marks a public link whose expiry has passed.
	ErrTokenExpired = errors.New("link expired")

	// ErrAlreadySubmitted marks a second submission of a one-shot form.
	ErrAlreadySubmitted = errors.New("already submitted")

	// ErrUnauthorized marks a missing or wrong admin token.
	ErrUnauthorized = errors.New("unauthorized")
)
