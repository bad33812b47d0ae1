package auth

import "errors"

// Authentication errors. All of them translate to an uninformative
// failure at the HTTP boundary so callers cannot probe token state.
var (
	// ErrInvalidToken is returned for malformed tokens, bad signatures,
	// and unexpected signing methods.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token's expiry claim has passed.
	ErrExpiredToken = errors.New("token expired")

	// ErrTokenRevoked is returned when a structurally valid token is no
	// longer in the user's active session set.
	ErrTokenRevoked = errors.New("token revoked")
)
