package auth

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenMissing indicates a protected request carried no Authorization header
	ErrTokenMissing = errors.New("token missing")

	// ErrTokenInvalid indicates a malformed, forged or expired token
	ErrTokenInvalid = errors.New("invalid token")
)
