package token

import "errors"

var (
	// ErrTokenGeneration is returned when signing a token fails
	ErrTokenGeneration = errors.New("failed to generate token")

	// ErrInvalidToken is returned when a token fails verification
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token is past its exp claim
	ErrExpiredToken = errors.New("token has expired")
)
