package store

import "errors"

var (
	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")

	// ErrAuthCodeAlreadyUsed is returned by ConsumeAuthCode when the code
	// row was already deleted by a concurrent redemption (0 rows affected).
	ErrAuthCodeAlreadyUsed = errors.New("authorization code already used")

	// ErrRefreshTokenRotated is returned by the rotate operations when the
	// presented token generation was already replaced by a concurrent
	// rotation (0 rows affected on the delete).
	ErrRefreshTokenRotated = errors.New("refresh token already rotated")
)
