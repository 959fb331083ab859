package cache

import "errors"

// Sentinel errors shared by every cache backend.
var (
	// ErrCacheMiss reports that the key holds no live value.
	ErrCacheMiss = errors.New("cache: key not found")

	// ErrCacheUnavailable reports that the backend could not be reached.
	ErrCacheUnavailable = errors.New("cache: backend unavailable")

	// ErrInvalidValue reports a stored value that does not parse as int64.
	ErrInvalidValue = errors.New("cache: invalid value")
)
