package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCacheCorrupt indicates the cache file exists but cannot be decoded.
	// Loading a corrupt cache aborts the batch before any mutation is
	// persisted, so history is never silently lost.
	ErrCacheCorrupt = errors.New("cache file corrupt")

	// ErrConfigInvalid indicates the configuration file exists but cannot
	// be parsed or fails validation.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrVaultNotFound indicates the vault root directory does not exist.
	ErrVaultNotFound = errors.New("vault root not found")
)
