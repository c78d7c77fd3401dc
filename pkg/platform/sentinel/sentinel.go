package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into domain errors.
//
//   - ErrNotFound: no live record with that key (soft-deleted rows count as absent)
//   - ErrAlreadyUsed: a uniqueness constraint rejected the write, or a one-time token was consumed
//   - ErrExpired: a token is past its validity window
//   - ErrUnavailable: a backing service (cache, broker) cannot be reached
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyUsed = errors.New("already used")
	ErrExpired     = errors.New("expired")
	ErrUnavailable = errors.New("unavailable")
)
