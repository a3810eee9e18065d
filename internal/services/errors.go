package services

import "errors"

// Failure classes the HTTP layer maps to status codes. Everything else that
// bubbles up is a store or chain failure and surfaces as a 5xx.
var (
	// ErrExpiredTimestamp: signed timestamp outside the replay window.
	// The client must re-sign with a fresh timestamp.
	ErrExpiredTimestamp = errors.New("timestamp outside replay window")

	// ErrInvalidSignature covers bad signatures and consumed/unknown nonces
	// alike; callers get one generic failure so responses can't be used to
	// probe which wallets or nonces exist.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrSessionNotFound: no score row matches (session_id, wallet).
	ErrSessionNotFound = errors.New("session not found")

	// ErrAlreadyClaimed is terminal; retrying the claim can never succeed.
	ErrAlreadyClaimed = errors.New("session already claimed")
)
