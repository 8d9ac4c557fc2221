package service

import "errors"

// Error taxonomy for the ingestion and query paths.  Handlers discriminate
// with errors.Is; everything else wraps one of these sentinels.
var (
	// ErrValidation: missing or malformed input.  Nothing was persisted.
	ErrValidation = errors.New("invalid request")

	// ErrAuthorizationLookup: the allow-list was unreachable.  The scan is
	// not recorded; an unreachable lookup must not silently authorize.
	ErrAuthorizationLookup = errors.New("authorization lookup failed")

	// ErrPersistence: the event store write failed.  No broadcast or alert
	// fires for an event that was not durably recorded.
	ErrPersistence = errors.New("event write failed")

	// ErrMissingParameters: a stats query named neither a date nor a
	// start/end range.
	ErrMissingParameters = errors.New("missing query parameters")
)
