package domain

import "errors"

// Error kinds. Adapters wrap these with %w so callers can classify
// failures with errors.Is without depending on adapter packages.
var (
	// ErrConfiguration marks a missing or invalid piece of static
	// configuration (e.g. an absent API key). Raised before any
	// network call is attempted.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrUpstream marks a failed or timed-out call to the hosted
	// chat-completion endpoint. Never retried.
	ErrUpstream = errors.New("upstream request failed")

	// ErrModelLoad marks a sentiment pipeline that could not be
	// initialized.
	ErrModelLoad = errors.New("sentiment model load failed")

	// ErrInference marks a classification failure for a given input.
	ErrInference = errors.New("sentiment inference failed")

	// ErrSessionNotFound marks an unknown session ID.
	ErrSessionNotFound = errors.New("session not found")
)
