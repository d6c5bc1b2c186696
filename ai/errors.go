package ai

import "errors"

var (
	// ErrMalformedResponse indicates the assistant returned output that could
	// not be parsed into a Location, even after repair attempts. Callers
	// recover by treating the chunk as not found.
	ErrMalformedResponse = errors.New("malformed assistant response")
)
