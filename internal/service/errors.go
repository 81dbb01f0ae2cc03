package service

import "errors"

// Common service errors. Callers check these with errors.Is; the API layer
// maps them to HTTP status codes.
var (
	// ErrGenerationDisabled indicates question generation is not configured
	// (no LLM API key). API layer should map this to HTTP 503.
	ErrGenerationDisabled = errors.New("question generation is not configured")

	// ErrInvalidIndex indicates a negative flashcard index.
	// API layer should map this to HTTP 400.
	ErrInvalidIndex = errors.New("index must be non-negative")

	// ErrIndexOutOfRange indicates a flashcard index at or beyond the user's
	// question count. API layer should map this to HTTP 404.
	ErrIndexOutOfRange = errors.New("index out of range")
)
