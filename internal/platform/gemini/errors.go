package gemini

import "errors"

var (
	// ErrEmptyTopic is returned when the topic passed to GenerateQuestions
	// is empty.
	ErrEmptyTopic = errors.New("topic cannot be empty")

	// ErrInvalidCount is returned when the requested question count is not
	// positive.
	ErrInvalidCount = errors.New("question count must be positive")
)
