package domain

import "errors"

var (
	// ErrInvalidArgument is returned for arguments a component cannot work with,
	// such as an empty question sequence.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState is returned when a controller operation is called out of order.
	ErrInvalidState = errors.New("invalid state transition")
	// ErrInvalidQuiz wraps validation failures of quiz content.
	ErrInvalidQuiz = errors.New("invalid quiz")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrSessionNotFound is returned when a quiz session is not registered.
	ErrSessionNotFound = errors.New("quiz session not found")
)
