package domain

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")

	// Validation errors for bot command input. They are reported to the user
	// directly and never reach the preference store.
	ErrMissingArguments = errors.New("missing arguments")
	ErrInvalidOrder     = errors.New("order must be either 'random' or 'sequential'")
	ErrInvalidTime      = errors.New("time must be in 24-hour HH:MM format")
	ErrInvalidVerseRef  = errors.New("invalid chapter or verse")
)
