package config

import "errors"

var (
	// ErrNilPointer is returned when Load receives a nil configuration pointer.
	ErrNilPointer = errors.New("config: nil pointer provided")

	// ErrParsingConfig is returned when environment variables cannot be parsed
	// into the configuration struct.
	ErrParsingConfig = errors.New("config: failed to parse environment variables")
)
