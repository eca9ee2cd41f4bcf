package config

import "errors"

// Package-specific errors
var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct
	ErrParsingConfig = errors.New("config: failed to parse environment variables")

	// ErrReadingFile is returned when the configuration file cannot be read
	ErrReadingFile = errors.New("config: failed to read configuration file")

	// ErrParsingFile is returned when the configuration file is not valid YAML
	ErrParsingFile = errors.New("config: failed to parse configuration file")

	// ErrNilPointer is returned when a nil pointer is provided to a loader
	ErrNilPointer = errors.New("config: nil pointer provided")
)
