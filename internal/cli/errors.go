package cli

import "errors"

// Error variables for configuration and flag handling.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrOutputDirEmpty     = errors.New("output-dir cannot be empty")
	ErrFileEmpty          = errors.New("file cannot be empty")
	ErrTooManyArgs        = errors.New("too many arguments")
	ErrInterrupted        = errors.New("interrupted")
)
