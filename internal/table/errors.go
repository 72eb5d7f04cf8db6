package table

import "errors"

// Format separators.
const (
	keyValueSeparator = ":"
	cellSeparator     = " | "
	cellDelimiter     = "|"
)

// Error variables for table operations.
var (
	ErrIndexOutOfRange        = errors.New("row index out of range")
	ErrDuplicateKey           = errors.New("key already exists")
	ErrDuplicateKeyInOtherRow = errors.New("key already exists in other rows")
	ErrKeyNotFound            = errors.New("key not found in any row")
	ErrNegativeCount          = errors.New("count must not be negative")
	ErrInvalidChoice          = errors.New("choice must be K or V")
)
