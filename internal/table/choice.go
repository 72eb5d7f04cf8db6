package table

import (
	"fmt"
	"strings"
)

// Choice selects the key or the value side of a cell. It drives both search
// (what to match against) and edit (what to change).
type Choice int

// Choice values.
const (
	ChoiceKey Choice = iota + 1
	ChoiceValue
)

// ParseChoice accepts "K" or "V" in any case, ignoring surrounding whitespace.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "K":
		return ChoiceKey, nil
	case "V":
		return ChoiceValue, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidChoice, s)
	}
}

// String returns "K" or "V".
func (c Choice) String() string {
	switch c {
	case ChoiceKey:
		return "K"
	case ChoiceValue:
		return "V"
	default:
		return fmt.Sprintf("Choice(%d)", int(c))
	}
}
