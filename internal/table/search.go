package table

import (
	"fmt"
	"strings"
)

// Match is one search hit.
type Match struct {
	Row   int
	Key   string
	Value string
}

// Describe renders the hit as shown to the user.
func (m Match) Describe(target string) string {
	return fmt.Sprintf("Found '%s' in row %d with key '%s' and value '%s'.", target, m.Row, m.Key, m.Value)
}

// Search returns every cell whose key (ChoiceKey) or value (ChoiceValue)
// contains target. Rows are visited in order and cells in insertion order.
// An empty result means no matches.
func (t *Table) Search(choice Choice, target string) []Match {
	var matches []Match

	for i, row := range t.rows {
		for _, c := range row.Cells() {
			var field string

			switch choice {
			case ChoiceKey:
				field = c.Key
			case ChoiceValue:
				field = c.Value
			default:
				return nil
			}

			if strings.Contains(field, target) {
				matches = append(matches, Match{Row: i, Key: c.Key, Value: c.Value})
			}
		}
	}

	return matches
}

// DescribeMatches renders matches one per line, or the "no instances" notice
// if there are none.
func DescribeMatches(matches []Match, target string) string {
	if len(matches) == 0 {
		return fmt.Sprintf("No instances of '%s' found.", target)
	}

	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, m.Describe(target))
	}

	return strings.Join(lines, "\n")
}
