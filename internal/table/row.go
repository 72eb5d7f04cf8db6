package table

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Cell is a single key/value pair of a [Row].
type Cell struct {
	Key   string
	Value string
}

// String renders the cell as "key:value".
func (c Cell) String() string {
	return c.Key + keyValueSeparator + c.Value
}

// Row is an insertion-ordered mapping from key to value.
//
// Keys are unique within a row. Setting an existing key overwrites its value
// without moving it. The zero value is not usable; create rows with [NewRow].
type Row struct {
	cells *orderedmap.OrderedMap[string, string]
}

// NewRow returns a row holding cells in order. A repeated key overwrites the
// earlier value and keeps the earlier position.
func NewRow(cells ...Cell) *Row {
	r := &Row{cells: orderedmap.New[string, string]()}

	for _, c := range cells {
		r.Set(c.Key, c.Value)
	}

	return r
}

// Len returns the number of cells.
func (r *Row) Len() int {
	return r.cells.Len()
}

// Get returns the value stored under key.
func (r *Row) Get(key string) (string, bool) {
	return r.cells.Get(key)
}

// Has reports whether key is present.
func (r *Row) Has(key string) bool {
	_, ok := r.cells.Get(key)

	return ok
}

// Set stores value under key. New keys are appended; existing keys keep
// their position.
func (r *Row) Set(key, value string) {
	r.cells.Set(key, value)
}

// Cells returns a copy of the cells in order.
func (r *Row) Cells() []Cell {
	out := make([]Cell, 0, r.cells.Len())

	for pair := r.cells.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Cell{Key: pair.Key, Value: pair.Value})
	}

	return out
}

// Keys returns the keys in order.
func (r *Row) Keys() []string {
	out := make([]string, 0, r.cells.Len())

	for pair := r.cells.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}

	return out
}

// String renders the row in print format: every cell followed by " | ".
func (r *Row) String() string {
	var b strings.Builder

	for pair := r.cells.Oldest(); pair != nil; pair = pair.Next() {
		b.WriteString(pair.Key)
		b.WriteString(keyValueSeparator)
		b.WriteString(pair.Value)
		b.WriteString(cellSeparator)
	}

	return b.String()
}

// rename replaces oldKey by newKey at the same position, keeping the value.
// The caller has checked that oldKey exists and newKey does not.
func (r *Row) rename(oldKey, newKey string) error {
	value, _ := r.cells.Get(oldKey)

	r.cells.Set(newKey, value)

	err := r.cells.MoveBefore(newKey, oldKey)
	if err != nil {
		r.cells.Delete(newKey)

		return fmt.Errorf("moving %q before %q: %w", newKey, oldKey, err)
	}

	r.cells.Delete(oldKey)

	return nil
}

// replace swaps the row content for cells, in order.
func (r *Row) replace(cells []Cell) {
	fresh := orderedmap.New[string, string]()

	for _, c := range cells {
		fresh.Set(c.Key, c.Value)
	}

	r.cells = fresh
}
