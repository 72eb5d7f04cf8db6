// Package table holds the in-memory key/value table: ordered rows of unique
// keys, the edit operations that keep those rows consistent, the random row
// generator, and the line-oriented text codec.
//
// A table is owned by a single session and is not safe for concurrent use.
//
// Key uniqueness across rows is only checked by [Table.RenameKey]. Rows
// produced by [Table.Reset] and [Table.InsertRow] are random and may share
// keys with other rows.
package table

import (
	"fmt"
	"slices"
	"strings"
)

// RowGenerator produces rows for [Table.Reset] and [Table.InsertRow].
type RowGenerator interface {
	Row(cols int) *Row
}

// Table is an ordered sequence of rows plus the file it belongs to.
type Table struct {
	rows []*Row
	path string
	gen  RowGenerator
}

// New returns a table holding rows, using gen for generated rows.
// Panics if gen is nil.
func New(gen RowGenerator, rows ...*Row) *Table {
	if gen == nil {
		panic("table: nil row generator")
	}

	return &Table{rows: slices.Clone(rows), gen: gen}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the row at index i.
func (t *Table) Row(i int) (*Row, error) {
	if i < 0 || i >= len(t.rows) {
		return nil, fmt.Errorf("%w: %d (rows: %d)", ErrIndexOutOfRange, i, len(t.rows))
	}

	return t.rows[i], nil
}

// Rows returns the rows in order. The slice is a copy; the rows are shared.
func (t *Table) Rows() []*Row {
	return slices.Clone(t.rows)
}

// Path returns the file the table was loaded from and is saved to.
func (t *Table) Path() string {
	return t.path
}

// SetPath sets the file the table belongs to.
func (t *Table) SetPath(path string) {
	t.path = path
}

// Replace swaps all rows for rows.
func (t *Table) Replace(rows []*Row) {
	t.rows = slices.Clone(rows)
}

// Reset discards every row and generates rows fresh rows of cols cells.
func (t *Table) Reset(rows, cols int) error {
	if rows < 0 || cols < 0 {
		return fmt.Errorf("%w: rows=%d cols=%d", ErrNegativeCount, rows, cols)
	}

	fresh := make([]*Row, 0, rows)
	for range rows {
		fresh = append(fresh, t.gen.Row(cols))
	}

	t.rows = fresh

	return nil
}

// Locate returns the indices of every row containing key, in order.
// Returns [ErrKeyNotFound] if no row contains it.
func (t *Table) Locate(key string) ([]int, error) {
	var found []int

	for i, row := range t.rows {
		if row.Has(key) {
			found = append(found, i)
		}
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}

	return found, nil
}

// RenameKey renames oldKey to newKey in row i, keeping its value and position.
//
// Fails with [ErrDuplicateKey] if newKey is already in row i and with
// [ErrDuplicateKeyInOtherRow] if any other row holds newKey. The table is
// unchanged on failure.
func (t *Table) RenameKey(i int, oldKey, newKey string) error {
	row, err := t.Row(i)
	if err != nil {
		return err
	}

	if !row.Has(oldKey) {
		return fmt.Errorf("%w: %q in row %d", ErrKeyNotFound, oldKey, i)
	}

	if row.Has(newKey) {
		return fmt.Errorf("%w: %q in row %d", ErrDuplicateKey, newKey, i)
	}

	for j, other := range t.rows {
		if j != i && other.Has(newKey) {
			return fmt.Errorf("%w: %q in row %d", ErrDuplicateKeyInOtherRow, newKey, j)
		}
	}

	return row.rename(oldKey, newKey)
}

// UpdateValue overwrites the value of key in row i.
func (t *Table) UpdateValue(i int, key, value string) error {
	row, err := t.Row(i)
	if err != nil {
		return err
	}

	if !row.Has(key) {
		return fmt.Errorf("%w: %q in row %d", ErrKeyNotFound, key, i)
	}

	row.Set(key, value)

	return nil
}

// InsertRow inserts a generated row of cols cells at index at, shifting later
// rows down. at may equal Len() to append.
func (t *Table) InsertRow(at, cols int) error {
	if at < 0 || at > len(t.rows) {
		return fmt.Errorf("%w: %d (rows: %d)", ErrIndexOutOfRange, at, len(t.rows))
	}

	if cols < 0 {
		return fmt.Errorf("%w: cols=%d", ErrNegativeCount, cols)
	}

	t.rows = slices.Insert(t.rows, at, t.gen.Row(cols))

	return nil
}

// DeleteRow removes the row at index at.
func (t *Table) DeleteRow(at int) error {
	if _, err := t.Row(at); err != nil {
		return err
	}

	t.rows = slices.Delete(t.rows, at, at+1)

	return nil
}

// SortRow orders the cells of row i by ascending key+value. Cells whose
// concatenations are equal keep their relative order.
func (t *Table) SortRow(i int) error {
	row, err := t.Row(i)
	if err != nil {
		return err
	}

	cells := row.Cells()
	slices.SortStableFunc(cells, func(a, b Cell) int {
		return strings.Compare(a.Key+a.Value, b.Key+b.Value)
	})

	row.replace(cells)

	return nil
}

// String renders the table in print format, one row per line.
func (t *Table) String() string {
	var b strings.Builder

	for _, row := range t.rows {
		b.WriteString(row.String())
		b.WriteByte('\n')
	}

	return b.String()
}
