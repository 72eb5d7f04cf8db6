package session

import (
	"github.com/calvinalkan/kvtable/internal/table"
)

// Mutating operations save after a successful change. A rejected operation
// returns the table error and does not save; a failed save returns an error
// matching [ErrSave] while the change stays in memory.

// Search finds cells whose key or value contains target.
func (s *Session) Search(choice table.Choice, target string) []table.Match {
	matches := s.table.Search(choice, target)
	s.log.Debug("search", "choice", choice.String(), "target", target, "matches", len(matches))

	return matches
}

// Locate returns the rows containing key. It is the first half of an edit;
// the caller then applies [Session.RenameKey] or [Session.UpdateValue] per row.
func (s *Session) Locate(key string) ([]int, error) {
	return s.table.Locate(key)
}

// RenameKey renames a key in one row. See [table.Table.RenameKey].
func (s *Session) RenameKey(row int, oldKey, newKey string) error {
	err := s.table.RenameKey(row, oldKey, newKey)
	if err != nil {
		return err
	}

	s.log.Debug("key renamed", "row", row, "from", oldKey, "to", newKey)

	return s.Save()
}

// UpdateValue overwrites a value in one row.
func (s *Session) UpdateValue(row int, key, value string) error {
	err := s.table.UpdateValue(row, key, value)
	if err != nil {
		return err
	}

	s.log.Debug("value updated", "row", row, "key", key)

	return s.Save()
}

// Reset replaces the table with rows random rows of cols cells.
func (s *Session) Reset(rows, cols int) error {
	err := s.table.Reset(rows, cols)
	if err != nil {
		return err
	}

	s.log.Debug("table reset", "rows", rows, "cols", cols)

	return s.Save()
}

// InsertRow inserts a random row of cols cells at index at.
func (s *Session) InsertRow(at, cols int) error {
	err := s.table.InsertRow(at, cols)
	if err != nil {
		return err
	}

	s.log.Debug("row inserted", "at", at, "cols", cols)

	return s.Save()
}

// DeleteRow removes the row at index at.
func (s *Session) DeleteRow(at int) error {
	err := s.table.DeleteRow(at)
	if err != nil {
		return err
	}

	s.log.Debug("row deleted", "at", at)

	return s.Save()
}

// SortRow sorts the cells of row i by key+value.
func (s *Session) SortRow(i int) error {
	err := s.table.SortRow(i)
	if err != nil {
		return err
	}

	s.log.Debug("row sorted", "row", i)

	return s.Save()
}

// Print returns the printable representation of the table.
func (s *Session) Print() string {
	return s.table.String()
}
