package cli

import (
	"errors"

	"github.com/calvinalkan/kvtable/internal/session"
	"github.com/calvinalkan/kvtable/internal/table"
)

// Menu options, as typed by the user.
const (
	optSearch = iota + 1
	optEdit
	optPrint
	optReset
	optAddRow
	optSortRow
	optExit
	optDeleteRow
)

var menuLines = []string{
	"\nMenu:",
	"1. Search",
	"2. Edit",
	"3. Print",
	"4. Reset",
	"5. Add new row",
	"6. Sort a row",
	"7. Exit",
	"8. Delete a row",
}

// menu is the interactive loop over one session.
type menu struct {
	sess *session.Session
	in   *input
	io   *IO
}

// run shows the menu and dispatches choices until Exit or an input error.
// Operation failures are reported to the user and never end the loop.
func (m *menu) run() error {
	for {
		for _, line := range menuLines {
			m.io.Println(line)
		}

		choice, err := m.in.Int("Enter your Choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case optSearch:
			err = m.search()
		case optEdit:
			err = m.edit()
		case optPrint:
			m.print()
		case optReset:
			err = m.reset()
		case optAddRow:
			err = m.addRow()
		case optSortRow:
			err = m.sortRow()
		case optDeleteRow:
			err = m.deleteRow()
		case optExit:
			m.io.Banner("Exiting program. Goodbye!")

			return nil
		default:
			m.io.Println("Invalid choice. Please try again.")

			continue
		}

		if err != nil {
			return err
		}
	}
}

func (m *menu) search() error {
	choice, err := m.in.Choice("Do you want to search for a key (K) or a value (V)? ")
	if err != nil {
		return err
	}

	target, err := m.in.String("Enter the target: ")
	if err != nil {
		return err
	}

	m.io.Println(table.DescribeMatches(m.sess.Search(choice, target), target))
	m.save()

	return nil
}

// edit locates a key and asks, row by row, whether to rename the key or
// overwrite its value. The first rejected rename ends the edit.
func (m *menu) edit() error {
	key, err := m.in.String("Enter the key you want to edit: ")
	if err != nil {
		return err
	}

	rows, err := m.sess.Locate(key)
	if err != nil {
		m.io.Banner("Key '%s' not found in any row.", key)

		return nil
	}

	for _, row := range rows {
		m.io.Printf("Row %d:\n", row)

		choice, err := m.in.Choice("Do you want to edit the key (K) or the value (V)? ")
		if err != nil {
			return err
		}

		switch choice {
		case table.ChoiceKey:
			newKey, err := m.in.String("Enter the new key: ")
			if err != nil {
				return err
			}

			err = m.sess.RenameKey(row, key, newKey)

			switch {
			case errors.Is(err, table.ErrDuplicateKey):
				m.io.Banner("Key already exists.")

				return nil
			case errors.Is(err, table.ErrDuplicateKeyInOtherRow):
				m.io.Banner("Key '%s' already exists in other rows.", newKey)

				return nil
			case err != nil && !m.reportSave(err):
				m.io.Banner("%v", err)

				return nil
			case err == nil:
				m.io.Banner("Key updated successfully.")
			}
		case table.ChoiceValue:
			value, err := m.in.String("Enter the new value: ")
			if err != nil {
				return err
			}

			err = m.sess.UpdateValue(row, key, value)
			if err != nil {
				if !m.reportSave(err) {
					m.io.Banner("%v", err)
				}

				continue
			}

			m.io.Banner("Value updated successfully.")
		}
	}

	return nil
}

func (m *menu) print() {
	m.io.Print("\nTABLE\n\n")
	m.io.Print(m.sess.Print())
	m.save()
}

func (m *menu) reset() error {
	rows, err := m.in.Int("Enter new number of rows: ")
	if err != nil {
		return err
	}

	cols, err := m.in.Int("Enter new number of columns: ")
	if err != nil {
		return err
	}

	err = m.sess.Reset(rows, cols)
	if err != nil && !m.reportSave(err) {
		m.io.Banner("%v", err)

		return nil
	}

	if err == nil {
		m.io.Banner("Table reset with new random data.")
	}

	return nil
}

func (m *menu) addRow() error {
	at, err := m.in.Int("Enter the row index where you want to insert: ")
	if err != nil {
		return err
	}

	if at > m.sess.Table().Len() {
		m.io.Banner("Invalid row index. Row not inserted.")

		return nil
	}

	cols, err := m.in.Int("Enter the number of columns to insert: ")
	if err != nil {
		return err
	}

	err = m.sess.InsertRow(at, cols)

	switch {
	case errors.Is(err, table.ErrIndexOutOfRange):
		m.io.Banner("Invalid row index. Row not inserted.")
	case err != nil && !m.reportSave(err):
		m.io.Banner("%v", err)
	case err == nil:
		m.io.Banner("New row inserted successfully!")
	}

	return nil
}

func (m *menu) sortRow() error {
	i, err := m.in.Int("Enter the row index you want to sort: ")
	if err != nil {
		return err
	}

	err = m.sess.SortRow(i)

	switch {
	case errors.Is(err, table.ErrIndexOutOfRange):
		m.io.Banner("Invalid row index. No changes made.")
	case err != nil && !m.reportSave(err):
		m.io.Banner("%v", err)
	case err == nil:
		m.io.Banner("Row %d sorted successfully.", i)
	}

	return nil
}

func (m *menu) deleteRow() error {
	i, err := m.in.Int("Enter the row index you want to delete: ")
	if err != nil {
		return err
	}

	err = m.sess.DeleteRow(i)

	switch {
	case errors.Is(err, table.ErrIndexOutOfRange):
		m.io.Banner("Invalid row index. No changes made.")
	case err != nil && !m.reportSave(err):
		m.io.Banner("%v", err)
	case err == nil:
		m.io.Banner("Row %d deleted successfully.", i)
	}

	return nil
}

// save persists the table after a read-only option. A session without a
// bound file, after a failed load, has nothing to persist.
func (m *menu) save() {
	if m.sess.Path() == "" {
		return
	}

	m.reportSave(m.sess.Save())
}

// reportSave prints err if it is a save failure and reports whether it did.
func (m *menu) reportSave(err error) bool {
	if !errors.Is(err, session.ErrSave) {
		return false
	}

	m.io.Banner("An error occurred while saving the table: %v", err)

	return true
}
