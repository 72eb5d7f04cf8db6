package table_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/calvinalkan/kvtable/internal/table"
	"github.com/calvinalkan/kvtable/internal/testutil"
)

// model is a plain-slice reference for the row store.
type model struct {
	rows [][]table.Cell
	gen  *counterGenerator
}

func (m *model) generate(cols int) []table.Cell {
	return m.gen.Row(cols).Cells()
}

func (m *model) validRow(i int) bool {
	return i >= 0 && i < len(m.rows)
}

func (m *model) find(i int, key string) int {
	for j, c := range m.rows[i] {
		if c.Key == key {
			return j
		}
	}

	return -1
}

func (m *model) reset(rows, cols int) error {
	m.rows = nil

	for range rows {
		m.rows = append(m.rows, m.generate(cols))
	}

	return nil
}

func (m *model) insert(at, cols int) error {
	if at < 0 || at > len(m.rows) {
		return table.ErrIndexOutOfRange
	}

	row := m.generate(cols)
	m.rows = append(m.rows[:at], append([][]table.Cell{row}, m.rows[at:]...)...)

	return nil
}

func (m *model) remove(at int) error {
	if !m.validRow(at) {
		return table.ErrIndexOutOfRange
	}

	m.rows = append(m.rows[:at], m.rows[at+1:]...)

	return nil
}

func (m *model) sort(i int) error {
	if !m.validRow(i) {
		return table.ErrIndexOutOfRange
	}

	row := m.rows[i]

	// Insertion sort is stable.
	for a := 1; a < len(row); a++ {
		for b := a; b > 0 && row[b].Key+row[b].Value < row[b-1].Key+row[b-1].Value; b-- {
			row[b], row[b-1] = row[b-1], row[b]
		}
	}

	return nil
}

func (m *model) rename(i int, oldKey, newKey string) error {
	if !m.validRow(i) {
		return table.ErrIndexOutOfRange
	}

	pos := m.find(i, oldKey)
	if pos < 0 {
		return table.ErrKeyNotFound
	}

	if m.find(i, newKey) >= 0 {
		return table.ErrDuplicateKey
	}

	for j := range m.rows {
		if j != i && m.find(j, newKey) >= 0 {
			return table.ErrDuplicateKeyInOtherRow
		}
	}

	m.rows[i][pos].Key = newKey

	return nil
}

func (m *model) update(i int, key, value string) error {
	if !m.validRow(i) {
		return table.ErrIndexOutOfRange
	}

	pos := m.find(i, key)
	if pos < 0 {
		return table.ErrKeyNotFound
	}

	m.rows[i][pos].Value = value

	return nil
}

// pickKey returns an existing key of some row, or a fresh one.
func (m *model) pickKey(s *testutil.ByteStream) string {
	if s.NextBool() && len(m.rows) > 0 {
		row := m.rows[s.NextInt(len(m.rows))]
		if len(row) > 0 {
			return row[s.NextInt(len(row))].Key
		}
	}

	return s.NextKey(2)
}

func sameError(got, want error) bool {
	if want == nil {
		return got == nil
	}

	return errors.Is(got, want)
}

func FuzzTable_Matches_Model_When_Random_Ops_Applied(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0, 3, 2, 1, 0, 0, 2, 5})
	f.Add([]byte("kvtable-ops"))
	f.Add(bytes.Repeat([]byte{4, 1, 1, 0, 2, 3}, 20))

	f.Fuzz(func(t *testing.T, data []byte) {
		const maxOps = 200

		stream := testutil.NewByteStream(data)
		tbl := table.New(&counterGenerator{})
		ref := &model{gen: &counterGenerator{}}

		for op := 0; op < maxOps && stream.HasMore(); op++ {
			var got, want error

			var desc string

			switch stream.NextInt(6) {
			case 0:
				rows, cols := stream.NextInt(4), stream.NextInt(4)
				desc = "reset"
				got, want = tbl.Reset(rows, cols), ref.reset(rows, cols)
			case 1:
				at, cols := stream.NextIndex(len(ref.rows)), stream.NextInt(4)
				desc = "insert"
				got, want = tbl.InsertRow(at, cols), ref.insert(at, cols)
			case 2:
				at := stream.NextIndex(len(ref.rows))
				desc = "delete"
				got, want = tbl.DeleteRow(at), ref.remove(at)
			case 3:
				i := stream.NextIndex(len(ref.rows))
				desc = "sort"
				got, want = tbl.SortRow(i), ref.sort(i)
			case 4:
				i := stream.NextIndex(len(ref.rows))
				oldKey, newKey := ref.pickKey(stream), ref.pickKey(stream)
				desc = "rename " + oldKey + "->" + newKey
				got, want = tbl.RenameKey(i, oldKey, newKey), ref.rename(i, oldKey, newKey)
			case 5:
				i := stream.NextIndex(len(ref.rows))
				key, value := ref.pickKey(stream), stream.NextKey(3)
				desc = "update " + key
				got, want = tbl.UpdateValue(i, key, value), ref.update(i, key, value)
			}

			if !sameError(got, want) {
				t.Fatalf("op %d (%s): err=%v, want=%v", op, desc, got, want)
			}

			if diff := cmp.Diff(ref.rows, snapshot(tbl), cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("op %d (%s): table differs from model (-model +table):\n%s", op, desc, diff)
			}
		}

		decoded := table.DecodeString(string(table.EncodeBytes(tbl.Rows())))
		if diff := cmp.Diff(snapshot(tbl), cellsOf(decoded), cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("encode/decode changed the table:\n%s", diff)
		}
	})
}

func FuzzDecode_Is_Stable_After_One_Round_When_Given_Arbitrary_Input(f *testing.F) {
	f.Add("key1:value1 | key2:value2\nkey3:value3")
	f.Add("a:b:c | :x | y: | | z\r\n\r")
	f.Add("  spaced key  :  spaced value  |dup:1|dup:2")
	f.Add("\n\n")

	f.Fuzz(func(t *testing.T, input string) {
		rows, err := table.Decode(strings.NewReader(input))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}

		first := table.EncodeBytes(rows)
		second := table.EncodeBytes(table.DecodeString(string(first)))

		if !bytes.Equal(first, second) {
			t.Fatalf("re-encoding changed output:\nfirst:  %q\nsecond: %q", first, second)
		}
	})
}
