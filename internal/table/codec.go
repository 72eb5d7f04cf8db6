package table

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Decode reads rows from r, one row per line.
//
// Each line is split on "|" into cells; a cell is kept only if it splits on
// ":" into exactly two parts. Keys and values are trimmed. A line with no
// usable cells still yields an empty row, so lines and rows correspond.
// Lines may end in "\n", "\r\n" or "\r" and have no length limit.
//
// Only read failures are returned; malformed content is dropped silently.
func Decode(r io.Reader) ([]*Row, error) {
	br := bufio.NewReader(r)

	var rows []*Row

	for {
		chunk, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading rows: %w", err)
		}

		for _, line := range splitLines(chunk) {
			rows = append(rows, decodeLine(line))
		}

		if err != nil {
			return rows, nil
		}
	}
}

// splitLines splits a chunk read up to and including "\n" into lines,
// treating "\r\n" and a bare "\r" as terminators as well.
func splitLines(chunk string) []string {
	if chunk == "" {
		return nil
	}

	chunk = strings.TrimSuffix(chunk, "\n")
	chunk = strings.TrimSuffix(chunk, "\r")

	return strings.Split(chunk, "\r")
}

// DecodeString is [Decode] over a string.
func DecodeString(s string) []*Row {
	rows, _ := Decode(strings.NewReader(s))

	return rows
}

func decodeLine(line string) *Row {
	row := NewRow()

	for token := range strings.SplitSeq(line, cellDelimiter) {
		parts := strings.Split(token, keyValueSeparator)
		if len(parts) != 2 {
			continue
		}

		row.Set(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}

	return row
}

// Encode writes rows to w, one line per row, cells joined by " | ".
// Lines written before a failure are not rolled back.
func Encode(w io.Writer, rows []*Row) error {
	bw := bufio.NewWriter(w)

	for i, row := range rows {
		_, err := bw.WriteString(encodeRow(row))
		if err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	err := bw.Flush()
	if err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}

	return nil
}

// EncodeBytes is [Encode] into memory.
func EncodeBytes(rows []*Row) []byte {
	var buf bytes.Buffer

	_ = Encode(&buf, rows)

	return buf.Bytes()
}

func encodeRow(row *Row) string {
	cells := row.Cells()

	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		parts = append(parts, c.String())
	}

	return strings.Join(parts, cellSeparator) + "\n"
}
