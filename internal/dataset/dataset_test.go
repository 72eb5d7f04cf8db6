package dataset_test

import (
	"errors"
	"io"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/kvtable/internal/dataset"
	"github.com/calvinalkan/kvtable/internal/table"
)

func Test_Embedded_Default_Table_Decodes(t *testing.T) {
	t.Parallel()

	rc, err := dataset.Embedded().Open(dataset.DefaultName)
	require.NoError(t, err)

	defer func() { _ = rc.Close() }()

	rows, err := table.Decode(rc)
	require.NoError(t, err)

	if len(rows) == 0 {
		t.Fatal("bundled table has no rows")
	}

	for i, row := range rows {
		if row.Len() == 0 {
			t.Errorf("row %d is empty", i)
		}
	}
}

func Test_Open_Missing_Resource_Reports_Not_Found(t *testing.T) {
	t.Parallel()

	src := dataset.FromFS(fstest.MapFS{
		"dir/file.txt": &fstest.MapFile{Data: []byte("a:b")},
	})

	_, err := src.Open("nope.txt")
	if !errors.Is(err, dataset.ErrNotFound) {
		t.Errorf("err=%v, want ErrNotFound", err)
	}

	_, err = src.Open("dir")
	if !errors.Is(err, dataset.ErrNotFound) {
		t.Errorf("directory: err=%v, want ErrNotFound", err)
	}

	rc, err := src.Open("dir/file.txt")
	require.NoError(t, err)

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())

	if got, want := string(data), "a:b"; got != want {
		t.Errorf("data=%q, want=%q", got, want)
	}
}
