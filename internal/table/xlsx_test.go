package table

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	tbl := sampleTable(t)

	require.NoError(t, tbl.WriteXLSXFile(path, ""))

	back, err := ReadXLSXFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, tbl.Columns(), back.Columns())
	assert.Equal(t, tbl.NumRows(), back.NumRows())
	assert.Equal(t, tbl.Row(2), back.Row(2))
}

func TestXLSXNamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	tbl := sampleTable(t)

	require.NoError(t, tbl.WriteXLSXFile(path, "plots"))

	_, err := ReadXLSXFile(path, "missing")
	assert.Error(t, err)

	back, err := ReadXLSXFile(path, "plots")
	require.NoError(t, err)
	assert.Equal(t, tbl.Columns(), back.Columns())
}

func TestWriteFileDispatch(t *testing.T) {
	dir := t.TempDir()
	tbl := sampleTable(t)

	require.NoError(t, tbl.WriteFile(filepath.Join(dir, "a.csv")))
	require.NoError(t, tbl.WriteFile(filepath.Join(dir, "a.xlsx")))
	assert.Error(t, tbl.WriteFile(filepath.Join(dir, "a.json")))

	for _, name := range []string{"a.csv", "a.xlsx"} {
		back, err := ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, tbl.Columns(), back.Columns())
	}
}
