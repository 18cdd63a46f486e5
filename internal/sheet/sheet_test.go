package sheet

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/JonMunkholm/ropeworks/internal/jobimport"
	"github.com/extrame/xls"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildXLSX(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

// =============================================================================
// Registry
// =============================================================================

func TestLookup(t *testing.T) {
	for _, name := range []string{"export.xlsx", "EXPORT.XLSX", "old.xls", "jobs.csv"} {
		_, err := Lookup(name)
		assert.NoError(t, err, name)
	}

	_, err := Lookup("notes.txt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), ".xlsx")

	_, err = Lookup("no-extension")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, []string{".csv", ".xls", ".xlsx"}, Extensions())
}

func TestRegister_Duplicate(t *testing.T) {
	assert.Panics(t, func() { Register("CSV", openCSV) })
}

// =============================================================================
// CSV
// =============================================================================

func TestReadAll_CSV(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  []jobimport.Row
	}{
		{
			name:  "plain",
			input: []byte("a,b\n1,2\n"),
			want:  []jobimport.Row{{"a", "b"}, {"1", "2"}},
		},
		{
			name:  "with BOM",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("code,desc\nX1,\"Rope, access\"\n")...),
			want:  []jobimport.Row{{"code", "desc"}, {"X1", "Rope, access"}},
		},
		{
			name:  "ragged rows",
			input: []byte("h\n,CODE1,Install\n"),
			want:  []jobimport.Row{{"h"}, {"", "CODE1", "Install"}},
		},
		{
			name:  "invalid utf8 replaced",
			input: []byte("ok,b\xffad\n"),
			want:  []jobimport.Row{{"ok", "b?ad"}},
		},
		{
			name:  "partial BOM is not stripped",
			input: []byte{0xEF, 0xBB, 'a', '\n'},
			want:  []jobimport.Row{{"?a"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ReadAll("jobs.csv", bytes.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestReadAll_EmptyCSV(t *testing.T) {
	_, err := ReadAll("jobs.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestReadAll_UnsupportedType(t *testing.T) {
	_, err := ReadAll("jobs.pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

// =============================================================================
// XLSX
// =============================================================================

func TestReadAll_XLSX(t *testing.T) {
	buf := buildXLSX(t, [][]any{
		{"Work job export"},
		{"", "Code", "Description", "", "", "", "", "Client", "Client ID"},
		{"", "CODE1", "Install widget", "", "", "", "", "Acme", "A1"},
		{"", "CODE2", "Blade repair"},
	})

	rows, err := ReadAll("export.xlsx", buf)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "CODE1", rows[2].Cell(1))
	assert.Equal(t, "A1", rows[2].Cell(8))
	assert.Equal(t, "", rows[3].Cell(7))
}

func TestOpen_XLSXFeedsImporter(t *testing.T) {
	buf := buildXLSX(t, [][]any{
		{"Work job export"},
		{"", "Code", "Description"},
		{"", "CODE1", "Install widget", "", "", "", "", "Acme", "A1"},
		{"", "", "Missing code"},
		{"", "CODE2", "Rope inspection"},
	})

	src, err := Open("export.xlsx", buf)
	require.NoError(t, err)
	defer src.Close()

	store := &recordingStore{}
	im := jobimport.NewImporter(store, jobimport.DefaultLayout())
	im.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	report, err := im.Run(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, jobimport.Stats{Total: 3, Success: 2, Skipped: 1}, report.Stats)
	assert.Equal(t, []string{"CODE1", "CODE2"}, store.codes)
}

func TestOpen_CorruptXLSX(t *testing.T) {
	_, err := Open("export.xlsx", strings.NewReader("not a zip archive"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnsupportedType))
}

func TestOpen_CorruptXLS(t *testing.T) {
	_, err := Open("export.xls", strings.NewReader("not a compound document"))
	assert.Error(t, err)
}

func TestXLSRow_GapIsNil(t *testing.T) {
	ws := &xls.WorkSheet{}
	assert.NotPanics(t, func() {
		assert.Nil(t, xlsRow(ws, 3))
	})
}

type recordingStore struct {
	codes []string
}

func (s *recordingStore) UpsertJob(_ context.Context, job jobimport.Job) (jobimport.Job, error) {
	s.codes = append(s.codes, job.Code)
	return job, nil
}
