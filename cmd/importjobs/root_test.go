package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/ropeworks/internal/sqlitestore"
)

const exportCSV = "Job export\n" +
	",Code,Description,,,,,Client,Client ID\n" +
	",CODE1,Install widget,,,,,Acme,A1\n" +
	",,Row without a code\n" +
	",CODE2,Rope inspection\n"

func writeExport(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(exportCSV), 0o644))
	return path
}

func TestRun_SQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "jobs.db")

	var out, logs bytes.Buffer
	err := run(context.Background(), options{file: writeExport(t, dir), sqlitePath: dbPath}, &out, &logs)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Import completed!")
	assert.Contains(t, out.String(), "Total Rows")
	assert.Contains(t, out.String(), "some rows were skipped")
	assert.NotContains(t, out.String(), "some rows had errors")
	assert.Contains(t, logs.String(), "import completed with statistics")

	store, err := sqlitestore.Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer store.Close()

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRun_MissingFile(t *testing.T) {
	dir := t.TempDir()
	var out, logs bytes.Buffer
	err := run(context.Background(), options{
		file:       filepath.Join(dir, "missing.xlsx"),
		sqlitePath: filepath.Join(dir, "jobs.db"),
	}, &out, &logs)

	require.Error(t, err)
	assert.Contains(t, logs.String(), "error during import")
	assert.NotContains(t, out.String(), "Import completed!")
}

func TestRun_UnsupportedType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o644))

	var out, logs bytes.Buffer
	err := run(context.Background(), options{file: path, sqlitePath: filepath.Join(dir, "jobs.db")}, &out, &logs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FILE002")
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"debug", "layout", "sqlite"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Error(t, cmd.Args(cmd, []string{"a.xlsx", "b.xlsx"}))
}

func TestRootCmd_Execute(t *testing.T) {
	dir := t.TempDir()
	file := writeExport(t, dir)

	cmd := newRootCmd()
	var out, logs bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetArgs([]string{file, "--sqlite", filepath.Join(dir, "jobs.db"), "--debug"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Debug mode enabled")
	assert.Contains(t, logs.String(), "level=DEBUG")
}
