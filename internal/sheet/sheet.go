// Package sheet decodes uploaded job export files into rows.
//
// Formats are looked up by file extension. The first worksheet of a
// workbook is read; CSV files may carry a UTF-8 BOM. Cells with invalid
// UTF-8 have the offending bytes replaced with '?'.
package sheet

import (
	"errors"
	"io"
	"strings"

	"github.com/JonMunkholm/ropeworks/internal/jobimport"
)

var (
	// ErrUnsupportedType is returned for an extension with no registered opener.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrEmpty is returned when the file has no worksheet or no rows.
	ErrEmpty = errors.New("empty file")
)

// Source yields rows in sheet order and io.EOF after the last one.
// It satisfies jobimport.RowSource.
type Source interface {
	Next() (jobimport.Row, error)
	Close() error
}

// Open decodes r according to fileName's extension.
func Open(fileName string, r io.Reader) (Source, error) {
	open, err := Lookup(fileName)
	if err != nil {
		return nil, err
	}
	return open(r)
}

// ReadAll decodes every row of the file.
func ReadAll(fileName string, r io.Reader) ([]jobimport.Row, error) {
	src, err := Open(fileName, r)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var rows []jobimport.Row
	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}

// cleanRow replaces invalid UTF-8 in every cell.
func cleanRow(cells []string) jobimport.Row {
	row := make(jobimport.Row, len(cells))
	for i, c := range cells {
		row[i] = strings.ToValidUTF8(c, "?")
	}
	return row
}

// memSource serves rows decoded up front.
type memSource struct {
	rows [][]string
	pos  int
}

func (m *memSource) Next() (jobimport.Row, error) {
	if m.pos >= len(m.rows) {
		return nil, io.EOF
	}
	row := cleanRow(m.rows[m.pos])
	m.pos++
	return row, nil
}

func (m *memSource) Close() error { return nil }
