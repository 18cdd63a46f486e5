package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/ropeworks/internal/jobimport"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// xlsxSource streams rows of the first worksheet.
type xlsxSource struct {
	file *excelize.File
	rows *excelize.Rows
	line int
}

func openXLSX(r io.Reader) (Source, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}

	name := file.GetSheetName(0)
	if name == "" {
		_ = file.Close()
		return nil, fmt.Errorf("open xlsx: no worksheet found: %w", ErrEmpty)
	}

	rows, err := file.Rows(name)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("open xlsx sheet %q: %w", name, err)
	}

	return &xlsxSource{file: file, rows: rows}, nil
}

func (s *xlsxSource) Next() (jobimport.Row, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return nil, fmt.Errorf("read xlsx row %d: %w", s.line+1, err)
		}
		if s.line == 0 {
			return nil, ErrEmpty
		}
		return nil, io.EOF
	}
	s.line++

	cells, err := s.rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read xlsx row %d: %w", s.line, err)
	}
	return cleanRow(cells), nil
}

func (s *xlsxSource) Close() error {
	return errors.Join(s.rows.Close(), s.file.Close())
}

func openXLS(r io.Reader) (src Source, err error) {
	// the BIFF parser panics on some malformed files
	defer func() {
		if p := recover(); p != nil {
			src, err = nil, fmt.Errorf("open xls: malformed workbook: %v", p)
		}
	}()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read xls: %w", err)
	}

	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	if workbook.NumSheets() == 0 {
		return nil, fmt.Errorf("open xls: no worksheet found: %w", ErrEmpty)
	}

	ws := workbook.GetSheet(0)
	if ws == nil {
		return nil, fmt.Errorf("open xls: no worksheet found: %w", ErrEmpty)
	}

	// MaxRow is a uint16, matching the BIFF8 limit of 65536 rows per sheet.
	var rows [][]string
	for i := 0; i <= int(ws.MaxRow); i++ {
		row := xlsRow(ws, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for c := range cells {
			cells[c] = row.Col(c)
		}
		rows = append(rows, cells)
	}

	// MaxRow is the last row index; trailing nil rows mean an empty sheet.
	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	return &memSource{rows: rows}, nil
}

// xlsRow returns row i, or nil for a gap. WorkSheet.Row dereferences the row
// before returning it, so a missing row panics inside the library.
func xlsRow(ws *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(i)
}
