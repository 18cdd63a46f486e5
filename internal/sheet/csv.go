package sheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/JonMunkholm/ropeworks/internal/jobimport"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM drops a leading UTF-8 byte order mark, as written by Excel's
// "CSV UTF-8" export.
func skipBOM(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(utf8BOM))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}
	return br, nil
}

type csvSource struct {
	reader *csv.Reader
	line   int
}

func openCSV(r io.Reader) (Source, error) {
	body, err := skipBOM(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	return &csvSource{reader: reader}, nil
}

func (s *csvSource) Next() (jobimport.Row, error) {
	record, err := s.reader.Read()
	if err == io.EOF {
		if s.line == 0 {
			return nil, ErrEmpty
		}
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("read csv line %d: %w", s.line+1, err)
	}
	s.line++
	return cleanRow(record), nil
}

func (s *csvSource) Close() error { return nil }
