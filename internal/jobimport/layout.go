package jobimport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Columns maps each logical job field to a 0-based column index in the
// source sheet.
type Columns struct {
	Code        int `toml:"code"`
	Description int `toml:"description"`
	ClientName  int `toml:"client_name"`
	ClientID    int `toml:"client_id"`
}

// Layout describes how rows of an export file are framed and read.
type Layout struct {
	Columns Columns `toml:"columns"`

	// HeaderRows leading rows are dropped before logical row 1.
	HeaderRows int `toml:"header_rows"`

	// BatchSize bounds how many rows are held in memory at once.
	BatchSize int `toml:"batch_size"`
}

// DefaultLayout matches the job export files: two header rows, code in
// column B, description in C, client name in H, client id in I.
func DefaultLayout() Layout {
	return Layout{
		Columns: Columns{
			Code:        1,
			Description: 2,
			ClientName:  7,
			ClientID:    8,
		},
		HeaderRows: 2,
		BatchSize:  100,
	}
}

// LoadLayout reads a TOML layout file. Keys absent from the file keep their
// DefaultLayout values; unknown keys are rejected.
//
//	header_rows = 2
//	batch_size  = 100
//
//	[columns]
//	code        = 1
//	description = 2
//	client_name = 7
//	client_id   = 8
func LoadLayout(path string) (Layout, error) {
	layout := DefaultLayout()

	md, err := toml.DecodeFile(path, &layout)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Layout{}, fmt.Errorf("read layout %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	if err := layout.Validate(); err != nil {
		return Layout{}, fmt.Errorf("read layout %s: %w", path, err)
	}
	return layout, nil
}

// Validate checks the layout once before any row is read.
func (l Layout) Validate() error {
	var errs []error

	fields := []struct {
		name  string
		index int
	}{
		{"code", l.Columns.Code},
		{"description", l.Columns.Description},
		{"client_name", l.Columns.ClientName},
		{"client_id", l.Columns.ClientID},
	}

	seen := make(map[int]string, len(fields))
	for _, f := range fields {
		if f.index < 0 {
			errs = append(errs, fmt.Errorf("column %s: index %d is negative", f.name, f.index))
			continue
		}
		if other, ok := seen[f.index]; ok {
			errs = append(errs, fmt.Errorf("column %s: index %d already used by %s", f.name, f.index, other))
			continue
		}
		seen[f.index] = f.name
	}

	if l.HeaderRows < 0 {
		errs = append(errs, fmt.Errorf("header_rows must be non-negative, got %d", l.HeaderRows))
	}
	if l.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch_size must be positive, got %d", l.BatchSize))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid layout: %w", errors.Join(errs...))
	}
	return nil
}

