package jobimport

import "strings"

// Defaults substituted for blank client fields.
const (
	DefaultClientName = "Unknown Client"
	DefaultClientID   = "N/A"
)

// Skip reasons.
const (
	ReasonMissingCode        = "missing code"
	ReasonMissingDescription = "missing description"
)

// Row is one decoded sheet row, indexed by column.
type Row []string

// Cell returns the trimmed value at index i, or "" when the row is shorter.
// Spreadsheet readers drop trailing empty cells, so short rows are normal.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

// Job is the record the reconciler upserts, keyed by Code.
type Job struct {
	Code        string
	Description string
	ClientName  string
	ClientID    string
	IsActive    bool
}

// Decision is the outcome of Classify for a single row.
type Decision struct {
	Job Job

	// SkipReason is set when the row fails the required-field gate.
	SkipReason string

	// Defaulted lists the client fields that received a default value.
	Defaulted []string
}

// Skip reports whether the row must not reach the store.
func (d Decision) Skip() bool {
	return d.SkipReason != ""
}

// Classify decides what to do with one row without touching storage.
//
// Code and description are required; client name and id fall back to
// DefaultClientName and DefaultClientID. A cell is blank when it is empty
// after trimming whitespace or holds a bare "0", which is how the export
// tool writes an unset numeric cell.
func Classify(row Row, cols Columns) Decision {
	code := row.Cell(cols.Code)
	description := row.Cell(cols.Description)

	switch {
	case blank(code):
		return Decision{SkipReason: ReasonMissingCode}
	case blank(description):
		return Decision{SkipReason: ReasonMissingDescription}
	}

	d := Decision{
		Job: Job{
			Code:        code,
			Description: description,
			ClientName:  row.Cell(cols.ClientName),
			ClientID:    row.Cell(cols.ClientID),
			IsActive:    true,
		},
	}

	if blank(d.Job.ClientName) {
		d.Job.ClientName = DefaultClientName
		d.Defaulted = append(d.Defaulted, "client_name")
	}
	if blank(d.Job.ClientID) {
		d.Job.ClientID = DefaultClientID
		d.Defaulted = append(d.Defaulted, "client_id")
	}

	return d
}

func blank(v string) bool {
	return v == "" || v == "0"
}
