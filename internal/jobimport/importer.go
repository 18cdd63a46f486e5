package jobimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ErrStoreAborted marks a store failure after which no further row can be
// written, e.g. a broken transaction. Run stops and returns it.
var ErrStoreAborted = errors.New("store aborted")

// Store persists jobs keyed by Code. UpsertJob creates the job or updates
// description, client name, client id and the active flag of the existing
// one, returning the stored record.
type Store interface {
	UpsertJob(ctx context.Context, job Job) (Job, error)
}

// RowSource yields decoded rows in sheet order and io.EOF after the last one.
// Any other error aborts the run.
type RowSource interface {
	Next() (Row, error)
}

// SliceSource serves rows that are already in memory.
type SliceSource struct {
	rows []Row
	pos  int
}

// NewSliceSource wraps rows as a RowSource.
func NewSliceSource(rows []Row) *SliceSource {
	return &SliceSource{rows: rows}
}

// Next implements RowSource.
func (s *SliceSource) Next() (Row, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

// Outcome tags what happened to a row.
type Outcome int

const (
	Imported Outcome = iota + 1
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Imported:
		return "imported"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the per-row outcome of a run.
type Result struct {
	// Line is the 1-based logical row number, counted after header rows.
	Line int

	// SheetLine is the 1-based row number in the source sheet.
	SheetLine int

	Outcome Outcome

	// Job is the stored record; nil unless Outcome is Imported.
	Job *Job

	// Reason explains a skip.
	Reason string

	// Err is the store failure for a Failed row.
	Err error
}

// Stats are the row counters of one run.
type Stats struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Skipped int `json:"skipped"`
	Errors  int `json:"errors"`
}

// Add folds one row result into the counters.
func (s *Stats) Add(r Result) {
	s.Total++
	switch r.Outcome {
	case Imported:
		s.Success++
	case Skipped:
		s.Skipped++
	case Failed:
		s.Errors++
	}
}

// Consistent reports whether every counted row has exactly one outcome.
func (s Stats) Consistent() bool {
	return s.Total == s.Success+s.Skipped+s.Errors
}

// NeedsAttention reports whether some rows were skipped or failed.
func (s Stats) NeedsAttention() bool {
	return s.Skipped > 0 || s.Errors > 0
}

// Report is everything a run produced.
type Report struct {
	Results []Result
	Stats   Stats
}

// Jobs returns the stored records of imported rows in row order.
func (r *Report) Jobs() []Job {
	jobs := make([]Job, 0, r.Stats.Success)
	for _, res := range r.Results {
		if res.Job != nil {
			jobs = append(jobs, *res.Job)
		}
	}
	return jobs
}

// Summary is the one-line message shown to whoever started the import.
func (r *Report) Summary() string {
	msg := fmt.Sprintf("Import completed: %d jobs imported successfully", r.Stats.Success)
	if r.Stats.Skipped > 0 {
		msg += fmt.Sprintf(", %d rows skipped", r.Stats.Skipped)
	}
	if r.Stats.Errors > 0 {
		msg += fmt.Sprintf(", %d errors encountered", r.Stats.Errors)
	}
	return msg
}

// Importer reconciles decoded rows into a Store.
//
// An Importer is not safe for concurrent runs against the same store; the
// caller serializes imports.
type Importer struct {
	store  Store
	layout Layout

	// Logger receives per-row records. Defaults to slog.Default().
	Logger *slog.Logger

	// OnProgress, when set, is called with the running counters after
	// every batch.
	OnProgress func(Stats)
}

// NewImporter returns an Importer that writes to store using layout.
func NewImporter(store Store, layout Layout) *Importer {
	return &Importer{store: store, layout: layout}
}

// Layout returns the layout the importer reads with.
func (im *Importer) Layout() Layout {
	return im.layout
}

// Run imports every row of src.
//
// Skips and store failures are row-scoped and never stop the run, unless
// the store reports ErrStoreAborted. That, a source error or context
// cancellation is returned together with the partial report gathered so far.
func (im *Importer) Run(ctx context.Context, src RowSource) (*Report, error) {
	if err := im.layout.Validate(); err != nil {
		return nil, err
	}

	logger := im.Logger
	if logger == nil {
		logger = slog.Default()
	}

	report := &Report{}

	for i := 0; i < im.layout.HeaderRows; i++ {
		if _, err := src.Next(); err != nil {
			if errors.Is(err, io.EOF) {
				return report, nil
			}
			return report, fmt.Errorf("read header row %d: %w", i+1, err)
		}
	}

	line := 0
	batch := make([]Row, 0, im.layout.BatchSize)

	for {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("import cancelled after %d rows: %w", line, err)
		}

		batch = batch[:0]
		var srcErr error
		for len(batch) < im.layout.BatchSize {
			row, err := src.Next()
			if err != nil {
				srcErr = err
				break
			}
			batch = append(batch, row)
		}

		if srcErr != nil && !errors.Is(srcErr, io.EOF) {
			return report, fmt.Errorf("read row %d: %w", line+len(batch)+1+im.layout.HeaderRows, srcErr)
		}

		for _, row := range batch {
			line++
			res := im.importRow(ctx, logger, line, row)
			report.Results = append(report.Results, res)
			report.Stats.Add(res)
			if res.Outcome == Failed && errors.Is(res.Err, ErrStoreAborted) {
				return report, fmt.Errorf("row %d: %w", res.SheetLine, res.Err)
			}
		}

		if len(batch) > 0 && im.OnProgress != nil {
			im.OnProgress(report.Stats)
		}

		if srcErr != nil {
			return report, nil
		}
	}
}

func (im *Importer) importRow(ctx context.Context, logger *slog.Logger, line int, row Row) Result {
	cols := im.layout.Columns
	res := Result{Line: line, SheetLine: line + im.layout.HeaderRows}

	logger.Debug("processing row",
		"line", res.SheetLine,
		"code", row.Cell(cols.Code),
		"description", row.Cell(cols.Description),
		"client_name", row.Cell(cols.ClientName),
		"client_id", row.Cell(cols.ClientID),
	)

	d := Classify(row, cols)
	if d.Skip() {
		res.Outcome = Skipped
		res.Reason = d.SkipReason
		logger.Warn("skipping row", "line", res.SheetLine, "reason", d.SkipReason)
		return res
	}

	if len(d.Defaulted) > 0 {
		logger.Info("using default client information",
			"line", res.SheetLine,
			"code", d.Job.Code,
			"fields", d.Defaulted,
		)
	}

	stored, err := im.store.UpsertJob(ctx, d.Job)
	if err != nil {
		res.Outcome = Failed
		res.Err = err
		logger.Error("failed to import row",
			"line", res.SheetLine,
			"code", d.Job.Code,
			"row", []string(row),
			"error", err,
		)
		return res
	}

	res.Outcome = Imported
	res.Job = &stored
	logger.Debug("imported job", "line", res.SheetLine, "code", stored.Code)
	return res
}
