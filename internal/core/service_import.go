package core

// service_import.go runs spreadsheet imports of the work job catalog.
//
// A run holds the import limiter slot, decodes the file through the sheet
// registry and feeds the rows to jobimport.Importer inside one transaction.
// Row-level failures are rolled back to a per-row savepoint; a fatal error
// (unreadable file, cancellation, timeout) rolls back the whole run. Every
// run, successful or not, is recorded in import_runs.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/ropeworks/internal/database"
	"github.com/JonMunkholm/ropeworks/internal/jobimport"
	"github.com/JonMunkholm/ropeworks/internal/logging"
	"github.com/JonMunkholm/ropeworks/internal/sheet"
)

// ErrNoFile is returned when the request carries no file.
var ErrNoFile = errors.New("no file provided")

// ErrFileTooLarge is returned by transports when an upload exceeds the limit.
var ErrFileTooLarge = errors.New("file too large")

// Import run statuses stored in import_runs.status.
const (
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// ImportWorkJobs imports the job catalog from a spreadsheet. fileName
// selects the decoder by extension.
func (s *Service) ImportWorkJobs(ctx context.Context, fileName string, r io.Reader) (*ImportResult, error) {
	if fileName == "" || r == nil {
		return nil, ErrNoFile
	}
	if _, err := sheet.Lookup(fileName); err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	runID := uuid.New()
	started := time.Now()
	logger := logging.WithFields(ctx,
		"import_id", runID.String(),
		"file", fileName,
		"client_ip", GetIPAddressFromContext(ctx),
		"user_agent", GetUserAgentFromContext(ctx),
	)
	logger.Info("import started")

	runCtx, cancel := context.WithTimeout(ctx, s.opts.ImportTimeout)
	defer cancel()

	report, err := s.importInTx(runCtx, fileName, r, logger)

	duration := time.Since(started)
	if report == nil {
		report = &jobimport.Report{}
	}
	s.recordRun(ctx, runID, fileName, report.Stats, started, duration, err)

	if err != nil {
		logger.Error("import failed", "error", err, "rows", report.Stats.Total, "duration_ms", duration.Milliseconds())
		return nil, err
	}

	result := newImportResult(runID.String(), fileName, report, duration)
	logger.Info("import completed",
		"total", result.Stats.Total,
		"imported", result.Stats.Success,
		"skipped", result.Stats.Skipped,
		"errors", result.Stats.Errors,
		"duration_ms", result.DurationMs,
	)
	return result, nil
}

// importInTx decodes the file and runs the importer against a transaction.
// The returned report is partial when err is set.
func (s *Service) importInTx(ctx context.Context, fileName string, r io.Reader, logger *slog.Logger) (*jobimport.Report, error) {
	src, err := sheet.Open(fileName, r)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var report *jobimport.Report
	err = s.inTx(ctx, func(tx pgx.Tx, q *database.Queries) error {
		im := jobimport.NewImporter(newPgJobStore(tx, q), s.layout)
		im.Logger = logger
		im.OnProgress = func(st jobimport.Stats) {
			logger.Debug("import progress", "rows", st.Total, "imported", st.Success)
		}

		var runErr error
		report, runErr = im.Run(ctx, src)
		if runErr != nil {
			return runErr
		}
		// a timeout between the last row and commit still aborts the run
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("import cancelled before commit: %w", err)
		}
		return nil
	})
	return report, err
}

// recordRun stores the run summary. It outlives a cancelled request; a
// failure to record is logged and does not change the import outcome.
func (s *Service) recordRun(ctx context.Context, id uuid.UUID, fileName string, st jobimport.Stats, started time.Time, d time.Duration, runErr error) {
	status := RunCompleted
	var errMsg pgtype.Text
	if runErr != nil {
		status = RunFailed
		errMsg = ToPgText(runErr.Error())
	}

	ctx = context.WithoutCancel(ctx)
	err := s.queries.InsertImportRun(ctx, database.InsertImportRunParams{
		ID:           pgtype.UUID{Bytes: id, Valid: true},
		FileName:     fileName,
		TotalRows:    int32(st.Total),
		SuccessRows:  int32(st.Success),
		SkippedRows:  int32(st.Skipped),
		ErrorRows:    int32(st.Errors),
		Status:       status,
		ErrorMessage: errMsg,
		StartedAt:    pgtype.Timestamptz{Time: started, Valid: true},
		DurationMs:   int32(d.Milliseconds()),
	})
	if err != nil {
		logging.FromContext(ctx).Error("failed to record import run", "import_id", id.String(), "error", err)
	}
}

// newImportResult flattens a report for clients.
func newImportResult(id, fileName string, report *jobimport.Report, d time.Duration) *ImportResult {
	res := &ImportResult{
		ID:             id,
		FileName:       fileName,
		Stats:          report.Stats,
		Message:        report.Summary(),
		NeedsAttention: report.Stats.NeedsAttention(),
		Imported:       []string{},
		Skipped:        []RowIssue{},
		Failed:         []RowIssue{},
		DurationMs:     d.Milliseconds(),
	}

	for _, r := range report.Results {
		switch r.Outcome {
		case jobimport.Imported:
			res.Imported = append(res.Imported, r.Job.Code)
		case jobimport.Skipped:
			res.Skipped = append(res.Skipped, RowIssue{Line: r.SheetLine, Reason: r.Reason})
		case jobimport.Failed:
			res.Failed = append(res.Failed, RowIssue{Line: r.SheetLine, Reason: MapError(r.Err).Message})
		}
	}
	return res
}

// ImportStatus reports whether an import is running.
func (s *Service) ImportStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// ListImportRuns returns the most recent runs, newest first.
func (s *Service) ListImportRuns(ctx context.Context, limit int) ([]ImportRun, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = DefaultPageSize
	}
	rows, err := s.queries.ListImportRuns(ctx, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("list import runs: %w", err)
	}

	runs := make([]ImportRun, len(rows))
	for i, r := range rows {
		runs[i] = ImportRun{
			ID:       PgUUIDToString(r.ID),
			FileName: r.FileName,
			Stats: jobimport.Stats{
				Total:   int(r.TotalRows),
				Success: int(r.SuccessRows),
				Skipped: int(r.SkippedRows),
				Errors:  int(r.ErrorRows),
			},
			Status:     r.Status,
			Error:      PgTextToString(r.ErrorMessage),
			StartedAt:  r.StartedAt.Time,
			DurationMs: int(r.DurationMs),
		}
	}
	return runs, nil
}
