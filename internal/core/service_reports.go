package core

// service_reports.go manages daily reports and their work entries.
//
// A report's total_minutes is derived data. Every mutation that touches a
// report or its entries runs in one transaction, takes the report row lock
// with SELECT ... FOR UPDATE, and recomputes the total from the entries that
// are stored once the change is applied. Concurrent edits of the same report
// therefore serialize and the stored total always matches the entries.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/ropeworks/internal/database"
	"github.com/JonMunkholm/ropeworks/internal/worktime"
)

func toWorkEntry(reportDate time.Time, e database.DailyReportWorkEntry) WorkEntry {
	start, end := PgTimeToClock(e.StartTime), PgTimeToClock(e.EndTime)
	return WorkEntry{
		ID:          e.ID,
		WorkTypeID:  e.WorkTypeID,
		StartTime:   start.String(),
		EndTime:     end.String(),
		Description: PgTextToString(e.Description),
		Minutes:     worktime.EntryMinutes(reportDate, worktime.Entry{Start: start, End: end}),
	}
}

func toDailyReport(r database.DailyReport, entries []database.DailyReportWorkEntry) DailyReport {
	out := DailyReport{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		ReportDate:     PgDateToString(r.ReportDate),
		WorkJobID:      r.WorkJobID,
		VehicleID:      PgInt8ToPtr(r.VehicleID),
		Notes:          PgTextToString(r.Notes),
		TotalMinutes:   int(r.TotalMinutes),
		TotalFormatted: worktime.FormatMinutes(int(r.TotalMinutes)),
		CreatedAt:      r.CreatedAt.Time,
		UpdatedAt:      r.UpdatedAt.Time,
	}
	if entries != nil {
		out.Entries = make([]WorkEntry, len(entries))
		for i, e := range entries {
			out.Entries[i] = toWorkEntry(r.ReportDate.Time, e)
		}
	}
	return out
}

func reportName(id int64) string {
	return fmt.Sprintf("daily report %d", id)
}

// =============================================================================
// Queries
// =============================================================================

// ListDailyReports returns one page of reports, newest date first.
func (s *Service) ListDailyReports(ctx context.Context, f DailyReportFilter) (Page[DailyReport], error) {
	var v ValidationErrors
	var from, to time.Time
	var err error
	if strings.TrimSpace(f.From) != "" {
		if from, err = ParseDate(f.From); err != nil {
			v.add("from", "%s", err.Error())
		}
	}
	if strings.TrimSpace(f.To) != "" {
		if to, err = ParseDate(f.To); err != nil {
			v.add("to", "%s", err.Error())
		}
	}
	if err := v.err(); err != nil {
		return Page[DailyReport]{}, err
	}

	req := s.page(f.PageRequest)
	limit, offset := req.limitOffset()

	rows, err := s.queries.ListDailyReports(ctx, database.ListDailyReportsParams{
		EmployeeID: f.EmployeeID,
		WorkJobID:  f.WorkJobID,
		From:       ToPgDate(from),
		To:         ToPgDate(to),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return Page[DailyReport]{}, fmt.Errorf("list daily reports: %w", err)
	}
	total, err := s.queries.CountDailyReports(ctx, database.CountDailyReportsParams{
		EmployeeID: f.EmployeeID,
		WorkJobID:  f.WorkJobID,
		From:       ToPgDate(from),
		To:         ToPgDate(to),
	})
	if err != nil {
		return Page[DailyReport]{}, fmt.Errorf("count daily reports: %w", err)
	}

	items := make([]DailyReport, len(rows))
	for i, r := range rows {
		items[i] = toDailyReport(r.DailyReport, nil)
		items[i].EmployeeName = r.EmployeeName
		items[i].JobCode = r.JobCode
		items[i].LicensePlate = PgTextToString(r.LicensePlate)
	}
	return newPage(items, total, req), nil
}

// GetDailyReport returns a report with its entries.
func (s *Service) GetDailyReport(ctx context.Context, id int64) (DailyReport, error) {
	r, err := s.queries.GetDailyReport(ctx, id)
	if err != nil {
		return DailyReport{}, dbError(err, reportName(id))
	}
	entries, err := s.queries.ListWorkEntries(ctx, id)
	if err != nil {
		return DailyReport{}, fmt.Errorf("list work entries: %w", err)
	}
	if entries == nil {
		entries = []database.DailyReportWorkEntry{}
	}
	return toDailyReport(r, entries), nil
}

// =============================================================================
// Report mutations
// =============================================================================

// reportQueries is the part of database.Queries that report mutations use.
type reportQueries interface {
	CreateDailyReport(ctx context.Context, arg database.CreateDailyReportParams) (database.DailyReport, error)
	UpdateDailyReport(ctx context.Context, arg database.UpdateDailyReportParams) (database.DailyReport, error)
	GetDailyReportForUpdate(ctx context.Context, id int64) (database.DailyReport, error)
	SetDailyReportTotal(ctx context.Context, id int64, totalMinutes int32) error
	ListWorkEntries(ctx context.Context, dailyReportID int64) ([]database.DailyReportWorkEntry, error)
	CreateWorkEntry(ctx context.Context, arg database.CreateWorkEntryParams) (database.DailyReportWorkEntry, error)
	UpdateWorkEntry(ctx context.Context, arg database.UpdateWorkEntryParams) (database.DailyReportWorkEntry, error)
	DeleteWorkEntry(ctx context.Context, id, dailyReportID int64) (int64, error)
}

var _ reportQueries = (*database.Queries)(nil)

// CreateDailyReport stores a report with its entries and computed total.
// Entry ids in the input are ignored.
func (s *Service) CreateDailyReport(ctx context.Context, in ReportInput) (DailyReport, error) {
	parsed, err := in.parse()
	if err != nil {
		return DailyReport{}, err
	}

	var out DailyReport
	err = s.inTx(ctx, func(_ pgx.Tx, q *database.Queries) error {
		out, err = createReport(ctx, q, in, parsed)
		return err
	})
	return out, err
}

// UpdateDailyReport replaces the report fields and syncs its entries:
// entries with a known id are updated, entries without one are created and
// stored entries missing from the input are deleted.
func (s *Service) UpdateDailyReport(ctx context.Context, id int64, in ReportInput) (DailyReport, error) {
	parsed, err := in.parse()
	if err != nil {
		return DailyReport{}, err
	}

	var out DailyReport
	err = s.inTx(ctx, func(_ pgx.Tx, q *database.Queries) error {
		out, err = updateReport(ctx, q, id, in, parsed)
		return err
	})
	return out, err
}

// DeleteDailyReport removes a report and, by cascade, its entries.
func (s *Service) DeleteDailyReport(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteDailyReport(ctx, id)
	if err != nil {
		return dbError(err, reportName(id))
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", reportName(id), ErrNotFound)
	}
	return nil
}

func createReport(ctx context.Context, q reportQueries, in ReportInput, parsed parsedReport) (DailyReport, error) {
	r, err := q.CreateDailyReport(ctx, database.CreateDailyReportParams{
		EmployeeID: in.EmployeeID,
		ReportDate: ToPgDate(parsed.date),
		WorkJobID:  in.WorkJobID,
		VehicleID:  ToPgInt8(in.VehicleID),
		Notes:      ToPgText(in.Notes),
	})
	if err != nil {
		return DailyReport{}, dbError(err, "daily report")
	}

	for _, e := range parsed.entries {
		if err := createEntry(ctx, q, r.ID, e); err != nil {
			return DailyReport{}, err
		}
	}
	return recomputeTotal(ctx, q, r)
}

func updateReport(ctx context.Context, q reportQueries, id int64, in ReportInput, parsed parsedReport) (DailyReport, error) {
	if _, err := q.GetDailyReportForUpdate(ctx, id); err != nil {
		return DailyReport{}, dbError(err, reportName(id))
	}

	r, err := q.UpdateDailyReport(ctx, database.UpdateDailyReportParams{
		ID:         id,
		EmployeeID: in.EmployeeID,
		ReportDate: ToPgDate(parsed.date),
		WorkJobID:  in.WorkJobID,
		VehicleID:  ToPgInt8(in.VehicleID),
		Notes:      ToPgText(in.Notes),
	})
	if err != nil {
		return DailyReport{}, dbError(err, reportName(id))
	}

	stored, err := q.ListWorkEntries(ctx, id)
	if err != nil {
		return DailyReport{}, fmt.Errorf("list work entries: %w", err)
	}
	existing := make([]int64, len(stored))
	for i, e := range stored {
		existing[i] = e.ID
	}

	plan := planEntrySync(existing, parsed.entries)
	for _, entryID := range plan.remove {
		if _, err := q.DeleteWorkEntry(ctx, entryID, id); err != nil {
			return DailyReport{}, dbError(err, fmt.Sprintf("work entry %d", entryID))
		}
	}
	for _, e := range plan.update {
		if err := updateEntry(ctx, q, id, e); err != nil {
			return DailyReport{}, err
		}
	}
	for _, e := range plan.create {
		if err := createEntry(ctx, q, id, e); err != nil {
			return DailyReport{}, err
		}
	}

	return recomputeTotal(ctx, q, r)
}

// =============================================================================
// Entry mutations
// =============================================================================

// AddWorkEntry appends an entry to a report.
func (s *Service) AddWorkEntry(ctx context.Context, reportID int64, in EntryInput) (DailyReport, error) {
	e, errs := in.parse("")
	if err := errs.err(); err != nil {
		return DailyReport{}, err
	}
	e.id = 0

	return s.mutateEntries(ctx, reportID, func(q reportQueries) error {
		return createEntry(ctx, q, reportID, e)
	})
}

// UpdateWorkEntry replaces one entry of a report.
func (s *Service) UpdateWorkEntry(ctx context.Context, reportID, entryID int64, in EntryInput) (DailyReport, error) {
	e, errs := in.parse("")
	if err := errs.err(); err != nil {
		return DailyReport{}, err
	}
	e.id = entryID

	return s.mutateEntries(ctx, reportID, func(q reportQueries) error {
		return updateEntry(ctx, q, reportID, e)
	})
}

// RemoveWorkEntry deletes one entry. The last entry of a report cannot be
// removed; delete the report instead.
func (s *Service) RemoveWorkEntry(ctx context.Context, reportID, entryID int64) (DailyReport, error) {
	return s.mutateEntries(ctx, reportID, func(q reportQueries) error {
		return removeEntry(ctx, q, reportID, entryID)
	})
}

// mutateEntries runs withLockedReport inside a transaction.
func (s *Service) mutateEntries(ctx context.Context, reportID int64, fn func(q reportQueries) error) (DailyReport, error) {
	var out DailyReport
	err := s.inTx(ctx, func(_ pgx.Tx, q *database.Queries) error {
		var err error
		out, err = withLockedReport(ctx, q, reportID, fn)
		return err
	})
	return out, err
}

// withLockedReport locks the report, applies fn and recomputes the total.
func withLockedReport(ctx context.Context, q reportQueries, reportID int64, fn func(q reportQueries) error) (DailyReport, error) {
	r, err := q.GetDailyReportForUpdate(ctx, reportID)
	if err != nil {
		return DailyReport{}, dbError(err, reportName(reportID))
	}
	if err := fn(q); err != nil {
		return DailyReport{}, err
	}
	return recomputeTotal(ctx, q, r)
}

func removeEntry(ctx context.Context, q reportQueries, reportID, entryID int64) error {
	entries, err := q.ListWorkEntries(ctx, reportID)
	if err != nil {
		return fmt.Errorf("list work entries: %w", err)
	}
	found := false
	for _, e := range entries {
		found = found || e.ID == entryID
	}
	if !found {
		return fmt.Errorf("work entry %d: %w", entryID, ErrNotFound)
	}
	if len(entries) == 1 {
		return ValidationError{Field: "work_entries", Message: "report has no entries"}
	}

	_, err = q.DeleteWorkEntry(ctx, entryID, reportID)
	return dbError(err, fmt.Sprintf("work entry %d", entryID))
}

func createEntry(ctx context.Context, q reportQueries, reportID int64, e parsedEntry) error {
	_, err := q.CreateWorkEntry(ctx, database.CreateWorkEntryParams{
		DailyReportID: reportID,
		WorkTypeID:    e.workTypeID,
		StartTime:     ClockToPgTime(e.start),
		EndTime:       ClockToPgTime(e.end),
		Description:   ToPgText(e.description),
	})
	return dbError(err, "work entry")
}

func updateEntry(ctx context.Context, q reportQueries, reportID int64, e parsedEntry) error {
	_, err := q.UpdateWorkEntry(ctx, database.UpdateWorkEntryParams{
		ID:            e.id,
		DailyReportID: reportID,
		WorkTypeID:    e.workTypeID,
		StartTime:     ClockToPgTime(e.start),
		EndTime:       ClockToPgTime(e.end),
		Description:   ToPgText(e.description),
	})
	return dbError(err, fmt.Sprintf("work entry %d", e.id))
}

// recomputeTotal derives total_minutes from the stored entries and returns
// the report as it will be committed.
func recomputeTotal(ctx context.Context, q reportQueries, r database.DailyReport) (DailyReport, error) {
	entries, err := q.ListWorkEntries(ctx, r.ID)
	if err != nil {
		return DailyReport{}, fmt.Errorf("list work entries: %w", err)
	}

	total := worktime.TotalMinutes(r.ReportDate.Time, entryIntervals(entries))
	if err := q.SetDailyReportTotal(ctx, r.ID, int32(total)); err != nil {
		return DailyReport{}, fmt.Errorf("set report total: %w", err)
	}

	r.TotalMinutes = int32(total)
	if entries == nil {
		entries = []database.DailyReportWorkEntry{}
	}
	return toDailyReport(r, entries), nil
}

func entryIntervals(entries []database.DailyReportWorkEntry) []worktime.Entry {
	out := make([]worktime.Entry, len(entries))
	for i, e := range entries {
		out[i] = worktime.Entry{Start: PgTimeToClock(e.StartTime), End: PgTimeToClock(e.EndTime)}
	}
	return out
}

// =============================================================================
// Entry sync
// =============================================================================

type entrySync struct {
	create []parsedEntry
	update []parsedEntry
	remove []int64
}

// planEntrySync decides how to turn the stored entries into incoming.
// An incoming id that is not stored on this report is treated as new.
func planEntrySync(existing []int64, incoming []parsedEntry) entrySync {
	stored := make(map[int64]bool, len(existing))
	for _, id := range existing {
		stored[id] = true
	}

	var plan entrySync
	kept := make(map[int64]bool, len(incoming))
	for _, e := range incoming {
		if e.id != 0 && stored[e.id] {
			plan.update = append(plan.update, e)
			kept[e.id] = true
			continue
		}
		e.id = 0
		plan.create = append(plan.create, e)
	}
	for _, id := range existing {
		if !kept[id] {
			plan.remove = append(plan.remove, id)
		}
	}
	return plan
}
