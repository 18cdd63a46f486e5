package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createDailyReport = `
INSERT INTO daily_reports (employee_id, report_date, work_job_id, vehicle_id, notes, total_minutes)
VALUES ($1, $2, $3, $4, $5, 0)
RETURNING id, employee_id, report_date, work_job_id, vehicle_id, notes, total_minutes, created_at, updated_at
`

type CreateDailyReportParams struct {
	EmployeeID int64
	ReportDate pgtype.Date
	WorkJobID  int64
	VehicleID  pgtype.Int8
	Notes      pgtype.Text
}

func (q *Queries) CreateDailyReport(ctx context.Context, arg CreateDailyReportParams) (DailyReport, error) {
	row := q.db.QueryRow(ctx, createDailyReport,
		arg.EmployeeID,
		arg.ReportDate,
		arg.WorkJobID,
		arg.VehicleID,
		arg.Notes,
	)
	return scanDailyReport(row)
}

const updateDailyReport = `
UPDATE daily_reports
SET employee_id = $2, report_date = $3, work_job_id = $4, vehicle_id = $5, notes = $6, updated_at = now()
WHERE id = $1
RETURNING id, employee_id, report_date, work_job_id, vehicle_id, notes, total_minutes, created_at, updated_at
`

type UpdateDailyReportParams struct {
	ID         int64
	EmployeeID int64
	ReportDate pgtype.Date
	WorkJobID  int64
	VehicleID  pgtype.Int8
	Notes      pgtype.Text
}

func (q *Queries) UpdateDailyReport(ctx context.Context, arg UpdateDailyReportParams) (DailyReport, error) {
	row := q.db.QueryRow(ctx, updateDailyReport,
		arg.ID,
		arg.EmployeeID,
		arg.ReportDate,
		arg.WorkJobID,
		arg.VehicleID,
		arg.Notes,
	)
	return scanDailyReport(row)
}

const getDailyReport = `
SELECT id, employee_id, report_date, work_job_id, vehicle_id, notes, total_minutes, created_at, updated_at
FROM daily_reports
WHERE id = $1
`

func (q *Queries) GetDailyReport(ctx context.Context, id int64) (DailyReport, error) {
	return scanDailyReport(q.db.QueryRow(ctx, getDailyReport, id))
}

const getDailyReportForUpdate = `
SELECT id, employee_id, report_date, work_job_id, vehicle_id, notes, total_minutes, created_at, updated_at
FROM daily_reports
WHERE id = $1
FOR UPDATE
`

// GetDailyReportForUpdate locks the report row until the surrounding
// transaction ends. Entry-set mutations of one report are serialized on it.
func (q *Queries) GetDailyReportForUpdate(ctx context.Context, id int64) (DailyReport, error) {
	return scanDailyReport(q.db.QueryRow(ctx, getDailyReportForUpdate, id))
}

const setDailyReportTotal = `
UPDATE daily_reports
SET total_minutes = $2, updated_at = now()
WHERE id = $1
`

func (q *Queries) SetDailyReportTotal(ctx context.Context, id int64, totalMinutes int32) error {
	_, err := q.db.Exec(ctx, setDailyReportTotal, id, totalMinutes)
	return err
}

const deleteDailyReport = `
DELETE FROM daily_reports
WHERE id = $1
`

func (q *Queries) DeleteDailyReport(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteDailyReport, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listDailyReports = `
SELECT r.id, r.employee_id, r.report_date, r.work_job_id, r.vehicle_id, r.notes, r.total_minutes,
       r.created_at, r.updated_at,
       e.employee_name, j.code AS job_code, v.license_plate
FROM daily_reports r
JOIN employees e ON e.id = r.employee_id
JOIN work_jobs j ON j.id = r.work_job_id
LEFT JOIN vehicles v ON v.id = r.vehicle_id
WHERE ($1::bigint = 0 OR r.employee_id = $1)
  AND ($2::bigint = 0 OR r.work_job_id = $2)
  AND ($3::date IS NULL OR r.report_date >= $3)
  AND ($4::date IS NULL OR r.report_date <= $4)
ORDER BY r.report_date DESC, r.id DESC
LIMIT $5 OFFSET $6
`

type ListDailyReportsParams struct {
	EmployeeID int64
	WorkJobID  int64
	From       pgtype.Date
	To         pgtype.Date
	Limit      int32
	Offset     int32
}

type ListDailyReportsRow struct {
	DailyReport
	EmployeeName string
	JobCode      string
	LicensePlate pgtype.Text
}

func (q *Queries) ListDailyReports(ctx context.Context, arg ListDailyReportsParams) ([]ListDailyReportsRow, error) {
	rows, err := q.db.Query(ctx, listDailyReports,
		arg.EmployeeID,
		arg.WorkJobID,
		arg.From,
		arg.To,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListDailyReportsRow
	for rows.Next() {
		var i ListDailyReportsRow
		if err := rows.Scan(
			&i.ID,
			&i.EmployeeID,
			&i.ReportDate,
			&i.WorkJobID,
			&i.VehicleID,
			&i.Notes,
			&i.TotalMinutes,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.EmployeeName,
			&i.JobCode,
			&i.LicensePlate,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countDailyReports = `
SELECT count(*)
FROM daily_reports r
WHERE ($1::bigint = 0 OR r.employee_id = $1)
  AND ($2::bigint = 0 OR r.work_job_id = $2)
  AND ($3::date IS NULL OR r.report_date >= $3)
  AND ($4::date IS NULL OR r.report_date <= $4)
`

type CountDailyReportsParams struct {
	EmployeeID int64
	WorkJobID  int64
	From       pgtype.Date
	To         pgtype.Date
}

func (q *Queries) CountDailyReports(ctx context.Context, arg CountDailyReportsParams) (int64, error) {
	row := q.db.QueryRow(ctx, countDailyReports, arg.EmployeeID, arg.WorkJobID, arg.From, arg.To)
	var count int64
	err := row.Scan(&count)
	return count, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDailyReport(row scanner) (DailyReport, error) {
	var i DailyReport
	err := row.Scan(
		&i.ID,
		&i.EmployeeID,
		&i.ReportDate,
		&i.WorkJobID,
		&i.VehicleID,
		&i.Notes,
		&i.TotalMinutes,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// =============================================================================
// Work entries
// =============================================================================

const createWorkEntry = `
INSERT INTO daily_report_work_entries (daily_report_id, work_type_id, start_time, end_time, description)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, daily_report_id, work_type_id, start_time, end_time, description, created_at, updated_at
`

type CreateWorkEntryParams struct {
	DailyReportID int64
	WorkTypeID    int64
	StartTime     pgtype.Time
	EndTime       pgtype.Time
	Description   pgtype.Text
}

func (q *Queries) CreateWorkEntry(ctx context.Context, arg CreateWorkEntryParams) (DailyReportWorkEntry, error) {
	row := q.db.QueryRow(ctx, createWorkEntry,
		arg.DailyReportID,
		arg.WorkTypeID,
		arg.StartTime,
		arg.EndTime,
		arg.Description,
	)
	return scanWorkEntry(row)
}

const updateWorkEntry = `
UPDATE daily_report_work_entries
SET work_type_id = $3, start_time = $4, end_time = $5, description = $6, updated_at = now()
WHERE id = $1 AND daily_report_id = $2
RETURNING id, daily_report_id, work_type_id, start_time, end_time, description, created_at, updated_at
`

type UpdateWorkEntryParams struct {
	ID            int64
	DailyReportID int64
	WorkTypeID    int64
	StartTime     pgtype.Time
	EndTime       pgtype.Time
	Description   pgtype.Text
}

func (q *Queries) UpdateWorkEntry(ctx context.Context, arg UpdateWorkEntryParams) (DailyReportWorkEntry, error) {
	row := q.db.QueryRow(ctx, updateWorkEntry,
		arg.ID,
		arg.DailyReportID,
		arg.WorkTypeID,
		arg.StartTime,
		arg.EndTime,
		arg.Description,
	)
	return scanWorkEntry(row)
}

const deleteWorkEntry = `
DELETE FROM daily_report_work_entries
WHERE id = $1 AND daily_report_id = $2
`

func (q *Queries) DeleteWorkEntry(ctx context.Context, id, dailyReportID int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteWorkEntry, id, dailyReportID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listWorkEntries = `
SELECT id, daily_report_id, work_type_id, start_time, end_time, description, created_at, updated_at
FROM daily_report_work_entries
WHERE daily_report_id = $1
ORDER BY start_time, id
`

func (q *Queries) ListWorkEntries(ctx context.Context, dailyReportID int64) ([]DailyReportWorkEntry, error) {
	rows, err := q.db.Query(ctx, listWorkEntries, dailyReportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DailyReportWorkEntry
	for rows.Next() {
		i, err := scanWorkEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanWorkEntry(row scanner) (DailyReportWorkEntry, error) {
	var i DailyReportWorkEntry
	err := row.Scan(
		&i.ID,
		&i.DailyReportID,
		&i.WorkTypeID,
		&i.StartTime,
		&i.EndTime,
		&i.Description,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
