package core

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/ropeworks/internal/jobimport"
)

// =============================================================================
// Paging
// =============================================================================

// DefaultPageSize and MaxPageSize bound list requests.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest selects one page of a list. Page is 1-based.
type PageRequest struct {
	Page    int
	PerPage int
}

// normalize fills defaults and clamps out-of-range values.
func (p PageRequest) normalize(defaultSize, maxSize int) PageRequest {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultSize
	}
	if p.PerPage > maxSize {
		p.PerPage = maxSize
	}
	return p
}

func (p PageRequest) limitOffset() (int32, int32) {
	return int32(p.PerPage), int32((p.Page - 1) * p.PerPage)
}

// Page is one page of results plus the numbers a pager needs.
type Page[T any] struct {
	Items    []T   `json:"data"`
	Total    int64 `json:"total"`
	Page     int   `json:"current_page"`
	PerPage  int   `json:"per_page"`
	LastPage int   `json:"last_page"`
}

func newPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	last := 1
	if total > 0 {
		last = int((total + int64(req.PerPage) - 1) / int64(req.PerPage))
	}
	return Page[T]{Items: items, Total: total, Page: req.Page, PerPage: req.PerPage, LastPage: last}
}

// =============================================================================
// Work jobs
// =============================================================================

// WorkJob is a billable job identified by its external code.
type WorkJob struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	ClientName  string    `json:"client_name"`
	ClientID    string    `json:"client_id"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WorkJobFilter narrows ListWorkJobs. Status is "", "active" or "inactive".
type WorkJobFilter struct {
	Search string
	Status string
	Client string
	PageRequest
}

// =============================================================================
// Daily reports
// =============================================================================

// DailyReport is one employee's work on one day.
type DailyReport struct {
	ID             int64       `json:"id"`
	EmployeeID     int64       `json:"employee_id"`
	EmployeeName   string      `json:"employee_name,omitempty"`
	ReportDate     string      `json:"report_date"`
	WorkJobID      int64       `json:"work_job_id"`
	JobCode        string      `json:"job_code,omitempty"`
	VehicleID      *int64      `json:"vehicle_id"`
	LicensePlate   string      `json:"license_plate,omitempty"`
	Notes          string      `json:"notes"`
	TotalMinutes   int         `json:"total_minutes"`
	TotalFormatted string      `json:"total_formatted"`
	Entries        []WorkEntry `json:"work_entries,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// WorkEntry is one timed block of work inside a report.
type WorkEntry struct {
	ID          int64  `json:"id"`
	WorkTypeID  int64  `json:"work_type_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description"`
	Minutes     int    `json:"minutes"`
}

// DailyReportFilter narrows ListDailyReports. Zero values match everything.
type DailyReportFilter struct {
	EmployeeID int64
	WorkJobID  int64
	From       string
	To         string
	PageRequest
}

// =============================================================================
// Staff and catalog
// =============================================================================

// IrataLevel is an employee's rope access certification.
type IrataLevel string

const (
	IrataLevel1    IrataLevel = "Level_1"
	IrataLevel2    IrataLevel = "Level_2"
	IrataLevel3    IrataLevel = "Level_3"
	IrataLevelNone IrataLevel = "None"
)

// IrataLevels lists every accepted level in display order.
func IrataLevels() []IrataLevel {
	return []IrataLevel{IrataLevel1, IrataLevel2, IrataLevel3, IrataLevelNone}
}

// Valid reports whether l is a known level.
func (l IrataLevel) Valid() bool {
	switch l {
	case IrataLevel1, IrataLevel2, IrataLevel3, IrataLevelNone:
		return true
	}
	return false
}

// Label is the human readable name.
func (l IrataLevel) Label() string {
	switch l {
	case IrataLevel1:
		return "Level 1"
	case IrataLevel2:
		return "Level 2"
	case IrataLevel3:
		return "Level 3"
	}
	return "None"
}

// Employee is a rope access technician or office worker.
type Employee struct {
	ID            int64               `json:"id"`
	EmployeeCode  string              `json:"employee_code"`
	EmployeeName  string              `json:"employee_name"`
	JobTitle      string              `json:"job_title"`
	PhoneNumber   string              `json:"phone_number"`
	IsActive      bool                `json:"is_active"`
	OwnsEquipment bool                `json:"owns_equipment"`
	IrataLevel    IrataLevel          `json:"irata_level"`
	IrataLabel    string              `json:"irata_level_label"`
	WorkTypes     []WorkTypeSelection `json:"work_types,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// WorkTypeSelection is the work type an employee usually does within a
// category. WorkTypeID nil clears the choice.
type WorkTypeSelection struct {
	WorkCategoryID int64  `json:"work_category_id"`
	WorkTypeID     *int64 `json:"work_type_id"`
}

// Vehicle is a company van.
type Vehicle struct {
	ID           int64     `json:"id"`
	LicensePlate string    `json:"license_plate"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WorkCategory groups work types.
type WorkCategory struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkType is a priced kind of work.
type WorkType struct {
	ID                int64               `json:"id"`
	WorkCategoryID    int64               `json:"work_category_id"`
	Name              string              `json:"name"`
	PriceStandard     decimal.Decimal     `json:"price_standard"`
	PriceGamesa       decimal.NullDecimal `json:"price_gamesa"`
	PriceGamesaAbroad decimal.NullDecimal `json:"price_gamesa_abroad"`
	MaxHours          int                 `json:"max_hours"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// ListFilter is the search + status filter shared by reference lists.
type ListFilter struct {
	Search string
	Status string
	PageRequest
}

// =============================================================================
// Imports
// =============================================================================

// RowIssue is a skipped or failed spreadsheet row. Line is the 1-based
// line in the sheet.
type RowIssue struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportResult summarizes one import run.
type ImportResult struct {
	ID             string          `json:"id"`
	FileName       string          `json:"file_name"`
	Stats          jobimport.Stats `json:"stats"`
	Message        string          `json:"message"`
	NeedsAttention bool            `json:"needs_attention"`
	Imported       []string        `json:"imported"`
	Skipped        []RowIssue      `json:"skipped"`
	Failed         []RowIssue      `json:"failed"`
	DurationMs     int64           `json:"duration_ms"`
}

// ImportRun is a stored import history record.
type ImportRun struct {
	ID         string          `json:"id"`
	FileName   string          `json:"file_name"`
	Stats      jobimport.Stats `json:"stats"`
	Status     string          `json:"status"`
	Error      string          `json:"error,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	DurationMs int             `json:"duration_ms"`
}
