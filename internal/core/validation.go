package core

// validation.go checks API inputs before they reach the database.
//
// Every Validate collects all problems into ValidationErrors so a client can
// show them together. Report inputs are also parsed here: clock strings
// become worktime.Clock values and the date becomes a UTC calendar day.

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/ropeworks/internal/worktime"
)

// maxTextLen bounds short text columns.
const maxTextLen = 255

func requireText(v *ValidationErrors, field, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		v.add(field, "is required")
		return
	}
	if utf8.RuneCountInString(value) > maxTextLen {
		v.add(field, "must be at most %d characters", maxTextLen)
	}
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// =============================================================================
// Work jobs
// =============================================================================

// WorkJobInput creates or replaces a work job by hand.
type WorkJobInput struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	ClientName  string `json:"client_name"`
	ClientID    string `json:"client_id"`
	IsActive    *bool  `json:"is_active"`
}

// Validate requires all four text fields.
func (in WorkJobInput) Validate() error {
	var v ValidationErrors
	requireText(&v, "code", in.Code)
	if strings.TrimSpace(in.Description) == "" {
		v.add("description", "is required")
	}
	requireText(&v, "client_name", in.ClientName)
	requireText(&v, "client_id", in.ClientID)
	return v.err()
}

// =============================================================================
// Daily reports
// =============================================================================

// EntryInput is one work entry in a report request. ID is set when an
// existing entry is being kept or edited.
type EntryInput struct {
	ID          *int64 `json:"id"`
	WorkTypeID  int64  `json:"work_type_id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Description string `json:"description"`
}

// ReportInput creates or replaces a daily report with its entries.
type ReportInput struct {
	EmployeeID int64        `json:"employee_id"`
	ReportDate string       `json:"report_date"`
	WorkJobID  int64        `json:"work_job_id"`
	VehicleID  *int64       `json:"vehicle_id"`
	Notes      string       `json:"notes"`
	Entries    []EntryInput `json:"work_entries"`
}

// parsedEntry is an EntryInput after validation. id 0 means new.
type parsedEntry struct {
	id          int64
	workTypeID  int64
	start, end  worktime.Clock
	description string
}

func (e parsedEntry) interval() worktime.Entry {
	return worktime.Entry{Start: e.start, End: e.end}
}

type parsedReport struct {
	date    time.Time
	entries []parsedEntry
}

// Validate checks the report and every entry.
func (in ReportInput) Validate() error {
	_, err := in.parse()
	return err
}

func (in ReportInput) parse() (parsedReport, error) {
	var v ValidationErrors
	var out parsedReport

	if in.EmployeeID <= 0 {
		v.add("employee_id", "is required")
	}
	if strings.TrimSpace(in.ReportDate) == "" {
		v.add("report_date", "is required")
	} else if d, err := ParseDate(in.ReportDate); err != nil {
		v.add("report_date", "%s", err.Error())
	} else {
		out.date = d
	}
	if in.WorkJobID <= 0 {
		v.add("work_job_id", "is required")
	}
	if in.VehicleID != nil && *in.VehicleID < 0 {
		v.add("vehicle_id", "must be a vehicle id")
	}
	if len(in.Entries) == 0 {
		v.add("work_entries", "report has no entries")
	}

	seen := make(map[int64]bool)
	for i, e := range in.Entries {
		prefix := "work_entries[" + strconv.Itoa(i) + "]"
		pe, errs := e.parse(prefix)
		v = append(v, errs...)
		if pe.id != 0 {
			if seen[pe.id] {
				v.add(prefix+".id", "entry %d listed twice", pe.id)
			}
			seen[pe.id] = true
		}
		out.entries = append(out.entries, pe)
	}

	if err := v.err(); err != nil {
		return parsedReport{}, err
	}
	return out, nil
}

// Validate checks a single entry, as sent to the entry endpoints.
func (in EntryInput) Validate() error {
	_, errs := in.parse("")
	return errs.err()
}

func (in EntryInput) parse(prefix string) (parsedEntry, ValidationErrors) {
	var v ValidationErrors
	field := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + "." + name
	}

	out := parsedEntry{workTypeID: in.WorkTypeID, description: strings.TrimSpace(in.Description)}
	if in.ID != nil {
		if *in.ID <= 0 {
			v.add(field("id"), "must be an entry id")
		}
		out.id = *in.ID
	}
	if in.WorkTypeID <= 0 {
		v.add(field("work_type_id"), "is required")
	}

	var startOK, endOK bool
	var err error
	if out.start, err = worktime.ParseClock(in.StartTime); err != nil {
		v.add(field("start_time"), "%s", err.Error())
	} else {
		startOK = true
	}
	if out.end, err = worktime.ParseClock(in.EndTime); err != nil {
		v.add(field("end_time"), "%s", err.Error())
	} else {
		endOK = true
	}
	if startOK && endOK && out.start == out.end {
		v.add(field("end_time"), "must differ from start_time")
	}
	return out, v
}

// =============================================================================
// Staff
// =============================================================================

// EmployeeInput creates or replaces an employee.
type EmployeeInput struct {
	EmployeeCode  string     `json:"employee_code"`
	EmployeeName  string     `json:"employee_name"`
	JobTitle      string     `json:"job_title"`
	PhoneNumber   string     `json:"phone_number"`
	IsActive      *bool      `json:"is_active"`
	OwnsEquipment bool       `json:"owns_equipment"`
	IrataLevel    IrataLevel `json:"irata_level"`
}

// Validate requires every text field and a known IRATA level.
func (in EmployeeInput) Validate() error {
	var v ValidationErrors
	requireText(&v, "employee_code", in.EmployeeCode)
	requireText(&v, "employee_name", in.EmployeeName)
	requireText(&v, "job_title", in.JobTitle)
	requireText(&v, "phone_number", in.PhoneNumber)
	if !in.IrataLevel.Valid() {
		v.add("irata_level", "invalid irata level %q", in.IrataLevel)
	}
	return v.err()
}

// VehicleInput creates or replaces a vehicle.
type VehicleInput struct {
	LicensePlate string `json:"license_plate"`
	IsActive     *bool  `json:"is_active"`
}

// Validate requires the plate.
func (in VehicleInput) Validate() error {
	var v ValidationErrors
	requireText(&v, "license_plate", in.LicensePlate)
	return v.err()
}

// =============================================================================
// Catalog
// =============================================================================

// WorkCategoryInput creates or renames a category.
type WorkCategoryInput struct {
	Name string `json:"name"`
}

// Validate requires the name.
func (in WorkCategoryInput) Validate() error {
	var v ValidationErrors
	requireText(&v, "name", in.Name)
	return v.err()
}

// WorkTypeInput creates or replaces a work type.
type WorkTypeInput struct {
	WorkCategoryID    int64               `json:"work_category_id"`
	Name              string              `json:"name"`
	PriceStandard     decimal.NullDecimal `json:"price_standard"`
	PriceGamesa       decimal.NullDecimal `json:"price_gamesa"`
	PriceGamesaAbroad decimal.NullDecimal `json:"price_gamesa_abroad"`
	MaxHours          *int                `json:"max_hours"`
}

// Validate requires category, name, standard price and max hours. Prices and
// hours must not be negative.
func (in WorkTypeInput) Validate() error {
	var v ValidationErrors
	if in.WorkCategoryID <= 0 {
		v.add("work_category_id", "is required")
	}
	requireText(&v, "name", in.Name)

	if !in.PriceStandard.Valid {
		v.add("price_standard", "is required")
	}
	for _, p := range []struct {
		field string
		value decimal.NullDecimal
	}{
		{"price_standard", in.PriceStandard},
		{"price_gamesa", in.PriceGamesa},
		{"price_gamesa_abroad", in.PriceGamesaAbroad},
	} {
		if p.value.Valid && p.value.Decimal.IsNegative() {
			v.add(p.field, "must not be negative")
		}
	}

	switch {
	case in.MaxHours == nil:
		v.add("max_hours", "is required")
	case *in.MaxHours < 0:
		v.add("max_hours", "must not be negative")
	}
	return v.err()
}
