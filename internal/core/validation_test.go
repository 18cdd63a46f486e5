package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/ropeworks/internal/worktime"
)

func int64p(v int64) *int64 { return &v }
func intp(v int) *int { return &v }

func validReport() ReportInput {
	return ReportInput{
		EmployeeID: 1,
		ReportDate: "2024-03-15",
		WorkJobID:  2,
		Entries: []EntryInput{
			{WorkTypeID: 3, StartTime: "08:00", EndTime: "12:00"},
			{WorkTypeID: 3, StartTime: "13:00", EndTime: "17:00"},
		},
	}
}

// fieldsOf returns the field names in a validation error.
func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var ve ValidationErrors
	if !errors.As(err, &ve) {
		t.Fatalf("error %v is not ValidationErrors", err)
	}
	out := make([]string, len(ve))
	for i, e := range ve {
		out[i] = e.Field
	}
	return out
}

// ----------------------------------------------------------------------------
// Reports
// ----------------------------------------------------------------------------

func TestReportInput_Valid(t *testing.T) {
	parsed, err := validReport().parse()
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}
	if got := parsed.date.Format(DateLayout); got != "2024-03-15" {
		t.Errorf("date = %s, want 2024-03-15", got)
	}
	if len(parsed.entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(parsed.entries))
	}

	intervals := []worktime.Entry{parsed.entries[0].interval(), parsed.entries[1].interval()}
	if got := worktime.TotalMinutes(parsed.date, intervals); got != 480 {
		t.Errorf("TotalMinutes = %d, want 480", got)
	}
}

func TestReportInput_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ReportInput)
		want   []string
	}{
		{"missing employee", func(in *ReportInput) { in.EmployeeID = 0 }, []string{"employee_id"}},
		{"missing date", func(in *ReportInput) { in.ReportDate = " " }, []string{"report_date"}},
		{"bad date", func(in *ReportInput) { in.ReportDate = "15/03/2024" }, []string{"report_date"}},
		{"missing job", func(in *ReportInput) { in.WorkJobID = 0 }, []string{"work_job_id"}},
		{"no entries", func(in *ReportInput) { in.Entries = nil }, []string{"work_entries"}},
		{"bad start time", func(in *ReportInput) { in.Entries[0].StartTime = "8:00" }, []string{"work_entries[0].start_time"}},
		{"bad end time", func(in *ReportInput) { in.Entries[1].EndTime = "24:00" }, []string{"work_entries[1].end_time"}},
		{"missing work type", func(in *ReportInput) { in.Entries[1].WorkTypeID = 0 }, []string{"work_entries[1].work_type_id"}},
		{"zero length entry", func(in *ReportInput) { in.Entries[0].EndTime = "08:00" }, []string{"work_entries[0].end_time"}},
		{
			"duplicate entry id",
			func(in *ReportInput) { in.Entries[0].ID = int64p(9); in.Entries[1].ID = int64p(9) },
			[]string{"work_entries[1].id"},
		},
		{
			"several problems at once",
			func(in *ReportInput) { in.EmployeeID = 0; in.Entries[0].StartTime = "" },
			[]string{"employee_id", "work_entries[0].start_time"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validReport()
			tt.mutate(&in)
			err := in.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			got := fieldsOf(t, err)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("fields = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReportInput_OvernightEntryAllowed(t *testing.T) {
	in := validReport()
	in.Entries = []EntryInput{{WorkTypeID: 1, StartTime: "22:00", EndTime: "02:00"}}

	parsed, err := in.parse()
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}
	if got := worktime.EntryMinutes(parsed.date, parsed.entries[0].interval()); got != 240 {
		t.Errorf("EntryMinutes = %d, want 240", got)
	}
}

func TestReportInput_SecondsAccepted(t *testing.T) {
	in := validReport()
	in.Entries = []EntryInput{{WorkTypeID: 1, StartTime: "08:00:00", EndTime: "09:30:59"}}

	parsed, err := in.parse()
	if err != nil {
		t.Fatalf("parse() error = %v", err)
	}
	if got := parsed.entries[0].end.String(); got != "09:30" {
		t.Errorf("end = %s, want 09:30", got)
	}
}

func TestEntryInput_Validate(t *testing.T) {
	if err := (EntryInput{WorkTypeID: 1, StartTime: "07:00", EndTime: "15:00"}).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	err := (EntryInput{StartTime: "x"}).Validate()
	got := fieldsOf(t, err)
	want := []string{"work_type_id", "start_time", "end_time"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("fields = %v, want %v", got, want)
	}
}

// ----------------------------------------------------------------------------
// Reference data
// ----------------------------------------------------------------------------

func TestWorkJobInput_Validate(t *testing.T) {
	ok := WorkJobInput{Code: "J1", Description: "Blade repair", ClientName: "Acme", ClientID: "A1"}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	got := fieldsOf(t, WorkJobInput{Code: strings.Repeat("x", 256)}.Validate())
	want := []string{"code", "description", "client_name", "client_id"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("fields = %v, want %v", got, want)
	}
}

func TestEmployeeInput_Validate(t *testing.T) {
	in := EmployeeInput{
		EmployeeCode: "E1", EmployeeName: "Ana", JobTitle: "Technician", PhoneNumber: "600",
		IrataLevel: IrataLevel2,
	}
	if err := in.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	in.IrataLevel = "Level_4"
	err := in.Validate()
	if got := MapError(err).Code; got != "VAL005" {
		t.Errorf("MapError code = %s, want VAL005 (err %v)", got, err)
	}
}

func TestVehicleAndCategoryInput_Validate(t *testing.T) {
	if err := (VehicleInput{LicensePlate: "1234-ABC"}).Validate(); err != nil {
		t.Errorf("VehicleInput.Validate() = %v", err)
	}
	if err := (VehicleInput{}).Validate(); err == nil {
		t.Error("VehicleInput{}.Validate() = nil, want error")
	}
	if err := (WorkCategoryInput{Name: "Blades"}).Validate(); err != nil {
		t.Errorf("WorkCategoryInput.Validate() = %v", err)
	}
	if err := (WorkCategoryInput{Name: "  "}).Validate(); err == nil {
		t.Error("blank category name accepted")
	}
}

func TestWorkTypeInput_Validate(t *testing.T) {
	price := decimal.NewNullDecimal(decimal.RequireFromString("45.50"))
	negative := decimal.NewNullDecimal(decimal.RequireFromString("-1"))

	tests := []struct {
		name string
		in   WorkTypeInput
		want []string
	}{
		{
			"valid without optional prices",
			WorkTypeInput{WorkCategoryID: 1, Name: "Inspection", PriceStandard: price, MaxHours: intp(8)},
			nil,
		},
		{
			"zero price and hours allowed",
			WorkTypeInput{WorkCategoryID: 1, Name: "Training", PriceStandard: decimal.NewNullDecimal(decimal.Zero), MaxHours: intp(0)},
			nil,
		},
		{
			"missing required",
			WorkTypeInput{},
			[]string{"work_category_id", "name", "price_standard", "max_hours"},
		},
		{
			"negative values",
			WorkTypeInput{WorkCategoryID: 1, Name: "X", PriceStandard: price, PriceGamesaAbroad: negative, MaxHours: intp(-1)},
			[]string{"price_gamesa_abroad", "max_hours"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			got := fieldsOf(t, err)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("fields = %v, want %v", got, tt.want)
			}
		})
	}
}
