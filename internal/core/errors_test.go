package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestDBError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, ErrNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "vehicles_license_plate_key"}, ErrConflict},
		{"foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "daily_reports_work_job_id_fkey"}, ErrInvalidReference},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dbError(tt.err, "thing")
			if !errors.Is(got, tt.want) {
				t.Errorf("dbError() = %v, want wrapping %v", got, tt.want)
			}
			if !errors.Is(got, tt.err) && tt.want != ErrNotFound {
				t.Errorf("dbError() = %v, lost the driver error", got)
			}
		})
	}
}

func TestDBError_KeepsConstraintName(t *testing.T) {
	err := dbError(&pgconn.PgError{Code: "23505", ConstraintName: "daily_reports_employee_id_report_date_key"}, "daily report")

	if got := MapError(err).Code; got != "RPT001" {
		t.Errorf("MapError(dbError()) code = %q, want RPT001", got)
	}
}

func TestDBError_PassThrough(t *testing.T) {
	if dbError(nil, "x") != nil {
		t.Error("dbError(nil) should be nil")
	}

	base := errors.New("boom")
	got := dbError(base, "work job 1")
	if !errors.Is(got, base) {
		t.Errorf("dbError() = %v, want wrapping base", got)
	}
	if got.Error() != "work job 1: boom" {
		t.Errorf("dbError() = %q", got.Error())
	}
}

func TestValidationErrors(t *testing.T) {
	var v ValidationErrors
	if v.err() != nil {
		t.Fatal("empty ValidationErrors.err() should be nil")
	}

	v.add("code", "is required")
	v.add("entries[1].start_time", "invalid time %q", "7:3")

	err := v.err()
	want := `validation failed: code: is required; entries[1].start_time: invalid time "7:3"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !IsValidation(fmt.Errorf("create: %w", err)) {
		t.Error("IsValidation should see through wrapping")
	}
	if IsValidation(ErrNotFound) {
		t.Error("IsValidation(ErrNotFound) = true")
	}
}

func TestFields(t *testing.T) {
	multi := ValidationErrors{{Field: "code", Message: "is required"}, {Field: "name", Message: "is required"}}
	if got := Fields(fmt.Errorf("create: %w", multi)); len(got) != 2 || got[1].Field != "name" {
		t.Errorf("Fields(multi) = %v", got)
	}

	single := ValidationError{Field: "work_entries", Message: "report has no entries"}
	if got := Fields(single); len(got) != 1 || got[0] != single {
		t.Errorf("Fields(single) = %v", got)
	}

	if got := Fields(ErrNotFound); got != nil {
		t.Errorf("Fields(ErrNotFound) = %v, want nil", got)
	}
}
