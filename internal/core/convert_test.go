package core

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/ropeworks/internal/worktime"
)

// ----------------------------------------------------------------------------
// Text
// ----------------------------------------------------------------------------

func TestToPgText(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantValue string
	}{
		{"plain", "hello", true, "hello"},
		{"trimmed", "  spaced  ", true, "spaced"},
		{"empty", "", false, ""},
		{"whitespace only", " \t ", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToPgText(tt.input)
			if got.Valid != tt.wantValid {
				t.Errorf("ToPgText(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			}
			if got.String != tt.wantValue {
				t.Errorf("ToPgText(%q).String = %q, want %q", tt.input, got.String, tt.wantValue)
			}
			if back := PgTextToString(got); back != tt.wantValue {
				t.Errorf("PgTextToString() = %q, want %q", back, tt.wantValue)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Dates
// ----------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{" 2024-12-31 ", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"2024-02-30", time.Time{}, true},
		{"15/03/2024", time.Time{}, true},
		{"2024-3-5", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPgDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-07-01")
	if err != nil {
		t.Fatal(err)
	}
	if got := PgDateToString(ToPgDate(d)); got != "2024-07-01" {
		t.Errorf("PgDateToString() = %q, want 2024-07-01", got)
	}
	if ToPgDate(time.Time{}).Valid {
		t.Error("ToPgDate(zero).Valid = true, want false")
	}
	if got := PgDateToString(pgtype.Date{}); got != "" {
		t.Errorf("PgDateToString(NULL) = %q, want empty", got)
	}
}

// ----------------------------------------------------------------------------
// Ids and clocks
// ----------------------------------------------------------------------------

func TestToPgInt8(t *testing.T) {
	zero, seven := int64(0), int64(7)

	if ToPgInt8(nil).Valid {
		t.Error("ToPgInt8(nil).Valid = true")
	}
	if ToPgInt8(&zero).Valid {
		t.Error("ToPgInt8(0).Valid = true")
	}
	got := ToPgInt8(&seven)
	if !got.Valid || got.Int64 != 7 {
		t.Errorf("ToPgInt8(7) = %+v", got)
	}
	if p := PgInt8ToPtr(got); p == nil || *p != 7 {
		t.Errorf("PgInt8ToPtr() = %v, want 7", p)
	}
	if PgInt8ToPtr(pgtype.Int8{}) != nil {
		t.Error("PgInt8ToPtr(NULL) != nil")
	}
}

func TestClockPgTime(t *testing.T) {
	for _, s := range []string{"00:00", "07:30", "12:05", "23:59"} {
		c := worktime.MustParseClock(s)
		pt := ClockToPgTime(c)
		if !pt.Valid {
			t.Fatalf("ClockToPgTime(%s).Valid = false", s)
		}
		if got := PgTimeToClock(pt); got != c {
			t.Errorf("PgTimeToClock(ClockToPgTime(%s)) = %v", s, got)
		}
	}

	// seconds stored by other clients are dropped
	withSeconds := pgtype.Time{Microseconds: (8*60+15)*microsPerMinute + 42_000_000, Valid: true}
	if got := PgTimeToClock(withSeconds).String(); got != "08:15" {
		t.Errorf("PgTimeToClock() = %s, want 08:15", got)
	}
}

// ----------------------------------------------------------------------------
// Decimals
// ----------------------------------------------------------------------------

func TestDecimalPgNumeric(t *testing.T) {
	for _, s := range []string{"0", "45.50", "120", "-3.25", "0.01"} {
		d := decimal.RequireFromString(s)
		got := PgNumericToDecimal(DecimalToPgNumeric(d))
		if !got.Valid {
			t.Fatalf("round trip of %s lost validity", s)
		}
		if !got.Decimal.Equal(d) {
			t.Errorf("round trip of %s = %s", s, got.Decimal)
		}
	}
}

func TestNullDecimalPgNumeric(t *testing.T) {
	if NullDecimalToPgNumeric(decimal.NullDecimal{}).Valid {
		t.Error("unset decimal should map to NULL")
	}
	if PgNumericToDecimal(pgtype.Numeric{}).Valid {
		t.Error("NULL numeric should map to unset decimal")
	}
	if PgNumericToDecimal(pgtype.Numeric{NaN: true, Valid: true}).Valid {
		t.Error("NaN should map to unset decimal")
	}

	set := decimal.NewNullDecimal(decimal.RequireFromString("99.90"))
	if got := PgNumericToDecimal(NullDecimalToPgNumeric(set)); !got.Decimal.Equal(set.Decimal) {
		t.Errorf("round trip = %s, want 99.90", got.Decimal)
	}
}

// ----------------------------------------------------------------------------
// UUIDs
// ----------------------------------------------------------------------------

func TestPgUUID(t *testing.T) {
	const id = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

	if got := PgUUIDToString(ToPgUUID(id)); got != id {
		t.Errorf("PgUUIDToString(ToPgUUID()) = %q, want %q", got, id)
	}
	if ToPgUUID("not-a-uuid").Valid {
		t.Error("ToPgUUID(invalid).Valid = true")
	}
	if PgUUIDToString(pgtype.UUID{}) != "" {
		t.Error("PgUUIDToString(NULL) should be empty")
	}
}
