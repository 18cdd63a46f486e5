package core

// convert.go moves values between API inputs and pgtype columns.
//
// All ToPg* helpers return Valid=false for empty input so optional columns
// are stored as NULL.

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/ropeworks/internal/worktime"
)

// DateLayout is the only accepted report date format.
const DateLayout = "2006-01-02"

// microsPerMinute converts between pgtype.Time and whole minutes.
const microsPerMinute = int64(time.Minute / time.Microsecond)

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// PgTextToString returns "" for NULL.
func PgTextToString(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return t, nil
}

// ToPgDate wraps a calendar date. The zero time maps to NULL.
func ToPgDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: t, Valid: true}
}

// PgDateToString formats a date column as YYYY-MM-DD.
func PgDateToString(d pgtype.Date) string {
	if !d.Valid {
		return ""
	}
	return d.Time.Format(DateLayout)
}

// ToPgInt8 converts an optional id. nil and zero map to NULL.
func ToPgInt8(id *int64) pgtype.Int8 {
	if id == nil || *id == 0 {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: *id, Valid: true}
}

// PgInt8ToPtr is the inverse of ToPgInt8.
func PgInt8ToPtr(n pgtype.Int8) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// ClockToPgTime stores a wall-clock time in a TIME column.
func ClockToPgTime(c worktime.Clock) pgtype.Time {
	return pgtype.Time{Microseconds: int64(c.Minutes()) * microsPerMinute, Valid: true}
}

// PgTimeToClock reads a TIME column, dropping seconds.
func PgTimeToClock(t pgtype.Time) worktime.Clock {
	return worktime.ClockFromMinutes(int(t.Microseconds / microsPerMinute))
}

// DecimalToPgNumeric converts an exact decimal for a NUMERIC column.
func DecimalToPgNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

// NullDecimalToPgNumeric maps an unset decimal to NULL.
func NullDecimalToPgNumeric(d decimal.NullDecimal) pgtype.Numeric {
	if !d.Valid {
		return pgtype.Numeric{Valid: false}
	}
	return DecimalToPgNumeric(d.Decimal)
}

// PgNumericToDecimal reads a NUMERIC column. NULL, NaN and infinities come
// back unset.
func PgNumericToDecimal(n pgtype.Numeric) decimal.NullDecimal {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimal.NewFromBigInt(n.Int, n.Exp), Valid: true}
}

// ToPgUUID converts a string to pgtype.UUID.
// Returns invalid if the string is empty or not a valid UUID.
func ToPgUUID(s string) pgtype.UUID {
	if s == "" {
		return pgtype.UUID{Valid: false}
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

// PgUUIDToString converts a pgtype.UUID to its string representation.
// Returns empty string if the UUID is invalid.
func PgUUIDToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}
