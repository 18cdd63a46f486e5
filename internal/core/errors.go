package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a unique value is already taken.
	ErrConflict = errors.New("already exists")

	// ErrInvalidReference is returned when a referenced record does not exist.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// Postgres SQLSTATE codes we translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationErrors collects every problem found in one input.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add records a problem with field.
func (v *ValidationErrors) add(field, format string, args ...any) {
	*v = append(*v, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// err returns nil when nothing was recorded.
func (v ValidationErrors) err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// Fields returns the individual problems carried by err, if any.
func Fields(err error) []ValidationError {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	var single ValidationError
	if errors.As(err, &single) {
		return []ValidationError{single}
	}
	return nil
}

// IsValidation reports whether err carries input validation problems.
func IsValidation(err error) bool {
	var ve ValidationErrors
	var single ValidationError
	return errors.As(err, &ve) || errors.As(err, &single)
}

// dbError translates driver errors into the package's sentinel errors.
// what names the record, e.g. "work job 12".
func dbError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s %w (%s): %w", what, ErrConflict, pgErr.ConstraintName, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w (%s): %w", what, ErrInvalidReference, pgErr.ConstraintName, err)
		}
	}

	return fmt.Errorf("%s: %w", what, err)
}
