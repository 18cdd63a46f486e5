package core

// error_messages.go maps technical errors to messages safe to show users.
//
// Codes are grouped by category:
//
//	DB001-DB099    database constraints and connectivity
//	NF001          missing records
//	VAL001-VAL099  input validation
//	FILE001-FILE099  uploaded import files
//	IMP001-IMP099  import runs
//	RPT001-RPT099  daily reports
//	REQ001-REQ099  request lifecycle
//	RATE001        throttling
//	ERR000         fallback; check the logs for the technical error
//
// Patterns are matched case-insensitively with strings.Contains and the first
// match wins, so specific patterns come before general ones.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// Reports
	// =========================================================================
	{
		pattern: "daily_reports_employee_id_report_date_key",
		msg: UserMessage{
			Message: "A report for this employee and date already exists",
			Action:  "Edit the existing report instead of creating a new one",
			Code:    "RPT001",
		},
	},
	{
		pattern: "report has no entries",
		msg: UserMessage{
			Message: "A report needs at least one work entry",
			Action:  "Add a work entry before saving",
			Code:    "RPT002",
		},
	},

	// =========================================================================
	// Database constraints
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this value already exists",
			Action:  "Use a different code or edit the existing record",
			Code:    "DB001",
		},
	},
	{
		pattern: "already exists",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Use a different value or edit the existing record",
			Code:    "DB002",
		},
	},
	{
		pattern: "referenced record does not exist",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Check the selected employee, job, vehicle or work type",
			Code:    "DB003",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Check the selected employee, job, vehicle or work type",
			Code:    "DB003",
		},
	},

	// =========================================================================
	// Database connectivity
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try again later or import a smaller file",
			Code:    "DB006",
		},
	},

	// =========================================================================
	// Lookups
	// =========================================================================
	{
		pattern: "record not found",
		msg: UserMessage{
			Message: "The requested record was not found",
			Action:  "It may have been deleted. Refresh and try again",
			Code:    "NF001",
		},
	},

	// =========================================================================
	// Validation
	// =========================================================================
	{
		pattern: "invalid time",
		msg: UserMessage{
			Message: "Invalid time format",
			Action:  "Use HH:MM on a 24-hour clock, e.g. 07:30",
			Code:    "VAL002",
		},
	},
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Invalid date format",
			Action:  "Use YYYY-MM-DD",
			Code:    "VAL003",
		},
	},
	{
		pattern: "invalid layout",
		msg: UserMessage{
			Message: "The import column layout is invalid",
			Action:  "Check the layout file: columns must be distinct and non-negative",
			Code:    "VAL004",
		},
	},
	{
		pattern: "invalid irata level",
		msg: UserMessage{
			Message: "Unknown IRATA level",
			Action:  "Use Level_1, Level_2, Level_3 or None",
			Code:    "VAL005",
		},
	},
	{
		pattern: "validation failed",
		msg: UserMessage{
			Message: "Some fields are missing or invalid",
			Action:  "Correct the listed fields and try again",
			Code:    "VAL001",
		},
	},

	// =========================================================================
	// Files
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the export into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "This file type cannot be imported",
			Action:  "Upload an .xlsx, .xls or .csv file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Upload an export that contains job rows",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to import",
			Code:    "FILE004",
		},
	},
	{
		pattern: "open xls",
		msg: UserMessage{
			Message: "The workbook could not be read",
			Action:  "Open the file in Excel, save it again and retry",
			Code:    "FILE005",
		},
	},
	{
		pattern: "read csv",
		msg: UserMessage{
			Message: "The CSV file could not be read",
			Action:  "Save the file as comma-separated UTF-8 and retry",
			Code:    "FILE006",
		},
	},

	// =========================================================================
	// Imports
	// =========================================================================
	{
		pattern: "import already in progress",
		msg: UserMessage{
			Message: "Another import is running",
			Action:  "Wait for it to finish and try again",
			Code:    "IMP001",
		},
	},
	{
		pattern: "import cancelled",
		msg: UserMessage{
			Message: "The import was cancelled before it finished",
			Action:  "No rows were saved. Start the import again",
			Code:    "IMP002",
		},
	},

	// =========================================================================
	// Requests
	// =========================================================================
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request could not be understood",
			Action:  "Check the URL and the JSON body and try again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try again or import a smaller file",
			Code:    "REQ002",
		},
	},

	// =========================================================================
	// Rate limiting
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first matching pattern, or ERR000 when nothing matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error (for logs) with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
