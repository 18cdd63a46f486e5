package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type DailyReport struct {
	ID           int64
	EmployeeID   int64
	ReportDate   pgtype.Date
	WorkJobID    int64
	VehicleID    pgtype.Int8
	Notes        pgtype.Text
	TotalMinutes int32
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type DailyReportWorkEntry struct {
	ID            int64
	DailyReportID int64
	WorkTypeID    int64
	StartTime     pgtype.Time
	EndTime       pgtype.Time
	Description   pgtype.Text
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type Employee struct {
	ID            int64
	EmployeeCode  string
	EmployeeName  string
	JobTitle      string
	PhoneNumber   string
	IsActive      bool
	OwnsEquipment bool
	IrataLevel    string
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type EmployeeWorkType struct {
	ID             int64
	EmployeeID     int64
	WorkCategoryID int64
	WorkTypeID     pgtype.Int8
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type ImportRun struct {
	ID           pgtype.UUID
	FileName     string
	TotalRows    int32
	SuccessRows  int32
	SkippedRows  int32
	ErrorRows    int32
	Status       string
	ErrorMessage pgtype.Text
	StartedAt    pgtype.Timestamptz
	DurationMs   int32
}

type Vehicle struct {
	ID           int64
	LicensePlate string
	IsActive     bool
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
}

type WorkCategory struct {
	ID        int64
	Name      string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type WorkJob struct {
	ID          int64
	Code        string
	Description string
	ClientName  string
	ClientID    string
	IsActive    bool
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type WorkType struct {
	ID                int64
	WorkCategoryID    int64
	Name              string
	PriceStandard     pgtype.Numeric
	PriceGamesa       pgtype.Numeric
	PriceGamesaAbroad pgtype.Numeric
	MaxHours          int32
	CreatedAt         pgtype.Timestamptz
	UpdatedAt         pgtype.Timestamptz
}
