package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/ropeworks/internal/database"
)

// =============================================================================
// Employees
// =============================================================================

func toEmployee(e database.Employee) Employee {
	level := IrataLevel(e.IrataLevel)
	return Employee{
		ID:            e.ID,
		EmployeeCode:  e.EmployeeCode,
		EmployeeName:  e.EmployeeName,
		JobTitle:      e.JobTitle,
		PhoneNumber:   e.PhoneNumber,
		IsActive:      e.IsActive,
		OwnsEquipment: e.OwnsEquipment,
		IrataLevel:    level,
		IrataLabel:    level.Label(),
		CreatedAt:     e.CreatedAt.Time,
		UpdatedAt:     e.UpdatedAt.Time,
	}
}

// ListEmployees returns one page of employees ordered by name.
func (s *Service) ListEmployees(ctx context.Context, f ListFilter) (Page[Employee], error) {
	req := s.page(f.PageRequest)
	limit, offset := req.limitOffset()
	search, status := strings.TrimSpace(f.Search), normalizeStatus(f.Status)

	rows, err := s.queries.ListEmployees(ctx, database.ListEmployeesParams{
		Search: search,
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return Page[Employee]{}, fmt.Errorf("list employees: %w", err)
	}
	total, err := s.queries.CountEmployees(ctx, search, status)
	if err != nil {
		return Page[Employee]{}, fmt.Errorf("count employees: %w", err)
	}

	items := make([]Employee, len(rows))
	for i, r := range rows {
		items[i] = toEmployee(r)
	}
	return newPage(items, total, req), nil
}

// GetEmployee returns an employee with their work type selections.
func (s *Service) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	e, err := s.queries.GetEmployee(ctx, id)
	if err != nil {
		return Employee{}, dbError(err, fmt.Sprintf("employee %d", id))
	}
	selections, err := s.queries.ListEmployeeWorkTypes(ctx, id)
	if err != nil {
		return Employee{}, fmt.Errorf("list employee work types: %w", err)
	}

	out := toEmployee(e)
	out.WorkTypes = make([]WorkTypeSelection, len(selections))
	for i, sel := range selections {
		out.WorkTypes[i] = WorkTypeSelection{
			WorkCategoryID: sel.WorkCategoryID,
			WorkTypeID:     PgInt8ToPtr(sel.WorkTypeID),
		}
	}
	return out, nil
}

// CreateEmployee adds an employee. Codes are unique.
func (s *Service) CreateEmployee(ctx context.Context, in EmployeeInput) (Employee, error) {
	if err := in.Validate(); err != nil {
		return Employee{}, err
	}
	e, err := s.queries.CreateEmployee(ctx, database.CreateEmployeeParams{
		EmployeeCode:  strings.TrimSpace(in.EmployeeCode),
		EmployeeName:  strings.TrimSpace(in.EmployeeName),
		JobTitle:      strings.TrimSpace(in.JobTitle),
		PhoneNumber:   strings.TrimSpace(in.PhoneNumber),
		IsActive:      boolOr(in.IsActive, true),
		OwnsEquipment: in.OwnsEquipment,
		IrataLevel:    string(in.IrataLevel),
	})
	if err != nil {
		return Employee{}, dbError(err, "employee")
	}
	return toEmployee(e), nil
}

// UpdateEmployee replaces an employee's fields.
func (s *Service) UpdateEmployee(ctx context.Context, id int64, in EmployeeInput) (Employee, error) {
	if err := in.Validate(); err != nil {
		return Employee{}, err
	}
	what := fmt.Sprintf("employee %d", id)

	var out Employee
	err := s.inTx(ctx, func(_ pgx.Tx, q *database.Queries) error {
		current, err := q.GetEmployee(ctx, id)
		if err != nil {
			return dbError(err, what)
		}
		e, err := q.UpdateEmployee(ctx, database.UpdateEmployeeParams{
			ID:            id,
			EmployeeCode:  strings.TrimSpace(in.EmployeeCode),
			EmployeeName:  strings.TrimSpace(in.EmployeeName),
			JobTitle:      strings.TrimSpace(in.JobTitle),
			PhoneNumber:   strings.TrimSpace(in.PhoneNumber),
			IsActive:      boolOr(in.IsActive, current.IsActive),
			OwnsEquipment: in.OwnsEquipment,
			IrataLevel:    string(in.IrataLevel),
		})
		if err != nil {
			return dbError(err, what)
		}
		out = toEmployee(e)
		return nil
	})
	return out, err
}

// SetEmployeeWorkTypes records, per category, the work type an employee
// usually does. Categories not listed keep their current choice.
func (s *Service) SetEmployeeWorkTypes(ctx context.Context, id int64, selections []WorkTypeSelection) (Employee, error) {
	var v ValidationErrors
	seen := make(map[int64]bool, len(selections))
	for i, sel := range selections {
		field := fmt.Sprintf("selections[%d]", i)
		if sel.WorkCategoryID <= 0 {
			v.add(field+".work_category_id", "is required")
		} else if seen[sel.WorkCategoryID] {
			v.add(field+".work_category_id", "category %d listed twice", sel.WorkCategoryID)
		}
		seen[sel.WorkCategoryID] = true
	}
	if err := v.err(); err != nil {
		return Employee{}, err
	}

	err := s.inTx(ctx, func(_ pgx.Tx, q *database.Queries) error {
		if _, err := q.GetEmployee(ctx, id); err != nil {
			return dbError(err, fmt.Sprintf("employee %d", id))
		}
		for _, sel := range selections {
			if sel.WorkTypeID != nil {
				wt, err := q.GetWorkType(ctx, *sel.WorkTypeID)
				if err != nil {
					return dbError(err, fmt.Sprintf("work type %d", *sel.WorkTypeID))
				}
				if wt.WorkCategoryID != sel.WorkCategoryID {
					return ValidationError{
						Field:   "work_type_id",
						Message: fmt.Sprintf("work type %d is not in category %d", wt.ID, sel.WorkCategoryID),
					}
				}
			}
			err := q.UpsertEmployeeWorkType(ctx, database.UpsertEmployeeWorkTypeParams{
				EmployeeID:     id,
				WorkCategoryID: sel.WorkCategoryID,
				WorkTypeID:     ToPgInt8(sel.WorkTypeID),
			})
			if err != nil {
				return dbError(err, "employee work type")
			}
		}
		return nil
	})
	if err != nil {
		return Employee{}, err
	}
	return s.GetEmployee(ctx, id)
}

// =============================================================================
// Vehicles
// =============================================================================

func toVehicle(v database.Vehicle) Vehicle {
	return Vehicle{
		ID:           v.ID,
		LicensePlate: v.LicensePlate,
		IsActive:     v.IsActive,
		CreatedAt:    v.CreatedAt.Time,
		UpdatedAt:    v.UpdatedAt.Time,
	}
}

// ListVehicles returns one page of vehicles ordered by plate.
func (s *Service) ListVehicles(ctx context.Context, f ListFilter) (Page[Vehicle], error) {
	req := s.page(f.PageRequest)
	limit, offset := req.limitOffset()
	search, status := strings.TrimSpace(f.Search), normalizeStatus(f.Status)

	rows, err := s.queries.ListVehicles(ctx, database.ListVehiclesParams{
		Search: search,
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return Page[Vehicle]{}, fmt.Errorf("list vehicles: %w", err)
	}
	total, err := s.queries.CountVehicles(ctx, search, status)
	if err != nil {
		return Page[Vehicle]{}, fmt.Errorf("count vehicles: %w", err)
	}

	items := make([]Vehicle, len(rows))
	for i, r := range rows {
		items[i] = toVehicle(r)
	}
	return newPage(items, total, req), nil
}

// GetVehicle returns one vehicle.
func (s *Service) GetVehicle(ctx context.Context, id int64) (Vehicle, error) {
	v, err := s.queries.GetVehicle(ctx, id)
	if err != nil {
		return Vehicle{}, dbError(err, fmt.Sprintf("vehicle %d", id))
	}
	return toVehicle(v), nil
}

// CreateVehicle adds a vehicle. Plates are unique.
func (s *Service) CreateVehicle(ctx context.Context, in VehicleInput) (Vehicle, error) {
	if err := in.Validate(); err != nil {
		return Vehicle{}, err
	}
	v, err := s.queries.CreateVehicle(ctx, strings.TrimSpace(in.LicensePlate), boolOr(in.IsActive, true))
	if err != nil {
		return Vehicle{}, dbError(err, "vehicle")
	}
	return toVehicle(v), nil
}

// UpdateVehicle replaces a vehicle's fields.
func (s *Service) UpdateVehicle(ctx context.Context, id int64, in VehicleInput) (Vehicle, error) {
	if err := in.Validate(); err != nil {
		return Vehicle{}, err
	}
	what := fmt.Sprintf("vehicle %d", id)

	var out Vehicle
	err := s.inTx(ctx, func(_ pgx.Tx, q *database.Queries) error {
		current, err := q.GetVehicle(ctx, id)
		if err != nil {
			return dbError(err, what)
		}
		v, err := q.UpdateVehicle(ctx, id, strings.TrimSpace(in.LicensePlate), boolOr(in.IsActive, current.IsActive))
		if err != nil {
			return dbError(err, what)
		}
		out = toVehicle(v)
		return nil
	})
	return out, err
}
