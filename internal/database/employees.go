package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const employeeColumns = `id, employee_code, employee_name, job_title, phone_number, is_active, owns_equipment, irata_level, created_at, updated_at`

const createEmployee = `
INSERT INTO employees (employee_code, employee_name, job_title, phone_number, is_active, owns_equipment, irata_level)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + employeeColumns

type CreateEmployeeParams struct {
	EmployeeCode  string
	EmployeeName  string
	JobTitle      string
	PhoneNumber   string
	IsActive      bool
	OwnsEquipment bool
	IrataLevel    string
}

func (q *Queries) CreateEmployee(ctx context.Context, arg CreateEmployeeParams) (Employee, error) {
	row := q.db.QueryRow(ctx, createEmployee,
		arg.EmployeeCode,
		arg.EmployeeName,
		arg.JobTitle,
		arg.PhoneNumber,
		arg.IsActive,
		arg.OwnsEquipment,
		arg.IrataLevel,
	)
	return scanEmployee(row)
}

const updateEmployee = `
UPDATE employees
SET employee_code = $2, employee_name = $3, job_title = $4, phone_number = $5,
    is_active = $6, owns_equipment = $7, irata_level = $8, updated_at = now()
WHERE id = $1
RETURNING ` + employeeColumns

type UpdateEmployeeParams struct {
	ID            int64
	EmployeeCode  string
	EmployeeName  string
	JobTitle      string
	PhoneNumber   string
	IsActive      bool
	OwnsEquipment bool
	IrataLevel    string
}

func (q *Queries) UpdateEmployee(ctx context.Context, arg UpdateEmployeeParams) (Employee, error) {
	row := q.db.QueryRow(ctx, updateEmployee,
		arg.ID,
		arg.EmployeeCode,
		arg.EmployeeName,
		arg.JobTitle,
		arg.PhoneNumber,
		arg.IsActive,
		arg.OwnsEquipment,
		arg.IrataLevel,
	)
	return scanEmployee(row)
}

const getEmployee = `
SELECT ` + employeeColumns + `
FROM employees
WHERE id = $1
`

func (q *Queries) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	return scanEmployee(q.db.QueryRow(ctx, getEmployee, id))
}

const listEmployees = `
SELECT ` + employeeColumns + `
FROM employees
WHERE ($1::text = '' OR employee_name ILIKE '%' || $1 || '%' OR employee_code ILIKE '%' || $1 || '%')
  AND ($2::text = '' OR is_active = ($2::text = 'active'))
ORDER BY employee_name
LIMIT $3 OFFSET $4
`

type ListEmployeesParams struct {
	Search string
	Status string
	Limit  int32
	Offset int32
}

func (q *Queries) ListEmployees(ctx context.Context, arg ListEmployeesParams) ([]Employee, error) {
	rows, err := q.db.Query(ctx, listEmployees, arg.Search, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Employee
	for rows.Next() {
		i, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countEmployees = `
SELECT count(*)
FROM employees
WHERE ($1::text = '' OR employee_name ILIKE '%' || $1 || '%' OR employee_code ILIKE '%' || $1 || '%')
  AND ($2::text = '' OR is_active = ($2::text = 'active'))
`

func (q *Queries) CountEmployees(ctx context.Context, search, status string) (int64, error) {
	row := q.db.QueryRow(ctx, countEmployees, search, status)
	var count int64
	err := row.Scan(&count)
	return count, err
}

func scanEmployee(row scanner) (Employee, error) {
	var i Employee
	err := row.Scan(
		&i.ID,
		&i.EmployeeCode,
		&i.EmployeeName,
		&i.JobTitle,
		&i.PhoneNumber,
		&i.IsActive,
		&i.OwnsEquipment,
		&i.IrataLevel,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// =============================================================================
// Employee work type selections
// =============================================================================

const listEmployeeWorkTypes = `
SELECT id, employee_id, work_category_id, work_type_id, created_at, updated_at
FROM employee_work_types
WHERE employee_id = $1
ORDER BY work_category_id
`

func (q *Queries) ListEmployeeWorkTypes(ctx context.Context, employeeID int64) ([]EmployeeWorkType, error) {
	rows, err := q.db.Query(ctx, listEmployeeWorkTypes, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []EmployeeWorkType
	for rows.Next() {
		var i EmployeeWorkType
		if err := rows.Scan(
			&i.ID,
			&i.EmployeeID,
			&i.WorkCategoryID,
			&i.WorkTypeID,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertEmployeeWorkType = `
INSERT INTO employee_work_types (employee_id, work_category_id, work_type_id)
VALUES ($1, $2, $3)
ON CONFLICT (employee_id, work_category_id) DO UPDATE SET
    work_type_id = EXCLUDED.work_type_id,
    updated_at   = now()
`

type UpsertEmployeeWorkTypeParams struct {
	EmployeeID     int64
	WorkCategoryID int64
	WorkTypeID     pgtype.Int8
}

func (q *Queries) UpsertEmployeeWorkType(ctx context.Context, arg UpsertEmployeeWorkTypeParams) error {
	_, err := q.db.Exec(ctx, upsertEmployeeWorkType, arg.EmployeeID, arg.WorkCategoryID, arg.WorkTypeID)
	return err
}
