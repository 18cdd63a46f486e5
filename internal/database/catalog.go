package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// =============================================================================
// Vehicles
// =============================================================================

const createVehicle = `
INSERT INTO vehicles (license_plate, is_active)
VALUES ($1, $2)
RETURNING id, license_plate, is_active, created_at, updated_at
`

func (q *Queries) CreateVehicle(ctx context.Context, licensePlate string, isActive bool) (Vehicle, error) {
	return scanVehicle(q.db.QueryRow(ctx, createVehicle, licensePlate, isActive))
}

const updateVehicle = `
UPDATE vehicles
SET license_plate = $2, is_active = $3, updated_at = now()
WHERE id = $1
RETURNING id, license_plate, is_active, created_at, updated_at
`

func (q *Queries) UpdateVehicle(ctx context.Context, id int64, licensePlate string, isActive bool) (Vehicle, error) {
	return scanVehicle(q.db.QueryRow(ctx, updateVehicle, id, licensePlate, isActive))
}

const getVehicle = `
SELECT id, license_plate, is_active, created_at, updated_at
FROM vehicles
WHERE id = $1
`

func (q *Queries) GetVehicle(ctx context.Context, id int64) (Vehicle, error) {
	return scanVehicle(q.db.QueryRow(ctx, getVehicle, id))
}

const listVehicles = `
SELECT id, license_plate, is_active, created_at, updated_at
FROM vehicles
WHERE ($1::text = '' OR license_plate ILIKE '%' || $1 || '%')
  AND ($2::text = '' OR is_active = ($2::text = 'active'))
ORDER BY license_plate
LIMIT $3 OFFSET $4
`

type ListVehiclesParams struct {
	Search string
	Status string
	Limit  int32
	Offset int32
}

func (q *Queries) ListVehicles(ctx context.Context, arg ListVehiclesParams) ([]Vehicle, error) {
	rows, err := q.db.Query(ctx, listVehicles, arg.Search, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Vehicle
	for rows.Next() {
		i, err := scanVehicle(rows)
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

const countVehicles = `
SELECT count(*)
FROM vehicles
WHERE ($1::text = '' OR license_plate ILIKE '%' || $1 || '%')
  AND ($2::text = '' OR is_active = ($2::text = 'active'))
`

func (q *Queries) CountVehicles(ctx context.Context, search, status string) (int64, error) {
	row := q.db.QueryRow(ctx, countVehicles, search, status)
	var count int64
	err := row.Scan(&count)
	return count, err
}

func scanVehicle(row scanner) (Vehicle, error) {
	var i Vehicle
	err := row.Scan(
		&i.ID,
		&i.LicensePlate,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// =============================================================================
// Work categories
// =============================================================================

const createWorkCategory = `
INSERT INTO work_categories (name)
VALUES ($1)
RETURNING id, name, created_at, updated_at
`

func (q *Queries) CreateWorkCategory(ctx context.Context, name string) (WorkCategory, error) {
	return scanWorkCategory(q.db.QueryRow(ctx, createWorkCategory, name))
}

const updateWorkCategory = `
UPDATE work_categories
SET name = $2, updated_at = now()
WHERE id = $1
RETURNING id, name, created_at, updated_at
`

func (q *Queries) UpdateWorkCategory(ctx context.Context, id int64, name string) (WorkCategory, error) {
	return scanWorkCategory(q.db.QueryRow(ctx, updateWorkCategory, id, name))
}

const getWorkCategory = `
SELECT id, name, created_at, updated_at
FROM work_categories
WHERE id = $1
`

func (q *Queries) GetWorkCategory(ctx context.Context, id int64) (WorkCategory, error) {
	return scanWorkCategory(q.db.QueryRow(ctx, getWorkCategory, id))
}

const listWorkCategories = `
SELECT id, name, created_at, updated_at
FROM work_categories
WHERE ($1::text = '' OR name ILIKE '%' || $1 || '%')
ORDER BY name
`

func (q *Queries) ListWorkCategories(ctx context.Context, search string) ([]WorkCategory, error) {
	rows, err := q.db.Query(ctx, listWorkCategories, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WorkCategory
	for rows.Next() {
		i, err := scanWorkCategory(rows)
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

func scanWorkCategory(row scanner) (WorkCategory, error) {
	var i WorkCategory
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// =============================================================================
// Work types
// =============================================================================

const workTypeColumns = `id, work_category_id, name, price_standard, price_gamesa, price_gamesa_abroad, max_hours, created_at, updated_at`

const createWorkType = `
INSERT INTO work_types (work_category_id, name, price_standard, price_gamesa, price_gamesa_abroad, max_hours)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + workTypeColumns

type CreateWorkTypeParams struct {
	WorkCategoryID    int64
	Name              string
	PriceStandard     pgtype.Numeric
	PriceGamesa       pgtype.Numeric
	PriceGamesaAbroad pgtype.Numeric
	MaxHours          int32
}

func (q *Queries) CreateWorkType(ctx context.Context, arg CreateWorkTypeParams) (WorkType, error) {
	row := q.db.QueryRow(ctx, createWorkType,
		arg.WorkCategoryID,
		arg.Name,
		arg.PriceStandard,
		arg.PriceGamesa,
		arg.PriceGamesaAbroad,
		arg.MaxHours,
	)
	return scanWorkType(row)
}

const updateWorkType = `
UPDATE work_types
SET work_category_id = $2, name = $3, price_standard = $4, price_gamesa = $5,
    price_gamesa_abroad = $6, max_hours = $7, updated_at = now()
WHERE id = $1
RETURNING ` + workTypeColumns

type UpdateWorkTypeParams struct {
	ID                int64
	WorkCategoryID    int64
	Name              string
	PriceStandard     pgtype.Numeric
	PriceGamesa       pgtype.Numeric
	PriceGamesaAbroad pgtype.Numeric
	MaxHours          int32
}

func (q *Queries) UpdateWorkType(ctx context.Context, arg UpdateWorkTypeParams) (WorkType, error) {
	row := q.db.QueryRow(ctx, updateWorkType,
		arg.ID,
		arg.WorkCategoryID,
		arg.Name,
		arg.PriceStandard,
		arg.PriceGamesa,
		arg.PriceGamesaAbroad,
		arg.MaxHours,
	)
	return scanWorkType(row)
}

const getWorkType = `
SELECT ` + workTypeColumns + `
FROM work_types
WHERE id = $1
`

func (q *Queries) GetWorkType(ctx context.Context, id int64) (WorkType, error) {
	return scanWorkType(q.db.QueryRow(ctx, getWorkType, id))
}

const listWorkTypes = `
SELECT ` + workTypeColumns + `
FROM work_types
WHERE ($1::bigint = 0 OR work_category_id = $1)
  AND ($2::text = '' OR name ILIKE '%' || $2 || '%')
ORDER BY name
`

func (q *Queries) ListWorkTypes(ctx context.Context, workCategoryID int64, search string) ([]WorkType, error) {
	rows, err := q.db.Query(ctx, listWorkTypes, workCategoryID, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WorkType
	for rows.Next() {
		i, err := scanWorkType(rows)
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

func scanWorkType(row scanner) (WorkType, error) {
	var i WorkType
	err := row.Scan(
		&i.ID,
		&i.WorkCategoryID,
		&i.Name,
		&i.PriceStandard,
		&i.PriceGamesa,
		&i.PriceGamesaAbroad,
		&i.MaxHours,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
