package database

import (
	"context"
)

const upsertWorkJob = `
INSERT INTO work_jobs (code, description, client_name, client_id, is_active)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (code) DO UPDATE SET
    description = EXCLUDED.description,
    client_name = EXCLUDED.client_name,
    client_id   = EXCLUDED.client_id,
    is_active   = EXCLUDED.is_active,
    updated_at  = now()
RETURNING id, code, description, client_name, client_id, is_active, created_at, updated_at
`

type UpsertWorkJobParams struct {
	Code        string
	Description string
	ClientName  string
	ClientID    string
	IsActive    bool
}

func (q *Queries) UpsertWorkJob(ctx context.Context, arg UpsertWorkJobParams) (WorkJob, error) {
	row := q.db.QueryRow(ctx, upsertWorkJob,
		arg.Code,
		arg.Description,
		arg.ClientName,
		arg.ClientID,
		arg.IsActive,
	)
	var i WorkJob
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.Description,
		&i.ClientName,
		&i.ClientID,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createWorkJob = `
INSERT INTO work_jobs (code, description, client_name, client_id, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, code, description, client_name, client_id, is_active, created_at, updated_at
`

type CreateWorkJobParams struct {
	Code        string
	Description string
	ClientName  string
	ClientID    string
	IsActive    bool
}

func (q *Queries) CreateWorkJob(ctx context.Context, arg CreateWorkJobParams) (WorkJob, error) {
	row := q.db.QueryRow(ctx, createWorkJob,
		arg.Code,
		arg.Description,
		arg.ClientName,
		arg.ClientID,
		arg.IsActive,
	)
	var i WorkJob
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.Description,
		&i.ClientName,
		&i.ClientID,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateWorkJob = `
UPDATE work_jobs
SET code = $2, description = $3, client_name = $4, client_id = $5, is_active = $6, updated_at = now()
WHERE id = $1
RETURNING id, code, description, client_name, client_id, is_active, created_at, updated_at
`

type UpdateWorkJobParams struct {
	ID          int64
	Code        string
	Description string
	ClientName  string
	ClientID    string
	IsActive    bool
}

func (q *Queries) UpdateWorkJob(ctx context.Context, arg UpdateWorkJobParams) (WorkJob, error) {
	row := q.db.QueryRow(ctx, updateWorkJob,
		arg.ID,
		arg.Code,
		arg.Description,
		arg.ClientName,
		arg.ClientID,
		arg.IsActive,
	)
	var i WorkJob
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.Description,
		&i.ClientName,
		&i.ClientID,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getWorkJob = `
SELECT id, code, description, client_name, client_id, is_active, created_at, updated_at
FROM work_jobs
WHERE id = $1
`

func (q *Queries) GetWorkJob(ctx context.Context, id int64) (WorkJob, error) {
	row := q.db.QueryRow(ctx, getWorkJob, id)
	var i WorkJob
	err := row.Scan(
		&i.ID,
		&i.Code,
		&i.Description,
		&i.ClientName,
		&i.ClientID,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listWorkJobs = `
SELECT id, code, description, client_name, client_id, is_active, created_at, updated_at
FROM work_jobs
WHERE ($1::text = '' OR code ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
  AND ($2::text = '' OR is_active = ($2::text = 'active'))
  AND ($3::text = '' OR client_name ILIKE '%' || $3 || '%' OR client_id ILIKE '%' || $3 || '%')
ORDER BY code
LIMIT $4 OFFSET $5
`

type ListWorkJobsParams struct {
	Search string
	Status string
	Client string
	Limit  int32
	Offset int32
}

func (q *Queries) ListWorkJobs(ctx context.Context, arg ListWorkJobsParams) ([]WorkJob, error) {
	rows, err := q.db.Query(ctx, listWorkJobs,
		arg.Search,
		arg.Status,
		arg.Client,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WorkJob
	for rows.Next() {
		var i WorkJob
		if err := rows.Scan(
			&i.ID,
			&i.Code,
			&i.Description,
			&i.ClientName,
			&i.ClientID,
			&i.IsActive,
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

const countWorkJobs = `
SELECT count(*)
FROM work_jobs
WHERE ($1::text = '' OR code ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
  AND ($2::text = '' OR is_active = ($2::text = 'active'))
  AND ($3::text = '' OR client_name ILIKE '%' || $3 || '%' OR client_id ILIKE '%' || $3 || '%')
`

type CountWorkJobsParams struct {
	Search string
	Status string
	Client string
}

func (q *Queries) CountWorkJobs(ctx context.Context, arg CountWorkJobsParams) (int64, error) {
	row := q.db.QueryRow(ctx, countWorkJobs, arg.Search, arg.Status, arg.Client)
	var count int64
	err := row.Scan(&count)
	return count, err
}
