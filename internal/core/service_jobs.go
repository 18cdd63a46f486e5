package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/ropeworks/internal/database"
	"github.com/JonMunkholm/ropeworks/internal/jobimport"
)

func toWorkJob(j database.WorkJob) WorkJob {
	return WorkJob{
		ID:          j.ID,
		Code:        j.Code,
		Description: j.Description,
		ClientName:  j.ClientName,
		ClientID:    j.ClientID,
		IsActive:    j.IsActive,
		CreatedAt:   j.CreatedAt.Time,
		UpdatedAt:   j.UpdatedAt.Time,
	}
}

// normalizeStatus maps anything other than active/inactive to "all".
func normalizeStatus(s string) string {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "active", "inactive":
		return s
	}
	return ""
}

// ListWorkJobs returns one page of jobs ordered by code.
func (s *Service) ListWorkJobs(ctx context.Context, f WorkJobFilter) (Page[WorkJob], error) {
	req := s.page(f.PageRequest)
	limit, offset := req.limitOffset()
	search, status, client := strings.TrimSpace(f.Search), normalizeStatus(f.Status), strings.TrimSpace(f.Client)

	rows, err := s.queries.ListWorkJobs(ctx, database.ListWorkJobsParams{
		Search: search,
		Status: status,
		Client: client,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return Page[WorkJob]{}, fmt.Errorf("list work jobs: %w", err)
	}
	total, err := s.queries.CountWorkJobs(ctx, database.CountWorkJobsParams{
		Search: search,
		Status: status,
		Client: client,
	})
	if err != nil {
		return Page[WorkJob]{}, fmt.Errorf("count work jobs: %w", err)
	}

	items := make([]WorkJob, len(rows))
	for i, r := range rows {
		items[i] = toWorkJob(r)
	}
	return newPage(items, total, req), nil
}

// GetWorkJob returns one job.
func (s *Service) GetWorkJob(ctx context.Context, id int64) (WorkJob, error) {
	j, err := s.queries.GetWorkJob(ctx, id)
	if err != nil {
		return WorkJob{}, dbError(err, fmt.Sprintf("work job %d", id))
	}
	return toWorkJob(j), nil
}

// CreateWorkJob adds a job entered by hand. Unlike an import it fails when
// the code is taken.
func (s *Service) CreateWorkJob(ctx context.Context, in WorkJobInput) (WorkJob, error) {
	if err := in.Validate(); err != nil {
		return WorkJob{}, err
	}
	j, err := s.queries.CreateWorkJob(ctx, database.CreateWorkJobParams{
		Code:        strings.TrimSpace(in.Code),
		Description: strings.TrimSpace(in.Description),
		ClientName:  strings.TrimSpace(in.ClientName),
		ClientID:    strings.TrimSpace(in.ClientID),
		IsActive:    boolOr(in.IsActive, true),
	})
	if err != nil {
		return WorkJob{}, dbError(err, "work job")
	}
	return toWorkJob(j), nil
}

// UpdateWorkJob replaces a job's fields.
func (s *Service) UpdateWorkJob(ctx context.Context, id int64, in WorkJobInput) (WorkJob, error) {
	if err := in.Validate(); err != nil {
		return WorkJob{}, err
	}
	what := fmt.Sprintf("work job %d", id)

	var out WorkJob
	err := s.inTx(ctx, func(_ pgx.Tx, q *database.Queries) error {
		current, err := q.GetWorkJob(ctx, id)
		if err != nil {
			return dbError(err, what)
		}
		j, err := q.UpdateWorkJob(ctx, database.UpdateWorkJobParams{
			ID:          id,
			Code:        strings.TrimSpace(in.Code),
			Description: strings.TrimSpace(in.Description),
			ClientName:  strings.TrimSpace(in.ClientName),
			ClientID:    strings.TrimSpace(in.ClientID),
			IsActive:    boolOr(in.IsActive, current.IsActive),
		})
		if err != nil {
			return dbError(err, what)
		}
		out = toWorkJob(j)
		return nil
	})
	return out, err
}

// savepointExecer runs the SAVEPOINT statements; pgx.Tx satisfies it.
type savepointExecer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// jobUpserter is satisfied by database.Queries.
type jobUpserter interface {
	UpsertWorkJob(ctx context.Context, arg database.UpsertWorkJobParams) (database.WorkJob, error)
}

// pgJobStore upserts imported jobs inside the run's transaction. Each row
// gets its own savepoint so a failed row does not abort the rest. When a
// savepoint statement itself fails the transaction is unusable, so the
// error is wrapped in jobimport.ErrStoreAborted and ends the run.
type pgJobStore struct {
	tx savepointExecer
	q  jobUpserter
	n  int
}

func newPgJobStore(tx savepointExecer, q jobUpserter) *pgJobStore {
	return &pgJobStore{tx: tx, q: q}
}

// UpsertJob implements jobimport.Store.
func (st *pgJobStore) UpsertJob(ctx context.Context, job jobimport.Job) (jobimport.Job, error) {
	st.n++
	savepoint := fmt.Sprintf("sp_%d", st.n)

	if _, err := st.tx.Exec(ctx, "SAVEPOINT "+savepoint); err != nil {
		return jobimport.Job{}, fmt.Errorf("%w: create savepoint: %w", jobimport.ErrStoreAborted, err)
	}

	saved, err := st.q.UpsertWorkJob(ctx, database.UpsertWorkJobParams{
		Code:        job.Code,
		Description: job.Description,
		ClientName:  job.ClientName,
		ClientID:    job.ClientID,
		IsActive:    job.IsActive,
	})
	if err != nil {
		rowErr := dbError(err, "work job "+job.Code)
		if _, rbErr := st.tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+savepoint); rbErr != nil {
			return jobimport.Job{}, fmt.Errorf("%w: rollback to savepoint: %w (after %w)", jobimport.ErrStoreAborted, rbErr, rowErr)
		}
		return jobimport.Job{}, rowErr
	}

	if _, err := st.tx.Exec(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil {
		return jobimport.Job{}, fmt.Errorf("%w: release savepoint: %w", jobimport.ErrStoreAborted, err)
	}

	return jobimport.Job{
		Code:        saved.Code,
		Description: saved.Description,
		ClientName:  saved.ClientName,
		ClientID:    saved.ClientID,
		IsActive:    saved.IsActive,
	}, nil
}
