package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/ropeworks/internal/database"
	"github.com/JonMunkholm/ropeworks/internal/jobimport"
)

// DefaultImportTimeout bounds a single import run.
const DefaultImportTimeout = 10 * time.Minute

// Options tunes a Service. Zero values fall back to package defaults.
type Options struct {
	// LayoutFile is an optional TOML file overriding jobimport.DefaultLayout.
	LayoutFile string
	// BatchSize and HeaderRows override the layout when non-nil.
	BatchSize  *int
	HeaderRows *int

	MaxConcurrentImports int
	ImportMaxWait        time.Duration
	ImportTimeout        time.Duration

	DefaultPageSize int
	MaxPageSize     int
}

// Service is the application layer shared by the HTTP server and the CLI.
type Service struct {
	pool    *pgxpool.Pool
	queries *database.Queries
	limiter *ImportLimiter
	layout  jobimport.Layout
	opts    Options
}

// NewService creates a Service over pool. The import layout is resolved and
// validated here so a bad layout file stops startup.
func NewService(pool *pgxpool.Pool, opts Options) (*Service, error) {
	layout, err := resolveLayout(opts)
	if err != nil {
		return nil, err
	}
	if opts.ImportTimeout <= 0 {
		opts.ImportTimeout = DefaultImportTimeout
	}

	return &Service{
		pool:    pool,
		queries: database.New(pool),
		limiter: NewImportLimiter(opts.MaxConcurrentImports, opts.ImportMaxWait),
		layout:  layout,
		opts:    opts,
	}, nil
}

// resolveLayout loads the layout file if set and applies overrides.
func resolveLayout(opts Options) (jobimport.Layout, error) {
	layout := jobimport.DefaultLayout()
	if opts.LayoutFile != "" {
		var err error
		if layout, err = jobimport.LoadLayout(opts.LayoutFile); err != nil {
			return jobimport.Layout{}, err
		}
	}
	if opts.BatchSize != nil {
		layout.BatchSize = *opts.BatchSize
	}
	if opts.HeaderRows != nil {
		layout.HeaderRows = *opts.HeaderRows
	}
	if err := layout.Validate(); err != nil {
		return jobimport.Layout{}, err
	}
	return layout, nil
}

// Layout returns the column layout used for imports.
func (s *Service) Layout() jobimport.Layout {
	return s.layout
}

// Ping checks database connectivity.
func (s *Service) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// inTx runs fn inside a transaction. fn's error rolls everything back.
func (s *Service) inTx(ctx context.Context, fn func(tx pgx.Tx, q *database.Queries) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// no-op after Commit
	defer tx.Rollback(ctx)

	if err := fn(tx, s.queries.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (s *Service) page(req PageRequest) PageRequest {
	return req.normalize(s.opts.DefaultPageSize, s.opts.MaxPageSize)
}
