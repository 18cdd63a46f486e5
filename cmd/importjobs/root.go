package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/ropeworks/internal/config"
	"github.com/JonMunkholm/ropeworks/internal/core"
	"github.com/JonMunkholm/ropeworks/internal/jobimport"
	"github.com/JonMunkholm/ropeworks/internal/logging"
	"github.com/JonMunkholm/ropeworks/internal/sheet"
	"github.com/JonMunkholm/ropeworks/internal/sqlitestore"
)

const defaultFile = "storage/mock-files/export.xlsx"

type options struct {
	file       string
	debug      bool
	layoutFile string
	sqlitePath string
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "import-jobs [file]",
		Short: "Import work jobs from a spreadsheet export",
		Long: `import-jobs reads a .xlsx, .xls or .csv export of the job catalog and
creates or updates one work job per row, keyed by job code.

By default jobs are written to the database named by DATABASE_URL (a .env
file in the working directory is honoured). With --sqlite they are written
to a local SQLite file instead.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.file = defaultFile
			if len(args) == 1 {
				opts.file = args[0]
			}
			return run(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Log every row decision")
	cmd.Flags().StringVar(&opts.layoutFile, "layout", "", "TOML file describing the sheet columns")
	cmd.Flags().StringVar(&opts.sqlitePath, "sqlite", "", "Write to this SQLite file instead of Postgres")
	return cmd
}

func run(ctx context.Context, opts options, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	level := "info"
	if opts.debug {
		level = "debug"
		fmt.Fprintln(out, "Debug mode enabled - every row decision is logged")
	}
	logger := logging.New(errOut, level, "text")
	slog.SetDefault(logger)

	fmt.Fprintf(out, "Importing work jobs from %s...\n", opts.file)
	logger.Info("starting import of work jobs", "file", opts.file)

	var (
		stats jobimport.Stats
		err   error
	)
	if opts.sqlitePath != "" {
		stats, err = importSQLite(ctx, opts, logger)
	} else {
		stats, err = importPostgres(ctx, opts)
	}
	if err != nil {
		logger.Error("error during import", "error", err)
		return fmt.Errorf("import failed: %s", core.FormatUserError(err))
	}

	logger.Info("import completed with statistics",
		"total", stats.Total,
		"success", stats.Success,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
	)
	fmt.Fprintln(out, "Import completed!")
	printStats(out, stats)

	if stats.Errors > 0 {
		fmt.Fprintln(out, "Warning: some rows had errors. Check the log output for details.")
	}
	if stats.Skipped > 0 {
		fmt.Fprintln(out, "Warning: some rows were skipped due to missing required fields. Check the log output for details.")
	}
	return nil
}

// importSQLite runs the importer directly against a local store.
func importSQLite(ctx context.Context, opts options, logger *slog.Logger) (jobimport.Stats, error) {
	layout := jobimport.DefaultLayout()
	if opts.layoutFile != "" {
		var err error
		if layout, err = jobimport.LoadLayout(opts.layoutFile); err != nil {
			return jobimport.Stats{}, err
		}
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return jobimport.Stats{}, fmt.Errorf("open %s: %w", opts.file, err)
	}
	defer f.Close()

	src, err := sheet.Open(opts.file, f)
	if err != nil {
		return jobimport.Stats{}, err
	}
	defer src.Close()

	store, err := sqlitestore.Open(ctx, opts.sqlitePath)
	if err != nil {
		return jobimport.Stats{}, err
	}
	defer store.Close()

	im := jobimport.NewImporter(store, layout)
	im.Logger = logger
	report, err := im.Run(ctx, src)
	if err != nil {
		return jobimport.Stats{}, err
	}
	return report.Stats, nil
}

// importPostgres goes through core.Service so the run is transactional and
// recorded in import_runs like an upload through the API.
func importPostgres(ctx context.Context, opts options) (jobimport.Stats, error) {
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		return jobimport.Stats{}, err
	}
	if opts.layoutFile != "" {
		cfg.Import.LayoutFile = opts.layoutFile
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return jobimport.Stats{}, fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	service, err := core.NewService(pool, core.Options{
		LayoutFile:           cfg.Import.LayoutFile,
		BatchSize:            cfg.Import.BatchSize,
		HeaderRows:           cfg.Import.HeaderRows,
		MaxConcurrentImports: 1,
		ImportMaxWait:        time.Second,
		ImportTimeout:        cfg.Import.Timeout,
	})
	if err != nil {
		return jobimport.Stats{}, err
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return jobimport.Stats{}, fmt.Errorf("open %s: %w", opts.file, err)
	}
	defer f.Close()

	result, err := service.ImportWorkJobs(ctx, opts.file, f)
	if err != nil {
		return jobimport.Stats{}, err
	}
	return result.Stats, nil
}

func printStats(w io.Writer, st jobimport.Stats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.Debug)
	fmt.Fprintln(tw, "Total Rows\tSuccessful\tSkipped\tErrors")
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d\n", st.Total, st.Success, st.Skipped, st.Errors)
	tw.Flush()
}
