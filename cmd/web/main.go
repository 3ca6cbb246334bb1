package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/myrjola/liftplan/internal/catalog"
	"github.com/myrjola/liftplan/internal/envstruct"
	"github.com/myrjola/liftplan/internal/errors"
	"github.com/myrjola/liftplan/internal/flightrecorder"
	"github.com/myrjola/liftplan/internal/logging"
	"github.com/myrjola/liftplan/internal/overload"
	"github.com/myrjola/liftplan/internal/routine"
	"github.com/myrjola/liftplan/internal/sqlite"
	"github.com/myrjola/liftplan/internal/store"
)

type application struct {
	logger     *slog.Logger
	templateFS fs.FS
	timeout    time.Duration
	generator  *routine.Generator
	store      *store.Store
	overload   *overload.Service
	// flightRecorder is nil when trace capture is disabled.
	flightRecorder *flightrecorder.Service
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"LIFTPLAN_ADDR" envDefault:"localhost:8081"`
	// SqliteURL is the URL to the SQLite database. You can use ":memory:" for an ethereal in-memory database.
	SqliteURL string `env:"LIFTPLAN_SQLITE_URL" envDefault:"./liftplan.sqlite3"`
	// TemplatePath overrides the embedded HTML templates, which is handy when editing them.
	TemplatePath string `env:"LIFTPLAN_TEMPLATE_PATH" envDefault:""`
	// CatalogPath is an optional YAML exercise catalog replacing the built-in one.
	CatalogPath string `env:"LIFTPLAN_CATALOG_PATH" envDefault:""`
	// Seed makes routine generation reproducible. Zero draws a fresh seed for every routine.
	Seed int `env:"LIFTPLAN_SEED" envDefault:"0"`
	// MaxParallelLookups bounds the concurrent history reads of one suggestion request.
	MaxParallelLookups int `env:"LIFTPLAN_MAX_PARALLEL_LOOKUPS" envDefault:"4"`
	// TracesDirectory enables capturing execution traces of timed out and failed requests into the directory.
	TracesDirectory string `env:"LIFTPLAN_TRACES_DIRECTORY" envDefault:""`
	// RequestTimeout is the time a handler has to produce a response.
	RequestTimeout time.Duration `env:"LIFTPLAN_REQUEST_TIMEOUT" envDefault:"2s"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		cancel context.CancelFunc
		err    error
	)

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err = envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	var templateFS fs.FS
	if templateFS, err = resolveTemplateFS(cfg.TemplatePath); err != nil {
		return errors.Wrap(err, "resolve templates", slog.String("path", cfg.TemplatePath))
	}

	exercises, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return errors.Wrap(err, "load catalog", slog.String("path", cfg.CatalogPath))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "loaded exercise catalog", slog.Int("exercises", exercises.Len()))

	db, err := sqlite.NewDatabase(ctx, cfg.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", cfg.SqliteURL))
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.LogAttrs(ctx, slog.LevelError, "failed to close db", errors.SlogError(closeErr))
		}
	}()
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	newRand := routine.EntropyRand()
	if cfg.Seed != 0 {
		newRand = routine.SeededRand(uint64(cfg.Seed)) //nolint:gosec // any bit pattern is a valid seed.
	}

	st := store.New(db, logger)
	app := application{
		logger:     logger,
		templateFS: templateFS,
		timeout:    cfg.RequestTimeout,
		generator:  routine.NewGenerator(exercises, newRand, logger),
		store:      st,
		overload:   overload.NewService(st.Workouts, logger, cfg.MaxParallelLookups),
	}

	if cfg.TracesDirectory != "" {
		if app.flightRecorder, err = flightrecorder.New(flightrecorder.Config{ //nolint:exhaustruct // defaults
			Logger:          logger,
			TracesDirectory: cfg.TracesDirectory,
		}); err != nil {
			return errors.Wrap(err, "new flight recorder")
		}
		if err = app.flightRecorder.Start(ctx); err != nil {
			return errors.Wrap(err, "start flight recorder")
		}
		defer app.flightRecorder.Stop(context.WithoutCancel(ctx))
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr, app.routes()); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog")
	}
	defer f.Close()
	return catalog.Load(f)
}

func main() {
	ctx := context.Background()
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	if err := run(ctx, logger, os.LookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
