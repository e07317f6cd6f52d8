package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/nepremicnine/internal/api"
	"github.com/erazemk/nepremicnine/internal/blob"
	"github.com/erazemk/nepremicnine/internal/config"
	"github.com/erazemk/nepremicnine/internal/db"
	"github.com/erazemk/nepremicnine/internal/metrics"
	"github.com/erazemk/nepremicnine/internal/seed"
	"github.com/erazemk/nepremicnine/internal/service"
	"github.com/erazemk/nepremicnine/internal/store"
	"github.com/erazemk/nepremicnine/internal/web"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging in the given format (text or
// json). If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath, format string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	newHandler := func(w io.Writer) slog.Handler {
		if format == "json" {
			return slog.NewJSONHandler(w, opts)
		}
		return slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(&levelRouter{
		stdout: newHandler(stdoutW),
		stderr: newHandler(stderrW),
	}))
	return cleanup, nil
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"d": "store.dsn", "db": "store.dsn",
	"a": "http.addr", "addr": "http.addr",
	"l": "log.path", "log": "log.path",
	"seed": "seed",
}

func main() {
	fs := flag.NewFlagSet("nepremicnine", flag.ContinueOnError)

	var dsn string
	fs.StringVar(&dsn, "db", "", "")
	fs.StringVar(&dsn, "d", "", "")

	var addr string
	fs.StringVar(&addr, "addr", "", "")
	fs.StringVar(&addr, "a", "", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	var configPath string
	fs.StringVar(&configPath, "config", "", "")
	fs.StringVar(&configPath, "c", "", "")

	var seedData bool
	fs.BoolVar(&seedData, "seed", false, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: nepremicnine [flags]

Flags:
  -d, -db <dsn>           database path (sqlite) or URL (postgres) (default: nepremicnine.db)
  -a, -addr <host:port>   listen address (default: :8080)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -c, -config <path>      config file (yaml, json or toml)
  -seed                   insert sample data into an empty database
  -h, -help               show this help and exit

Every option can also be set through NEPREMICNINE_* environment variables,
e.g. NEPREMICNINE_STORE_DRIVER=postgres or NEPREMICNINE_BLOB_DRIVER=s3.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	// Only flags given on the command line override other sources.
	values := map[string]any{
		"store.dsn": dsn,
		"http.addr": addr,
		"log.path":  logPath,
		"seed":      seedData,
	}
	overrides := make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			overrides[key] = values[key]
		}
	})

	cfg, err := config.Load(configPath, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.Log.Path, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	if err := run(cfg); err != nil {
		slog.Error("fatal", "error", err)
		if closeLog != nil {
			closeLog()
		}
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	database, err := db.Open(cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "driver", database.Driver)

	images, err := blob.Open(ctx, blob.Config{
		Driver: blob.Driver(cfg.Blob.Driver),
		Root:   cfg.Blob.Root,
		S3: blob.S3Config{
			Bucket:          cfg.Blob.S3.Bucket,
			Region:          cfg.Blob.S3.Region,
			Endpoint:        cfg.Blob.S3.Endpoint,
			PathStyle:       cfg.Blob.S3.PathStyle,
			AccessKeyID:     cfg.Blob.S3.AccessKeyID,
			SecretAccessKey: cfg.Blob.S3.SecretAccessKey,
		},
	})
	if err != nil {
		return fmt.Errorf("opening image store: %w", err)
	}
	slog.Info("image store ready", "driver", images.Driver())

	owners := store.NewOwners(database)
	properties := store.NewProperties(database)

	if cfg.Seed {
		inserted, err := seed.Run(ctx, owners, properties)
		if err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
		if inserted {
			slog.Info("sample data inserted")
		}
	}

	ownerService := service.NewOwnerService(owners)
	propertyService := service.NewPropertyService(properties, owners, service.WithImageStore(images))

	apiRouter := api.NewRouter(propertyService, ownerService)
	webRouter, err := web.NewRouter(propertyService, ownerService)
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("GET /healthz", api.HealthHandler(database))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("/", webRouter)

	handler := api.LoggingMiddleware(api.CORSMiddleware(cfg.CORS.AllowOrigins)(api.MetricsMiddleware(mux)))

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}
