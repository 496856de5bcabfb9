// Package cli wires configuration into an engine for the tmtrace commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tracetm "github.com/irobinett3/traceTM-iansntm"
	"github.com/irobinett3/traceTM-iansntm/internal/config"
	"github.com/irobinett3/traceTM-iansntm/internal/logging"
	"github.com/irobinett3/traceTM-iansntm/pkg/adapters/file"
	"github.com/irobinett3/traceTM-iansntm/pkg/adapters/memory"
	"github.com/irobinett3/traceTM-iansntm/pkg/adapters/redis"
	"github.com/irobinett3/traceTM-iansntm/pkg/adapters/sqlite"
	"github.com/irobinett3/traceTM-iansntm/pkg/observability"
	"github.com/irobinett3/traceTM-iansntm/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultSQLitePath is used when the sqlite backend has no path configured.
const DefaultSQLitePath = ".tmtrace/results.db"

// App bundles the engine with the resources the commands share.
type App struct {
	Engine   *tracetm.Engine
	Logger   *slog.Logger
	Registry *prometheus.Registry
	closers  []io.Closer
}

// NewApp builds the logger, the result store, the metrics registry and the engine from cfg.
// Callers must Close the app.
func NewApp(cfg config.Config) (*App, error) {
	app := &App{Registry: prometheus.NewRegistry()}

	logger, err := app.createLogger(cfg.Log)
	if err != nil {
		return nil, err
	}
	app.Logger = logger

	store, err := app.openStore(cfg.Store)
	if err != nil {
		app.Close()
		return nil, err
	}

	metrics, err := observability.NewMetrics(app.Registry)
	if err != nil {
		app.Close()
		return nil, err
	}

	opts := []tracetm.Option{
		tracetm.WithLogger(logger),
		tracetm.WithMaxDepth(cfg.MaxDepth),
		tracetm.WithMaxFrontier(cfg.MaxFrontier),
		tracetm.WithHooks(metrics.Hooks()),
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		opts = append(opts, tracetm.WithHooks(observability.LoggingHooks(logger)))
	}
	if store != nil {
		opts = append(opts, tracetm.WithStore(store))
	}
	if cfg.Loam {
		opts = append(opts, tracetm.WithLoam())
	}

	eng, err := tracetm.New(cfg.Machines, opts...)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	app.Engine = eng
	return app, nil
}

// Close releases the store and the log file.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// createLogger writes text to stderr, keeping stdout for reports and JSON-RPC.
func (a *App) createLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if cfg.File == "" {
		return logging.New(level), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	a.closers = append(a.closers, f)
	return logging.NewWithFile(level, f), nil
}

// openStore returns a nil store for the "none" backend.
func (a *App) openStore(cfg config.StoreConfig) (ports.ResultStore, error) {
	switch cfg.Backend {
	case config.StoreNone, "":
		return nil, nil
	case config.StoreMemory:
		return memory.NewStore(), nil
	case config.StoreFile:
		return file.New(cfg.Path), nil
	case config.StoreSQLite:
		path := cfg.Path
		if path == "" {
			path = DefaultSQLitePath
		}
		s, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, s)
		return s, nil
	case config.StoreRedis:
		var opts []redis.Option
		if cfg.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.TTL))
		}
		if cfg.RedisPrefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.RedisPrefix))
		}
		s := redis.New(cfg.RedisAddr, os.Getenv("TMTRACE_REDIS_PASSWORD"), 0, opts...)
		a.closers = append(a.closers, s)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
