package tracetm

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/loam"
	"github.com/google/uuid"
	"github.com/irobinett3/traceTM-iansntm/internal/logging"
	"github.com/irobinett3/traceTM-iansntm/internal/runtime"
	"github.com/irobinett3/traceTM-iansntm/pkg/adapters/fs"
	loamAdapter "github.com/irobinett3/traceTM-iansntm/pkg/adapters/loam"
	"github.com/irobinett3/traceTM-iansntm/pkg/domain"
	"github.com/irobinett3/traceTM-iansntm/pkg/ports"
	"github.com/irobinett3/traceTM-iansntm/pkg/registry"
)

// DefaultMaxDepth is the depth bound used when none is configured.
const DefaultMaxDepth = runtime.DefaultMaxDepth

// ErrNoStore is returned by result operations on an engine without a ResultStore.
var ErrNoStore = domain.ErrNoStore

// Engine is the high-level entry point for the tracer.
// It resolves machines through a loader, caches their explorers and
// optionally persists every result.
type Engine struct {
	loader      ports.MachineLoader
	store       ports.ResultStore
	registry    *registry.Registry
	useLoam     bool
	maxDepth    int
	maxFrontier int
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	now         func() time.Time
	Name        string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom MachineLoader, bypassing the default directory loader.
func WithLoader(l ports.MachineLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLoam reads the machines path as a Loam document catalog instead of a plain directory.
func WithLoam() Option {
	return func(e *Engine) {
		e.useLoam = true
	}
}

// WithStore persists every traced result.
func WithStore(s ports.ResultStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithMaxDepth sets the default depth bound. n <= 0 keeps DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n <= 0 {
			n = DefaultMaxDepth
		}
		e.maxDepth = n
	}
}

// WithMaxFrontier caps the configurations queued for one depth. Zero disables the cap.
func WithMaxFrontier(n int) Option {
	return func(e *Engine) {
		e.maxFrontier = n
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock replaces time.Now for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New initializes a new Engine.
// By default, machines are read from the directory at machinesPath.
// If WithLoader is provided, machinesPath can be empty and is only used as a label.
func New(machinesPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		maxDepth: DefaultMaxDepth,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil {
		if machinesPath == "" {
			return nil, fmt.Errorf("machinesPath is required when no custom loader is provided")
		}

		absPath, err := filepath.Abs(machinesPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)

		if eng.useLoam {
			// The engine never writes machine documents.
			repo, err := loam.Init(absPath,
				loam.WithStrict(true),
				loam.WithReadOnly(true),
			)
			if err != nil {
				return nil, fmt.Errorf("failed to initialize loam: %w", err)
			}
			eng.loader = loamAdapter.New(loam.NewTypedRepository[loamAdapter.MachineMetadata](repo))
		} else {
			eng.loader = fs.New(absPath)
		}
	} else if machinesPath != "" {
		eng.Name = filepath.Base(machinesPath)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("catalog", eng.Name)
	}

	eng.registry = registry.NewRegistry(eng.loader,
		runtime.WithMaxDepth(eng.maxDepth),
		runtime.WithMaxFrontier(eng.maxFrontier),
		runtime.WithHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)

	return eng, nil
}

// Trace runs input on the named machine with the engine's depth bound.
func (e *Engine) Trace(ctx context.Context, machine, input string) (*domain.Result, error) {
	return e.TraceDepth(ctx, machine, input, 0)
}

// TraceDepth is Trace with an explicit depth bound; maxDepth <= 0 uses the engine default.
// The result gets a fresh ID and timestamp and is saved when a store is configured.
func (e *Engine) TraceDepth(ctx context.Context, machine, input string, maxDepth int) (*domain.Result, error) {
	explorer, err := e.registry.Get(ctx, machine)
	if err != nil {
		return nil, err
	}
	if maxDepth > 0 && maxDepth != explorer.MaxDepth() {
		explorer = explorer.With(runtime.WithMaxDepth(maxDepth))
	}

	res, err := explorer.Run(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("trace %s: %w", machine, err)
	}
	res.ID = uuid.New().String()
	res.CreatedAt = e.now().UTC()

	if e.store != nil {
		if err := e.store.Save(ctx, res); err != nil {
			return nil, fmt.Errorf("failed to save result: %w", err)
		}
	}
	return res, nil
}

var _ ports.Tracer = (*Engine)(nil)

// Machine returns the named machine definition.
func (e *Engine) Machine(ctx context.Context, name string) (*domain.Machine, error) {
	explorer, err := e.registry.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return explorer.Machine().Clone(), nil
}

// Machines lists the machines the loader can resolve.
func (e *Engine) Machines(ctx context.Context) ([]string, error) {
	return e.loader.List(ctx)
}

// Reload drops the cached explorer so the next trace re-reads the definition.
func (e *Engine) Reload(name string) {
	e.registry.Invalidate(name)
}

// Results lists stored result summaries, newest first.
func (e *Engine) Results(ctx context.Context) ([]domain.Summary, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	return e.store.List(ctx)
}

// Result loads a stored result.
func (e *Engine) Result(ctx context.Context, id string) (*domain.Result, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	return e.store.Load(ctx, id)
}

// DeleteResult removes a stored result.
func (e *Engine) DeleteResult(ctx context.Context, id string) error {
	if e.store == nil {
		return ErrNoStore
	}
	return e.store.Delete(ctx, id)
}

// Loader returns the underlying MachineLoader used by the engine.
func (e *Engine) Loader() ports.MachineLoader {
	return e.loader
}

// Store returns the configured ResultStore, or nil.
func (e *Engine) Store() ports.ResultStore {
	return e.store
}

// MaxDepth returns the engine's default depth bound.
func (e *Engine) MaxDepth() int {
	return e.maxDepth
}

// Run traces input on m with the given depth bound and returns the per-depth
// trace, the verdict and the number of transitions considered.
// A maxDepth of zero or less yields an empty, rejected trace.
func Run(m *domain.Machine, input string, maxDepth int) (domain.Trace, bool, int) {
	res, err := runtime.NewExplorer(m, runtime.WithMaxDepth(maxDepth)).Run(context.Background(), input)
	if err != nil {
		// unreachable without a frontier cap or a cancellable context
		return nil, false, 0
	}
	return res.Trace, res.Accepted, res.Transitions
}
