package menube

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/menube/internal/runtime"
	"github.com/aretw0/menube/internal/validator"
	"github.com/aretw0/menube/pkg/adapters/file"
	"github.com/aretw0/menube/pkg/adapters/memory"
	"github.com/aretw0/menube/pkg/adapters/process"
	"github.com/aretw0/menube/pkg/domain"
	"github.com/aretw0/menube/pkg/ports"
)

// Menu is the high-level entry point for the menube library.
// It wraps the navigation engine with a loader, an event bus and a runner.
type Menu struct {
	*runtime.Engine

	bus    *memory.Bus
	runner ports.CommandRunner
	Name   string
}

type config struct {
	loader       ports.MenuLoader
	runner       ports.CommandRunner
	runnerOpts   []process.RunnerOption
	publishers   []ports.Publisher
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	pendingGuard bool
	lenient      bool
}

// Option defines a functional option for configuring the Menu.
type Option func(*config)

// WithLoader injects a custom MenuLoader, bypassing the file loader.
func WithLoader(l ports.MenuLoader) Option {
	return func(c *config) {
		c.loader = l
	}
}

// WithRunner replaces the shell runner.
func WithRunner(r ports.CommandRunner) Option {
	return func(c *config) {
		c.runner = r
	}
}

// WithRunnerOptions configures the default shell runner.
func WithRunnerOptions(opts ...process.RunnerOption) Option {
	return func(c *config) {
		c.runnerOpts = append(c.runnerOpts, opts...)
	}
}

// WithPublisher forwards every event to p in addition to the in-process bus.
func WithPublisher(p ports.Publisher) Option {
	return func(c *config) {
		c.publishers = append(c.publishers, p)
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithPendingGuard refuses to re-activate an item whose command is still running.
func WithPendingGuard(enabled bool) Option {
	return func(c *config) {
		c.pendingGuard = enabled
	}
}

// WithLenientValidation loads menus that fail validation, logging the
// problems instead of returning them.
func WithLenientValidation() Option {
	return func(c *config) {
		c.lenient = true
	}
}

// New loads the menu at menuPath and starts an engine on its first item.
// If WithLoader is provided, menuPath may be empty.
func New(menuPath string, opts ...Option) (*Menu, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}

	m := &Menu{}
	if cfg.loader == nil {
		if menuPath == "" {
			return nil, fmt.Errorf("menuPath is required when no custom loader is provided")
		}
		cfg.loader = file.NewLoader(menuPath, file.WithLoaderLogger(cfg.logger))
	}
	if menuPath != "" {
		m.Name = filepath.Base(menuPath)
		cfg.logger = cfg.logger.With("menu", m.Name)
	}

	nodes, err := cfg.loader.Load(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}
	if err := validator.Validate(nodes); err != nil {
		if !cfg.lenient {
			return nil, fmt.Errorf("invalid menu: %w", err)
		}
		cfg.logger.Warn("menu has problems", "err", err)
	}

	if cfg.runner == nil {
		cfg.runner = process.NewRunner(append([]process.RunnerOption{process.WithLogger(cfg.logger)}, cfg.runnerOpts...)...)
	}

	m.bus = memory.NewBus()
	m.runner = cfg.runner

	publisher := ports.MultiPublisher(append([]ports.Publisher{m.bus}, cfg.publishers...))
	engine, err := runtime.NewEngine(nodes,
		runtime.WithRunner(cfg.runner),
		runtime.WithPublisher(publisher),
		runtime.WithLogger(cfg.logger),
		runtime.WithLifecycleHooks(cfg.hooks),
		runtime.WithPendingGuard(cfg.pendingGuard),
	)
	if err != nil {
		return nil, err
	}
	m.Engine = engine
	return m, nil
}

// Subscribe registers h for events named name.
func (m *Menu) Subscribe(name string, h ports.Handler) (cancel func()) {
	return m.bus.Subscribe(name, h)
}

// SubscribeAll registers h for every event.
func (m *Menu) SubscribeAll(h ports.Handler) (cancel func()) {
	return m.bus.SubscribeAll(h)
}

// Events returns a channel receiving every event and a function that
// unsubscribes and closes it.
func (m *Menu) Events(buffer int) (<-chan domain.Event, func()) {
	return m.bus.Channel(buffer)
}

// Wait blocks until every running command has finished, when the runner
// supports it.
func (m *Menu) Wait() {
	if w, ok := m.runner.(interface{ Wait() }); ok {
		w.Wait()
	}
}
