// Package runtime holds the navigation engine: the single owner of the menu
// tree and the selection path.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/menube/internal/resolver"
	"github.com/aretw0/menube/pkg/domain"
	"github.com/aretw0/menube/pkg/ports"
)

// ErrNoRunner is reported in command results when the engine was built without a runner.
var ErrNoRunner = errors.New("no command runner configured")

// Engine owns the menu tree and the selection path. All mutations happen
// under one lock; events are published after the lock is released, so
// subscribers may call back into the engine.
type Engine struct {
	mu    sync.Mutex
	root  *domain.Node
	path  domain.Path
	fault error

	// pending counts outstanding commands per command/options node.
	pending map[*domain.Node]int

	runner       ports.CommandRunner
	publisher    ports.Publisher
	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	pendingGuard bool
	now          func() time.Time

	// ctx bounds every command started by the engine. Close cancels it.
	ctx    context.Context
	cancel context.CancelFunc
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRunner sets the command runner. Without one, every command completes
// immediately with ErrNoRunner.
func WithRunner(r ports.CommandRunner) EngineOption {
	return func(e *Engine) {
		e.runner = r
	}
}

// WithPublisher sets the event publisher.
func WithPublisher(p ports.Publisher) EngineOption {
	return func(e *Engine) {
		e.publisher = p
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithPendingGuard makes Activate refuse a command or options node whose
// previous command has not completed yet.
func WithPendingGuard(enabled bool) EngineOption {
	return func(e *Engine) {
		e.pendingGuard = enabled
	}
}

// NewEngine builds an engine over the given top-level nodes with the cursor on
// the first one. The nodes become owned by the engine.
func NewEngine(nodes []*domain.Node, opts ...EngineOption) (*Engine, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: menu has no items", domain.ErrEmptyMenu)
	}

	e := &Engine{
		root:    domain.NewRoot(nodes),
		path:    domain.RootPath(),
		pending: make(map[*domain.Node]int),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.runner == nil {
		e.runner = unavailableRunner{}
	}
	if e.publisher == nil {
		e.publisher = noopPublisher{}
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())
	return e, nil
}

// Close cancels every command still running. Completions that arrive
// afterwards are still applied.
func (e *Engine) Close() {
	e.cancel()
}

// Path returns a copy of the selection path.
func (e *Engine) Path() domain.Path {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path.Clone()
}

// Faulted reports the fault that stopped the engine, or nil.
func (e *Engine) Faulted() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fault
}

// Tree returns a deep copy of the top-level nodes, including any options
// submenu currently spliced in.
func (e *Engine) Tree() []*domain.Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return domain.CloneNodes(e.root.Children)
}

// ActiveSiblings returns the items of the menu the cursor is in.
func (e *Engine) ActiveSiblings() ([]*domain.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fault != nil {
		return nil, domain.ErrEngineFaulted
	}
	siblings, err := resolver.ActiveSiblings(e.root, e.path)
	if err != nil {
		return nil, err
	}
	return append([]*domain.Node(nil), siblings...), nil
}

// CurrentNode returns the highlighted node.
func (e *Engine) CurrentNode() (*domain.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fault != nil {
		return nil, domain.ErrEngineFaulted
	}
	return resolver.CurrentNode(e.root, e.path)
}

// ParentNode returns the submenu the cursor is in, or nil at the top level.
func (e *Engine) ParentNode() (*domain.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fault != nil {
		return nil, domain.ErrEngineFaulted
	}
	return resolver.ParentNode(e.root, e.path)
}

// Snapshot captures the durable part of the selection path. Levels inside
// an options submenu are dropped: that submenu does not survive a restart.
func (e *Engine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := domain.NewSnapshot(resolver.Durable(e.root, e.path))
	snap.UpdatedAt = e.now()
	return snap
}

// Outstanding returns the number of commands started and not yet completed.
func (e *Engine) Outstanding() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.pending {
		n += c
	}
	return n
}

// effects collects what a locked section decided to do once the lock is gone.
type effects struct {
	events    []domain.Event
	runs      []run
	fault     error
	completed *domain.CommandResult
}

type run struct {
	command string
	done    func(domain.CommandResult)
}

func (e *Engine) emit(fx *effects, name string, args ...any) {
	fx.events = append(fx.events, domain.Event{
		Name:      name,
		Args:      args,
		Path:      e.path.Clone(),
		Timestamp: e.now(),
	})
}

func (e *Engine) emitResult(fx *effects, name string, res domain.CommandResult, args ...any) {
	fx.events = append(fx.events, domain.Event{
		Name:      name,
		Args:      args,
		Result:    &res,
		Path:      e.path.Clone(),
		Timestamp: e.now(),
	})
}

func (e *Engine) pathChanged(fx *effects) {
	e.logger.Debug("path changed", "path", e.path.String())
	e.emit(fx, domain.EventPathChanged)
}

// setFault stops the engine. The returned error is the one Activate reports.
func (e *Engine) setFault(fx *effects, op string, err error) error {
	fe := &domain.FaultError{Op: op, Path: e.path.Clone(), Err: err}
	e.fault = fe
	fx.fault = fe
	e.logger.Error("engine faulted", "op", op, "path", e.path.String(), "err", err)
	return fe
}

// commit publishes the collected events and starts the collected commands.
// It must be called without holding the lock.
func (e *Engine) commit(ctx context.Context, fx *effects) {
	for _, ev := range fx.events {
		if ev.Name == domain.EventPathChanged && e.hooks.OnPathChanged != nil {
			e.hooks.OnPathChanged(ctx, ev.Path)
		}
		e.publisher.Publish(ctx, ev)
	}
	if fx.completed != nil && e.hooks.OnCommandComplete != nil {
		e.hooks.OnCommandComplete(ctx, *fx.completed)
	}
	if fx.fault != nil && e.hooks.OnFault != nil {
		e.hooks.OnFault(ctx, fx.fault)
	}
	for _, r := range fx.runs {
		if e.hooks.OnCommandStart != nil {
			e.hooks.OnCommandStart(ctx, r.command)
		}
		e.logger.Debug("running command", "command", r.command)
		e.runner.Run(e.ctx, r.command, r.done)
	}
}

// locked runs fn under the lock and commits its effects afterwards.
func (e *Engine) locked(ctx context.Context, fn func(fx *effects)) {
	fx := &effects{}
	e.mu.Lock()
	fn(fx)
	e.mu.Unlock()
	e.commit(ctx, fx)
}

type unavailableRunner struct{}

func (unavailableRunner) Run(_ context.Context, command string, done func(domain.CommandResult)) {
	go done(domain.CommandResult{Command: command, Err: ErrNoRunner, ExitCode: -1})
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domain.Event) {}
