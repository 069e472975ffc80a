package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/menube"
	"github.com/aretw0/menube/internal/logging"
	"github.com/aretw0/menube/pkg/adapters/file"
	"github.com/aretw0/menube/pkg/adapters/memory"
	"github.com/aretw0/menube/pkg/adapters/process"
	"github.com/aretw0/menube/pkg/adapters/redis"
	"github.com/aretw0/menube/pkg/observability"
	"github.com/aretw0/menube/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Store kinds accepted by BackendOptions.Store.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// BackendOptions are the settings shared by every command that drives a menu.
type BackendOptions struct {
	MenuPath     string
	LogLevel     string
	LogFile      string
	Store        string
	SessionDir   string
	RedisAddr    string
	RedisEvents  bool
	PendingGuard bool
	RunnerConfig string
	Lenient      bool

	// LogOutput receives text logs. Nil means stderr.
	LogOutput io.Writer

	// Publishers receive every event next to the in-process bus.
	Publishers []ports.Publisher
}

// Backend bundles a loaded menu with its session store and logger.
type Backend struct {
	Menu   *menube.Menu
	Store  ports.PathStore
	Locker ports.SessionLocker
	Redis  *backend.Client
	Logger *slog.Logger

	closers []func() error
}

// NewBackend wires logging, persistence and the runner around the menu at
// opts.MenuPath.
func NewBackend(opts BackendOptions) (*Backend, error) {
	b := &Backend{}

	logger, err := b.newLogger(opts)
	if err != nil {
		return nil, err
	}
	b.Logger = logger

	if err := b.openStore(opts); err != nil {
		_ = b.Close()
		return nil, err
	}

	runnerCfg, err := process.LoadConfig(opts.RunnerConfig)
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	menuOpts := []menube.Option{
		menube.WithLogger(logger),
		menube.WithLifecycleHooks(observability.LoggingHooks(logger)),
		menube.WithPendingGuard(opts.PendingGuard),
		menube.WithRunnerOptions(process.WithConfig(runnerCfg)),
	}
	if opts.Lenient {
		menuOpts = append(menuOpts, menube.WithLenientValidation())
	}
	if opts.RedisEvents {
		if b.Redis == nil {
			b.Redis = redis.NewClient(opts.RedisAddr, "", 0)
			b.closers = append(b.closers, b.Redis.Close)
		}
		menuOpts = append(menuOpts, menube.WithPublisher(redis.NewPublisher(b.Redis, redis.WithPublisherLogger(logger))))
	}
	for _, p := range opts.Publishers {
		menuOpts = append(menuOpts, menube.WithPublisher(p))
	}

	m, err := menube.New(opts.MenuPath, menuOpts...)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.Menu = m
	b.closers = append(b.closers, func() error {
		m.Close()
		m.Wait()
		return nil
	})
	return b, nil
}

func (b *Backend) newLogger(opts BackendOptions) (*slog.Logger, error) {
	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}
	primary := opts.LogOutput
	if primary == nil {
		primary = os.Stderr
	}
	if opts.LogFile == "" {
		return logging.NewToWriters(level, primary), nil
	}
	f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	b.closers = append(b.closers, f.Close)
	return logging.NewToWriters(level, primary, f), nil
}

func (b *Backend) openStore(opts BackendOptions) error {
	store, locker, client, err := OpenStore(opts)
	if err != nil {
		return err
	}
	b.Store, b.Locker, b.Redis = store, locker, client
	if client != nil {
		b.closers = append(b.closers, client.Close)
	}
	return nil
}

// OpenStore opens the session store selected by opts.Store. The redis
// store also returns a locker and the client, which the caller closes.
func OpenStore(opts BackendOptions) (ports.PathStore, ports.SessionLocker, *backend.Client, error) {
	switch opts.Store {
	case "", StoreFile:
		return file.NewStore(opts.SessionDir), nil, nil, nil
	case StoreMemory:
		return memory.NewStore(), nil, nil, nil
	case StoreRedis:
		if opts.RedisAddr == "" {
			return nil, nil, nil, errors.New("--redis-addr is required for the redis store")
		}
		client := redis.NewClient(opts.RedisAddr, "", 0)
		return redis.NewStore(client), redis.NewLocker(client, redis.DefaultPrefix), client, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown store %q (want file, memory or redis)", opts.Store)
	}
}

// Close stops the engine, waits for running commands and releases
// connections, in reverse order of creation.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
