package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/menube/pkg/domain"
	"go.uber.org/atomic"
)

// DefaultGracePeriod is how long a cancelled command may take to exit after
// being interrupted before it is killed.
const DefaultGracePeriod = 5 * time.Second

// Runner executes menu command lines through the system shell.
// Command lines are passed verbatim: quoting and escaping are the menu author's job.
type Runner struct {
	shell       []string
	baseDir     string
	env         map[string]string
	timeout     time.Duration
	gracePeriod time.Duration
	logger      *slog.Logger

	wg          sync.WaitGroup
	outstanding atomic.Int64
}

// RunnerOption configures the runner.
type RunnerOption func(*Runner)

// WithShell replaces the shell invocation. The command line is appended as
// the last argument.
func WithShell(shell ...string) RunnerOption {
	return func(r *Runner) {
		if len(shell) > 0 {
			r.shell = shell
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) RunnerOption {
	return func(r *Runner) {
		r.baseDir = dir
	}
}

// WithEnv adds variables to the inherited environment.
func WithEnv(env map[string]string) RunnerOption {
	return func(r *Runner) {
		for k, v := range env {
			r.env[k] = v
		}
	}
}

// WithTimeout bounds every command. Zero means no limit.
func WithTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithGracePeriod sets how long an interrupted command may take to exit.
func WithGracePeriod(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.gracePeriod = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithConfig applies a loaded configuration file.
func WithConfig(cfg Config) RunnerOption {
	return func(r *Runner) {
		if len(cfg.Shell) > 0 {
			r.shell = cfg.Shell
		}
		if cfg.Dir != "" {
			r.baseDir = cfg.Dir
		}
		for k, v := range cfg.Env {
			r.env[k] = v
		}
		if cfg.Timeout > 0 {
			r.timeout = cfg.Timeout
		}
	}
}

// NewRunner creates a new Process Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		shell:       defaultShell(),
		env:         make(map[string]string),
		gracePeriod: DefaultGracePeriod,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

func defaultShell() []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/C"}
	}
	return []string{"sh", "-c"}
}

// Run starts the command in the background and calls done with its result.
// done runs on the command's goroutine.
func (r *Runner) Run(ctx context.Context, commandLine string, done func(domain.CommandResult)) {
	r.wg.Add(1)
	r.outstanding.Inc()
	go func() {
		defer r.wg.Done()
		res := r.Exec(ctx, commandLine)
		r.outstanding.Dec()
		done(res)
	}()
}

// Exec runs the command and waits for it. A non-zero exit, a timeout or a
// start failure is reported in the result, never as a Go error.
func (r *Runner) Exec(ctx context.Context, commandLine string) domain.CommandResult {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := append(append([]string(nil), r.shell[1:]...), commandLine)
	cmd := exec.CommandContext(ctx, r.shell[0], args...)
	cmd.Dir = r.baseDir
	cmd.Env = append(cmd.Environ(), r.environ()...)
	cmd.Cancel = func() error {
		if runtime.GOOS == "windows" {
			return cmd.Process.Kill()
		}
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = r.gracePeriod

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := domain.CommandResult{
		Command:  commandLine,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		res.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		res.Err = err
		r.logger.Debug("process failed", "command", commandLine, "exit_code", res.ExitCode, "err", err)
	}
	return res
}

// Outstanding returns the number of commands started by Run that have not finished.
func (r *Runner) Outstanding() int64 {
	return r.outstanding.Load()
}

// Wait blocks until every command started by Run has completed and its
// callback returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) environ() []string {
	keys := make([]string, 0, len(r.env))
	for k := range r.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+r.env[k])
	}
	return out
}
