package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aretw0/menube/internal/presentation/tui"
	"github.com/aretw0/menube/pkg/domain"
	"golang.org/x/term"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	BackendOptions

	SessionID  string
	Fresh      bool
	NoBanner   bool
	QuitEvents []string

	// In and Out default to the process terminal.
	In  io.Reader
	Out io.Writer
}

// Execute runs an interactive console session until the user quits.
func Execute(opts RunOptions) error {
	in, out := opts.In, opts.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	b, err := NewBackend(opts.BackendOptions)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			b.Logger.Warn("shutdown", "err", err)
		}
	}()

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	if opts.SessionID != "" {
		sess := NewSession(opts.SessionID, b.Store, b.Locker, b.Logger)
		if err := sess.Acquire(sigCtx, 5*time.Second); err != nil {
			return err
		}
		defer func() { _ = sess.Release(context.Background()) }()

		if opts.Fresh {
			if err := sess.Reset(sigCtx); err != nil {
				b.Logger.Warn("failed to reset session", "session_id", sess.ID, "err", err)
			}
		}
		resumed, err := sess.Resume(sigCtx, b.Menu)
		if err != nil {
			return err
		}
		if resumed {
			printSystemMessage(out, "Resuming session '%s' at %s.", sess.ID, b.Menu.Path())
		} else {
			printSystemMessage(out, "Session '%s' active.", sess.ID)
		}

		stop := b.Menu.Subscribe(domain.EventPathChanged, func(ctx context.Context, _ domain.Event) {
			if err := sess.Save(ctx, b.Menu); err != nil {
				b.Logger.Warn("failed to save session", "session_id", sess.ID, "err", err)
			}
		})
		defer stop()
	}

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer func() { _ = term.Restore(int(f.Fd()), state) }()
	}

	if !opts.NoBanner {
		tui.PrintBanner(out)
	}

	consoleOpts := []ConsoleOption{WithConsoleLogger(b.Logger)}
	if len(opts.QuitEvents) > 0 {
		consoleOpts = append(consoleOpts, WithQuitEvents(opts.QuitEvents...))
	}
	console := NewConsole(b.Menu, in, tui.NewRenderer(out), consoleOpts...)

	runErr := console.Run(sigCtx)
	if sig := sigCtx.Signal(); sig != nil {
		printSystemMessage(out, "Interrupted (%s) at %s.", sig, b.Menu.Path())
	}
	return handleExecutionError(runErr)
}
