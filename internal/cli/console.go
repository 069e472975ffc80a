package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/aretw0/menube/internal/presentation/tui"
	"github.com/aretw0/menube/pkg/domain"
	"github.com/aretw0/menube/pkg/ports"
)

// DefaultQuitEvents end the console when published.
var DefaultQuitEvents = []string{"exit", "shutdown"}

// Navigator is the engine surface the console drives.
type Navigator interface {
	MoveUp() bool
	MoveDown() bool
	BackOut() bool
	Activate(ctx context.Context) (bool, error)
	Path() domain.Path
	ActiveSiblings() ([]*domain.Node, error)
	ParentNode() (*domain.Node, error)
	SubscribeAll(h ports.Handler) (cancel func())
}

// Console reads keys from a terminal and draws the menu after every change.
type Console struct {
	nav      Navigator
	renderer *tui.Renderer
	in       io.Reader
	quitOn   map[string]bool
	logger   *slog.Logger

	// drawMu serializes output from the key loop and event handlers.
	drawMu sync.Mutex
}

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithQuitEvents replaces DefaultQuitEvents.
func WithQuitEvents(names ...string) ConsoleOption {
	return func(c *Console) {
		c.quitOn = make(map[string]bool, len(names))
		for _, n := range names {
			c.quitOn[n] = true
		}
	}
}

// WithConsoleLogger sets the logger.
func WithConsoleLogger(logger *slog.Logger) ConsoleOption {
	return func(c *Console) {
		c.logger = logger
	}
}

// NewConsole creates a console reading keys from in and drawing with r.
func NewConsole(nav Navigator, in io.Reader, r *tui.Renderer, opts ...ConsoleOption) *Console {
	c := &Console{
		nav:      nav,
		renderer: r,
		in:       in,
		logger:   slog.New(slog.DiscardHandler),
	}
	WithQuitEvents(DefaultQuitEvents...)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run draws the menu and processes keys until the user quits, a quit event
// is published, the input ends or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	unsubscribe := c.nav.SubscribeAll(func(_ context.Context, ev domain.Event) {
		c.handleEvent(ev, cancel)
	})
	defer unsubscribe()

	c.draw()

	keys := make(chan []Key)
	readErr := make(chan error, 1)
	go c.readKeys(ctx, keys, readErr)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		case batch := <-keys:
			for _, k := range batch {
				if quit := c.dispatch(ctx, k); quit {
					return nil
				}
			}
		}
	}
}

// readKeys blocks on the input. A read pending when Run returns is
// abandoned; the process is about to exit or the reader is closed by the caller.
func (c *Console) readKeys(ctx context.Context, keys chan<- []Key, errc chan<- error) {
	var dec KeyDecoder
	buf := make([]byte, 64)
	for {
		n, err := c.in.Read(buf)
		if n > 0 {
			batch := dec.Feed(buf[:n])
			if len(batch) > 0 {
				select {
				case keys <- batch:
				case <-ctx.Done():
					return
				}
			}
		}
		if err != nil {
			if tail := dec.Flush(); len(tail) > 0 {
				select {
				case keys <- tail:
				case <-ctx.Done():
					return
				}
			}
			errc <- err
			return
		}
	}
}

func (c *Console) dispatch(ctx context.Context, k Key) (quit bool) {
	switch k {
	case KeyUp:
		c.nav.MoveUp()
	case KeyDown:
		c.nav.MoveDown()
	case KeyBack:
		c.nav.BackOut()
	case KeyActivate:
		if _, err := c.nav.Activate(ctx); err != nil {
			c.logger.Error("activation failed", "path", c.nav.Path().String(), "err", err)
			c.drawMu.Lock()
			c.renderer.Error(err)
			c.drawMu.Unlock()
		}
	case KeyHelp:
		c.drawMu.Lock()
		c.renderer.Help()
		c.drawMu.Unlock()
		c.draw()
	case KeyQuit:
		return true
	}
	return false
}

func (c *Console) handleEvent(ev domain.Event, quit context.CancelFunc) {
	if ev.Name == domain.EventPathChanged {
		c.draw()
		return
	}
	c.drawMu.Lock()
	c.renderer.Event(ev)
	c.drawMu.Unlock()
	if c.quitOn[ev.Name] {
		c.logger.Info("quit event received", "event", ev.Name)
		quit()
	}
}

func (c *Console) draw() {
	siblings, err := c.nav.ActiveSiblings()
	if err != nil {
		c.drawMu.Lock()
		c.renderer.Error(err)
		c.drawMu.Unlock()
		return
	}
	parent, err := c.nav.ParentNode()
	if err != nil {
		c.drawMu.Lock()
		c.renderer.Error(err)
		c.drawMu.Unlock()
		return
	}

	c.drawMu.Lock()
	defer c.drawMu.Unlock()
	c.renderer.Menu(parent, siblings, c.nav.Path().Last())
}
