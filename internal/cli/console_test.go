package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/menube/internal/presentation/tui"
	"github.com/aretw0/menube/internal/runtime"
	"github.com/aretw0/menube/pkg/adapters/memory"
	"github.com/aretw0/menube/pkg/dsl"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// busEngine pairs an engine with the bus it publishes to, like menube.Menu.
type busEngine struct {
	*runtime.Engine
	*memory.Bus
}

func newConsole(t *testing.T, in io.Reader, opts ...ConsoleOption) (*Console, *bytes.Buffer) {
	t.Helper()
	b := dsl.New()
	b.Add("Tools").Add("Build").Command("make")
	b.Add("Quit").Emit("exit")
	b.Add("Say").Emit("hello", "world")

	bus := memory.NewBus()
	e, err := runtime.NewEngine(b.Nodes(), runtime.WithPublisher(bus))
	require.NoError(t, err)
	t.Cleanup(e.Close)

	var out bytes.Buffer
	r := tui.NewRenderer(&out,
		tui.WithProfile(termenv.Ascii),
		tui.WithMarkdown(func(s string) (string, error) { return s, nil }),
	)
	return NewConsole(busEngine{e, bus}, in, r, opts...), &out
}

func runConsole(t *testing.T, c *Console, ctx context.Context) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("console did not stop")
		return nil
	}
}

func TestConsole_QuitKey(t *testing.T) {
	c, out := newConsole(t, strings.NewReader("q"))
	require.NoError(t, runConsole(t, c, context.Background()))
	assert.Contains(t, out.String(), "> Tools ›")
}

func TestConsole_Navigate(t *testing.T) {
	c, out := newConsole(t, strings.NewReader("lq"))
	require.NoError(t, runConsole(t, c, context.Background()))

	got := out.String()
	assert.Contains(t, got, "--- Menu (Tools) ---")
	assert.Contains(t, got, "> Build")
}

func TestConsole_QuitEvent(t *testing.T) {
	// The reader never ends: only the exit event can stop the console.
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	c, out := newConsole(t, pr)

	go func() { _, _ = pw.Write([]byte("j\r")) }()
	require.NoError(t, runConsole(t, c, context.Background()))
	assert.Contains(t, out.String(), "EVENT exit")
}

func TestConsole_CustomQuitEvents(t *testing.T) {
	c, out := newConsole(t, strings.NewReader("jj\r\x1b[Aq"), WithQuitEvents("never"))
	require.NoError(t, runConsole(t, c, context.Background()))

	got := out.String()
	assert.Contains(t, got, "EVENT hello: world")
	assert.Contains(t, got, "> Quit", "moved back up after the notify")
}

func TestConsole_EndOfInput(t *testing.T) {
	c, _ := newConsole(t, strings.NewReader(""))
	assert.NoError(t, runConsole(t, c, context.Background()))
}

func TestConsole_ContextCancel(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	c, _ := newConsole(t, pr)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	assert.NoError(t, runConsole(t, c, ctx))
}

func TestConsole_Help(t *testing.T) {
	c, out := newConsole(t, strings.NewReader("?q"))
	require.NoError(t, runConsole(t, c, context.Background()))
	assert.Contains(t, out.String(), "| q / ctrl+c | quit |")
}
