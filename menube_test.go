package menube_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/menube"
	"github.com/aretw0/menube/pkg/domain"
	"github.com/aretw0/menube/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncRunner struct {
	mu       sync.Mutex
	commands []string
	stdout   string
}

func (r *syncRunner) Run(_ context.Context, command string, done func(domain.CommandResult)) {
	r.mu.Lock()
	r.commands = append(r.commands, command)
	out := r.stdout
	r.mu.Unlock()
	done(domain.CommandResult{Command: command, Stdout: out})
}

func TestNew_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "menu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
- label: Tools
  menu:
    - label: Echo
      command: echo hi
      emit: echoed
- label: Quit
  emit: exit
`), 0o644))

	runner := &syncRunner{stdout: "hi\n"}
	m, err := menube.New(path, menube.WithRunner(runner))
	require.NoError(t, err)
	defer m.Close()
	assert.Equal(t, "menu.yaml", m.Name)

	var got []domain.Event
	m.SubscribeAll(func(_ context.Context, ev domain.Event) { got = append(got, ev) })

	ok, err := m.Activate(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = m.Activate(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []string{"echo hi"}, runner.commands)
	require.Len(t, got, 3)
	assert.Equal(t, domain.EventPathChanged, got[0].Name)
	assert.Equal(t, domain.EventCommandCompleted, got[1].Name)
	assert.Equal(t, "echoed", got[2].Name)
	assert.Equal(t, "hi\n", got[2].Result.Stdout)
}

func TestNew_WithLoader(t *testing.T) {
	b := dsl.New()
	b.Add("Ping").Emit("ping", "pong")

	m, err := menube.New("", menube.WithLoader(b.Build()))
	require.NoError(t, err)
	defer m.Close()

	events, cancel := m.Events(4)
	defer cancel()

	_, err = m.Activate(context.Background())
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, "ping", ev.Name)
		assert.Equal(t, []any{"pong"}, ev.Args)
	case <-time.After(time.Second):
		t.Fatal("no event")
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := menube.New("")
	assert.Error(t, err)

	_, err = menube.New(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	b := dsl.New()
	b.Add("Broken").Options("ls", "")
	_, err = menube.New("", menube.WithLoader(b.Build()))
	assert.ErrorContains(t, err, "selectScript")

	m, err := menube.New("", menube.WithLoader(b.Build()), menube.WithLenientValidation())
	require.NoError(t, err)
	m.Close()
}

type recordingPublisher struct {
	names []string
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.Event) {
	p.names = append(p.names, ev.Name)
}

func TestNew_ExtraPublisher(t *testing.T) {
	b := dsl.New()
	b.Add("A").Add("A1")
	pub := &recordingPublisher{}

	m, err := menube.New("", menube.WithLoader(b.Build()), menube.WithPublisher(pub))
	require.NoError(t, err)
	defer m.Close()

	require.True(t, m.Descend())
	assert.Equal(t, []string{domain.EventPathChanged}, pub.names)
}

func TestNew_DefaultShellRunner(t *testing.T) {
	if testing.Short() || runtime.GOOS == "windows" {
		t.Skip("runs a real POSIX shell")
	}
	b := dsl.New()
	b.Add("Echo").Command("echo from-shell")

	m, err := menube.New("", menube.WithLoader(b.Build()))
	require.NoError(t, err)
	defer m.Close()

	done := make(chan domain.Event, 1)
	m.Subscribe(domain.EventCommandCompleted, func(_ context.Context, ev domain.Event) { done <- ev })

	_, err = m.Activate(context.Background())
	require.NoError(t, err)
	m.Wait()

	ev := <-done
	assert.Equal(t, "from-shell\n", ev.Result.Stdout)
}
