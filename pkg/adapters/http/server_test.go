package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/menube/internal/runtime"
	"github.com/aretw0/menube/pkg/domain"
	"github.com/aretw0/menube/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) (http.Handler, *runtime.Engine) {
	t.Helper()
	b := dsl.New()
	tools := b.Add("Tools")
	tools.Add("Build").Command("make")
	tools.Add("Test").Command("make test")
	b.Add("Ping").Emit("pinged", "now")

	streams := NewStreamManager(nil)
	e, err := runtime.NewEngine(b.Nodes(), runtime.WithPublisher(streams))
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return NewHandler(e, streams, nil), e
}

func doRaw(t *testing.T, h http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// do performs a request against an endpoint answering with a MenuView.
func do(t *testing.T, h http.Handler, method, target string, body []byte) (*httptest.ResponseRecorder, domain.MenuView) {
	t.Helper()
	w := doRaw(t, h, method, target, body)

	var view domain.MenuView
	if w.Code == http.StatusOK && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	}
	return w, view
}

func TestServer_Navigation(t *testing.T) {
	h, _ := newTestHandler(t)

	w, view := do(t, h, "GET", "/menu", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{0}, view.Path)
	assert.Empty(t, view.Parent)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "Tools", view.Items[0].Label)
	assert.True(t, view.Items[0].HasChildren)
	assert.Nil(t, view.Moved)

	w, view = do(t, h, "POST", "/down", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, view.Current)
	require.NotNil(t, view.Moved)
	assert.True(t, *view.Moved)

	_, view = do(t, h, "POST", "/down", nil)
	assert.False(t, *view.Moved, "already on the last item")

	do(t, h, "POST", "/up", nil)
	w, view = do(t, h, "POST", "/activate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{0, 0}, view.Path)
	assert.Equal(t, "Tools", view.Parent)
	assert.Equal(t, domain.KindCommand, view.Items[0].Kind)

	_, view = do(t, h, "POST", "/back", nil)
	assert.Equal(t, []int{0}, view.Path)
}

func TestServer_PutPath(t *testing.T) {
	h, e := newTestHandler(t)

	w, view := do(t, h, "PUT", "/path", []byte(`{"path":[0,1]}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{0, 1}, view.Path)

	w, _ = do(t, h, "PUT", "/path", []byte(`{"path":[5]}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
	assert.Equal(t, domain.Path{0, 1}, e.Path())

	w, _ = do(t, h, "PUT", "/path", []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_Introspection(t *testing.T) {
	h, _ := newTestHandler(t)

	w := doRaw(t, h, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)

	w = doRaw(t, h, "GET", "/info", nil)
	assert.Contains(t, w.Body.String(), "menube-http")

	w = doRaw(t, h, "GET", "/tree", nil)
	var tree []*domain.Node
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tree))
	assert.Equal(t, []string{"Tools", "Ping"}, domain.Labels(tree))

	w = doRaw(t, h, "GET", "/graph", nil)
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph TD"))

	w = doRaw(t, h, "OPTIONS", "/menu", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

type faultingEngine struct {
	*runtime.Engine
}

func (faultingEngine) Activate(context.Context) (bool, error) {
	return false, &domain.FaultError{Op: "activate", Path: domain.Path{0, 0}, Err: domain.ErrEmptyMenu}
}

func TestServer_FaultIsServerError(t *testing.T) {
	_, e := newTestHandler(t)
	h := NewHandler(faultingEngine{e}, nil, nil)

	w := doRaw(t, h, "POST", "/activate", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "activate at [0 0]")
}

func TestServer_Events(t *testing.T) {
	h, _ := newTestHandler(t)
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/events?watch=pinged")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	waitFor := func(prefix string) string {
		t.Helper()
		timeout := time.After(2 * time.Second)
		for {
			select {
			case l, ok := <-lines:
				require.True(t, ok, "stream ended")
				if strings.HasPrefix(l, prefix) {
					return l
				}
			case <-timeout:
				t.Fatalf("no line starting with %q", prefix)
			}
		}
	}
	waitFor("data: connected")

	// path_changed is filtered out, only the notify event comes through.
	post := func(path string) {
		r, err := http.Post(srv.URL+path, "application/json", nil)
		require.NoError(t, err)
		_ = r.Body.Close()
	}
	post("/down")
	post("/activate")

	data := waitFor("data: ")
	var ev domain.WireEvent
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(data, "data: ")), &ev))
	assert.Equal(t, "pinged", ev.Name)
	assert.Equal(t, []any{"now"}, ev.Args)
}

func TestStreamManager_Unsubscribe(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, cancel := sm.Subscribe()
	sm.Broadcast("one")
	assert.Equal(t, "one", <-ch)

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	sm.Broadcast("two")
}
