package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/remotedocs/internal/config"
	"git.home.luguber.info/inful/remotedocs/internal/content"
	rderrors "git.home.luguber.info/inful/remotedocs/internal/errors"
	"git.home.luguber.info/inful/remotedocs/internal/site"
)

// fakeLoader returns the scripted result and counts passes.
type fakeLoader struct {
	mu      sync.Mutex
	calls   int
	failed  []site.Failure
	err     error
	plugins []content.PluginEntry
}

func (f *fakeLoader) Load(context.Context) (*site.Config, *site.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, nil, f.err
	}
	cfg := site.Assemble(config.Default().Site, f.plugins, time.Now())
	summary := &site.Summary{
		RunID:    "run-" + time.Now().Format("150405.000000"),
		Resolved: []string{"acme/widgets@main"},
		Failed:   append([]site.Failure{}, f.failed...),
		Plugins:  len(f.plugins),
	}
	return cfg, summary, nil
}

func (f *fakeLoader) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func intro() content.PluginEntry {
	return content.PluginEntry{
		Name:          "intro_docs",
		SourceBaseURL: "https://raw.githubusercontent.com/acme/widgets/main/docs/intro",
		OutDir:        "docs/intro",
		Documents:     []string{"page.md"},
		RequestConfig: content.RequestConfig{ResponseType: content.ResponseText},
	}
}

func newTestServer(t *testing.T, loader Loader, opts ...Option) *Server {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))}, opts...)
	return NewServer("127.0.0.1:0", loader, opts...)
}

func do(t *testing.T, s *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestServer_BeforeFirstPass(t *testing.T) {
	s := newTestServer(t, &fakeLoader{})

	w := do(t, s, http.MethodGet, "/config")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(t, s, http.MethodGet, "/plugins")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(t, s, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
	assert.Equal(t, HealthStarting, health.Status)
}

func TestServer_RefreshThenServe(t *testing.T) {
	loader := &fakeLoader{plugins: []content.PluginEntry{intro()}}
	s := newTestServer(t, loader)

	w := do(t, s, http.MethodPost, "/refresh")
	require.Equal(t, http.StatusOK, w.Code)
	var refresh RefreshResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&refresh))
	assert.Equal(t, "ok", refresh.Status)
	assert.Equal(t, 1, refresh.Summary.Plugins)

	w = do(t, s, http.MethodGet, "/config")
	require.Equal(t, http.StatusOK, w.Code)
	var doc map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&doc))
	assert.Equal(t, "Documentation Site", doc["title"])
	assert.Len(t, doc["plugins"], 1)

	w = do(t, s, http.MethodGet, "/plugins")
	require.Equal(t, http.StatusOK, w.Code)
	var plugins []content.PluginEntry
	require.NoError(t, json.NewDecoder(w.Body).Decode(&plugins))
	assert.Equal(t, []content.PluginEntry{intro()}, plugins)

	w = do(t, s, http.MethodGet, "/healthz")
	var health HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
	assert.Equal(t, HealthHealthy, health.Status)
	assert.Equal(t, 1, health.Passes)
	assert.Equal(t, 1, health.Resolved)
}

func TestServer_PartialPassIsDegraded(t *testing.T) {
	loader := &fakeLoader{failed: []site.Failure{{Repository: "acme/broken", Branch: "main", Category: "forge"}}}
	s := newTestServer(t, loader)

	w := do(t, s, http.MethodPost, "/refresh")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"partial"`)

	w = do(t, s, http.MethodGet, "/healthz")
	var health HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
	assert.Equal(t, HealthDegraded, health.Status)
	assert.Equal(t, []string{"acme/broken@main"}, health.Failed)
}

func TestServer_FailedPassKeepsPreviousConfig(t *testing.T) {
	loader := &fakeLoader{plugins: []content.PluginEntry{intro()}}
	s := newTestServer(t, loader)
	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	loader.mu.Lock()
	loader.err = rderrors.ConfigNotFound("remoteContent.json")
	loader.mu.Unlock()

	w := do(t, s, http.MethodPost, "/refresh")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/plugins")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, "/healthz")
	var health HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
	assert.Equal(t, HealthDegraded, health.Status)
	assert.NotEmpty(t, health.LastError)
}

func TestServer_RefreshWritesOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "site-config.json")
	s := newTestServer(t, &fakeLoader{plugins: []content.PluginEntry{intro()}}, WithOutputPath(out))

	_, err := s.Refresh(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "intro_docs")
}

func TestServer_Metrics(t *testing.T) {
	reg := prom.NewRegistry()
	counter := prom.NewCounter(prom.CounterOpts{Name: "remotedocs_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	s := newTestServer(t, &fakeLoader{}, WithGatherer(reg))
	w := do(t, s, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "remotedocs_test_total 1")

	without := newTestServer(t, &fakeLoader{})
	assert.Equal(t, http.StatusNotFound, do(t, without, http.MethodGet, "/metrics").Code)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &fakeLoader{})
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodGet, "/refresh").Code)
}

func TestServer_RunServesAndStops(t *testing.T) {
	loader := &fakeLoader{plugins: []content.PluginEntry{intro()}}
	s := newTestServer(t, loader)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, RunOptions{Interval: 20 * time.Millisecond}) }()

	require.Eventually(t, func() bool { return loader.Calls() >= 3 }, 2*time.Second, 10*time.Millisecond,
		"initial pass plus scheduled passes")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestServer_RunRejectsBadInterval(t *testing.T) {
	s := newTestServer(t, &fakeLoader{})
	err := s.Run(context.Background(), RunOptions{Interval: 0})
	require.Error(t, err)
	assert.False(t, errors.Is(err, http.ErrServerClosed))
}
