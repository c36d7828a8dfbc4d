package solr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/discovery/internal/db"
)

// fakeSolr serves /solr/{core}/select and /solr/{core}/admin/ping with canned bodies
// and records every query it receives.
type fakeSolr struct {
	mu         sync.Mutex
	requests   []url.Values
	paths      []string
	status     int
	body       string
	pingStatus string
	srv        *httptest.Server
}

func newFakeSolr(t *testing.T, body string) *fakeSolr {
	t.Helper()
	f := &fakeSolr{status: http.StatusOK, body: body, pingStatus: "OK"}

	r := chi.NewRouter()
	r.Get("/solr/{core}/select", func(w http.ResponseWriter, req *http.Request) {
		f.record(req)
		f.mu.Lock()
		status, body := f.status, f.body
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
	r.Get("/solr/{core}/admin/ping", func(w http.ResponseWriter, req *http.Request) {
		f.record(req)
		f.mu.Lock()
		status := f.pingStatus
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"` + status + `"}`))
	})

	f.srv = httptest.NewServer(r)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeSolr) record(req *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req.URL.Query())
	f.paths = append(f.paths, req.URL.Path)
}

func (f *fakeSolr) setStatus(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
}

func (f *fakeSolr) setPingStatus(status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingStatus = status
}

func (f *fakeSolr) coreURL(core string) string {
	return f.srv.URL + "/solr/" + core
}

func (f *fakeSolr) last(t *testing.T) url.Values {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no requests received")
	}
	return f.requests[len(f.requests)-1]
}

func (f *fakeSolr) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func newTestConnector(t *testing.T, cfg ConnectorConfig) *Connector {
	t.Helper()
	c, err := NewConnector(cfg)
	if err != nil {
		t.Fatalf("NewConnector: %v", err)
	}
	return c
}

// mockCache implements Cache for tests.
type mockCache struct {
	data   map[string][]byte
	getErr error
	setErr error
	sets   int
	ttl    time.Duration
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockCache) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.sets++
	m.ttl = ttl
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

const authorityBody = `{
  "responseHeader": {"status": 0, "QTime": 3},
  "response": {"numFound": 3, "start": 0, "docs": [
    {"id": "auth1", "heading": "Twain, Mark", "use_for": ["Clemens, Samuel", "Snodgrass, Quintus Curtius"], "score": 2.5},
    {"id": "auth2", "heading": ["Clemens, Samuel"], "see_also": "Twain, Mark", "score": 1.5},
    {"id": 42, "heading": "Twain, Mark", "score": 1.0}
  ]},
  "highlighting": {"auth1": {"heading": ["{{{{START_HILITE}}}}Twain{{{{END_HILITE}}}}, Mark"]}}
}`
