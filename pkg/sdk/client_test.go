package discovery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

const biblioBody = `{"response":{"numFound":1,"start":0,"docs":[
  {"id":"b1","heading":"Adventures of Huckleberry Finn","score":4.2}
]}}`

const authorityBody = `{"response":{"numFound":3,"start":0,"docs":[
  {"id":"a1","heading":"Twain, Mark"},
  {"id":"a2","heading":"Clemens, Samuel"},
  {"id":"a3","heading":"Twain, Mark"}
]}}`

// fakeIndex serves the biblio and authority cores.
type fakeIndex struct {
	mu       sync.Mutex
	queries  map[string][]url.Values
	failCore string
	srv      *httptest.Server
}

func newFakeIndex(t *testing.T) *fakeIndex {
	t.Helper()
	f := &fakeIndex{queries: make(map[string][]url.Values)}
	r := chi.NewRouter()
	r.Get("/solr/{core}/select", func(w http.ResponseWriter, req *http.Request) {
		core := chi.URLParam(req, "core")
		f.mu.Lock()
		f.queries[core] = append(f.queries[core], req.URL.Query())
		fail := f.failCore == core
		f.mu.Unlock()
		if fail {
			http.Error(w, `{"error":{"msg":"core down"}}`, http.StatusServiceUnavailable)
			return
		}
		if core == "authority" {
			_, _ = w.Write([]byte(authorityBody))
			return
		}
		_, _ = w.Write([]byte(biblioBody))
	})
	r.Get("/solr/{core}/admin/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	})
	f.srv = httptest.NewServer(r)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeIndex) setFailCore(core string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failCore = core
}

func (f *fakeIndex) last(core string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	qs := f.queries[core]
	if len(qs) == 0 {
		return nil
	}
	return qs[len(qs)-1]
}

func (f *fakeIndex) count(core string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries[core])
}

func TestNew_NoIndex(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected error when no index url provided")
	}
}

func TestNew_UnknownModule(t *testing.T) {
	_, err := New(WithIndex("http://localhost:8983/solr"), WithRecommendations("SideFacets"))
	if !errors.Is(err, ErrUnknownModule) {
		t.Fatalf("expected ErrUnknownModule, got %v", err)
	}
}

func TestSearch_WithRecommendations(t *testing.T) {
	f := newFakeIndex(t)
	c, err := New(
		WithIndex(f.srv.URL+"/solr"),
		WithTimeout(5*time.Second),
		WithHiddenFilter(Biblio, "format", "Book"),
		WithHighlighting(Biblio),
		WithRecommendations("AuthorityRecommend:source:Local"),
		WithPrometheus(prometheus.NewRegistry()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	res, err := c.Search("Twain").Type("Author").Limit(10).Do(context.Background())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 1 || len(res.Records) != 1 || res.Records[0].ID != "b1" {
		t.Errorf("result = %+v", res)
	}

	bq := f.last("biblio")
	if bq.Get("q") != "Author:(Twain)" || bq.Get("rows") != "10" {
		t.Errorf("biblio query = %v", bq)
	}
	if bq.Get("fq") != `format:"Book"` || bq.Get("hl") != "true" {
		t.Errorf("biblio filters = %v", bq)
	}

	aq := f.last("authority")
	if aq.Get("q") != "Heading:(Twain) AND NOT MainHeading:(Twain)" || aq.Get("fq") != "source:(Local)" {
		t.Errorf("authority query = %v", aq)
	}
	if aq.Get("hl") != "" {
		t.Error("authority core must not inherit biblio highlighting")
	}

	recs := res.Recommendations["AuthorityRecommend"]
	if len(recs) != 2 || recs[0].Heading != "Twain, Mark" || recs[1].Heading != "Clemens, Samuel" {
		t.Errorf("recommendations = %+v", recs)
	}
}

func TestSearch_AdvancedRows(t *testing.T) {
	f := newFakeIndex(t)
	c, err := New(WithIndex(f.srv.URL+"/solr"), WithRecommendations("AuthorityRecommend"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.Search("").
		Row(And, "Twain", "Author").
		Row(Not, "Tom Sawyer", "Title").
		Do(context.Background())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if q := f.last("biblio").Get("q"); q != "Author:(Twain) AND NOT Title:(Tom Sawyer)" {
		t.Errorf("q = %q", q)
	}
	if f.count("authority") != 0 {
		t.Error("advanced search must skip authority recommendations")
	}
}

func TestSearch_InvalidRequest(t *testing.T) {
	f := newFakeIndex(t)
	c, err := New(WithIndex(f.srv.URL + "/solr"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Search("x").Row(Bool("XOR"), "a", "").Do(context.Background())
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestSearch_IndexDown(t *testing.T) {
	f := newFakeIndex(t)
	f.setFailCore("biblio")
	c, err := New(WithIndex(f.srv.URL + "/solr"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err = c.Search("x").Do(context.Background()); !errors.Is(err, ErrIndexUnavailable) {
		t.Errorf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestRecommend(t *testing.T) {
	f := newFakeIndex(t)
	c, err := New(WithIndex(f.srv.URL + "/solr"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	hs, err := c.Recommend(context.Background(), "Twain", "type:Personal")
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(hs) != 2 || hs[0].ID != "a1" {
		t.Errorf("headings = %+v", hs)
	}
	if fq := f.last("authority").Get("fq"); fq != "type:(Personal)" {
		t.Errorf("fq = %q", fq)
	}

	f.setFailCore("authority")
	if _, err := c.Recommend(context.Background(), "Twain", ""); err == nil {
		t.Error("expected index error from Recommend")
	}
}

func TestHealthAndPing(t *testing.T) {
	f := newFakeIndex(t)
	c, err := New(WithIndex(f.srv.URL + "/solr"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	h := c.Health(context.Background())
	if h.Status != "ok" || h.Checks["index.biblio"] != "ok" || h.Checks["index.authority"] != "ok" {
		t.Errorf("health = %+v", h)
	}
}

func TestSearchBuilder_Values(t *testing.T) {
	b := (&Client{}).Search("Twain").Type("Author").Page(2).Limit(5).Join(Or)
	v := b.Values()
	if v.Get("lookfor") != "Twain" || v.Get("type") != "Author" || v.Get("page") != "2" ||
		v.Get("limit") != "5" || v.Get("join") != "OR" {
		t.Errorf("values = %v", v)
	}
}
