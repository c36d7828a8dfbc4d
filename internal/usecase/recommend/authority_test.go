package recommend

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/discovery/internal/domain/search/query"
	"github.com/kailas-cloud/discovery/internal/domain/search/result"
)

func TestAuthority_CrossReferenceQuery(t *testing.T) {
	s := &mockSearcher{}
	m := NewAuthorityRecommend("", s, nil)
	m.Init(mockParams{"lookfor": "Twain"})
	m.Process(context.Background(), mockResults("basic"))

	if s.called != 1 {
		t.Fatalf("expected 1 search, got %d", s.called)
	}
	g, ok := s.lastSpec.(query.Group)
	if !ok {
		t.Fatalf("expected query.Group, got %T", s.lastSpec)
	}
	if g.Join() != query.And {
		t.Errorf("join = %q", g.Join())
	}
	cs := g.Clauses()
	if len(cs) != 2 {
		t.Fatalf("clauses = %d", len(cs))
	}
	if cs[0].Bool() != query.And || cs[0].Query().Lookfor() != "Twain" || cs[0].Query().Handler() != "Heading" {
		t.Errorf("clause 0 = %v %q %q", cs[0].Bool(), cs[0].Query().Lookfor(), cs[0].Query().Handler())
	}
	if cs[1].Bool() != query.Not || cs[1].Query().Lookfor() != "Twain" || cs[1].Query().Handler() != "MainHeading" {
		t.Errorf("clause 1 = %v %q %q", cs[1].Bool(), cs[1].Query().Lookfor(), cs[1].Query().Handler())
	}
	if s.lastOffset != 0 || s.lastLimit != AuthorityLimit {
		t.Errorf("offset=%d limit=%d", s.lastOffset, s.lastLimit)
	}
	if len(s.lastParams["fq"]) != 0 {
		t.Errorf("unexpected filters: %v", s.lastParams)
	}
}

func TestAuthority_Dedup(t *testing.T) {
	s := &mockSearcher{coll: collection(
		record("a1", "Twain, Mark"),
		record("a2", "Clemens, Samuel"),
		record("a3", "Twain, Mark"),
	)}
	m := NewAuthorityRecommend("", s, nil)
	m.Init(mockParams{"lookfor": "Twain"})
	m.Process(context.Background(), mockResults("basic"))

	want := []result.Heading{{ID: "a1", Heading: "Twain, Mark"}, {ID: "a2", Heading: "Clemens, Samuel"}}
	if got := m.Results(); !reflect.DeepEqual(got, want) {
		t.Errorf("Results() = %v, want %v", got, want)
	}
}

func TestAuthority_HiddenFilters(t *testing.T) {
	s := &mockSearcher{}
	m := NewAuthorityRecommend("source:Local:type:Personal", s, nil)
	m.Init(mockParams{"lookfor": "Twain"})
	m.Process(context.Background(), mockResults("basic"))

	want := []string{"source:(Local)", "type:(Personal)"}
	if got := s.lastParams["fq"]; !reflect.DeepEqual(got, want) {
		t.Errorf("fq = %v, want %v", got, want)
	}
}

func TestAuthority_TrailingTokenDropped(t *testing.T) {
	s := &mockSearcher{}
	m := NewAuthorityRecommend("source:Local:type", s, nil)

	if n := len(m.Filters()); n != 1 {
		t.Fatalf("filters = %d, want 1", n)
	}
	m.Init(mockParams{"lookfor": "Twain"})
	m.Process(context.Background(), mockResults("basic"))
	if got := s.lastParams["fq"]; len(got) != 1 || got[0] != "source:(Local)" {
		t.Errorf("fq = %v", got)
	}
}

func TestAuthority_EmptyPairsDropped(t *testing.T) {
	s := &mockSearcher{}
	m := NewAuthorityRecommend("::format:Book", s, nil)
	m.Init(mockParams{"lookfor": "Twain"})
	m.Process(context.Background(), mockResults("basic"))

	want := []string{"format:(Book)"}
	if got := s.lastParams["fq"]; !reflect.DeepEqual(got, want) {
		t.Errorf("fq = %v, want %v", got, want)
	}
}

func TestAuthority_AdvancedSkipped(t *testing.T) {
	s := &mockSearcher{coll: collection(record("a1", "Twain, Mark"))}
	m := NewAuthorityRecommend("", s, nil)
	m.Init(mockParams{"lookfor": "Twain"})
	m.Process(context.Background(), mockResults("advanced"))

	if s.called != 0 {
		t.Errorf("expected no search for advanced, got %d", s.called)
	}
	if got := m.Results(); got == nil || len(got) != 0 {
		t.Errorf("Results() = %#v, want empty non-nil", got)
	}
}

func TestAuthority_NoTermSkipped(t *testing.T) {
	tests := map[string]mockParams{
		"missing":    {},
		"empty":      {"lookfor": ""},
		"whitespace": {"lookfor": "   \t"},
	}
	for name, params := range tests {
		t.Run(name, func(t *testing.T) {
			s := &mockSearcher{}
			m := NewAuthorityRecommend("", s, nil)
			m.Init(params)
			m.Process(context.Background(), mockResults("basic"))

			if s.called != 0 {
				t.Errorf("expected no search without term, got %d", s.called)
			}
		})
	}
}

func TestAuthority_SearchErrorLeavesResultsEmpty(t *testing.T) {
	s := &mockSearcher{err: errors.New("connection refused")}
	m := NewAuthorityRecommend("", s, nil)
	m.Init(mockParams{"lookfor": "Twain"})
	m.Process(context.Background(), mockResults("basic"))

	if got := m.Results(); got == nil || len(got) != 0 {
		t.Errorf("Results() = %#v, want empty non-nil", got)
	}
}

func TestAuthority_ResultsAreCopies(t *testing.T) {
	s := &mockSearcher{coll: collection(record("a1", "Twain, Mark"))}
	m := NewAuthorityRecommend("", s, nil)
	m.Init(mockParams{"lookfor": "Twain"})
	m.Process(context.Background(), mockResults("basic"))

	got := m.Results()
	got[0].Heading = "changed"
	if m.Results()[0].Heading != "Twain, Mark" {
		t.Error("Results() must return a copy")
	}
}

func TestAuthority_Init(t *testing.T) {
	m := NewAuthorityRecommend("", &mockSearcher{}, nil)
	m.Init(mockParams{"lookfor": "Clemens"})
	if m.Lookfor() != "Clemens" || m.Name() != AuthorityName {
		t.Errorf("lookfor=%q name=%q", m.Lookfor(), m.Name())
	}
}
