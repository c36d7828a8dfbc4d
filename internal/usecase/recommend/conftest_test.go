package recommend

import (
	"context"
	"net/url"

	"github.com/kailas-cloud/discovery/internal/domain/search/query"
	"github.com/kailas-cloud/discovery/internal/domain/search/result"
)

// --- Mocks ---

type mockSearcher struct {
	coll       *result.Collection
	err        error
	called     int
	lastSpec   query.Spec
	lastOffset int
	lastLimit  int
	lastParams url.Values
}

func (m *mockSearcher) Search(
	_ context.Context, spec query.Spec, offset, limit int, params url.Values,
) (*result.Collection, error) {
	m.called++
	m.lastSpec = spec
	m.lastOffset = offset
	m.lastLimit = limit
	m.lastParams = params
	if m.err != nil {
		return nil, m.err
	}
	if m.coll == nil {
		return &result.Collection{}, nil
	}
	return m.coll, nil
}

type mockParams map[string]string

func (m mockParams) Get(name string) string { return m[name] }

type mockResults string

func (m mockResults) SearchType() string { return string(m) }

func record(id, heading string) result.Record {
	return result.New(id, heading, nil, nil, 0, nil, nil)
}

func collection(records ...result.Record) *result.Collection {
	return &result.Collection{Total: len(records), Records: records}
}
