package backend

import (
	"errors"

	"github.com/kailas-cloud/discovery/internal/specs"
)

type mockSpecLoader struct {
	sets  map[string]specs.Set
	err   error
	calls []string
}

func (m *mockSpecLoader) Get(name string) (specs.Set, error) {
	m.calls = append(m.calls, name)
	if m.err != nil {
		return nil, m.err
	}
	set, ok := m.sets[name]
	if !ok {
		return nil, specs.ErrNotFound
	}
	return set, nil
}

var errBrokenSpecs = errors.New("yaml: line 3: mapping values are not allowed")
