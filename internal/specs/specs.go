// Package specs reads the YAML search specifications that map search handlers
// (AllFields, Author, Heading, ...) to the index fields they query.
package specs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"gopkg.in/yaml.v3"
)

// DefaultCacheSize is the number of parsed spec files kept in memory.
const DefaultCacheSize = 16

// ErrNotFound is returned when a spec file does not exist.
var ErrNotFound = errors.New("search specs not found")

// FieldBoost is one field searched by a handler, with an optional relevance boost.
type FieldBoost struct {
	Field string  `yaml:"field"`
	Boost float64 `yaml:"boost"`
}

// Spec describes how one search handler is translated into an index query.
type Spec struct {
	QueryFields []FieldBoost `yaml:"query_fields"`
	FilterQuery string       `yaml:"filter_query"`
}

// Set maps handler names to their specs.
type Set map[string]Spec

// Validate checks that every handler names at least one field.
func (s Set) Validate() error {
	for name, spec := range s {
		if len(spec.QueryFields) == 0 {
			return fmt.Errorf("handler %q: at least one query field is required", name)
		}
		for i, f := range spec.QueryFields {
			if f.Field == "" {
				return fmt.Errorf("handler %q: query_fields[%d]: field is required", name, i)
			}
			if f.Boost < 0 {
				return fmt.Errorf("handler %q: query_fields[%d]: boost must not be negative", name, i)
			}
		}
	}
	return nil
}

// Parse decodes a YAML spec document.
func Parse(data []byte) (Set, error) {
	set := Set{}
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse search specs: %w", err)
	}
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search specs: %w", err)
	}
	return set, nil
}

// Reader loads spec files from a directory and caches the parsed result.
// Safe for concurrent use.
type Reader struct {
	dir   string
	cache *lru.Cache[string, Set]
}

// NewReader creates a reader rooted at dir.
func NewReader(dir string, cacheSize int) (*Reader, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, Set](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create specs cache: %w", err)
	}
	return &Reader{dir: dir, cache: cache}, nil
}

// Get returns the parsed specs in file name, reading it on first use.
func (r *Reader) Get(name string) (Set, error) {
	if set, ok := r.cache.Get(name); ok {
		return set, nil
	}

	path := filepath.Join(r.dir, filepath.Clean("/"+name))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("read search specs %s: %w", name, err)
	}

	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	r.cache.Add(name, set)
	return set, nil
}
