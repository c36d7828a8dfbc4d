package solr

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/discovery/internal/domain"
	"github.com/kailas-cloud/discovery/internal/domain/search/query"
	"github.com/kailas-cloud/discovery/internal/specs"
)

// MatchAll is the query sent for an empty search term.
const MatchAll = "*:*"

// QueryBuilder translates structured queries into Lucene syntax using search specs.
// Immutable after construction.
type QueryBuilder struct {
	specs specs.Set
}

// NewQueryBuilder creates a builder driven by set. A nil set is valid: every handler
// then searches the field of the same name.
func NewQueryBuilder(set specs.Set) *QueryBuilder {
	cp := make(specs.Set, len(set))
	for k, v := range set {
		cp[k] = v
	}
	return &QueryBuilder{specs: cp}
}

// Build returns the q parameter for spec and the filter queries its handlers require.
func (b *QueryBuilder) Build(spec query.Spec) (string, []string) {
	switch s := spec.(type) {
	case query.Query:
		return b.buildQuery(s)
	case query.Group:
		return b.buildGroup(s)
	default:
		return MatchAll, nil
	}
}

func (b *QueryBuilder) buildQuery(q query.Query) (string, []string) {
	escaped := strings.TrimSpace(Escape(q.Lookfor()))
	if escaped == "" {
		return MatchAll, nil
	}

	spec, ok := b.specs[q.Handler()]
	if !ok {
		if q.Handler() == "" || q.Handler() == domain.DefaultHandler {
			return "(" + escaped + ")", nil
		}
		return q.Handler() + ":(" + escaped + ")", nil
	}

	parts := make([]string, 0, len(spec.QueryFields))
	for _, f := range spec.QueryFields {
		part := f.Field + ":(" + escaped + ")"
		if f.Boost > 0 {
			part += "^" + strconv.FormatFloat(f.Boost, 'f', -1, 64)
		}
		parts = append(parts, part)
	}

	var fqs []string
	if spec.FilterQuery != "" {
		fqs = []string{spec.FilterQuery}
	}
	if len(parts) == 1 {
		return parts[0], fqs
	}
	return "(" + strings.Join(parts, " OR ") + ")", fqs
}

func (b *QueryBuilder) buildGroup(g query.Group) (string, []string) {
	var (
		parts []string
		fqs   []string
		seen  = make(map[string]struct{})
	)
	for _, c := range g.Clauses() {
		s, clauseFQs := b.buildQuery(c.Query())
		if c.Bool() == query.Not {
			s = "NOT " + s
		}
		parts = append(parts, s)
		for _, fq := range clauseFQs {
			if _, ok := seen[fq]; !ok {
				seen[fq] = struct{}{}
				fqs = append(fqs, fq)
			}
		}
	}
	if len(parts) == 0 {
		return MatchAll, nil
	}
	return strings.Join(parts, " "+string(g.Join())+" "), fqs
}

// luceneSpecial are escaped in user terms. Quotes, * and ? are left alone so phrase
// and wildcard searches keep working.
const luceneSpecial = `\+-!(){}[]^~:/&|`

// Escape backslash-escapes Lucene syntax characters in term. When the term holds an
// odd number of double quotes the last one is dropped so phrases stay balanced.
func Escape(term string) string {
	skip := -1
	if strings.Count(term, `"`)%2 == 1 {
		skip = strings.LastIndexByte(term, '"')
	}

	var sb strings.Builder
	sb.Grow(len(term))
	for i, r := range term {
		if i == skip {
			continue
		}
		if strings.ContainsRune(luceneSpecial, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
