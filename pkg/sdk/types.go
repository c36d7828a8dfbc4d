package discovery

import "github.com/kailas-cloud/discovery/internal/domain/search/result"

// Heading is an authority recommendation.
type Heading struct {
	ID      string
	Heading string
}

// Record is a search hit.
type Record struct {
	ID         string
	Heading    string
	UseFor     []string
	SeeAlso    []string
	Score      float64
	Highlights map[string][]string
	Fields     map[string]any
}

// SearchResult is one page of hits plus recommendations keyed by module name.
type SearchResult struct {
	Total           int
	Offset          int
	Records         []Record
	Recommendations map[string][]Heading
}

func recordFromDomain(r *result.Record) Record {
	return Record{
		ID:         r.ID(),
		Heading:    r.Heading(),
		UseFor:     r.UseFor(),
		SeeAlso:    r.SeeAlso(),
		Score:      r.Score(),
		Highlights: r.Highlights(),
		Fields:     r.Fields(),
	}
}

func headingsFromDomain(hs []result.Heading) []Heading {
	out := make([]Heading, len(hs))
	for i, h := range hs {
		out[i] = Heading{ID: h.ID, Heading: h.Heading}
	}
	return out
}
