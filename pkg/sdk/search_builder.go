package discovery

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/kailas-cloud/discovery/internal/domain/search/request"
)

// Bool combines advanced search rows.
type Bool string

// Row operators.
const (
	And Bool = "AND"
	Or  Bool = "OR"
	Not Bool = "NOT"
)

type row struct {
	op      Bool
	lookfor string
	handler string
}

// SearchBuilder is a fluent builder for catalog searches.
// Adding a Row switches the search to advanced mode, which skips authority recommendations.
type SearchBuilder struct {
	client *Client

	lookfor string
	handler string
	page    int
	limit   int

	join Bool
	rows []row
}

// Type sets the search handler (AllFields, Title, Author, ...).
func (b *SearchBuilder) Type(handler string) *SearchBuilder {
	b.handler = handler
	return b
}

// Page sets the 1-based result page.
func (b *SearchBuilder) Page(n int) *SearchBuilder {
	b.page = n
	return b
}

// Limit sets the page size.
func (b *SearchBuilder) Limit(n int) *SearchBuilder {
	b.limit = n
	return b
}

// Row adds an advanced search row.
func (b *SearchBuilder) Row(op Bool, lookfor, handler string) *SearchBuilder {
	b.rows = append(b.rows, row{op: op, lookfor: lookfor, handler: handler})
	return b
}

// Join sets how advanced rows are combined. Default: AND.
func (b *SearchBuilder) Join(op Bool) *SearchBuilder {
	b.join = op
	return b
}

// Values returns the request parameters the search sends.
func (b *SearchBuilder) Values() url.Values {
	v := url.Values{}
	if b.lookfor != "" {
		v.Set("lookfor", b.lookfor)
	}
	if b.handler != "" {
		v.Set("type", b.handler)
	}
	if b.page > 0 {
		v.Set("page", strconv.Itoa(b.page))
	}
	if b.limit > 0 {
		v.Set("limit", strconv.Itoa(b.limit))
	}
	if b.join != "" {
		v.Set("join", string(b.join))
	}
	for i, r := range b.rows {
		n := strconv.Itoa(i)
		v.Set("lookfor"+n, r.lookfor)
		if r.handler != "" {
			v.Set("type"+n, r.handler)
		}
		if r.op != "" {
			v.Set("bool"+n, string(r.op))
		}
	}
	return v
}

// Do executes the search.
func (b *SearchBuilder) Do(ctx context.Context) (*SearchResult, error) {
	req, err := request.FromValues(b.Values())
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	resp, err := b.client.searchSvc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	out := &SearchResult{
		Total:           resp.Total,
		Offset:          resp.Offset,
		Records:         make([]Record, len(resp.Records)),
		Recommendations: make(map[string][]Heading, len(resp.Recommendations)),
	}
	for i := range resp.Records {
		out.Records[i] = recordFromDomain(&resp.Records[i])
	}
	for name, hs := range resp.Recommendations {
		out.Recommendations[name] = headingsFromDomain(hs)
	}
	return out, nil
}
