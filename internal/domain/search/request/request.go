package request

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/kailas-cloud/discovery/internal/domain"
	"github.com/kailas-cloud/discovery/internal/domain/search/mode"
	"github.com/kailas-cloud/discovery/internal/domain/search/query"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search term length.
	MaxQueryLength = 4096
	// MaxAdvancedRows caps the number of lookforN rows read from a request.
	MaxAdvancedRows = 32
	DefaultLimit    = 20
	MaxLimit        = 100
	MaxPage         = 1000
)

// Request is a validated inbound search.
type Request struct {
	searchMode mode.Mode
	spec       query.Spec
	lookfor    string
	handler    string
	page       int
	limit      int
	params     url.Values
}

// FromValues parses query-string parameters into a Request.
// A request carrying lookfor0 is advanced: rows lookforN/typeN/boolN are read until the
// first missing lookforN and combined with join (default AND). Otherwise lookfor/type
// form a basic search; an empty lookfor matches everything.
func FromValues(v url.Values) (Request, error) {
	r := Request{params: cloneValues(v)}

	var err error
	if r.page, err = intParam(v, "page", 1); err != nil {
		return Request{}, err
	}
	if r.page < 1 || r.page > MaxPage {
		return Request{}, fmt.Errorf("%w: page must be between 1 and %d", domain.ErrInvalidRequest, MaxPage)
	}
	if r.limit, err = intParam(v, "limit", DefaultLimit); err != nil {
		return Request{}, err
	}
	if r.limit <= 0 {
		r.limit = DefaultLimit
	}
	if r.limit > MaxLimit {
		r.limit = MaxLimit
	}

	if v.Get("lookfor0") != "" {
		r.searchMode = mode.Advanced
		r.spec, err = parseAdvanced(v)
		if err != nil {
			return Request{}, err
		}
		return r, nil
	}

	r.searchMode = mode.Basic
	r.lookfor = v.Get("lookfor")
	if len(r.lookfor) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: lookfor too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	r.handler = v.Get("type")
	if r.handler == "" {
		r.handler = domain.DefaultHandler
	}
	r.spec = query.New(r.lookfor, r.handler)
	return r, nil
}

func parseAdvanced(v url.Values) (query.Group, error) {
	join := query.Bool(v.Get("join"))
	if join == "" {
		join = query.And
	}

	var clauses []query.Clause
	for i := 0; i < MaxAdvancedRows; i++ {
		n := strconv.Itoa(i)
		lookfor := v.Get("lookfor" + n)
		if lookfor == "" {
			break
		}
		if len(lookfor) > MaxQueryLength {
			return query.Group{}, fmt.Errorf("%w: lookfor%s too long (max %d chars)",
				domain.ErrInvalidRequest, n, MaxQueryLength)
		}
		handler := v.Get("type" + n)
		if handler == "" {
			handler = domain.DefaultHandler
		}
		op := query.Bool(v.Get("bool" + n))
		if op == "" {
			op = query.And
		}
		c, err := query.NewClause(op, query.New(lookfor, handler))
		if err != nil {
			return query.Group{}, fmt.Errorf("%w: bool%s: %w", domain.ErrInvalidRequest, n, err)
		}
		clauses = append(clauses, c)
	}

	g, err := query.NewGroup(join, clauses...)
	if err != nil {
		return query.Group{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}
	return g, nil
}

func intParam(v url.Values, name string, def int) (int, error) {
	s := v.Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidRequest, name)
	}
	return n, nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// Mode returns whether the search is basic or advanced.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// SearchType returns the mode as a plain string.
func (r *Request) SearchType() string { return string(r.searchMode) }

// Query returns the structured query to send to the index.
func (r *Request) Query() query.Spec { return r.spec }

// Lookfor returns the basic-search term (empty for advanced searches).
func (r *Request) Lookfor() string { return r.lookfor }

// Handler returns the basic-search handler.
func (r *Request) Handler() string { return r.handler }

// Page returns the 1-based page number.
func (r *Request) Page() int { return r.page }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Offset returns the index of the first record on the page.
func (r *Request) Offset() int { return (r.page - 1) * r.limit }

// Get returns the first raw value of a request parameter.
func (r *Request) Get(name string) string { return r.params.Get(name) }
