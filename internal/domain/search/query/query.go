package query

import "fmt"

// Handler names used by the authority cross-reference search.
const (
	HandlerHeading     = "Heading"
	HandlerMainHeading = "MainHeading"
)

// Bool is the operator attached to an advanced-search row.
type Bool string

// Row and join operators.
const (
	And Bool = "AND"
	Or  Bool = "OR"
	Not Bool = "NOT"
)

// IsValid reports whether b is a supported operator.
func (b Bool) IsValid() bool {
	return b == And || b == Or || b == Not
}

// Spec is anything the query builder can translate: a Query or a Group.
type Spec interface {
	spec()
}

// Query is a single term searched with a named handler.
type Query struct {
	lookfor string
	handler string
}

// New creates a query for lookfor using handler.
func New(lookfor, handler string) Query {
	return Query{lookfor: lookfor, handler: handler}
}

// Lookfor returns the raw search term.
func (q Query) Lookfor() string { return q.lookfor }

// Handler returns the search handler (a key into the search specs).
func (q Query) Handler() string { return q.handler }

func (Query) spec() {}

// Clause is one advanced-search row: a query and its operator.
type Clause struct {
	op    Bool
	query Query
}

// NewClause creates an advanced-search row.
func NewClause(op Bool, q Query) (Clause, error) {
	if !op.IsValid() {
		return Clause{}, fmt.Errorf("invalid operator %q", op)
	}
	return Clause{op: op, query: q}, nil
}

// Bool returns the row operator.
func (c Clause) Bool() Bool { return c.op }

// Query returns the row query.
func (c Clause) Query() Query { return c.query }

// Group is a set of clauses combined by a join operator.
type Group struct {
	join    Bool
	clauses []Clause
}

// NewGroup validates and creates a group. NOT is not a valid join.
func NewGroup(join Bool, clauses ...Clause) (Group, error) {
	if join != And && join != Or {
		return Group{}, fmt.Errorf("invalid join operator %q", join)
	}
	if len(clauses) == 0 {
		return Group{}, fmt.Errorf("at least one clause is required")
	}
	cs := make([]Clause, len(clauses))
	copy(cs, clauses)
	return Group{join: join, clauses: cs}, nil
}

// Join returns the operator combining the clauses.
func (g Group) Join() Bool { return g.join }

// Clauses returns a copy of the group's clauses.
func (g Group) Clauses() []Clause {
	out := make([]Clause, len(g.clauses))
	copy(out, g.clauses)
	return out
}

func (Group) spec() {}

// NewCrossReference builds the authority search for term: records where term matches a
// heading variant but not the main heading, so the primary search's hits are excluded.
func NewCrossReference(term string) Group {
	return Group{
		join: And,
		clauses: []Clause{
			{op: And, query: New(term, HandlerHeading)},
			{op: Not, query: New(term, HandlerMainHeading)},
		},
	}
}
