package result

// Record is a single document returned by the index.
type Record struct {
	id         string
	heading    string
	useFor     []string
	seeAlso    []string
	score      float64
	highlights map[string][]string
	fields     map[string]any
}

// New creates a record.
func New(
	id, heading string,
	useFor, seeAlso []string,
	score float64,
	highlights map[string][]string,
	fields map[string]any,
) Record {
	return Record{
		id: id, heading: heading,
		useFor: useFor, seeAlso: seeAlso,
		score: score, highlights: highlights, fields: fields,
	}
}

// ID returns the record's unique identifier.
func (r *Record) ID() string { return r.id }

// Heading returns the record's display heading.
func (r *Record) Heading() string { return r.heading }

// Breadcrumb returns the human-readable label for the record.
func (r *Record) Breadcrumb() string { return r.heading }

// UseFor returns variant headings that point to this one.
func (r *Record) UseFor() []string { return r.useFor }

// SeeAlso returns related headings.
func (r *Record) SeeAlso() []string { return r.seeAlso }

// Score returns the relevance score.
func (r *Record) Score() float64 { return r.score }

// Highlights returns highlighted snippets keyed by field.
func (r *Record) Highlights() map[string][]string { return r.highlights }

// Fields returns all stored fields as returned by the index.
func (r *Record) Fields() map[string]any { return r.fields }

// Collection is one page of records plus the total hit count.
type Collection struct {
	Total   int
	Offset  int
	Records []Record
}
