package result

// Heading is a single authority suggestion: the record id and its display heading.
type Heading struct {
	ID      string `json:"id"`
	Heading string `json:"heading"`
}

// HeadingSet accumulates headings in arrival order, keeping the first of each heading text.
// Not safe for concurrent use.
type HeadingSet struct {
	items []Heading
	seen  map[string]struct{}
}

// NewHeadingSet creates an empty set.
func NewHeadingSet() *HeadingSet {
	return &HeadingSet{items: []Heading{}, seen: make(map[string]struct{})}
}

// Add appends h unless a heading with the same text is already present.
// Reports whether h was added.
func (s *HeadingSet) Add(h Heading) bool {
	if s.Contains(h.Heading) {
		return false
	}
	s.seen[h.Heading] = struct{}{}
	s.items = append(s.items, h)
	return true
}

// Contains reports whether a heading with this text was added.
func (s *HeadingSet) Contains(heading string) bool {
	_, ok := s.seen[heading]
	return ok
}

// Len returns the number of distinct headings.
func (s *HeadingSet) Len() int { return len(s.items) }

// Items returns a copy of the accumulated headings.
func (s *HeadingSet) Items() []Heading {
	out := make([]Heading, len(s.items))
	copy(out, s.items)
	return out
}
