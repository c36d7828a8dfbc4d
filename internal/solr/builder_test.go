package solr

import (
	"testing"

	"github.com/kailas-cloud/discovery/internal/domain/search/query"
	"github.com/kailas-cloud/discovery/internal/specs"
)

func mustClause(t *testing.T, op query.Bool, q query.Query) query.Clause {
	t.Helper()
	c, err := query.NewClause(op, q)
	if err != nil {
		t.Fatalf("NewClause: %v", err)
	}
	return c
}

func mustGroup(t *testing.T, join query.Bool, clauses ...query.Clause) query.Group {
	t.Helper()
	g, err := query.NewGroup(join, clauses...)
	if err != nil {
		t.Fatalf("NewGroup: %v", err)
	}
	return g
}

func TestBuild_Query(t *testing.T) {
	set := specs.Set{
		"Heading": {QueryFields: []specs.FieldBoost{{Field: "heading", Boost: 100}}},
		"AllFields": {
			QueryFields: []specs.FieldBoost{{Field: "heading", Boost: 2.5}, {Field: "use_for"}},
			FilterQuery: "record_type:Name",
		},
	}
	b := NewQueryBuilder(set)

	tests := []struct {
		name    string
		q       query.Query
		want    string
		wantFQs []string
	}{
		{"empty term", query.New("  ", "Heading"), MatchAll, nil},
		{"single field with boost", query.New("Twain", "Heading"), "heading:(Twain)^100", nil},
		{
			"several fields",
			query.New("Twain", "AllFields"),
			"(heading:(Twain)^2.5 OR use_for:(Twain))",
			[]string{"record_type:Name"},
		},
		{"no spec for handler", query.New("Twain", "Title"), "Title:(Twain)", nil},
		{"no handler", query.New("Twain", ""), "(Twain)", nil},
		{"escaped term", query.New("C++ (lang)", "Title"), `Title:(C\+\+ \(lang\))`, nil},
		{"unbalanced quote", query.New(`Twain "Mark`, "Heading"), "heading:(Twain Mark)^100", nil},
		{"lone quote", query.New(` " `, "Heading"), MatchAll, nil},
		{"balanced phrase", query.New(`"Mark Twain"`, "Heading"), `heading:("Mark Twain")^100`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fqs := b.Build(tt.q)
			if got != tt.want {
				t.Errorf("Build() = %q, want %q", got, tt.want)
			}
			if len(fqs) != len(tt.wantFQs) {
				t.Fatalf("fqs = %v, want %v", fqs, tt.wantFQs)
			}
			for i := range fqs {
				if fqs[i] != tt.wantFQs[i] {
					t.Errorf("fq[%d] = %q, want %q", i, fqs[i], tt.wantFQs[i])
				}
			}
		})
	}
}

func TestBuild_DefaultHandlerWithoutSpec(t *testing.T) {
	got, _ := NewQueryBuilder(nil).Build(query.New("Twain", "AllFields"))
	if got != "(Twain)" {
		t.Errorf("Build() = %q, want (Twain)", got)
	}
}

func TestBuild_CrossReference(t *testing.T) {
	got, fqs := NewQueryBuilder(nil).Build(query.NewCrossReference("Twain"))

	if want := "Heading:(Twain) AND NOT MainHeading:(Twain)"; got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
	if len(fqs) != 0 {
		t.Errorf("expected no filter queries, got %v", fqs)
	}
}

func TestBuild_CrossReferenceUnbalancedQuote(t *testing.T) {
	got, _ := NewQueryBuilder(nil).Build(query.NewCrossReference(`Twain "Mark`))

	if want := "Heading:(Twain Mark) AND NOT MainHeading:(Twain Mark)"; got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}

func TestBuild_GroupDedupsFilterQueries(t *testing.T) {
	set := specs.Set{
		"Heading":     {QueryFields: []specs.FieldBoost{{Field: "heading"}}, FilterQuery: "record_type:Name"},
		"MainHeading": {QueryFields: []specs.FieldBoost{{Field: "main_heading"}}, FilterQuery: "record_type:Name"},
	}
	got, fqs := NewQueryBuilder(set).Build(query.NewCrossReference("Twain"))

	if want := "heading:(Twain) AND NOT main_heading:(Twain)"; got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
	if len(fqs) != 1 || fqs[0] != "record_type:Name" {
		t.Errorf("fqs = %v, want single record_type:Name", fqs)
	}
}

func TestBuild_GroupOr(t *testing.T) {
	g := mustGroup(t, query.Or,
		mustClause(t, query.And, query.New("Twain", "Author")),
		mustClause(t, query.And, query.New("river", "Title")),
	)
	got, _ := NewQueryBuilder(nil).Build(g)
	if want := "Author:(Twain) OR Title:(river)"; got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}

func TestNewQueryBuilder_CopiesSpecs(t *testing.T) {
	set := specs.Set{"Heading": {QueryFields: []specs.FieldBoost{{Field: "heading"}}}}
	b := NewQueryBuilder(set)
	delete(set, "Heading")

	if got, _ := b.Build(query.New("x", "Heading")); got != "heading:(x)" {
		t.Errorf("builder changed after caller mutation: %q", got)
	}
}

func TestEscape(t *testing.T) {
	tests := map[string]string{
		"plain words":       "plain words",
		`"quoted phrase"`:   `"quoted phrase"`,
		"wild*card?":        "wild*card?",
		"a:b":               `a\:b`,
		"[1 TO 2]":          `\[1 TO 2\]`,
		"x && y || !z":      `x \&\& y \|\| \!z`,
		`back\slash/path-1`: `back\\slash\/path\-1`,
		`Twain "Mark`:       `Twain Mark`,
		`"a" "b" c"`:        `"a" "b" c`,
		`"`:                 ``,
	}
	for in, want := range tests {
		if got := Escape(in); got != want {
			t.Errorf("Escape(%q) = %q, want %q", in, got, want)
		}
	}
}
