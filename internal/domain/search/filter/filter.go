package filter

import (
	"fmt"
	"strings"
)

// HiddenFilter is a field restriction applied to a search without the user seeing it.
type HiddenFilter struct {
	field      string
	expression string
}

// NewHiddenFilter creates a hidden filter for field restricted to expression.
func NewHiddenFilter(field, expression string) (HiddenFilter, error) {
	if strings.TrimSpace(field) == "" {
		return HiddenFilter{}, fmt.Errorf("filter field is required")
	}
	if strings.TrimSpace(expression) == "" {
		return HiddenFilter{}, fmt.Errorf("filter expression is required for field %q", field)
	}
	return HiddenFilter{field: field, expression: expression}, nil
}

// Field returns the restricted field name.
func (f HiddenFilter) Field() string { return f.field }

// Expression returns the value or sub-query the field is restricted to.
func (f HiddenFilter) Expression() string { return f.expression }

// String renders the filter as a filter query: field:(expression).
func (f HiddenFilter) String() string {
	return f.field + ":(" + f.expression + ")"
}

// ParseSettings reads a colon-delimited list of alternating field/expression tokens.
// Tokens are consumed two at a time. An unpaired trailing token and pairs with an
// empty field or expression are not turned into filters; they are returned as
// dropped so the caller can report them.
func ParseSettings(settings string) (filters []HiddenFilter, dropped []string) {
	filters = []HiddenFilter{}
	if settings == "" {
		return filters, nil
	}

	tokens := strings.Split(settings, ":")
	for i := 0; i < len(tokens); i += 2 {
		if i+1 >= len(tokens) {
			dropped = append(dropped, tokens[i])
			break
		}
		f, err := NewHiddenFilter(tokens[i], tokens[i+1])
		if err != nil {
			dropped = append(dropped, tokens[i]+":"+tokens[i+1])
			continue
		}
		filters = append(filters, f)
	}
	return filters, dropped
}

// Strings renders every filter with String.
func Strings(filters []HiddenFilter) []string {
	out := make([]string, len(filters))
	for i, f := range filters {
		out[i] = f.String()
	}
	return out
}
