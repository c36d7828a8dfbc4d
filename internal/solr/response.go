package solr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/discovery/internal/domain/search/result"
)

// Field names read from index documents.
const (
	FieldID      = "id"
	FieldHeading = "heading"
	FieldUseFor  = "use_for"
	FieldSeeAlso = "see_also"
	FieldScore   = "score"
)

// Response is a decoded select response.
type Response struct {
	Header struct {
		Status int `json:"status"`
		QTime  int `json:"QTime"`
	} `json:"responseHeader"`
	Body struct {
		NumFound int              `json:"numFound"`
		Start    int              `json:"start"`
		Docs     []map[string]any `json:"docs"`
	} `json:"response"`
	Highlighting map[string]map[string][]string `json:"highlighting"`
	Spellcheck   json.RawMessage                `json:"spellcheck,omitempty"`
}

func decodeResponse(body []byte) (*Response, error) {
	var resp Response
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}

func decodePingStatus(body []byte) (string, error) {
	var parsed struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode ping: %w", err)
	}
	return parsed.Status, nil
}

// Collection converts the documents into records, keeping index order.
func (r *Response) Collection() *result.Collection {
	records := make([]result.Record, 0, len(r.Body.Docs))
	for _, doc := range r.Body.Docs {
		id := stringValue(doc[FieldID])
		records = append(records, result.New(
			id,
			stringValue(doc[FieldHeading]),
			stringsValue(doc[FieldUseFor]),
			stringsValue(doc[FieldSeeAlso]),
			floatValue(doc[FieldScore]),
			r.Highlighting[id],
			doc,
		))
	}
	return &result.Collection{
		Total:   r.Body.NumFound,
		Offset:  r.Body.Start,
		Records: records,
	}
}

// stringValue reads a single-valued field; multi-valued fields yield their first value.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case []any:
		if len(t) > 0 {
			return stringValue(t[0])
		}
	}
	return ""
}

func stringsValue(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := stringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func floatValue(v any) float64 {
	switch t := v.(type) {
	case json.Number:
		f, _ := t.Float64()
		return f
	case float64:
		return t
	}
	return 0
}
