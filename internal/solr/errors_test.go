package solr

import (
	"strings"
	"testing"
)

func TestNewHTTPError(t *testing.T) {
	e := newHTTPError(400, []byte(`{"error":{"msg":"bad query"}}`))
	if e.Message != "bad query" {
		t.Errorf("Message = %q", e.Message)
	}

	e = newHTTPError(502, []byte("gateway down"))
	if e.Message != "gateway down" || e.Error() != "http status 502: gateway down" {
		t.Errorf("raw body fallback = %q", e.Error())
	}

	e = newHTTPError(500, []byte(strings.Repeat("x", 2000)))
	if len(e.Message) != 512 {
		t.Errorf("message not truncated: %d", len(e.Message))
	}

	if (&HTTPError{Status: 404}).Error() != "http status 404" {
		t.Error("empty message formatting")
	}
}
