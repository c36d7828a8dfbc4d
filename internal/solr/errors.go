package solr

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Op names the index request that failed.
const (
	OpSelect = "select"
	OpPing   = "ping"
)

// ErrPingFailed is returned when the ping handler answers with a non-OK status.
var ErrPingFailed = errors.New("solr: ping status not OK")

// Error wraps an underlying error with the core and operation for diagnostics.
type Error struct {
	Core string
	Op   string
	Err  error
}

func (e *Error) Error() string { return "solr " + e.Core + " " + e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// HTTPError is a non-2xx answer from the index engine.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("http status %d", e.Status)
	}
	return fmt.Sprintf("http status %d: %s", e.Status, e.Message)
}

// newHTTPError extracts error.msg from a Solr error body, falling back to the raw body.
func newHTTPError(status int, body []byte) *HTTPError {
	var parsed struct {
		Error struct {
			Msg string `json:"msg"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Msg != "" {
		return &HTTPError{Status: status, Message: parsed.Error.Msg}
	}
	const maxBody = 512
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	return &HTTPError{Status: status, Message: string(body)}
}
