package discovery

import "github.com/kailas-cloud/discovery/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest    = domain.ErrInvalidRequest
	ErrIndexUnavailable  = domain.ErrIndexUnavailable
	ErrUnknownModule     = domain.ErrUnknownModule
	ErrMalformedSettings = domain.ErrMalformedSettings
)
