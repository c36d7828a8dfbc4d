package domain

import "errors"

var (
	// ErrInvalidRequest signals a malformed search request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrIndexUnavailable signals that the index engine could not serve a request.
	ErrIndexUnavailable = errors.New("index unavailable")
	// ErrUnknownModule signals a recommendation module name with no registered factory.
	ErrUnknownModule = errors.New("unknown recommendation module")
	// ErrMalformedSettings signals a settings string that could not be parsed as configured.
	ErrMalformedSettings = errors.New("malformed settings")
)
