package health

import "context"

// Pinger checks one dependency: an index core or the response cache.
type Pinger interface {
	Ping(ctx context.Context) error
}
