package port

import (
	"context"
	"time"
)

// Cache is the read-through cache contract the user directory decorator
// depends on. Values are opaque strings; callers own serialization.
type Cache interface {
	// Get returns the value stored at key, or ErrMiss when the key is
	// absent. Any other error means the backend itself failed.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key for ttl. A non-positive ttl stores without
	// expiry.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Close releases the backend connection.
	Close() error
}

// ErrMiss distinguishes an absent key from a backend failure, so a miss can
// fall through to the source while an outage only gets logged.
var ErrMiss = errMiss{}

type errMiss struct{}

func (e errMiss) Error() string { return "cache: miss" }
