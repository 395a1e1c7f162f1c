package identity

import (
	"context"
	"time"
)

// Store maps a stable player identity to the room holding its seat. The
// binding acts as a capability token for one room membership: created on
// create/join, refreshed on reconnect, expired on explicit leave or room
// destruction. A ttl of zero means the binding never expires.
type Store interface {
	Bind(ctx context.Context, playerID, roomID string, ttl time.Duration) error
	// Lookup returns the bound room id, or "" when the identity is unknown
	// or its binding has expired.
	Lookup(ctx context.Context, playerID string) (string, error)
	Unbind(ctx context.Context, playerID string) error
	Close() error
}
