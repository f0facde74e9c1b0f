// Package session provides server-side session storage keyed by an opaque
// identifier. Handlers receive a Store; nothing here is global.
package session

import (
	"context"
	"errors"
	"time"
)

// TTL is how long a session lives after creation.
const TTL = 24 * time.Hour

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Data is what an authenticated session holds.
type Data struct {
	UserID   string `bson:"userId"`
	Username string `bson:"username"`
	Role     string `bson:"role"`
}

// Store is the session service injected into the HTTP layer.
type Store interface {
	// Create stores data under a fresh opaque id and returns the id.
	Create(ctx context.Context, data Data) (string, error)
	// Get returns the data for id, or ErrNotFound if unknown or expired.
	Get(ctx context.Context, id string) (*Data, error)
	// Destroy removes the session. Destroying an absent id is not an error.
	Destroy(ctx context.Context, id string) error
}
