// Package store persists duel records between rounds.
package store

import (
	"context"

	"github.com/google/uuid"
)

// Store loads and saves values by id. Get reports false when id is unknown.
type Store[T any] interface {
	Get(ctx context.Context, id string) (T, bool, error)
	Put(ctx context.Context, id string, v T) error
	NewID() string
}

func newID() string {
	return uuid.NewString()
}
