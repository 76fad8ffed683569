package kvstore

import (
	"context"
)

// Store is the durable key-value storage the stateful services persist into.
// Values are JSON-serialized; entries never expire.
type Store interface {
	Get(ctx context.Context, key string, value interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	BasketKey       = "cosmetics_basket"
	FavoritesKey    = "cosmetics_favorites"
	SellingPointKey = "selected_selling_point"
)
