package session

import "context"

type contextKey string

const storeContextKey contextKey = "session_store"

// NewContext returns a copy of ctx carrying store.
func NewContext(ctx context.Context, store *Store) context.Context {
	return context.WithValue(ctx, storeContextKey, store)
}

// FromContext returns the store carried by ctx.
func FromContext(ctx context.Context) (*Store, bool) {
	store, ok := ctx.Value(storeContextKey).(*Store)
	return store, ok && store != nil
}
