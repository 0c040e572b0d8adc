package ports

import "context"

// SessionStorage is durable key/value storage for the session holder,
// modelled on a browser's local storage.
type SessionStorage interface {
	GetItem(ctx context.Context, key string) (value string, found bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}
