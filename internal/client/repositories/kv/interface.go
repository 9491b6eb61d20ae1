package kv

import (
	"context"
)

// Repository is a string-keyed byte store. Every Set replaces the whole value
// of its key.
type Repository interface {
	// Get returns the value stored under key, or (nil, nil) when absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}

// Sizer is implemented by backends that can report value sizes without
// reading the values. Sizes maps each key to its value length in bytes.
type Sizer interface {
	Sizes(ctx context.Context) (map[string]int64, error)
}

// Transactor is implemented by backends that can apply several writes
// atomically. fn receives a Repository bound to the transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}
