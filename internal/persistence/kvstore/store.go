// Package kvstore is the durable key-value storage the player state is
// persisted in.
package kvstore

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("kvstore: closed")

type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
