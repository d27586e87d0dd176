// Package persistence stores the serialized document and serializes writes
// to it.
package persistence

import (
	"context"
	"errors"
)

// ErrNoDocument is returned by Load when nothing has been stored yet.
var ErrNoDocument = errors.New("persistence: no document stored")

// Backend stores one opaque document.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
}
