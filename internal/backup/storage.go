// Package backup keeps compressed copies of the document in object storage.
package backup

import (
	"context"
	"errors"
)

// Common errors for storage operations.
var (
	ErrObjectNotFound = errors.New("backup: object not found")
	ErrUploadFailed   = errors.New("backup: upload failed")
	ErrDownloadFailed = errors.New("backup: download failed")
	ErrDeleteFailed   = errors.New("backup: delete failed")
)

// ObjectStorage abstracts the object store holding backups.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte) error
	// Get returns ErrObjectNotFound for unknown keys.
	Get(ctx context.Context, key string) ([]byte, error)
	// List returns the keys under prefix in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, key string) error
}
