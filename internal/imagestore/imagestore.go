package imagestore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get and Delete for keys with no stored image.
var ErrNotFound = errors.New("image not found")

// ImageStore holds the binary image assets referenced by apps. Keys are
// opaque to callers and safe to embed in URLs.
type ImageStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}
