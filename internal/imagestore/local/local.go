package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vbonduro/appcatalog/internal/imagestore"
)

// Storage keys look like "images/acme_<uuid>.png".
const imagesDir = "images"

// ErrInvalidKey is returned for keys outside the images directory.
var ErrInvalidKey = errors.New("invalid image key")

// extensions maps accepted MIME types to file extensions. Unknown types are
// stored as JPEG, matching what the upload sniffer lets through.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type LocalImageStore struct {
	dir string // <basePath>/images
}

func NewLocalImageStore(basePath string) (*LocalImageStore, error) {
	dir := filepath.Join(basePath, imagesDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &LocalImageStore{dir: dir}, nil
}

// Save writes the image under a fresh name. The data lands in a temp file
// first and is renamed into place, so a failed write never leaves a partial
// image behind a valid key.
func (s *LocalImageStore) Save(_ context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	ext, ok := extensions[mimeType]
	if !ok {
		ext = extensions["image/jpeg"]
	}
	name := sanitizePrefix(prefix) + "_" + uuid.NewString() + ext

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if err := copyAndClose(tmp, r); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return path.Join(imagesDir, name), nil
}

func copyAndClose(f *os.File, r io.Reader) error {
	_, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil {
		return fmt.Errorf("failed to write file: %w", copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close file: %w", closeErr)
	}
	return nil
}

func (s *LocalImageStore) Get(_ context.Context, storageKey string) (io.ReadCloser, string, error) {
	p, err := s.resolve(storageKey)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", imagestore.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	return f, mimeTypeOf(p), nil
}

func (s *LocalImageStore) Delete(_ context.Context, storageKey string) error {
	p, err := s.resolve(storageKey)
	if err != nil {
		return err
	}

	err = os.Remove(p)
	if errors.Is(err, fs.ErrNotExist) {
		return imagestore.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// resolve maps "images/<name>" to its file. Keys must name a single file
// directly inside the images directory; anything else is ErrInvalidKey.
func (s *LocalImageStore) resolve(storageKey string) (string, error) {
	dir, name := path.Split(storageKey)
	if dir != imagesDir+"/" || name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, storageKey)
	}
	return filepath.Join(s.dir, name), nil
}

// sanitizePrefix keeps letters, digits, '-' and '_' so app names can seed
// file names without leaking separators into the key.
func sanitizePrefix(prefix string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(prefix) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "app"
	}
	return b.String()
}

func mimeTypeOf(p string) string {
	ext := strings.ToLower(filepath.Ext(p))
	for mimeType, e := range extensions {
		if e == ext {
			return mimeType
		}
	}
	return "image/jpeg"
}
