// Package upload stores binary objects (blog and listing images) and
// returns a public URL that can be saved in a record.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrDisabled is returned when no object store is configured
var ErrDisabled = errors.New("image uploads are disabled; enter an image URL instead")

// Store uploads an object under name and returns its public URL
type Store interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}

// Disabled is the Store used when nothing is configured
type Disabled struct{}

func (Disabled) Upload(context.Context, string, io.Reader) (string, error) {
	return "", ErrDisabled
}

// ObjectKey names a new object: <prefix>/<uuid>_<basename>
func ObjectKey(prefix, path string) string {
	name := uuid.NewString() + "_" + filepath.Base(path)
	if prefix == "" {
		return name
	}
	return strings.TrimRight(prefix, "/") + "/" + name
}

// IsLocalPath reports whether an image field value names a local file
// rather than an already uploaded URL.
func IsLocalPath(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	lower := strings.ToLower(value)
	return !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://")
}

// File uploads the local file at path with a key under prefix
func File(ctx context.Context, store Store, prefix, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	url, err := store.Upload(ctx, ObjectKey(prefix, path), f)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filepath.Base(path), err)
	}
	return url, nil
}
