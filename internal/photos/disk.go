package photos

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskStorage stores uploads on the local filesystem and serves them from
// BaseURL. Keys are slash separated and must stay inside Dir.
type DiskStorage struct {
	Dir     string
	BaseURL string
}

// NewDiskStorage constructs a disk-backed Storage.
func NewDiskStorage(dir, baseURL string) *DiskStorage {
	return &DiskStorage{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// Put writes the object and returns its public URL.
func (d *DiskStorage) Put(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	target, err := d.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(target)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(target)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return "", err
	}
	return d.BaseURL + "/uploads/" + key, nil
}

// Delete removes the object. A missing object is not an error.
func (d *DiskStorage) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	target, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (d *DiskStorage) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("photos: invalid storage key %q", key)
	}
	return filepath.Join(d.Dir, clean), nil
}

var _ Storage = (*DiskStorage)(nil)
