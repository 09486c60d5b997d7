package uploadservice

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskStorage writes uploads into a local directory that the HTTP server exposes under baseURL.
type DiskStorage struct {
	dir     string
	baseURL string
}

func NewDiskStorage(dir, baseURL string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create upload directory: %w", err)
	}

	return &DiskStorage{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (d *DiskStorage) Dir() string {
	return d.dir
}

func (d *DiskStorage) Save(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	if key != filepath.Base(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}

	path := filepath.Join(d.dir, key)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", err
	}

	return d.baseURL + "/" + key, nil
}
