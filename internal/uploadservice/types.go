package uploadservice

import (
	"context"
	"io"
)

const (
	// MaxImageSize is the largest accepted upload, 10 MiB.
	MaxImageSize int64 = 10 << 20
)

// Storage persists uploaded bytes under key and returns a URL the file can be fetched from.
type Storage interface {
	Save(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error)
}

type UploadService struct {
	store   Storage
	maxSize int64
}
