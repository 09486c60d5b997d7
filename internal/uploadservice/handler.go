package uploadservice

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sushihentaime/inkwell/internal/common"
)

var (
	imageTypeRX = regexp.MustCompile(`jpeg|jpg|png|gif|webp`)
)

func NewUploadService(store Storage) *UploadService {
	return &UploadService{
		store:   store,
		maxSize: MaxImageSize,
	}
}

func validateImage(v *common.Validator, ext, contentType string, size, maxSize int64) {
	v.Check(size > 0, "image", "must be provided")
	v.Check(size <= maxSize, "image", fmt.Sprintf("must not be larger than %d bytes", maxSize))
	v.Check(imageTypeRX.MatchString(ext) && imageTypeRX.MatchString(contentType), "image", "only image files are allowed")
}

// objectKey names a stored upload "<unix millis>-<uuid><ext>".
func objectKey(ext string, now time.Time) string {
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), uuid.NewString(), ext)
}

// UploadImage validates an image by extension, declared content type and size,
// then stores it under a fresh key and returns its URL.
func (s *UploadService) UploadImage(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	v := common.NewValidator()
	validateImage(v, ext, strings.ToLower(contentType), size, s.maxSize)
	if !v.Valid() {
		return "", v.ValidationError()
	}

	url, err := s.store.Save(ctx, objectKey(ext, time.Now()), contentType, io.LimitReader(r, size), size)
	if err != nil {
		return "", fmt.Errorf("could not store upload: %w", err)
	}

	return url, nil
}
