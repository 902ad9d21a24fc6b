package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"solvehub/internal/common"
	"solvehub/internal/platform/storage"
)

type UploadService struct {
	store    storage.Store
	maxFiles int
	maxSize  int64
}

func NewUploadService(store storage.Store, maxFiles int, maxSize int64) *UploadService {
	return &UploadService{store: store, maxFiles: maxFiles, maxSize: maxSize}
}

type UploadedFile struct {
	URL       string `json:"url"`
	PublicID  string `json:"public_id"`
	SizeBytes int64  `json:"size_bytes"`
}

func allowedContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/") || contentType == "application/pdf"
}

// Upload pushes the multipart files to hosted storage. The whole batch is
// validated before the first upload so a bad file rejects the request without
// leaving orphans behind.
func (s *UploadService) Upload(ctx context.Context, files []*multipart.FileHeader) ([]UploadedFile, error) {
	if s.store == nil {
		return nil, fmt.Errorf("hosted storage not configured: %w", common.ErrServiceUnavailable)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files provided: %w", common.ErrValidation)
	}
	if len(files) > s.maxFiles {
		return nil, fmt.Errorf("at most %d files per request: %w", s.maxFiles, common.ErrValidation)
	}
	for _, fh := range files {
		if fh.Size > s.maxSize {
			return nil, fmt.Errorf("file %s exceeds the %d byte limit: %w", fh.Filename, s.maxSize, common.ErrValidation)
		}
		if !allowedContentType(fh.Header.Get("Content-Type")) {
			return nil, fmt.Errorf("file %s has unsupported type %s: %w", fh.Filename, fh.Header.Get("Content-Type"), common.ErrValidation)
		}
	}

	results := make([]UploadedFile, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		uploaded, err := s.store.Upload(ctx, f, fh.Filename)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", fh.Filename, err)
		}
		results = append(results, UploadedFile{
			URL:       uploaded.SecureURL,
			PublicID:  uploaded.PublicID,
			SizeBytes: uploaded.Bytes,
		})
	}
	return results, nil
}
