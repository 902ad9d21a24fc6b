package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadResult describes a file persisted in durable object storage.
type UploadResult struct {
	PublicID  string
	SecureURL string
	Bytes     int64
}

// Store is the durable object storage boundary used by the upload path and
// the attachment migration tool.
type Store interface {
	Upload(ctx context.Context, file io.Reader, filename string) (*UploadResult, error)
}

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore builds a store from a CLOUDINARY_URL style connection
// string. All uploads land under the configured folder.
func NewCloudinaryStore(url, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, filename string) (*UploadResult, error) {
	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload %s: %w", filename, err)
	}
	return &UploadResult{
		PublicID:  resp.PublicID,
		SecureURL: resp.SecureURL,
		Bytes:     int64(resp.Bytes),
	}, nil
}
