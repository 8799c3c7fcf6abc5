package image

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryUploader hosts generated images on Cloudinary.
type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader creates an uploader from explicit credentials.
func NewCloudinaryUploader(cloudName, apiKey, apiSecret, folder string) (*CloudinaryUploader, error) {
	client, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryUploader{client: client, folder: folder}, nil
}

// UploadImage implements Uploader. The artifact filename (minus extension)
// becomes the public id within the configured folder.
func (u *CloudinaryUploader) UploadImage(ctx context.Context, name string, data []byte) (*Upload, error) {
	publicID := strings.TrimSuffix(name, path.Ext(name))
	result, err := u.client.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID: publicID,
		Folder:   u.folder,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	return &Upload{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Format:   result.Format,
	}, nil
}
