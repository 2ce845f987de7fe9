package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go-shop/apperr"
	"go-shop/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ImageFormats are the accepted profile picture extensions.
var ImageFormats = []string{"jpg", "jpeg", "png"}

// ImageUploader stores an image with a hosting provider and returns its URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, file io.Reader, filename string) (string, error)
}

// CheckImageFilename rejects files whose extension is not an accepted format.
func CheckImageFilename(filename string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, f := range ImageFormats {
		if ext == f {
			return nil
		}
	}
	return fmt.Errorf("%w: image must be one of %s", apperr.ErrValidation, strings.Join(ImageFormats, ", "))
}

// CloudinaryUploader puts profile pictures in a Cloudinary folder, bounded
// to 500x500.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cfg config.CloudinaryConfig) (*CloudinaryUploader, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)
	if cfg.URL != "" {
		cld, err = cloudinary.NewFromURL(cfg.URL)
	} else {
		cld, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("configure cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: cfg.Folder}, nil
}

func (u *CloudinaryUploader) UploadImage(ctx context.Context, file io.Reader, filename string) (string, error) {
	if err := CheckImageFilename(filename); err != nil {
		return "", err
	}

	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         u.folder,
		AllowedFormats: api.CldAPIArray(ImageFormats),
		Transformation: "c_limit,w_500,h_500",
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrUploadFailed, err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("%w: %s", apperr.ErrUploadFailed, resp.Error.Message)
	}
	return resp.SecureURL, nil
}

// DisabledUploader is used when no image host is configured.
type DisabledUploader struct{}

func (DisabledUploader) UploadImage(context.Context, io.Reader, string) (string, error) {
	return "", fmt.Errorf("%w: %w", apperr.ErrUploadFailed, errors.New("image uploads are not configured"))
}
