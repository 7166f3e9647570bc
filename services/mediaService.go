package services

import (
	"bytes"
	"context"
	"image"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	apiError "github.com/techagentng/civilink/errors"
	"github.com/techagentng/civilink/models"
	"go.uber.org/zap"
)

const (
	MaxFileSize      = 5 * 1024 * 1024 // 5 MB
	AllowedMimeTypes = "image/jpeg,image/png,image/gif"

	feedSize      = 1080
	thumbnailSize = 161
)

type StoredImage struct {
	URL          string
	ThumbnailURL string
}

// MediaService turns a complaint photo into a square feed image and a small
// thumbnail and stores both.
type MediaService interface {
	StoreImage(ctx context.Context, upload *models.Upload) (*StoredImage, error)
}

type mediaService struct {
	store  ImageStore
	logger *zap.Logger
}

func NewMediaService(store ImageStore, logger *zap.Logger) MediaService {
	return &mediaService{store: store, logger: logger}
}

// ValidateImage checks size and sniffed content type.
func ValidateImage(data []byte) *apiError.Error {
	if len(data) == 0 || len(data) > MaxFileSize {
		return apiError.ErrInvalidImage
	}
	if !isValidMimeType(http.DetectContentType(data)) {
		return apiError.ErrInvalidImage
	}
	return nil
}

func isValidMimeType(mimeType string) bool {
	for _, allowed := range strings.Split(AllowedMimeTypes, ",") {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

func (m *mediaService) StoreImage(ctx context.Context, upload *models.Upload) (*StoredImage, error) {
	if apiErr := ValidateImage(upload.Data); apiErr != nil {
		return nil, apiErr
	}
	img, err := imaging.Decode(bytes.NewReader(upload.Data), imaging.AutoOrientation(true))
	if err != nil {
		m.logger.Info("undecodable upload", zap.String("filename", upload.Filename), zap.Error(err))
		return nil, apiError.ErrInvalidImage
	}

	feed := imaging.Fill(img, feedSize, feedSize, imaging.Center, imaging.Lanczos)
	thumb := resize.Thumbnail(thumbnailSize, thumbnailSize, img, resize.Lanczos3)

	name := uuid.NewString() + ".jpg"
	feedURL, err := m.put(ctx, "complaints/feed/"+name, feed)
	if err != nil {
		return nil, err
	}
	thumbURL, err := m.put(ctx, "complaints/thumbnail/"+name, thumb)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("image stored", zap.String("url", feedURL), zap.String("thumbnail", thumbURL))
	return &StoredImage{URL: feedURL, ThumbnailURL: thumbURL}, nil
}

func (m *mediaService) put(ctx context.Context, key string, img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", errors.Wrap(err, "encode image")
	}
	url, err := m.store.Put(ctx, key, buf.Bytes(), "image/jpeg")
	if err != nil {
		return "", errors.Wrapf(err, "store %s", key)
	}
	return url, nil
}
