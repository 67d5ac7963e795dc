package storage

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/example/slideconv/internal/schema"
)

const defaultSignedURLExpiryMinutes = 60

// UploadOptions controls where an asset lands and which references are
// generated.
type UploadOptions struct {
	PresentationID      string
	AssetID             string
	GenerateDownloadURL bool
}

// UploadResult is the set of storage references for one uploaded asset.
type UploadResult struct {
	StorageURL  string
	StoragePath string
	DownloadURL string
}

// Service wraps one Provider with asset-aware key layout and reference
// generation.
type Service struct {
	log          zerolog.Logger
	provider     Provider
	providerType string
	urlExpiry    int
}

// NewService creates a storage service on top of an initialized provider.
func NewService(log zerolog.Logger, provider Provider, providerType string) *Service {
	return &Service{
		log:          log,
		provider:     provider,
		providerType: providerType,
		urlExpiry:    defaultSignedURLExpiryMinutes,
	}
}

// AssetKey is the object key for an asset's binary payload.
func AssetKey(presentationID, assetID, filename string) string {
	return fmt.Sprintf("presentations/%s/assets/%s-%s", presentationID, assetID, filename)
}

// ThumbnailKey is the object key for an asset's thumbnail.
func ThumbnailKey(presentationID, assetID string) string {
	return fmt.Sprintf("presentations/%s/thumbnails/%s", presentationID, assetID)
}

// UploadAsset stores asset bytes and returns the storage references.
// The download URL is only generated when requested since signing can
// be slow on some backends.
func (s *Service) UploadAsset(ctx context.Context, data []byte, filename string, meta schema.AssetMetadata, opts UploadOptions) (UploadResult, error) {
	key := AssetKey(opts.PresentationID, opts.AssetID, filename)
	objMeta := map[string]string{
		"filename":       filename,
		"contentType":    meta.MimeType,
		"presentationId": opts.PresentationID,
		"assetId":        opts.AssetID,
		"shapeId":        strconv.Itoa(meta.ShapeID),
	}
	if err := s.provider.Store(ctx, key, bytes.NewReader(data), int64(len(data)), objMeta); err != nil {
		return UploadResult{}, err
	}

	res := UploadResult{
		StorageURL:  fmt.Sprintf("%s://%s", s.providerType, key),
		StoragePath: key,
	}
	if opts.GenerateDownloadURL {
		url, err := s.provider.SignedURL(ctx, key, s.urlExpiry, "read")
		if err != nil {
			s.log.Warn().Str("asset", opts.AssetID).Err(err).Msg("download url generation failed")
		} else {
			res.DownloadURL = url
		}
	}
	return res, nil
}

// UploadThumbnail stores thumbnail bytes for an asset and returns the
// object key.
func (s *Service) UploadThumbnail(ctx context.Context, data []byte, presentationID, assetID string, meta schema.AssetMetadata) (string, error) {
	key := ThumbnailKey(presentationID, assetID)
	objMeta := map[string]string{
		"assetId":     assetID,
		"contentType": meta.MimeType,
	}
	if err := s.provider.Store(ctx, key, bytes.NewReader(data), int64(len(data)), objMeta); err != nil {
		return "", err
	}
	return key, nil
}

// DeleteAsset removes an asset's stored object.
func (s *Service) DeleteAsset(ctx context.Context, storagePath string) error {
	if storagePath == "" {
		return nil
	}
	return s.provider.Delete(ctx, storagePath)
}

// ListPresentation returns stored objects for one presentation.
func (s *Service) ListPresentation(ctx context.Context, presentationID string) ([]ObjectInfo, error) {
	return s.provider.List(ctx, "presentations/"+presentationID+"/")
}

// ProviderType reports the configured backend type.
func (s *Service) ProviderType() string {
	return s.providerType
}
