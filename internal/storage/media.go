// Package storage uploads avatar and message media to an S3-compatible
// object store. The rest of the system treats the returned URL as an opaque
// string; no existence or content checks happen downstream.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/neighborly-app/backend/internal/apperr"
	"github.com/neighborly-app/backend/internal/config"
)

// MaxUploadSize bounds a single media upload.
const MaxUploadSize = 10 << 20 // 10 MiB

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type MediaStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMediaStorage builds the client from config. Endpoint empty is the
// caller's signal that media is disabled; that check happens in main, not
// here.
func NewMediaStorage(cfg config.MediaConfig) (*MediaStorage, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("media storage requires MEDIA_ENDPOINT and MEDIA_BUCKET")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create media client: %w", err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint
	}

	return &MediaStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores the object under a generated key and returns its public URL.
// Rejected content is a validation failure; a failed write to the store is
// not the caller's fault and carries the store-unavailable sentinel instead.
func (s *MediaStorage) Upload(ctx context.Context, body io.Reader, size int64, contentType string) (string, error) {
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported content type %q", apperr.ErrValidation, contentType)
	}
	if size <= 0 || size > MaxUploadSize {
		return "", fmt.Errorf("%w: invalid upload size %d", apperr.ErrValidation, size)
	}

	key := path.Join("media", uuid.NewString()+ext)
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("%w: put media object: %v", apperr.ErrStoreUnavailable, err)
	}

	return s.publicURL + "/" + s.bucket + "/" + key, nil
}
