package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/quantum-box/urushiri/internal/config"
)

// ImageStore uploads event cover images to an S3-compatible bucket and hands
// back publicly reachable URLs.
type ImageStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

var extensionsByContentType = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// AllowedImageType reports whether the content type is accepted for event
// cover images.
func AllowedImageType(contentType string) bool {
	_, ok := extensionsByContentType[contentType]
	return ok
}

func NewImageStore(cfg *config.Config) (*ImageStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage client: %w", err)
	}

	publicBaseURL := cfg.ImagePublicBaseURL
	if publicBaseURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicBaseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.ImageBucket)
	}

	return &ImageStore{
		client:        client,
		bucket:        cfg.ImageBucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// EnsureBucket creates the image bucket if it does not exist yet.
func (s *ImageStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Upload stores the image under events/<uuid>.<ext> and returns its public URL.
func (s *ImageStore) Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error) {
	ext, ok := extensionsByContentType[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported content type %s", contentType)
	}

	objectName := fmt.Sprintf("events/%s.%s", uuid.NewString(), ext)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectName, err)
	}

	return s.publicBaseURL + "/" + objectName, nil
}
