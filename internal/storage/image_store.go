package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sony/gobreaker/v2"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ImageStore uploads product images to an S3-compatible object store and
// hands back their public URL. Uploads go through a circuit breaker so a
// dead object store fails fast instead of stalling admin requests.
type ImageStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
	breaker *gobreaker.CircuitBreaker[string]
}

func NewImageStore(cfg Config) (*ImageStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name: "image-store",
	})

	return &ImageStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket),
		breaker: breaker,
	}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *ImageStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// Upload stores the blob under a generated key and returns its public URL.
// The original filename only contributes its extension.
func (s *ImageStore) Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	key := uuid.NewString() + path.Ext(filename)

	return s.breaker.Execute(func() (string, error) {
		_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
			ContentType: contentType,
		})
		if err != nil {
			return "", fmt.Errorf("upload image: %w", err)
		}
		return fmt.Sprintf("%s/%s", s.baseURL, key), nil
	})
}
