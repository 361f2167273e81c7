package filestorage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yigit/personnel/internal/pkg/apperrors"
	"github.com/yigit/personnel/internal/pkg/logger"
)

// MinioConfig holds the connection settings of a MinIO/S3 bucket
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStorage stores documents as objects of a single bucket
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// normaliseEndpoint accepts "minio:9000" as well as "http(s)://minio:9000".
// An https scheme forces TLS.
func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	return raw, false, nil
}

// NewMinioStorage connects to the bucket and creates it when missing
func NewMinioStorage(ctx context.Context, cfg MinioConfig) (*MinioStorage, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	endpoint, secure, err := normaliseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid minio endpoint: %w", err)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure || cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info().Str("bucket", cfg.Bucket).Msg("Created document bucket")
	}

	return &MinioStorage{client: client, bucket: cfg.Bucket}, nil
}

// Save uploads r as an object named key
func (ms *MinioStorage) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if key == "" {
		return apperrors.ErrInvalidKey
	}
	if size <= 0 {
		size = -1
	}

	_, err := ms.client.PutObject(ctx, ms.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return nil
}

// Open streams the object named key
func (ms *MinioStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := ms.client.GetObject(ctx, ms.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}

	// GetObject is lazy; Stat surfaces missing objects before the first read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if isNoSuchKey(err) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to stat object %s: %w", key, err)
	}

	return obj, nil
}

// Delete removes the object; S3 treats missing keys as success
func (ms *MinioStorage) Delete(ctx context.Context, key string) error {
	err := ms.client.RemoveObject(ctx, ms.bucket, key, minio.RemoveObjectOptions{})
	if err != nil && !isNoSuchKey(err) {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}

// Exists reports whether the object is present
func (ms *MinioStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := ms.client.StatObject(ctx, ms.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat object %s: %w", key, err)
	}
	return true, nil
}

func isNoSuchKey(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchObject"
}
