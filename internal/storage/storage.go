package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/streamhub/accounts/internal/config"
)

// Storage stores profile media (avatars and cover images) in object storage
// and hands back public URLs for the records that reference them
type Storage struct {
	client     *minio.Client
	bucketName string
	baseURL    string
}

// New creates a new storage client
func New(cfg config.StorageConfig) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.BucketName)
	}

	return &Storage{
		client:     client,
		bucketName: cfg.BucketName,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}, nil
}

// UploadImage stores an image under a fresh object name in the given folder
// (avatars, covers) and returns its public URL
func (s *Storage) UploadImage(ctx context.Context, folder, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), path.Ext(filename))

	_, err := s.client.PutObject(ctx, s.bucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return s.ObjectURL(objectName), nil
}

// ObjectURL returns the public URL of a stored object
func (s *Storage) ObjectURL(objectName string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, objectName)
}

// Delete removes an object by its public URL. Unknown URLs are ignored so a
// replaced image missing from the bucket never fails the update.
func (s *Storage) Delete(ctx context.Context, objectURL string) error {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(objectURL, prefix) {
		return nil
	}
	objectName := strings.TrimPrefix(objectURL, prefix)

	err := s.client.RemoveObject(ctx, s.bucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}
