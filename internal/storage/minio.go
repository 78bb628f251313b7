// Package storage wraps the object bucket holding chat attachments.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"hachiko/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client wraps the MinIO SDK client and the uploads bucket. The bucket is an
// opaque passthrough: the chat core only ever sees the resulting descriptor
// (URL, name, type, size).
type Client struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewClient constructs a bucket client from config. A missing endpoint means
// uploads are not configured; callers get (nil, nil) and disable the feature.
func NewClient(cfg *config.Config) (*Client, error) {
	if strings.TrimSpace(cfg.MinioEndpoint) == "" {
		return nil, nil
	}
	if strings.TrimSpace(cfg.MinioAccessKey) == "" || strings.TrimSpace(cfg.MinioSecretKey) == "" {
		return nil, errors.New("minio access key and secret key are required")
	}
	if strings.TrimSpace(cfg.MinioBucket) == "" {
		return nil, errors.New("minio bucket is required")
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	publicURL := strings.TrimRight(cfg.MinioPublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
	}

	return &Client{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: publicURL,
	}, nil
}

// EnsureBucket ensures the configured bucket exists.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.client.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return c.client.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
}

// Put uploads an object and returns its public URL.
func (c *Client) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := c.client.PutObject(ctx, c.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return c.publicURL + "/" + key, nil
}

// Delete removes an object from the configured bucket.
func (c *Client) Delete(ctx context.Context, key string) error {
	return c.client.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
}
