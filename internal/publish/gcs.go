package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const feedCacheControl = "public, max-age=300"

// GCSConfig selects the bucket feeds are published to.
type GCSConfig struct {
	Bucket string
	Prefix string
	// Endpoint overrides the Storage API endpoint, e.g. for an emulator. Requests
	// to a custom endpoint are sent without credentials.
	Endpoint string
}

// GCSBackend stores objects in a Cloud Storage bucket.
type GCSBackend struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCSBackend creates a Storage client for cfg.Bucket.
func NewGCSBackend(ctx context.Context, cfg GCSConfig) (*GCSBackend, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("gcs bucket required")
	}
	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}
	return &GCSBackend{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

func (b *GCSBackend) Read(ctx context.Context, name string) ([]byte, error) {
	reader, err := b.client.Bucket(b.bucket).Object(b.objectName(name)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%s: %w", b.Location(name), fs.ErrNotExist)
		}
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// Write uploads the object in one request; Cloud Storage replaces objects atomically.
func (b *GCSBackend) Write(ctx context.Context, name string, data []byte, contentType string) error {
	writer := b.client.Bucket(b.bucket).Object(b.objectName(name)).NewWriter(ctx)
	writer.ContentType = contentType
	writer.CacheControl = feedCacheControl
	writer.ChunkSize = 0

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

func (b *GCSBackend) Location(name string) string {
	return "gs://" + b.bucket + "/" + b.objectName(name)
}

// Close closes the Storage client.
func (b *GCSBackend) Close() error {
	return b.client.Close()
}

func (b *GCSBackend) objectName(name string) string {
	if b.prefix == "" {
		return name
	}
	return path.Join(b.prefix, name)
}
