package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/profitscout/scout-api/pkg/config"
)

// Object describes one stored artifact object
type Object struct {
	Name    string
	Updated time.Time
}

// Client wraps a GCS client scoped to the research artifact bucket.
// Safe for concurrent use; the underlying client manages its own connections.
type Client struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

// NewClient creates a new object storage client (uses ADC by default)
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &Client{
		client:  client,
		bucket:  cfg.Storage.Bucket,
		baseURL: strings.TrimSuffix(cfg.Storage.PublicBaseURL, "/"),
	}, nil
}

// List returns all objects whose names start with prefix.
// An empty result is not an error.
func (c *Client) List(ctx context.Context, prefix string) ([]Object, error) {
	it := c.client.Bucket(c.bucket).Objects(ctx, &storage.Query{Prefix: prefix})

	var objects []Object
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %q: %w", prefix, err)
		}
		objects = append(objects, Object{
			Name:    attrs.Name,
			Updated: attrs.Updated,
		})
	}

	return objects, nil
}

// Read downloads the full content of one object
func (c *Client) Read(ctx context.Context, name string) ([]byte, error) {
	reader, err := c.client.Bucket(c.bucket).Object(name).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open object %q: %w", name, err)
	}
	defer func() { _ = reader.Close() }()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %q: %w", name, err)
	}

	return content, nil
}

// Prefixes enumerates the top-level name prefixes of the bucket,
// with the trailing delimiter stripped.
func (c *Client) Prefixes(ctx context.Context) ([]string, error) {
	it := c.client.Bucket(c.bucket).Objects(ctx, &storage.Query{
		Prefix:    "",
		Delimiter: "/",
	})

	var prefixes []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate prefixes: %w", err)
		}
		// Synthetic prefix entries carry Prefix instead of Name
		if attrs.Prefix != "" {
			prefixes = append(prefixes, strings.TrimSuffix(attrs.Prefix, "/"))
		}
	}

	return prefixes, nil
}

// PublicURL returns the public download URL for an object
func (c *Client) PublicURL(name string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.bucket, name)
}

// Ping verifies the bucket is reachable
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.client.Bucket(c.bucket).Attrs(ctx); err != nil {
		return fmt.Errorf("bucket %q not reachable: %w", c.bucket, err)
	}
	return nil
}

// Close closes the storage client
func (c *Client) Close() error {
	return c.client.Close()
}
