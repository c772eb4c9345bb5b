package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"bucket-browser/core/errs"

	"github.com/minio/minio-go/v7"
)

const (
	// Delimiter separates the logical segments of an object key.
	Delimiter = "/"
	// DefaultPresignTTL is the lifetime of a download link when none is given.
	DefaultPresignTTL = 300 * time.Second
)

// ObjectRecord is a raw object entry returned by a delimited listing.
type ObjectRecord struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Listing holds the immediate children of a prefix.
type Listing struct {
	// FolderPrefixes are the common prefixes one level below the listed prefix.
	FolderPrefixes []string
	// Objects are the objects directly under the prefix. A folder marker whose key
	// equals the listed prefix may appear here.
	Objects []ObjectRecord
}

// Gateway is the stateless contract the browsing session needs from an object store.
// Every error it returns is an *errs.Error.
type Gateway interface {
	// ListBuckets returns all accessible buckets in backend order.
	ListBuckets(ctx context.Context) ([]string, error)
	// List performs a delimited listing of prefix inside bucket.
	List(ctx context.Context, bucket, prefix string) (*Listing, error)
	// Put uploads body at key, overwriting any existing object. size < 0 means unknown.
	Put(ctx context.Context, bucket, key string, body io.Reader, size int64) error
	// PutEmpty creates a zero-byte folder marker. key must end in Delimiter.
	PutEmpty(ctx context.Context, bucket, key string) error
	// Delete removes key. An absent key is not an error.
	Delete(ctx context.Context, bucket, key string) error
	// PresignGet returns an anonymous GET URL valid for ttl (DefaultPresignTTL if ttl <= 0).
	PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

type minioGateway struct {
	client Client
}

// NewGateway wraps a MinIO client as a Gateway.
func NewGateway(client Client) Gateway {
	return &minioGateway{client: client}
}

func (g *minioGateway) ListBuckets(ctx context.Context) ([]string, error) {
	raw, err := g.client.ListBuckets(ctx)
	if err != nil {
		return nil, mapError(err, "failed to list buckets")
	}

	names := make([]string, len(raw))
	for i, b := range raw {
		names[i] = b.Name
	}
	return names, nil
}

func (g *minioGateway) List(ctx context.Context, bucket, prefix string) (*Listing, error) {
	if bucket == "" {
		return nil, errs.Invalid("bucket name is empty")
	}

	opts := minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	}

	listing := &Listing{}
	for obj := range g.client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, mapError(obj.Err, "failed to list objects")
		}

		// Non-recursive listings report common prefixes as keys ending in the delimiter.
		// The marker of the listed folder itself is a real object and stays in Objects.
		if strings.HasSuffix(obj.Key, Delimiter) && obj.Key != prefix {
			listing.FolderPrefixes = append(listing.FolderPrefixes, obj.Key)
			continue
		}

		listing.Objects = append(listing.Objects, ObjectRecord{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	return listing, nil
}

func (g *minioGateway) Put(ctx context.Context, bucket, key string, body io.Reader, size int64) error {
	if bucket == "" || key == "" {
		return errs.Invalid("bucket and key are required")
	}
	if size < 0 {
		size = -1
	}

	if _, err := g.client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{}); err != nil {
		return mapError(err, "failed to upload object")
	}
	return nil
}

func (g *minioGateway) PutEmpty(ctx context.Context, bucket, key string) error {
	if !strings.HasSuffix(key, Delimiter) {
		return errs.Invalid("folder marker key %q must end with %q", key, Delimiter)
	}

	_, err := g.client.PutObject(ctx, bucket, key, bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
	if err != nil {
		return mapError(err, "failed to create folder marker")
	}
	return nil
}

func (g *minioGateway) Delete(ctx context.Context, bucket, key string) error {
	if bucket == "" || key == "" {
		return errs.Invalid("bucket and key are required")
	}

	err := g.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
	if IsMissingKey(err) {
		return nil
	}
	return mapError(err, "failed to delete object")
}

func (g *minioGateway) PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}

	u, err := g.client.PresignedGetObject(ctx, bucket, key, ttl, nil)
	if err != nil {
		return "", mapError(err, "failed to generate presigned URL")
	}
	return u.String(), nil
}
