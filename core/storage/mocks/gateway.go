package mocks

import (
	"context"
	"io"
	"time"

	"bucket-browser/core/storage"

	"github.com/stretchr/testify/mock"
)

// Gateway is a mock implementation of storage.Gateway
type Gateway struct {
	mock.Mock
}

func (m *Gateway) ListBuckets(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if names, ok := args.Get(0).([]string); ok {
		return names, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Gateway) List(ctx context.Context, bucket, prefix string) (*storage.Listing, error) {
	args := m.Called(ctx, bucket, prefix)
	if listing, ok := args.Get(0).(*storage.Listing); ok {
		return listing, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Gateway) Put(ctx context.Context, bucket, key string, body io.Reader, size int64) error {
	args := m.Called(ctx, bucket, key, body, size)
	return args.Error(0)
}

func (m *Gateway) PutEmpty(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *Gateway) Delete(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *Gateway) PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, ttl)
	return args.String(0), args.Error(1)
}
