package browser

import (
	"context"
	"slices"
	"sync"
	"time"

	"bucket-browser/core/errs"
	"bucket-browser/core/storage"

	"golang.org/x/sync/singleflight"
)

// bucketCache shares one ListBuckets result between sessions for a short
// time and collapses concurrent lookups into a single backend call.
type bucketCache struct {
	storage.Gateway

	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time

	mu      sync.RWMutex
	buckets []string
	fetched time.Time
	sf      singleflight.Group
}

// NewCachingGateway wraps gateway so ListBuckets is cached for ttl.
// All other calls go straight through. A ttl <= 0 disables caching.
// The shared fetch is detached from the caller that starts it and bounded by
// timeout instead (no bound when timeout <= 0).
func NewCachingGateway(gateway storage.Gateway, ttl, timeout time.Duration) storage.Gateway {
	if ttl <= 0 {
		return gateway
	}
	return &bucketCache{Gateway: gateway, ttl: ttl, timeout: timeout, now: time.Now}
}

func (c *bucketCache) ListBuckets(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	if c.buckets != nil && c.now().Sub(c.fetched) < c.ttl {
		out := slices.Clone(c.buckets)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	ch := c.sf.DoChan("buckets", func() (any, error) {
		return c.fetch(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, errs.Wrap(errs.KindTransient, "listing buckets interrupted", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]string)), nil
	}
}

func (c *bucketCache) fetch(ctx context.Context) ([]string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	names, err := c.Gateway.ListBuckets(ctx)
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}

	c.mu.Lock()
	c.buckets, c.fetched = names, c.now()
	c.mu.Unlock()
	return names, nil
}
