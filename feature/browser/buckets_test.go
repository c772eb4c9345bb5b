package browser

import (
	"context"
	"testing"
	"time"

	"bucket-browser/core/errs"
	"bucket-browser/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCachingGateway_ListBuckets(t *testing.T) {
	gw := new(mocks.Gateway)
	gw.On("ListBuckets", mock.Anything).Return([]string{"assets", "docs"}, nil).Twice()

	cached := NewCachingGateway(gw, time.Minute, time.Second).(*bucketCache)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return now }

	for range 3 {
		names, err := cached.ListBuckets(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"assets", "docs"}, names)
	}
	gw.AssertNumberOfCalls(t, "ListBuckets", 1)

	now = now.Add(2 * time.Minute)
	_, err := cached.ListBuckets(context.Background())
	require.NoError(t, err)
	gw.AssertNumberOfCalls(t, "ListBuckets", 2)
}

func TestCachingGateway_ErrorsAreNotCached(t *testing.T) {
	gw := new(mocks.Gateway)
	gw.On("ListBuckets", mock.Anything).Return(nil, errs.New(errs.KindTransient, "timeout")).Once()
	gw.On("ListBuckets", mock.Anything).Return([]string{"docs"}, nil).Once()

	cached := NewCachingGateway(gw, time.Minute, time.Second)

	_, err := cached.ListBuckets(context.Background())
	assert.True(t, errs.IsTransient(err))

	names, err := cached.ListBuckets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"docs"}, names)
}

func TestCachingGateway_CancelledCallerDoesNotFailOthers(t *testing.T) {
	gw := new(mocks.Gateway)
	release := make(chan struct{})
	started := make(chan struct{})
	gw.On("ListBuckets", mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
			assert.NoError(t, args.Get(0).(context.Context).Err())
		}).
		Return([]string{"docs"}, nil).Once()

	cached := NewCachingGateway(gw, time.Minute, 5*time.Second)

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cached.ListBuckets(first)
		firstErr <- err
	}()
	<-started

	type result struct {
		names []string
		err   error
	}
	second := make(chan result, 1)
	go func() {
		names, err := cached.ListBuckets(context.Background())
		second <- result{names, err}
	}()

	cancel()
	assert.True(t, errs.IsTransient(<-firstErr))

	close(release)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, []string{"docs"}, res.names)
	gw.AssertNumberOfCalls(t, "ListBuckets", 1)
}

func TestCachingGateway_Disabled(t *testing.T) {
	gw := new(mocks.Gateway)
	assert.Same(t, gw, NewCachingGateway(gw, 0, time.Second))
}

func TestCachingGateway_PassesThroughWrites(t *testing.T) {
	gw := new(mocks.Gateway)
	gw.On("Delete", mock.Anything, "docs", "a.txt").Return(nil)

	cached := NewCachingGateway(gw, time.Minute, time.Second)
	require.NoError(t, cached.Delete(context.Background(), "docs", "a.txt"))
	gw.AssertExpectations(t)
}
