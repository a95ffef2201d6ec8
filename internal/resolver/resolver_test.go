package resolver_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/servease/household-services-platform/internal/cache"
	"github.com/servease/household-services-platform/internal/resolver"
)

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) LookupRef(ctx context.Context, kind, ref string) (string, error) {
	args := m.Called(ctx, kind, ref)

	return args.String(0), args.Error(1)
}

// memoryCache is a map-backed cache for resolution strings.
type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}}
}

func (c *memoryCache) Get(_ context.Context, key string, value any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.data[key]
	if !ok {
		return false, nil
	}

	*value.(*string) = cached

	return true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = value.(string)

	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)

	return nil
}

func (c *memoryCache) Close() error { return nil }

func TestIsCanonical(t *testing.T) {
	assert.True(t, resolver.IsCanonical(uuid.NewString()))
	assert.True(t, resolver.IsCanonical("A987FBC9-4BED-4078-8F07-9141BA07C9F3"))
	assert.False(t, resolver.IsCanonical("deep-clean"))
	assert.False(t, resolver.IsCanonical("a987fbc94bed40788f079141ba07c9f3"))
	assert.False(t, resolver.IsCanonical(""))
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("Canonical Ref Skips Lookup", func(t *testing.T) {
		// Arrange
		lookup := &mockLookup{}
		res := resolver.New(lookup, nil, 0, time.Second, 2)
		canonical := uuid.NewString()

		// Act
		outcome := res.Resolve(ctx, resolver.KindService, canonical)

		// Assert
		assert.Equal(t, canonical, outcome.Ref)
		assert.False(t, outcome.Fallback)
		lookup.AssertNotCalled(t, "LookupRef", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Successful Lookup Returns Canonical ID And Caches It", func(t *testing.T) {
		lookup := &mockLookup{}
		memCache := newMemoryCache()
		res := resolver.New(lookup, memCache, time.Hour, time.Second, 2)

		resolved := uuid.NewString()
		lookup.On("LookupRef", mock.Anything, "service", "deep-clean").Return(resolved, nil).Once()

		outcome := res.Resolve(ctx, resolver.KindService, "deep-clean")

		assert.Equal(t, resolved, outcome.Ref)
		assert.False(t, outcome.Fallback)
		assert.Equal(t, resolved, memCache.data[cache.Key(cache.ResolutionKeyPrefix, "service:deep-clean")])
	})

	t.Run("Cache Hit Skips Lookup", func(t *testing.T) {
		lookup := &mockLookup{}
		memCache := newMemoryCache()
		res := resolver.New(lookup, memCache, time.Hour, time.Second, 2)

		cached := uuid.NewString()
		memCache.data[cache.Key(cache.ResolutionKeyPrefix, "category:cleaning")] = cached

		outcome := res.Resolve(ctx, resolver.KindCategory, "cleaning")

		assert.Equal(t, cached, outcome.Ref)
		lookup.AssertNotCalled(t, "LookupRef", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failed Lookup Falls Back To Original Ref", func(t *testing.T) {
		lookup := &mockLookup{}
		res := resolver.New(lookup, nil, 0, time.Second, 2)

		lookup.On("LookupRef", mock.Anything, "service", "deep-clean").Return("", errors.New("config service down")).Once()

		outcome := res.Resolve(ctx, resolver.KindService, "deep-clean")

		assert.Equal(t, "deep-clean", outcome.Ref)
		assert.True(t, outcome.Fallback)
	})
}

func TestResolveAll(t *testing.T) {
	ctx := context.Background()

	t.Run("Outcomes Arrive In Request Order", func(t *testing.T) {
		lookup := &mockLookup{}
		res := resolver.New(lookup, nil, 0, time.Second, 2)

		first := uuid.NewString()
		third := uuid.NewString()

		lookup.On("LookupRef", mock.Anything, "service", "deep-clean").Return(first, nil).Once()
		lookup.On("LookupRef", mock.Anything, "category", "cleaning").Return("", errors.New("unavailable")).Once()
		lookup.On("LookupRef", mock.Anything, "subcategory", "bathroom").Return(third, nil).Once()

		outcomes := res.ResolveAll(ctx, []resolver.Request{
			{Kind: resolver.KindService, Ref: "deep-clean"},
			{Kind: resolver.KindCategory, Ref: "cleaning"},
			{Kind: resolver.KindSubcategory, Ref: "bathroom"},
		})

		assert.Len(t, outcomes, 3)
		assert.Equal(t, resolver.Outcome{Ref: first}, outcomes[0])
		assert.Equal(t, resolver.Outcome{Ref: "cleaning", Fallback: true}, outcomes[1])
		assert.Equal(t, resolver.Outcome{Ref: third}, outcomes[2])
		lookup.AssertExpectations(t)
	})

	t.Run("Empty Batch Yields Empty Outcomes", func(t *testing.T) {
		lookup := &mockLookup{}
		res := resolver.New(lookup, nil, 0, time.Second, 2)

		outcomes := res.ResolveAll(ctx, nil)

		assert.Empty(t, outcomes)
	})

	t.Run("Concurrency Never Exceeds The Bound", func(t *testing.T) {
		var mu sync.Mutex

		inFlight := 0
		peak := 0

		lookup := &mockLookup{}
		lookup.On("LookupRef", mock.Anything, mock.Anything, mock.Anything).
			Run(func(mock.Arguments) {
				mu.Lock()
				inFlight++
				if inFlight > peak {
					peak = inFlight
				}
				mu.Unlock()

				time.Sleep(10 * time.Millisecond)

				mu.Lock()
				inFlight--
				mu.Unlock()
			}).
			Return(uuid.NewString(), nil)

		res := resolver.New(lookup, nil, 0, time.Second, 2)

		requests := make([]resolver.Request, 8)
		for idx := range requests {
			requests[idx] = resolver.Request{Kind: resolver.KindService, Ref: "ref-" + string(rune('a'+idx))}
		}

		outcomes := res.ResolveAll(ctx, requests)

		assert.Len(t, outcomes, len(requests))
		assert.LessOrEqual(t, peak, 2)
	})
}
