package cache_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"github.com/servease/household-services-platform/internal/cache"
	"github.com/servease/household-services-platform/internal/models"
)

func TestRedisCacheGet(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - Hit Unmarshals Into The Target", func(t *testing.T) {
		// Arrange
		client, mockRedis := redismock.NewClientMock()
		store := cache.NewRedisCache(client)

		coupon := models.Coupon{Code: "SAVE10", IsActive: true}
		data, _ := json.Marshal(coupon)

		key := cache.Key(cache.CouponKeyPrefix, "save10")
		mockRedis.ExpectGet(key).SetVal(string(data))

		// Act
		var cached models.Coupon
		found, err := store.Get(ctx, key, &cached)

		// Assert
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "SAVE10", cached.Code)
		assert.NoError(t, mockRedis.ExpectationsWereMet())
	})

	t.Run("Success - Miss Is Not An Error", func(t *testing.T) {
		client, mockRedis := redismock.NewClientMock()
		store := cache.NewRedisCache(client)

		key := cache.Key(cache.CouponKeyPrefix, "missing")
		mockRedis.ExpectGet(key).RedisNil()

		var cached models.Coupon
		found, err := store.Get(ctx, key, &cached)

		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Failure - Transport Error Surfaces", func(t *testing.T) {
		client, mockRedis := redismock.NewClientMock()
		store := cache.NewRedisCache(client)

		key := cache.Key(cache.CouponKeyPrefix, "save10")
		mockRedis.ExpectGet(key).SetErr(errors.New("connection reset"))

		var cached models.Coupon
		found, err := store.Get(ctx, key, &cached)

		assert.Error(t, err)
		assert.False(t, found)
	})
}

func TestRedisCacheSet(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		client, mockRedis := redismock.NewClientMock()
		store := cache.NewRedisCache(client)

		key := cache.Key(cache.ResolutionKeyPrefix, "service:deep-clean")
		data, _ := json.Marshal("a987fbc9-4bed-4078-8f07-9141ba07c9f3")

		mockRedis.ExpectSet(key, data, time.Hour).SetVal("OK")

		err := store.Set(ctx, key, "a987fbc9-4bed-4078-8f07-9141ba07c9f3", time.Hour)

		assert.NoError(t, err)
		assert.NoError(t, mockRedis.ExpectationsWereMet())
	})
}

func TestRedisCacheDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		client, mockRedis := redismock.NewClientMock()
		store := cache.NewRedisCache(client)

		key := cache.Key(cache.CouponKeyPrefix, "save10")
		mockRedis.ExpectDel(key).SetVal(1)

		err := store.Delete(ctx, key)

		assert.NoError(t, err)
		assert.NoError(t, mockRedis.ExpectationsWereMet())
	})
}
