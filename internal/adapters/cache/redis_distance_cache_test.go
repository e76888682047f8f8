package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"trip-planner-service/internal/ports"
)

func newTestRedisCache(t *testing.T, ttl time.Duration) (*RedisDistanceCache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisDistanceCache(client, ttl), srv
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c, _ := newTestRedisCache(t, time.Minute)
	ctx := context.Background()

	want := ports.DistanceResult{DistanceMeters: 1200, DurationSeconds: 300}
	if err := c.Put(ctx, "41.89020,12.49220|41.90090,12.48330|driving", want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := c.Get(ctx, "41.89020,12.49220|41.90090,12.48330|driving")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || *got != want {
		t.Errorf("get = %+v, want %+v", got, want)
	}
}

func TestRedisCacheMissIsNotAnError(t *testing.T) {
	c, _ := newTestRedisCache(t, time.Minute)

	got, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("miss = %+v, want nil", got)
	}
}

func TestRedisCacheEntriesExpire(t *testing.T) {
	c, srv := newTestRedisCache(t, time.Second)
	ctx := context.Background()

	if err := c.Put(ctx, "k", ports.DistanceResult{DistanceMeters: 5}); err != nil {
		t.Fatalf("put: %v", err)
	}

	srv.FastForward(2 * time.Second)

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("entry = %+v, want expired", got)
	}
}
