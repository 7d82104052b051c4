package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}
	c := NewRedisCache(client, DefaultRedisPrefix)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c, mr := setupRedis(t)

	if _, hit, err := c.Get(ctx, "summary:a"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}

	if err := c.Set(ctx, "summary:a", []byte(`{"totalConnections":3}`), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists(DefaultRedisPrefix + "summary:a") {
		t.Error("key should be stored with prefix")
	}

	data, hit, err := c.Get(ctx, "summary:a")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if string(data) != `{"totalConnections":3}` {
		t.Errorf("data = %s", data)
	}

	if err := c.Delete(ctx, "summary:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "summary:a"); hit {
		t.Error("entry should be gone after Delete")
	}
}

func TestRedisCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, mr := setupRedis(t)

	_ = c.Set(ctx, "k", []byte("v"), time.Minute)
	mr.FastForward(2 * time.Minute)

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should expire with its TTL")
	}
}

func TestRedisCacheClosed(t *testing.T) {
	ctx := context.Background()
	c, _ := setupRedis(t)

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if _, _, err := c.Get(ctx, "k"); !errors.Is(err, ErrClosed) {
		t.Errorf("Get after Close err = %v, want ErrClosed", err)
	}
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := DialRedis(context.Background(), "redis://"+mr.Addr()+"/0", "test:")
	if err != nil {
		t.Fatalf("DialRedis: %v", err)
	}
	defer c.Close()

	if _, err := DialRedis(context.Background(), "not a url", ""); err == nil {
		t.Error("expected error for invalid url")
	}
}

func TestRedisCacheClear(t *testing.T) {
	ctx := context.Background()
	c, mr := setupRedis(t)

	for _, k := range []string{"summary:a", "summary:b", "neighborhood:x"} {
		if err := c.Set(ctx, k, []byte("{}"), 0); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	if err := mr.Set("other:key", "keep"); err != nil {
		t.Fatalf("seed foreign key: %v", err)
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d keys, want 3", n)
	}
	if !mr.Exists("other:key") {
		t.Error("Clear should leave keys outside the prefix alone")
	}
	if mr.Exists(DefaultRedisPrefix + "summary:a") {
		t.Error("prefixed key should be gone")
	}
}

func TestRedisCacheClearNeedsPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	defer c.Close()

	if _, err := c.Clear(context.Background()); err == nil {
		t.Error("Clear without prefix should fail")
	}
}
