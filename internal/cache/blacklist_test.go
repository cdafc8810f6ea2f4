package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestTokenBlacklistAddContains(t *testing.T) {
	bl := NewTokenBlacklist(newTestRedis(t))
	ctx := context.Background()

	found, err := bl.Contains(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if found {
		t.Fatal("unrevoked JTI must not be blacklisted")
	}

	if err := bl.Add(ctx, "jti-1", time.Minute); err != nil {
		t.Fatalf("Add: %v", err)
	}

	found, err = bl.Contains(ctx, "jti-1")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if !found {
		t.Fatal("revoked JTI must be blacklisted")
	}
}

func TestTokenBlacklistAddTwice(t *testing.T) {
	bl := NewTokenBlacklist(newTestRedis(t))
	ctx := context.Background()

	if err := bl.Add(ctx, "jti-2", time.Minute); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := bl.Add(ctx, "jti-2", time.Minute); err != nil {
		t.Fatalf("second Add must not fail: %v", err)
	}
}

func TestTokenBlacklistExpiredTTLIsNoop(t *testing.T) {
	bl := NewTokenBlacklist(newTestRedis(t))
	ctx := context.Background()

	if err := bl.Add(ctx, "jti-3", -time.Second); err != nil {
		t.Fatalf("Add with expired TTL: %v", err)
	}
	found, err := bl.Contains(ctx, "jti-3")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if found {
		t.Fatal("expired token needs no blacklist entry")
	}
}

func TestCacheHelperRoundTrip(t *testing.T) {
	helper := NewCacheHelper(newTestRedis(t), "test:")
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	if err := helper.Set(ctx, "k", payload{Name: "a", Count: 2}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got payload
	if err := helper.Get(ctx, "k", &got); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "a" || got.Count != 2 {
		t.Fatalf("unexpected payload: %+v", got)
	}

	if err := helper.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := helper.Get(ctx, "k", &got); err != ErrCacheNotFound {
		t.Fatalf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelperNilClient(t *testing.T) {
	helper := NewCacheHelper(nil, "test:")
	ctx := context.Background()

	if err := helper.Set(ctx, "k", 1, time.Minute); err != nil {
		t.Fatalf("Set with nil client must degrade: %v", err)
	}
	var v int
	if err := helper.Get(ctx, "k", &v); err != ErrCacheNotAvailable {
		t.Fatalf("expected ErrCacheNotAvailable, got %v", err)
	}
}
