package cache_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/boddenberg/agenda-bfa-go/internal/domain"
	"github.com/boddenberg/agenda-bfa-go/internal/infra/cache"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*cache.Redis[*domain.Profile], *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewRedis[*domain.Profile](client, "profile:", ttl, zap.NewNop()), mr
}

func TestRedis_SetAndGet(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)

	c.Set("u-1", &domain.Profile{ID: "u-1", Role: domain.RoleProfessional, BusinessID: "b-1"})

	got, ok := c.Get("u-1")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if got.Role != domain.RoleProfessional || got.BusinessID != "b-1" {
		t.Errorf("unexpected profile: %+v", got)
	}
	if !mr.Exists("profile:u-1") {
		t.Error("expected namespaced key in redis")
	}
}

func TestRedis_Expiration(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)

	c.Set("u-1", &domain.Profile{ID: "u-1"})
	mr.FastForward(2 * time.Minute)

	if _, ok := c.Get("u-1"); ok {
		t.Fatal("expected entry to be expired")
	}
}

func TestRedis_Delete(t *testing.T) {
	c, _ := newRedisCache(t, time.Minute)

	c.Set("u-1", &domain.Profile{ID: "u-1"})
	c.Delete("u-1")

	if _, ok := c.Get("u-1"); ok {
		t.Fatal("expected key to be deleted")
	}
}

func TestRedis_OutageIsAMiss(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)
	c.Set("u-1", &domain.Profile{ID: "u-1"})
	mr.Close()

	if _, ok := c.Get("u-1"); ok {
		t.Fatal("expected miss when redis is down")
	}
	c.Set("u-2", &domain.Profile{ID: "u-2"}) // must not panic
}

func TestRedis_CorruptEntryIsAMiss(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)
	if err := mr.Set("profile:u-1", "{not json"); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get("u-1"); ok {
		t.Fatal("expected miss for corrupt entry")
	}
}
