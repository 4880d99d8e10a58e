package credstore

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/goodwiins/authflow"
)

func newRedisStoreTest(t *testing.T) (*Redis, *redis.Client, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedis(rdb, "afc")
	return store, rdb, func() {
		rdb.Close()
		mr.Close()
	}
}

func TestRedisSaveLoadClear(t *testing.T) {
	store, rdb, done := newRedisStoreTest(t)
	defer done()
	ctx := context.Background()

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load empty store: %v", err)
	}
	if got != (authflow.SavedCredentials{}) {
		t.Fatalf("empty store not zero: %+v", got)
	}

	if err := store.Save(ctx, "user@example.com"); err != nil {
		t.Fatalf("save: %v", err)
	}

	if v, err := rdb.Get(ctx, "afc:remember_me").Result(); err != nil || v != "1" {
		t.Fatalf("remember_me key = %q, %v", v, err)
	}
	if v, err := rdb.Get(ctx, "afc:saved_email").Result(); err != nil || v != "user@example.com" {
		t.Fatalf("saved_email key = %q, %v", v, err)
	}

	got, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Email != "user@example.com" || !got.RememberMe {
		t.Fatalf("unexpected preference: %+v", got)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n, err := rdb.Exists(ctx, "afc:remember_me", "afc:saved_email").Result(); err != nil || n != 0 {
		t.Fatalf("keys left after clear: %d, %v", n, err)
	}
}

func TestRedisTornRecordLoadsAsEmpty(t *testing.T) {
	store, rdb, done := newRedisStoreTest(t)
	defer done()
	ctx := context.Background()

	// Flag without email.
	if err := rdb.Set(ctx, "afc:remember_me", "1", 0).Err(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != (authflow.SavedCredentials{}) {
		t.Fatalf("torn record surfaced: %+v", got)
	}

	// Email without flag.
	if err := rdb.Del(ctx, "afc:remember_me").Err(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := rdb.Set(ctx, "afc:saved_email", "user@example.com", 0).Err(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != (authflow.SavedCredentials{}) {
		t.Fatalf("torn record surfaced: %+v", got)
	}
}

func TestRedisDefaultPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	store := NewRedis(rdb, "")
	ctx := context.Background()

	if err := store.Save(ctx, "user@example.com"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("afc:saved_email") {
		t.Fatal("default prefix not applied")
	}
}

func TestRedisOutageReportsUnavailable(t *testing.T) {
	store, _, done := newRedisStoreTest(t)
	ctx := context.Background()

	if err := store.Save(ctx, "user@example.com"); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Kill the backend, every call degrades to ErrUnavailable.
	done()

	if _, err := store.Load(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("load after outage = %v, want ErrUnavailable", err)
	}
	if err := store.Save(ctx, "other@example.com"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("save after outage = %v, want ErrUnavailable", err)
	}
	if err := store.Clear(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("clear after outage = %v, want ErrUnavailable", err)
	}
}
