package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStore_TakeConsumes(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, "s1", Attempt{Quiz: validQuiz(), MuseumKey: "m1"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Take(ctx, "s1")
	if err != nil || got == nil || got.MuseumKey != "m1" {
		t.Fatalf("Take = %+v, %v", got, err)
	}

	again, err := s.Take(ctx, "s1")
	if err != nil || again != nil {
		t.Errorf("second Take should find nothing, got %+v, %v", again, err)
	}
}

func TestMemoryStore_PutOverwrites(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Put(ctx, "s1", Attempt{MuseumKey: "first"})
	s.Put(ctx, "s1", Attempt{MuseumKey: "second"})

	got, _ := s.Take(ctx, "s1")
	if got == nil || got.MuseumKey != "second" {
		t.Errorf("expected the second attempt, got %+v", got)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Put(ctx, "old", Attempt{MuseumKey: "m", ExpiresAt: now.Add(time.Minute)})
	s.Put(ctx, "keep", Attempt{MuseumKey: "m", ExpiresAt: now.Add(time.Hour)})

	now = now.Add(2 * time.Minute)
	if got, _ := s.Take(ctx, "old"); got != nil {
		t.Error("expired attempt should not be returned")
	}

	s.Put(ctx, "stale", Attempt{MuseumKey: "m", ExpiresAt: now.Add(time.Minute)})
	now = now.Add(5 * time.Minute)
	s.Put(ctx, "new", Attempt{MuseumKey: "m"})
	if s.Len() != 2 {
		t.Errorf("expected expired attempts to be swept on Put, have %d", s.Len())
	}
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStore_PutTake(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	a := Attempt{Quiz: validQuiz(), MuseumKey: "m1", ExpiresAt: time.Now().Add(30 * time.Minute)}
	if err := s.Put(ctx, "s1", a); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ttl := mr.TTL(defaultKeyPrefix + "s1"); ttl <= 0 || ttl > 30*time.Minute {
		t.Errorf("unexpected TTL %s", ttl)
	}

	got, err := s.Take(ctx, "s1")
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if got == nil || got.MuseumKey != "m1" || len(got.Quiz.Questions) != 5 {
		t.Fatalf("unexpected attempt %+v", got)
	}
	if mr.Exists(defaultKeyPrefix + "s1") {
		t.Error("Take should delete the key")
	}

	missing, err := s.Take(ctx, "s1")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for a missing key, got %+v, %v", missing, err)
	}
}

func TestRedisStore_KeyExpires(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "s1", Attempt{MuseumKey: "m1", ExpiresAt: time.Now().Add(time.Minute)}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	got, err := s.Take(ctx, "s1")
	if err != nil || got != nil {
		t.Errorf("expected expired key to be gone, got %+v, %v", got, err)
	}
}

func TestRedisStore_ServerDown(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Close()

	if _, err := s.Take(context.Background(), "s1"); err == nil {
		t.Error("expected an error when redis is unreachable")
	}
}

func TestNewRedisStoreFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewRedisStoreFromURL(context.Background(), "redis://"+mr.Addr()+"/0")
	if err != nil {
		t.Fatalf("NewRedisStoreFromURL: %v", err)
	}
	defer s.Close()

	if _, err := NewRedisStoreFromURL(context.Background(), "not a url"); err == nil {
		t.Error("expected a parse error")
	}
}
