package issuer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/paygs/paygs/internal/threeds"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, 4*time.Minute), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	sess := Session{
		Request: threeds.AuthenticationRequest{
			UUID:               "pay-1",
			PAN:                "4024007188053960",
			Amount:             1500,
			ChallengeResultURL: "http://gateway.test/result",
			RedirectURL:        "http://gateway.test/redirect",
		},
		OTP:      "123456",
		IssuedAt: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := store.Put(ctx, "pay-1", sess); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "pay-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.OTP != sess.OTP {
		t.Fatalf("otp = %q, want %q", got.OTP, sess.OTP)
	}
	if !got.IssuedAt.Equal(sess.IssuedAt) {
		t.Fatalf("issuedAt = %v, want %v", got.IssuedAt, sess.IssuedAt)
	}
	if got.Request.ChallengeResultURL != sess.Request.ChallengeResultURL {
		t.Fatalf("challenge url = %q", got.Request.ChallengeResultURL)
	}
}

func TestRedisStoreMissingSession(t *testing.T) {
	store, _ := newRedisStore(t)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestRedisStoreEviction(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "pay-1", Session{OTP: "123456", IssuedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	mr.FastForward(5 * time.Minute)

	if _, err := store.Get(ctx, "pay-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound after eviction", err)
	}
}

func TestMemoryStoreOverwrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, "pay-1", Session{OTP: "111111"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, "pay-1", Session{OTP: "111111", Validated: true}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "pay-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Validated {
		t.Fatal("overwrite lost validated flag")
	}
}
