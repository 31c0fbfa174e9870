// Package issuer implements the issuing bank side of the protocol: the
// authentication and authorization endpoints and the OTP step-up flow.
package issuer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/paygs/paygs/internal/threeds"
)

// Session is the ephemeral state of one authentication request awaiting its
// OTP challenge.
type Session struct {
	Request   threeds.AuthenticationRequest `json:"request"`
	OTP       string                        `json:"otp"`
	IssuedAt  time.Time                     `json:"issuedAt"`
	Validated bool                          `json:"validated"`
}

// ErrSessionNotFound indicates no session exists for the given id.
var ErrSessionNotFound = errors.New("authentication session not found")

// SessionStore holds authentication sessions. It is an injected dependency so
// the in-memory map can be swapped for a distributed store.
type SessionStore interface {
	Put(ctx context.Context, id string, s Session) error
	Get(ctx context.Context, id string) (Session, error)
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore builds a process-local session store.
func NewMemoryStore() SessionStore {
	return &memoryStore{sessions: make(map[string]Session)}
}

func (s *memoryStore) Put(_ context.Context, id string, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
	return nil
}

func (s *memoryStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	return sess, nil
}

const redisKeyPrefix = "otp:session:"

// RedisStore keeps sessions in Redis so multiple simulator instances can
// share them. Keys carry a TTL as a lazy eviction mechanism; validation still
// re-checks elapsed time against the issue timestamp.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a Redis-backed session store. The TTL should be
// comfortably above the OTP validity window.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Put stores the serialized session under its id.
func (s *RedisStore) Put(ctx context.Context, id string, sess Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+id, payload, s.ttl).Err()
}

// Get loads a session, mapping missing keys to ErrSessionNotFound.
func (s *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	payload, err := s.client.Get(ctx, redisKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrSessionNotFound
		}
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}
