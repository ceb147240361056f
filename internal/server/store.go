package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	backend "github.com/redis/go-redis/v9"

	"github.com/goliatone/go-stepform/pkg/sequencer"
)

// ErrSessionNotFound is returned by a Store for unknown session ids.
var ErrSessionNotFound = errors.New("server: session not found")

// Record is the persisted navigation of one session. Revision names the form
// configuration the State was computed against.
type Record struct {
	State    sequencer.State `json:"state"`
	Revision string          `json:"revision"`
}

// Store persists the navigation record of each session.
type Store interface {
	Load(ctx context.Context, sessionID string) (Record, error)
	Save(ctx context.Context, sessionID string, record Record) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	record, ok := m.records[sessionID]
	if !ok {
		return Record{}, ErrSessionNotFound
	}
	return record, nil
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, record Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[sessionID] = record
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, sessionID)
	return nil
}

// RedisStore keeps records in Redis as JSON values.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithTTL sets the expiration of stored sessions. Zero keeps them forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore connects a store to the Redis server at address.
func NewRedisStore(address, password string, db int, opts ...RedisOption) *RedisStore {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreFromClient(client, opts...)
}

// NewRedisStoreFromClient creates a store from an existing client.
func NewRedisStoreFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	store := &RedisStore{
		client: client,
		prefix: "stepform:session:",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	return store
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (Record, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return Record{}, ErrSessionNotFound
		}
		return Record{}, fmt.Errorf("server: redis get: %w", err)
	}

	var record Record
	if err := json.Unmarshal(val, &record); err != nil {
		return Record{}, fmt.Errorf("server: decode session record: %w", err)
	}
	return record, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("server: encode session record: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("server: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("server: redis del: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
