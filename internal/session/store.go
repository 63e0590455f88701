package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrContended is returned when an update keeps losing to concurrent writers.
var ErrContended = errors.New("session update contended")

// UpdateFunc receives the stored snapshot, nil when there is none, and
// returns the snapshot to store. It may run more than once and must not have
// side effects beyond the returned value.
type UpdateFunc func(current *Snapshot) (Snapshot, error)

// Store persists session snapshots by game id. Load returns nil when the
// game has no saved session. Update applies fn atomically with respect to
// every other Update of the same game id.
type Store interface {
	Load(ctx context.Context, gameID string) (*Snapshot, error)
	Update(ctx context.Context, gameID string, fn UpdateFunc) (Snapshot, error)
}

const maxUpdateAttempts = 100

// RedisStore shares sessions between server instances. Updates are
// optimistic: the key is watched while fn runs and the write is retried when
// another writer got there first.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func sessionKey(gameID string) string {
	return "session:" + gameID
}

func decodeSnapshot(gameID string, data []byte, err error) (*Snapshot, error) {
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", gameID, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", gameID, err)
	}
	return &snap, nil
}

func (s *RedisStore) Load(ctx context.Context, gameID string) (*Snapshot, error) {
	data, err := s.rdb.Get(ctx, sessionKey(gameID)).Bytes()
	return decodeSnapshot(gameID, data, err)
}

func (s *RedisStore) Update(ctx context.Context, gameID string, fn UpdateFunc) (Snapshot, error) {
	key := sessionKey(gameID)

	var next Snapshot
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		current, err := decodeSnapshot(gameID, data, err)
		if err != nil {
			return err
		}

		next, err = fn(current)
		if err != nil {
			return err
		}
		encoded, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to encode session %s: %w", gameID, err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return Snapshot{}, err
		}
		if err := ctx.Err(); err != nil {
			return Snapshot{}, err
		}
	}
	return Snapshot{}, fmt.Errorf("%w: game %s after %d attempts", ErrContended, gameID, maxUpdateAttempts)
}

// MemoryStore keeps sessions in process. Used when no redis is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Snapshot
	locks    *keyedMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Snapshot), locks: newKeyedMutex()}
}

func cloneSnapshot(snap Snapshot) Snapshot {
	snap.History = append([]Step(nil), snap.History...)
	return snap
}

func (s *MemoryStore) Load(_ context.Context, gameID string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.sessions[gameID]
	if !ok {
		return nil, nil
	}
	snap = cloneSnapshot(snap)
	return &snap, nil
}

func (s *MemoryStore) Update(ctx context.Context, gameID string, fn UpdateFunc) (Snapshot, error) {
	unlock := s.locks.Lock(gameID)
	defer unlock()

	current, err := s.Load(ctx, gameID)
	if err != nil {
		return Snapshot{}, err
	}
	next, err := fn(current)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	s.sessions[gameID] = cloneSnapshot(next)
	s.mu.Unlock()
	return next, nil
}

// keyedMutex serializes work per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
