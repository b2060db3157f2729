// Package storage is a small JSON-file key-value store with expiry
// semantics. It stands in for the storefront's browser storage: every
// Set writes the whole file synchronously, so a restart always sees the
// last committed state. Last write wins; there is no cross-process
// coordination.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const janitorInterval = 2 * time.Minute

// ErrQuotaExceeded is returned when a Set would push the serialized
// file past the configured size cap. Callers decide the eviction
// policy; the store itself never drops foreign keys.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

type record struct {
	Value     json.RawMessage `json:"value"`
	StoredAt  time.Time       `json:"stored_at"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

type Store struct {
	mu       sync.Mutex
	path     string
	maxBytes int64
	data     map[string]record
}

// New opens (or creates) the backing file and loads whatever survived
// the last run. maxBytes <= 0 disables the quota.
func New(path string, maxBytes int64) (*Store, error) {
	s := &Store{
		path:     path,
		maxBytes: maxBytes,
		data:     make(map[string]record),
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Get unmarshals the value at key into dest. Expired entries read as
// absent and are removed on the spot.
func (s *Store) Get(key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data[key]
	if !ok {
		return false, nil
	}
	if rec.ExpiresAt != nil && time.Now().After(*rec.ExpiresAt) {
		delete(s.data, key)
		return false, nil
	}
	if err := json.Unmarshal(rec.Value, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value under key and persists immediately. ttl <= 0 means
// the entry never expires.
func (s *Store) Set(key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := record{Value: raw, StoredAt: time.Now()}
	if ttl > 0 {
		exp := time.Now().Add(ttl)
		rec.ExpiresAt = &exp
	}

	prev, hadPrev := s.data[key]
	s.data[key] = rec

	if err := s.flush(); err != nil {
		// roll back the in-memory state so memory and disk agree
		if hadPrev {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flush()
}

// Keys returns the live (non-expired) keys.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	keys := make([]string, 0, len(s.data))
	for k, rec := range s.data {
		if rec.ExpiresAt != nil && now.After(*rec.ExpiresAt) {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// OldestKey returns the key with the earliest StoredAt, for callers
// implementing evict-oldest quota policies.
func (s *Store) OldestKey() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var oldest string
	var oldestAt time.Time
	found := false
	for k, rec := range s.data {
		if !found || rec.StoredAt.Before(oldestAt) {
			oldest, oldestAt, found = k, rec.StoredAt, true
		}
	}
	return oldest, found
}

// Start runs the expiry janitor until ctx is cancelled.
func (s *Store) Start(ctx context.Context) error {
	go func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func (s *Store) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	dirty := false
	for k, rec := range s.data {
		if rec.ExpiresAt != nil && now.After(*rec.ExpiresAt) {
			delete(s.data, k)
			dirty = true
		}
	}
	if dirty {
		// expiry is best effort, a failed flush retries next tick
		_ = s.flush()
	}
}

// flush serializes everything and writes through a temp file rename.
// Caller must hold the lock.
func (s *Store) flush() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return err
	}
	if s.maxBytes > 0 && int64(len(raw)) > s.maxBytes {
		return ErrQuotaExceeded
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
