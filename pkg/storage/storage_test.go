package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newStore(t *testing.T, maxBytes int64) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "store.json"), maxBytes)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestStore(t *testing.T) {
	tests := []struct {
		name    string
		actions func(s *Store, t *testing.T)
	}{
		{
			name: "set and get",
			actions: func(s *Store, t *testing.T) {
				if err := s.Set("cart", []string{"a", "b"}, 0); err != nil {
					t.Fatalf("Set: %v", err)
				}
				var got []string
				ok, err := s.Get("cart", &got)
				if err != nil || !ok {
					t.Fatalf("Get: ok=%v err=%v", ok, err)
				}
				if len(got) != 2 || got[0] != "a" {
					t.Errorf("got %v", got)
				}
			},
		},
		{
			name: "missing key",
			actions: func(s *Store, t *testing.T) {
				var got string
				ok, err := s.Get("nope", &got)
				if err != nil {
					t.Fatalf("Get: %v", err)
				}
				if ok {
					t.Error("expected miss")
				}
			},
		},
		{
			name: "expired entry reads as absent",
			actions: func(s *Store, t *testing.T) {
				if err := s.Set("session", "x", 20*time.Millisecond); err != nil {
					t.Fatalf("Set: %v", err)
				}
				time.Sleep(40 * time.Millisecond)
				var got string
				ok, _ := s.Get("session", &got)
				if ok {
					t.Error("expected expiry")
				}
			},
		},
		{
			name: "delete",
			actions: func(s *Store, t *testing.T) {
				if err := s.Set("k", 1, 0); err != nil {
					t.Fatalf("Set: %v", err)
				}
				if err := s.Delete("k"); err != nil {
					t.Fatalf("Delete: %v", err)
				}
				var got int
				if ok, _ := s.Get("k", &got); ok {
					t.Error("expected key gone")
				}
			},
		},
		{
			name: "janitor removes expired",
			actions: func(s *Store, t *testing.T) {
				ctx, cancel := context.WithCancel(context.Background())
				defer cancel()
				if err := s.Start(ctx); err != nil {
					t.Fatalf("Start: %v", err)
				}
				if err := s.Set("k", "v", 10*time.Millisecond); err != nil {
					t.Fatalf("Set: %v", err)
				}
				time.Sleep(20 * time.Millisecond)
				s.cleanup()
				var got string
				if ok, _ := s.Get("k", &got); ok {
					t.Error("expected cleanup to drop expired key")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.actions(newStore(t, 0), t)
		})
	}
}

func TestStoreQuota(t *testing.T) {
	s := newStore(t, 256)

	if err := s.Set("first", strings.Repeat("a", 50), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	err := s.Set("big", strings.Repeat("b", 500), 0)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}

	// a rejected write must not clobber existing data
	var got string
	ok, _ := s.Get("first", &got)
	if !ok || !strings.HasPrefix(got, "aaa") {
		t.Errorf("first entry lost after rejected write: ok=%v got=%q", ok, got)
	}
	if ok, _ := s.Get("big", new(string)); ok {
		t.Error("rejected write must not be readable")
	}
}

func TestStoreReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	s1, err := New(path, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s1.Set("orders", []int{1, 2, 3}, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}

	s2, err := New(path, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var got []int
	ok, err := s2.Get("orders", &got)
	if err != nil || !ok || len(got) != 3 {
		t.Fatalf("reload: ok=%v err=%v got=%v", ok, err, got)
	}
}

func TestStoreOldestKey(t *testing.T) {
	s := newStore(t, 0)
	if err := s.Set("old", 1, 0); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := s.Set("new", 2, 0); err != nil {
		t.Fatal(err)
	}

	key, ok := s.OldestKey()
	if !ok || key != "old" {
		t.Errorf("OldestKey = %q ok=%v, want old", key, ok)
	}
}
