package kv

import (
	"testing"
	"time"
)

func TestMemoryStoreSetGet(t *testing.T) {
	s := NewMemoryStore()

	s.Set("code:+15550001111", "482913", time.Minute)

	v, ok := s.Get("code:+15550001111")
	if !ok {
		t.Fatal("expected entry to exist")
	}
	if v != "482913" {
		t.Errorf("got %q, want 482913", v)
	}

	if _, ok := s.Get("code:+15559999999"); ok {
		t.Error("missing key should not exist")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	base := time.Now()
	s.now = func() time.Time { return base }

	s.Set("k", "v", 5*time.Minute)

	base = base.Add(4 * time.Minute)
	s.now = func() time.Time { return base }
	if _, ok := s.Get("k"); !ok {
		t.Error("entry should still be live before TTL")
	}

	base = base.Add(2 * time.Minute)
	s.now = func() time.Time { return base }
	if _, ok := s.Get("k"); ok {
		t.Error("entry should have expired")
	}
}

func TestMemoryStoreNoExpiry(t *testing.T) {
	s := NewMemoryStore()
	base := time.Now()
	s.now = func() time.Time { return base }

	s.Set("k", "v", 0)

	base = base.Add(24 * time.Hour)
	s.now = func() time.Time { return base }
	if _, ok := s.Get("k"); !ok {
		t.Error("zero-ttl entry should never expire")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	s.Set("k", "v", time.Minute)
	s.Delete("k")
	if _, ok := s.Get("k"); ok {
		t.Error("deleted entry should not exist")
	}
}
