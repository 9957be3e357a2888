package cache

import (
	"testing"
	"time"
)

func TestCache_GetSet(t *testing.T) {
	c := New(10, time.Minute)

	if _, ok := c.Get(Key("https://example.com/a")); ok {
		t.Fatal("empty cache reported a hit")
	}

	c.Set(Key("https://example.com/a"), []byte("body-a"))

	body, ok := c.Get(Key("https://example.com/a"))
	if !ok {
		t.Fatal("expected a hit after Set")
	}
	if string(body) != "body-a" {
		t.Errorf("got %q, want body-a", body)
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New(10, time.Nanosecond)
	c.Set("k", []byte("v"))

	time.Sleep(time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expired entry reported as a hit")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry not evicted, Len = %d", c.Len())
	}
}

func TestCache_CapacityEviction(t *testing.T) {
	c := New(2, time.Minute)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Set("c", []byte("3"))

	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2 after eviction", c.Len())
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("most recent entry should survive eviction")
	}
}

func TestKey_Deterministic(t *testing.T) {
	if Key("x") != Key("x") {
		t.Error("same URL produced different keys")
	}
	if Key("x") == Key("y") {
		t.Error("different URLs produced the same key")
	}
}
