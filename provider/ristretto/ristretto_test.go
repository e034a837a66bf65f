package ristretto

import (
	"sort"
	"testing"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(Config{NumCounters: 1000, MaxCost: 1 << 20, BufferItems: 64})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected error for zero config")
	}
}

func TestSetIsVisibleImmediately(t *testing.T) {
	p := newTestProvider(t)
	ok, err := p.Set("k", []byte("v"))
	if err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	if b, ok, err := p.Get("k"); err != nil || !ok || string(b) != "v" {
		t.Fatalf("Get: %q ok=%v err=%v", b, ok, err)
	}
}

func TestKeysTracksSetAndDel(t *testing.T) {
	p := newTestProvider(t)
	for _, k := range []string{"a", "b", "c"} {
		if ok, err := p.Set(k, []byte(k)); err != nil || !ok {
			t.Fatalf("Set %s: ok=%v err=%v", k, ok, err)
		}
	}
	if err := p.Del("b"); err != nil {
		t.Fatal(err)
	}
	keys, err := p.Keys()
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "c" {
		t.Fatalf("keys=%v want [a c]", keys)
	}
}

func TestOversizedValueIsRejectedNotError(t *testing.T) {
	p, err := New(Config{NumCounters: 100, MaxCost: 8, BufferItems: 64})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	ok, err := p.Set("big", make([]byte, 64))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected rejection for cost > MaxCost")
	}
	keys, _ := p.Keys()
	if len(keys) != 0 {
		t.Fatalf("rejected key must not be indexed: %v", keys)
	}
}
