package pslcache

import (
	"testing"
	"time"

	"github.com/globalsign/etld/rules"
)

func TestMemoryCacheFetchStore(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Fetch("https://example.invalid/list.dat"); ok {
		t.Fatal("Fetch on an empty cache returned ok = true")
	}

	snap := rules.Snapshot{ICANN: rules.NodeSnapshot{Terminal: true}}
	if !c.Store("https://example.invalid/list.dat", snap, time.Minute) {
		t.Fatal("Store returned false")
	}

	got, ok := c.Fetch("https://example.invalid/list.dat")
	if !ok {
		t.Fatal("Fetch after Store returned ok = false")
	}
	if !got.ICANN.Terminal {
		t.Error("fetched snapshot does not match stored snapshot")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Millisecond)
	c.Store("k", rules.Snapshot{}, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Fetch("k"); ok {
		t.Error("Fetch returned ok = true for an expired entry")
	}
}
