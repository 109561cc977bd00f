package report

import (
	"fmt"
	"testing"
)

func TestCachePutGet(t *testing.T) {
	c := NewCache(4)
	key := NewKey("u1", mustDate(t, "2024-01-01"), mustDate(t, "2024-01-07"), 3)

	if c.Get(key) != nil {
		t.Fatal("expected miss on empty cache")
	}

	r := &Report{OwnerID: "u1"}
	c.Put(key, r)

	if got := c.Get(key); got != r {
		t.Fatalf("Get returned %v, want the stored report", got)
	}

	// An identical tuple built independently hits the same entry.
	again := NewKey("u1", mustDate(t, "2024-01-01"), mustDate(t, "2024-01-07"), 3)
	if got := c.Get(again); got != r {
		t.Fatal("independently built identical key missed")
	}
}

func TestCacheKeyIncludesRecordCount(t *testing.T) {
	c := NewCache(4)
	start, end := mustDate(t, "2024-01-01"), mustDate(t, "2024-01-07")

	c.Put(NewKey("u1", start, end, 3), &Report{Records: 3})

	if c.Get(NewKey("u1", start, end, 4)) != nil {
		t.Fatal("changed record count must not hit the old entry")
	}
}

func TestCacheEvictsOldestInserted(t *testing.T) {
	c := NewCache(2)
	start, end := mustDate(t, "2024-01-01"), mustDate(t, "2024-01-07")

	k1 := NewKey("u1", start, end, 1)
	k2 := NewKey("u2", start, end, 1)
	k3 := NewKey("u3", start, end, 1)

	c.Put(k1, &Report{OwnerID: "u1"})
	c.Put(k2, &Report{OwnerID: "u2"})

	// Reading k1 must not refresh it: eviction is insertion order.
	_ = c.Get(k1)
	c.Put(k3, &Report{OwnerID: "u3"})

	if c.Get(k1) != nil {
		t.Fatal("oldest-inserted entry survived eviction")
	}
	if c.Get(k2) == nil || c.Get(k3) == nil {
		t.Fatal("newer entries were evicted")
	}
	if c.Len() != 2 {
		t.Fatalf("cache holds %d entries, want 2", c.Len())
	}
}

func TestCacheLastWriteWins(t *testing.T) {
	c := NewCache(2)
	key := NewKey("u1", mustDate(t, "2024-01-01"), mustDate(t, "2024-01-07"), 1)

	c.Put(key, &Report{Records: 1})
	replacement := &Report{Records: 1, OwnerID: "u1"}
	c.Put(key, replacement)

	if got := c.Get(key); got != replacement {
		t.Fatal("re-put did not replace the stored report")
	}
	if c.Len() != 1 {
		t.Fatalf("re-put grew the cache to %d entries", c.Len())
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := NewCache(8)
	start, end := mustDate(t, "2024-01-01"), mustDate(t, "2024-01-07")

	keys := make([]Key, 0, 4)
	for i := 0; i < 4; i++ {
		k := NewKey(fmt.Sprintf("u%d", i%2), start, end, i)
		keys = append(keys, k)
		c.Put(k, &Report{Records: i})
	}

	c.Invalidate(keys[1])
	if c.Get(keys[1]) != nil {
		t.Fatal("invalidated key still cached")
	}

	c.InvalidateOwner("u0")
	if c.Get(keys[0]) != nil || c.Get(keys[2]) != nil {
		t.Fatal("owner invalidation left entries behind")
	}
	if c.Get(keys[3]) == nil {
		t.Fatal("owner invalidation dropped another owner's entry")
	}

	c.InvalidateAll()
	if c.Len() != 0 {
		t.Fatalf("cache holds %d entries after InvalidateAll", c.Len())
	}
}

func TestCacheLookupIgnoresCount(t *testing.T) {
	c := NewCache(4)
	start, end := mustDate(t, "2024-01-01"), mustDate(t, "2024-01-07")

	c.Put(NewKey("u1", start, end, 3), &Report{Records: 3})
	c.Put(NewKey("u1", start, end, 5), &Report{Records: 5})

	got := c.Lookup("u1", start, end)
	if got == nil {
		t.Fatal("Lookup missed")
	}
	if got.Records != 5 {
		t.Fatalf("Lookup returned Records=%d, want the most recent insert (5)", got.Records)
	}

	if c.Lookup("u2", start, end) != nil {
		t.Fatal("Lookup matched the wrong owner")
	}
}
