package redis

import "testing"

func TestCacheKeyStable(t *testing.T) {
	a := cacheKey("u1", "c1", 3)
	b := cacheKey("u1", "c1", 3)
	if a != b {
		t.Fatalf("same inputs produced different keys: %q vs %q", a, b)
	}
	if a == cacheKey("u1", "c1", 5) {
		t.Fatal("count must be part of the key")
	}
	if a == cacheKey("u1", "c2", 3) {
		t.Fatal("contact must be part of the key")
	}
	if a != "rec:u1:c1:3" {
		t.Fatalf("unexpected key shape %q", a)
	}
}
