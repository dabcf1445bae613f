package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestMemoryDocumentCache(t *testing.T) {
	c := NewMemoryDocumentCache()
	if _, ok := c.Get("cart"); ok {
		t.Fatal("Get on empty cache reported a hit")
	}

	raw := []byte(`{"items":[]}`)
	c.Set("cart", raw)
	raw[0] = 'X'

	got, ok := c.Get("cart")
	if !ok || string(got) != `{"items":[]}` {
		t.Fatalf("Get() = %q, %v", got, ok)
	}
	got[0] = 'Y'
	if again, _ := c.Get("cart"); string(again) != `{"items":[]}` {
		t.Fatalf("cached bytes mutated through Get: %q", again)
	}
}

func TestMemoryDocumentCacheConcurrent(t *testing.T) {
	c := NewMemoryDocumentCache()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("doc-%d", i%10)
			c.Set(id, []byte("null"))
			_, _ = c.Get(id)
		}(i)
	}
	wg.Wait()
	if c.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", c.Len())
	}
}
