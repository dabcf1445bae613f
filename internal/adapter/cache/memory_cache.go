package cache

import (
	"sync"

	"github.com/example/cart-sync-service/internal/domain"
)

// MemoryDocumentCache хранит копии документов, чтобы вызывающий код не мог
// изменить закэшированные байты.
type MemoryDocumentCache struct {
	mu    sync.RWMutex
	store map[string][]byte
}

func NewMemoryDocumentCache() *MemoryDocumentCache {
	return &MemoryDocumentCache{store: make(map[string][]byte)}
}

func (c *MemoryDocumentCache) Get(id string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	raw, ok := c.store[id]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), raw...), true
}

func (c *MemoryDocumentCache) Set(id string, raw []byte) {
	cp := append([]byte(nil), raw...)
	c.mu.Lock()
	c.store[id] = cp
	c.mu.Unlock()
}

func (c *MemoryDocumentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

var _ domain.DocumentCache = (*MemoryDocumentCache)(nil)
