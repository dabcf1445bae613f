package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/example/cart-sync-service/internal/domain"
)

// MemoryDocumentRepo живёт только в памяти процесса.
type MemoryDocumentRepo struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryDocumentRepo() *MemoryDocumentRepo {
	return &MemoryDocumentRepo{docs: make(map[string][]byte)}
}

func (r *MemoryDocumentRepo) Upsert(_ context.Context, id string, raw []byte) error {
	r.mu.Lock()
	r.docs[id] = append([]byte(nil), raw...)
	r.mu.Unlock()
	return nil
}

func (r *MemoryDocumentRepo) Get(_ context.Context, id string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	raw, ok := r.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (r *MemoryDocumentRepo) LoadAll(ctx context.Context, fn func(id string, raw []byte) error) error {
	r.mu.RLock()
	ids := make([]string, 0, len(r.docs))
	for id := range r.docs {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	for _, id := range ids {
		raw, err := r.Get(ctx, id)
		if err != nil {
			continue
		}
		if err := fn(id, raw); err != nil {
			return err
		}
	}
	return nil
}

var _ domain.DocumentRepository = (*MemoryDocumentRepo)(nil)
