package usecase

import (
	"context"
	"testing"

	"github.com/example/cart-sync-service/internal/adapter/cache"
	"github.com/example/cart-sync-service/internal/adapter/repo"
	"github.com/example/cart-sync-service/internal/domain"
	"github.com/pkg/errors"
)

type failingRepo struct{ *repo.MemoryDocumentRepo }

func (failingRepo) Upsert(context.Context, string, []byte) error { return errors.New("db down") }

type countingEvents struct {
	n   int
	err error
}

func (e *countingEvents) Publish(context.Context, string, []byte) error {
	e.n++
	return e.err
}

const validDoc = `{"items":[{"id":"p1","name":"Book","price":"6","quantity":1,"totalPrice":"6"}],"totalQuantity":1,"totalAmount":"6"}`

func TestPutDocument(t *testing.T) {
	ctx := context.Background()
	r := repo.NewMemoryDocumentRepo()
	c := cache.NewMemoryDocumentCache()
	ev := &countingEvents{err: errors.New("broker down")}
	uc := PutDocument{Repo: r, Cache: c, Events: ev, Log: testLogger()}

	if err := uc.Execute(ctx, "cart", []byte(validDoc)); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if raw, ok := c.Get("cart"); !ok || string(raw) != validDoc {
		t.Fatalf("cache = %q, %v", raw, ok)
	}
	if ev.n != 1 {
		t.Fatalf("events published = %d, want 1", ev.n)
	}

	for _, bad := range []string{"{", `{"items":[{"id":"p1","quantity":0}]}`} {
		if err := uc.Execute(ctx, "cart", []byte(bad)); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Execute(%q) = %v, want ErrValidation", bad, err)
		}
	}
	if err := uc.Execute(ctx, "", []byte(validDoc)); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Execute(empty id) = %v, want ErrValidation", err)
	}
	if ev.n != 1 {
		t.Fatalf("events published for rejected documents: %d", ev.n)
	}
}

func TestPutDocumentRepoFailureLeavesCache(t *testing.T) {
	c := cache.NewMemoryDocumentCache()
	uc := PutDocument{Repo: failingRepo{repo.NewMemoryDocumentRepo()}, Cache: c}
	if err := uc.Execute(context.Background(), "cart", []byte(validDoc)); err == nil {
		t.Fatal("Execute() succeeded with failing repo")
	}
	if _, ok := c.Get("cart"); ok {
		t.Fatal("cache updated although upsert failed")
	}
}

func TestLoadCacheSkipsCorrupted(t *testing.T) {
	ctx := context.Background()
	r := repo.NewMemoryDocumentRepo()
	_ = r.Upsert(ctx, "good", []byte(validDoc))
	_ = r.Upsert(ctx, "bad", []byte("{"))
	c := cache.NewMemoryDocumentCache()

	if err := (LoadCache{Repo: r, Cache: c, Log: testLogger()}).Execute(ctx); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if _, err := (GetDocument{Cache: c}).Execute(ctx, "good"); err != nil {
		t.Fatal("good document not cached")
	}
	if _, ok := c.Get("bad"); ok {
		t.Fatal("corrupted document cached")
	}
}

func TestGetDocumentFallsBackToRepo(t *testing.T) {
	ctx := context.Background()
	r := repo.NewMemoryDocumentRepo()
	_ = r.Upsert(ctx, "cart", []byte(validDoc))
	c := cache.NewMemoryDocumentCache()
	uc := GetDocument{Cache: c, Repo: r}

	raw, err := uc.Execute(ctx, "cart")
	if err != nil || string(raw) != validDoc {
		t.Fatalf("Execute(cart) = %q, %v", raw, err)
	}
	if cached, ok := c.Get("cart"); !ok || string(cached) != validDoc {
		t.Fatalf("cache after miss = %q, %v", cached, ok)
	}
	if _, err := uc.Execute(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Execute(missing) = %v, want ErrNotFound", err)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("missing document cached")
	}
	if _, err := (GetDocument{Cache: c}).Execute(ctx, "other"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Execute without repo = %v, want ErrNotFound", err)
	}
}

func TestProcessIncomingDocument(t *testing.T) {
	ctx := context.Background()
	r := repo.NewMemoryDocumentRepo()
	c := cache.NewMemoryDocumentCache()
	uc := ProcessIncomingDocument{Put: PutDocument{Repo: r, Cache: c}}

	if err := uc.Execute(ctx, []byte(`{"id":"cart","cart":`+validDoc+`}`)); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if raw, err := r.Get(ctx, "cart"); err != nil || string(raw) != validDoc {
		t.Fatalf("stored %q, %v", raw, err)
	}

	for _, bad := range []string{"nope", `{"cart":{}}`, `{"id":"cart"}`} {
		if err := uc.Execute(ctx, []byte(bad)); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Execute(%q) = %v, want ErrValidation", bad, err)
		}
	}
}
