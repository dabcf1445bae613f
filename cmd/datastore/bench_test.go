package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/cart-sync-service/internal/adapter/cache"
	"github.com/example/cart-sync-service/internal/adapter/httpapi"
	"github.com/example/cart-sync-service/internal/adapter/repo"
	"github.com/example/cart-sync-service/internal/usecase"
	"github.com/sirupsen/logrus/hooks/test"
)

const benchDoc = `{"items":[{"id":"p1","name":"My First Book","price":"6","quantity":2,"totalPrice":"12"}],"totalQuantity":2,"totalAmount":"12"}`

func BenchmarkHandleGet(b *testing.B) {
	// HTTP-адаптер с кэшем в памяти и заранее заполненными документами
	docCache := cache.NewMemoryDocumentCache()
	for i := 0; i < 1000; i++ {
		docCache.Set(fmt.Sprintf("cart-%d", i), []byte(benchDoc))
	}
	log, _ := test.NewNullLogger()
	put := usecase.PutDocument{Repo: repo.NewMemoryDocumentRepo(), Cache: docCache}
	router := httpapi.NewDatastoreServer(usecase.GetDocument{Cache: docCache}, put, log).Router

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/cart-%d.json", i%1000), nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			i++
		}
	})
}

func BenchmarkHandlePut(b *testing.B) {
	log, _ := test.NewNullLogger()
	docCache := cache.NewMemoryDocumentCache()
	put := usecase.PutDocument{Repo: repo.NewMemoryDocumentRepo(), Cache: docCache}
	router := httpapi.NewDatastoreServer(usecase.GetDocument{Cache: docCache}, put, log).Router

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPut, "/cart.json", strings.NewReader(benchDoc))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := cache.NewMemoryDocumentCache()
	for i := 0; i < 10000; i++ {
		c.Set(fmt.Sprintf("cart-%d", i), []byte(benchDoc))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get(fmt.Sprintf("cart-%d", i%10000))
	}
}

func TestOpenRepoMemoryAndUnknown(t *testing.T) {
	log, _ := test.NewNullLogger()
	ctx := context.Background()

	r, closeRepo, err := openRepo(ctx, configWithBackend("memory"), log)
	if err != nil || r == nil {
		t.Fatalf("openRepo(memory) = %v, %v", r, err)
	}
	closeRepo()

	if _, _, err := openRepo(ctx, configWithBackend("sqlite"), log); err == nil {
		t.Fatal("openRepo(sqlite) succeeded")
	}
}

func TestOpenEventsWithoutBroker(t *testing.T) {
	log, _ := test.NewNullLogger()
	p, closeEvents, err := openEvents(configWithBackend("memory"), log)
	if err != nil {
		t.Fatalf("openEvents() error = %v", err)
	}
	defer closeEvents()
	if err := p.Publish(context.Background(), "cart", []byte("null")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
}
