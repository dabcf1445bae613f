package main

import (
	"context"
	"os"
	"testing"

	"github.com/example/cart-sync-service/internal/adapter/cache"
	"github.com/example/cart-sync-service/internal/config"
	"github.com/example/cart-sync-service/internal/usecase"
	"github.com/sirupsen/logrus/hooks/test"
)

func configWithBackend(backend string) config.Config {
	return config.Config{DatastoreBackend: backend}
}

func TestCacheRecovery(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	log, _ := test.NewNullLogger()
	ctx := context.Background()
	cfg := configWithBackend("postgres")
	cfg.DatabaseURL = dsn

	r, closeRepo, err := openRepo(ctx, cfg, log)
	if err != nil {
		t.Fatalf("openRepo() error = %v", err)
	}
	defer closeRepo()

	if err := r.Upsert(ctx, "recovery-test", []byte(benchDoc)); err != nil {
		t.Fatalf("Failed to insert test data: %v", err)
	}

	c := cache.NewMemoryDocumentCache()
	if err := (usecase.LoadCache{Repo: r, Cache: c, Log: log}).Execute(ctx); err != nil {
		t.Fatalf("LoadCache() error = %v", err)
	}
	if _, ok := c.Get("recovery-test"); !ok {
		t.Error("LoadCache() failed to load document from DB")
	}
}
