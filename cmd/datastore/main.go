package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/cart-sync-service/internal/adapter/cache"
	"github.com/example/cart-sync-service/internal/adapter/events"
	"github.com/example/cart-sync-service/internal/adapter/httpapi"
	"github.com/example/cart-sync-service/internal/adapter/natsstan"
	"github.com/example/cart-sync-service/internal/adapter/repo"
	"github.com/example/cart-sync-service/internal/config"
	"github.com/example/cart-sync-service/internal/domain"
	"github.com/example/cart-sync-service/internal/logging"
	"github.com/example/cart-sync-service/internal/telemetry"
	"github.com/example/cart-sync-service/internal/usecase"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	log := logging.New(logging.Options{Service: "datastore", Env: cfg.AppEnv, Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tp, err := telemetry.InitTracerProvider(ctx, "datastore", cfg.OTLPEndpoint)
	if err != nil {
		log.WithError(err).Fatal("init tracing")
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	docRepo, closeRepo, err := openRepo(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("open repository")
	}
	defer closeRepo()

	publisher, closePublisher, err := openEvents(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("open event publisher")
	}
	defer closePublisher()

	docCache := cache.NewMemoryDocumentCache()
	if err := (usecase.LoadCache{Repo: docRepo, Cache: docCache, Log: log}).Execute(ctx); err != nil {
		log.WithError(err).Fatal("load cache")
	}
	log.WithField("documents", docCache.Len()).Info("cache warmed")

	put := usecase.PutDocument{Repo: docRepo, Cache: docCache, Events: publisher, Log: log}
	srv := &http.Server{
		Addr:              cfg.DatastoreAddr,
		Handler:           httpapi.NewDatastoreServer(usecase.GetDocument{Cache: docCache, Repo: docRepo}, put, log).Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sub := &natsstan.Subscriber{
			ClusterID: cfg.StanClusterID,
			ClientID:  cfg.StanClientID,
			URL:       cfg.NatsURL,
			Subject:   cfg.StanSubject,
			Durable:   cfg.StanDurable,
			Log:       log,
		}
		if err := sub.Subscribe(gctx, usecase.ProcessIncomingDocument{Put: put}.Execute); err != nil {
			// без NATS хранилище продолжает работать по HTTP
			log.WithError(err).Warn("stan subscribe")
		}
		return nil
	})
	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("http listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("datastore stopped")
	}
}

func openRepo(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (domain.DocumentRepository, func(), error) {
	switch cfg.DatastoreBackend {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "db connect")
		}
		if err := repo.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, errors.Wrap(err, "init schema")
		}
		log.Info("using postgres backend")
		return repo.NewPostgresDocumentRepo(pool), pool.Close, nil
	case "redis":
		r := repo.NewRedisDocumentRepo(cfg.RedisAddr)
		if err := r.Ping(ctx, 10); err != nil {
			_ = r.Close()
			return nil, nil, err
		}
		log.WithField("addr", cfg.RedisAddr).Info("using redis backend")
		return r, func() { _ = r.Close() }, nil
	case "memory":
		log.Warn("using in-memory backend, documents are lost on restart")
		return repo.NewMemoryDocumentRepo(), func() {}, nil
	default:
		return nil, nil, errors.Errorf("unknown DATASTORE_BACKEND %q", cfg.DatastoreBackend)
	}
}

func openEvents(cfg config.Config, log logrus.FieldLogger) (domain.EventPublisher, func(), error) {
	if cfg.RabbitURI == "" {
		log.Info("RABBITMQ_URI not set, cart events disabled")
		return events.NopPublisher{}, func() {}, nil
	}
	p, err := events.NewAMQPPublisher(cfg.RabbitURI, cfg.RabbitQueue)
	if err != nil {
		return nil, nil, err
	}
	return p, func() { _ = p.Close() }, nil
}
