package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/cart-sync-service/internal/adapter/httpapi"
	"github.com/example/cart-sync-service/internal/adapter/remote"
	"github.com/example/cart-sync-service/internal/config"
	"github.com/example/cart-sync-service/internal/domain"
	"github.com/example/cart-sync-service/internal/logging"
	"github.com/example/cart-sync-service/internal/store"
	"github.com/example/cart-sync-service/internal/telemetry"
	"github.com/example/cart-sync-service/internal/usecase"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := config.Load()
	log := logging.New(logging.Options{Service: "shop", Env: cfg.AppEnv, Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tp, err := telemetry.InitTracerProvider(ctx, "shop", cfg.OTLPEndpoint)
	if err != nil {
		log.WithError(err).Fatal("init tracing")
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	st := store.New(domain.State{})
	sender := remote.NewHTTPCartSender(cfg.RemoteBaseURL, 0, log)

	if cfg.LoadOnStart {
		loadCtx, cancelLoad := context.WithTimeout(ctx, 5*time.Second)
		if err := (usecase.LoadRemoteCart{Store: st, Sender: sender}).Execute(loadCtx); err != nil {
			log.WithError(err).Warn("load remote cart, starting empty")
		} else {
			log.WithField("items", st.GetState().Cart.TotalQuantity).Info("remote cart loaded")
		}
		cancelLoad()
	}

	cartSync := newCartSync(cfg, st, sender, log)
	if err := cartSync.Mount(ctx); err != nil {
		log.WithError(err).Fatal("mount cart sync")
	}
	defer cartSync.Unmount()

	srv := &http.Server{
		Addr:              cfg.ShopAddr,
		Handler:           httpapi.NewShopServer(st, domain.DefaultCatalog(), log).Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
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
		log.WithError(err).Error("shop stopped")
	}
}

// newCartSync навешивает SYNC_TIMEOUT дедлайном на контекст запроса.
// У HTTP-клиента отправителя собственного таймаута нет.
func newCartSync(cfg config.Config, st domain.Store, sender domain.CartSender, log logrus.FieldLogger) *usecase.CartSync {
	cs := usecase.NewCartSync(st, sender, log)
	cs.Timeout = cfg.SyncTimeout
	return cs
}
