package main

import (
	"encoding/json"
	"os"

	"github.com/example/cart-sync-service/internal/adapter/natsstan"
	"github.com/example/cart-sync-service/internal/config"
	"github.com/example/cart-sync-service/internal/domain"
	"github.com/example/cart-sync-service/internal/logging"
	"github.com/example/cart-sync-service/internal/usecase"
)

func main() {
	cfg := config.Load()
	log := logging.New(logging.Options{Service: "publisher", Env: cfg.AppEnv, Level: cfg.LogLevel, Format: cfg.LogFormat})
	docID := os.Getenv("DOC_ID")
	if docID == "" {
		docID = "cart"
	}

	var cart domain.Cart
	if err := json.NewDecoder(os.Stdin).Decode(&cart); err != nil {
		log.WithError(err).Fatal("read cart json from stdin")
	}
	cart.Recalculate()
	if err := cart.Validate(); err != nil {
		log.WithError(err).Fatal("invalid cart")
	}
	rawCart, err := json.Marshal(cart)
	if err != nil {
		log.WithError(err).Fatal("marshal cart")
	}
	b, err := json.Marshal(usecase.IncomingDocument{ID: docID, Cart: rawCart})
	if err != nil {
		log.WithError(err).Fatal("marshal envelope")
	}

	pub, err := natsstan.NewPublisher(cfg.StanClusterID, os.Getenv("STAN_PUB_ID"), cfg.NatsURL, cfg.StanSubject)
	if err != nil {
		log.WithError(err).Fatal("stan connect")
	}
	defer pub.Close()

	if err := pub.Publish(b); err != nil {
		log.WithError(err).Fatal("publish")
	}
	log.WithField("bytes", len(b)).WithField("subject", cfg.StanSubject).Info("published cart document")
}
