package natsstan

import (
	"context"
	"time"

	"github.com/example/cart-sync-service/internal/domain"
	"github.com/google/uuid"
	stan "github.com/nats-io/stan.go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Subscriber struct {
	ClusterID string
	ClientID  string
	URL       string
	Subject   string
	Durable   string
	Queue     string
	Log       logrus.FieldLogger
}

func (s *Subscriber) Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error {
	clientID := s.ClientID
	if clientID == "" {
		clientID = "cart-datastore-" + uuid.NewString()
	}
	queue := s.Queue
	if queue == "" {
		queue = "cart-workers"
	}
	log := s.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	sc, err := stan.Connect(s.ClusterID, clientID, stan.NatsURL(s.URL))
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		sc.Close()
	}()
	_, err = sc.QueueSubscribe(s.Subject, queue, func(m *stan.Msg) {
		hCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		entry := log.WithFields(logrus.Fields{"subject": m.Subject, "seq": m.Sequence})
		if err := handler(hCtx, m.Data); err != nil {
			if !settled(err) {
				// не подтверждаем, даём сообщению переотправиться
				entry.WithError(err).Warn("handler error")
				return
			}
			entry.WithError(err).Error("dropping invalid message")
		}
		if err := m.Ack(); err != nil {
			entry.WithError(err).Warn("ack failed")
		}
	}, stan.DurableName(s.Durable), stan.SetManualAckMode(), stan.AckWait(10*time.Second), stan.DeliverAllAvailable())
	return err
}

// settled сообщает, что повтор не поможет: битое сообщение подтверждается,
// чтобы не переотправляться бесконечно.
func settled(err error) bool {
	return err == nil || errors.Is(err, domain.ErrValidation)
}

var _ domain.MessageSubscriber = (*Subscriber)(nil)
