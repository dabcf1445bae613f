package natsstan

import (
	"github.com/google/uuid"
	stan "github.com/nats-io/stan.go"
	"github.com/pkg/errors"
)

// Publisher отправляет документы корзины в канал, который читает Subscriber.
type Publisher struct {
	conn    stan.Conn
	subject string
}

func NewPublisher(clusterID, clientID, url, subject string) (*Publisher, error) {
	if clientID == "" {
		clientID = "cart-publisher-" + uuid.NewString()
	}
	sc, err := stan.Connect(clusterID, clientID, stan.NatsURL(url))
	if err != nil {
		return nil, errors.Wrap(err, "stan connect")
	}
	return &Publisher{conn: sc, subject: subject}, nil
}

func (p *Publisher) Publish(raw []byte) error {
	return errors.Wrapf(p.conn.Publish(p.subject, raw), "publish to %s", p.subject)
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}
