package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/example/cart-sync-service/internal/domain"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

// CartStored описывает событие о сохранённом документе корзины.
type CartStored struct {
	EventID  string          `json:"eventId"`
	DocID    string          `json:"docId"`
	StoredAt time.Time       `json:"storedAt"`
	Cart     json.RawMessage `json:"cart"`
}

// channel покрывает ту часть *amqp.Channel, которая нужна издателю.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher пишет события CartStored в durable-очередь RabbitMQ.
type AMQPPublisher struct {
	conn  *amqp.Connection
	ch    channel
	queue string
	now   func() time.Time
}

func NewAMQPPublisher(uri, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, errors.Wrap(err, "connect to RabbitMQ")
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "open RabbitMQ channel")
	}
	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, errors.Wrapf(err, "declare queue %s", queue)
	}
	return &AMQPPublisher{conn: conn, ch: ch, queue: q.Name, now: time.Now}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, id string, raw []byte) error {
	ev := CartStored{EventID: uuid.NewString(), DocID: id, StoredAt: p.now().UTC(), Cart: raw}
	body, err := json.Marshal(ev)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}
	return p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Type:         "cart.stored",
		Timestamp:    ev.StoredAt,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// NopPublisher используется, когда брокер не настроен.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, []byte) error { return nil }

var (
	_ domain.EventPublisher = (*AMQPPublisher)(nil)
	_ domain.EventPublisher = NopPublisher{}
)
