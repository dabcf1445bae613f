package domain

import "context"

// Listener получает предыдущее и новое состояние после каждого Dispatch.
type Listener func(prev, next State)

// Store описывает порт контейнера состояния.
type Store interface {
	GetState() State
	Subscribe(l Listener) (unsubscribe func())
	Dispatch(a Action)
}

// CartSender описывает порт удалённого хранилища корзины.
type CartSender interface {
	// SendCart сохраняет корзину целиком; любая ошибка сводится к ErrSyncFailed.
	SendCart(ctx context.Context, cart Cart) error
	FetchCart(ctx context.Context) (Cart, error)
}

// DocumentRepository описывает порт персистентности JSON-документов хранилища.
type DocumentRepository interface {
	Upsert(ctx context.Context, id string, raw []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	LoadAll(ctx context.Context, fn func(id string, raw []byte) error) error
}

// DocumentCache описывает порт быстрого доступа к документам.
type DocumentCache interface {
	Get(id string) ([]byte, bool)
	Set(id string, raw []byte)
}

// MessageSubscriber описывает порт подписчика на входящие документы.
type MessageSubscriber interface {
	// Subscribe регистрирует обработчик; ack/повторные доставки реализует адаптер.
	Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error
}

// EventPublisher объявляет о сохранённых документах.
type EventPublisher interface {
	Publish(ctx context.Context, id string, raw []byte) error
}

// Общие доменные ошибки
var (
	ErrNotFound   = notFoundError("not found")
	ErrValidation = validationError("invalid data")
	ErrSyncFailed = syncError("sending cart data failed")
)

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

type validationError string

func (e validationError) Error() string { return string(e) }

type syncError string

func (e syncError) Error() string { return string(e) }
