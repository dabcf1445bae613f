package usecase

import (
	"context"
	"encoding/json"

	"github.com/example/cart-sync-service/internal/domain"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// GetDocument отдаёт документ из кэша, а при промахе читает его из
// репозитория и кладёт в кэш.
type GetDocument struct {
	Cache domain.DocumentCache
	Repo  domain.DocumentRepository
}

func (uc GetDocument) Execute(ctx context.Context, id string) ([]byte, error) {
	if raw, ok := uc.Cache.Get(id); ok {
		return raw, nil
	}
	if uc.Repo == nil {
		return nil, domain.ErrNotFound
	}
	raw, err := uc.Repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", id)
	}
	uc.Cache.Set(id, raw)
	return raw, nil
}

// LoadCache загружает все документы из репозитория в кэш при старте.
type LoadCache struct {
	Repo  domain.DocumentRepository
	Cache domain.DocumentCache
	Log   logrus.FieldLogger
}

func (uc LoadCache) Execute(ctx context.Context) error {
	return uc.Repo.LoadAll(ctx, func(id string, raw []byte) error {
		if _, err := decodeCart(raw); err != nil {
			// пропускаем битые записи, не прерывая полную загрузку
			if uc.Log != nil {
				uc.Log.WithField("doc", id).WithError(err).Warn("skipping corrupted document")
			}
			return nil
		}
		uc.Cache.Set(id, raw)
		return nil
	})
}

// PutDocument проверяет документ корзины, сохраняет его, обновляет кэш и
// объявляет об изменении. Ошибка публикации события не отменяет сохранение.
type PutDocument struct {
	Repo   domain.DocumentRepository
	Cache  domain.DocumentCache
	Events domain.EventPublisher
	Log    logrus.FieldLogger
}

func (uc PutDocument) Execute(ctx context.Context, id string, raw []byte) error {
	if id == "" {
		return errors.Wrap(domain.ErrValidation, "empty document id")
	}
	if _, err := decodeCart(raw); err != nil {
		return err
	}
	if err := uc.Repo.Upsert(ctx, id, raw); err != nil {
		return errors.Wrapf(err, "upsert %s", id)
	}
	uc.Cache.Set(id, raw)
	if uc.Events != nil {
		if err := uc.Events.Publish(ctx, id, raw); err != nil && uc.Log != nil {
			uc.Log.WithField("doc", id).WithError(err).Warn("publish cart event failed")
		}
	}
	return nil
}

// IncomingDocument описывает конверт сообщения из очереди.
type IncomingDocument struct {
	ID   string          `json:"id"`
	Cart json.RawMessage `json:"cart"`
}

// ProcessIncomingDocument сохраняет документ, пришедший сообщением.
type ProcessIncomingDocument struct {
	Put PutDocument
}

func (uc ProcessIncomingDocument) Execute(ctx context.Context, raw []byte) error {
	var msg IncomingDocument
	if err := json.Unmarshal(raw, &msg); err != nil {
		return errors.Wrap(domain.ErrValidation, err.Error())
	}
	if msg.ID == "" || len(msg.Cart) == 0 {
		return domain.ErrValidation
	}
	return uc.Put.Execute(ctx, msg.ID, msg.Cart)
}

func decodeCart(raw []byte) (domain.Cart, error) {
	var c domain.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, errors.Wrap(domain.ErrValidation, err.Error())
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}
