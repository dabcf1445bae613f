package repo

import (
	"context"
	"time"

	"github.com/example/cart-sync-service/internal/domain"
	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const documentsKey = "cart-documents"

// RedisDocumentRepo держит все документы в одном хэше Redis: поле = id документа.
type RedisDocumentRepo struct {
	Client *redis.Client
}

// NewRedisDocumentRepo принимает "host:port" или redis:// URL.
func NewRedisDocumentRepo(addr string) *RedisDocumentRepo {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  10 * time.Second,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			PoolSize:     10,
		}
	}
	return &RedisDocumentRepo{Client: redis.NewClient(opts)}
}

// Ping ждёт доступности Redis с экспоненциальной паузой между попытками.
func (r *RedisDocumentRepo) Ping(ctx context.Context, attempts int) error {
	var err error
	for i := 0; i < attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = r.Client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return nil
		}
		backoff := time.Duration(100*(1<<uint(i))) * time.Millisecond
		if backoff > 5*time.Second {
			backoff = 5 * time.Second
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return errors.Wrapf(err, "redis not reachable after %d attempts", attempts)
}

func (r *RedisDocumentRepo) Upsert(ctx context.Context, id string, raw []byte) error {
	return r.Client.HSet(ctx, documentsKey, id, raw).Err()
}

func (r *RedisDocumentRepo) Get(ctx context.Context, id string) ([]byte, error) {
	raw, err := r.Client.HGet(ctx, documentsKey, id).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	return raw, err
}

func (r *RedisDocumentRepo) LoadAll(ctx context.Context, fn func(id string, raw []byte) error) error {
	all, err := r.Client.HGetAll(ctx, documentsKey).Result()
	if err != nil {
		return err
	}
	for id, raw := range all {
		if err := fn(id, []byte(raw)); err != nil {
			return err
		}
	}
	return nil
}

func (r *RedisDocumentRepo) Close() error {
	return r.Client.Close()
}

var _ domain.DocumentRepository = (*RedisDocumentRepo)(nil)
