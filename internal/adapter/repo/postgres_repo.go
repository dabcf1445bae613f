package repo

import (
	"context"
	"errors"

	"github.com/example/cart-sync-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresDocumentRepo struct {
	Pool *pgxpool.Pool
}

func NewPostgresDocumentRepo(pool *pgxpool.Pool) *PostgresDocumentRepo {
	return &PostgresDocumentRepo{Pool: pool}
}

func (r *PostgresDocumentRepo) Upsert(ctx context.Context, id string, raw []byte) error {
	_, err := r.Pool.Exec(ctx, `INSERT INTO cart_documents(doc_id, payload, updated_at) VALUES($1, $2, now())
        ON CONFLICT (doc_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`, id, raw)
	return err
}

func (r *PostgresDocumentRepo) Get(ctx context.Context, id string) ([]byte, error) {
	var raw []byte
	err := r.Pool.QueryRow(ctx, `SELECT payload FROM cart_documents WHERE doc_id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return raw, err
}

func (r *PostgresDocumentRepo) LoadAll(ctx context.Context, fn func(id string, raw []byte) error) error {
	rows, err := r.Pool.Query(ctx, `SELECT doc_id, payload FROM cart_documents`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return err
		}
		if err := fn(id, raw); err != nil {
			return err
		}
	}
	return rows.Err()
}

var _ domain.DocumentRepository = (*PostgresDocumentRepo)(nil)

// EnsureSchema создаёт таблицу документов, если её нет.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS cart_documents (
  doc_id text PRIMARY KEY,
  payload jsonb NOT NULL,
  updated_at timestamptz NOT NULL DEFAULT now()
);`)
	return err
}
