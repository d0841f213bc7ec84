package storage

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps cart slots in a single keyed table, created by the embedded
// migrations.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Load(ctx context.Context, token string) ([]byte, bool, error) {
	const q = `
SELECT payload
FROM cart_slots
WHERE slot_key = $1
`
	var payload []byte
	if err := p.pool.QueryRow(ctx, q, slotKey(token)).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

func (p *Postgres) Save(ctx context.Context, token string, payload []byte) error {
	const q = `
INSERT INTO cart_slots (slot_key, payload, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (slot_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
`
	_, err := p.pool.Exec(ctx, q, slotKey(token), payload)
	return err
}
