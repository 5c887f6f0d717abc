package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-laundry/internal/domain/repository"
)

var _ repository.StateRepository = (*StateRepo)(nil)

// StateRepo almacén clave-valor JSONB.
type StateRepo struct {
	q Querier
}

// NewStateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStateRepository(q Querier) *StateRepo {
	return &StateRepo{q: q}
}

// Get decodifica el valor de key en dst.
func (r *StateRepo) Get(ctx context.Context, key string, dst any) (bool, error) {
	var raw []byte
	err := r.q.QueryRow(ctx, `SELECT value FROM app_state WHERE key = $1`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, queryErr("get state "+key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("decode state %s: %w", key, err)
	}
	return true, nil
}

// Put inserta o reemplaza key.
func (r *StateRepo) Put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", key, err)
	}
	query := `
		INSERT INTO app_state (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, key, raw); err != nil {
		return fmt.Errorf("put state %s: %w", key, err)
	}
	return nil
}

// Delete elimina key si existe.
func (r *StateRepo) Delete(ctx context.Context, key string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM app_state WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete state %s: %w", key, err)
	}
	return nil
}
