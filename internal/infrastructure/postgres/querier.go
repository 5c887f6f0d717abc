package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier lo que comparten *pgxpool.Pool y pgx.Tx; los repositorios funcionan con cualquiera de los dos.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// schema tablas del inventario. Idempotente.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS item_snapshots (
		position            INTEGER      NOT NULL,
		id                  TEXT         PRIMARY KEY,
		name                TEXT         NOT NULL,
		category            TEXT         NOT NULL DEFAULT '',
		size                TEXT         NOT NULL DEFAULT '',
		unit                TEXT         NOT NULL DEFAULT '',
		usage_type          TEXT         NOT NULL DEFAULT '',
		min_stock_threshold INTEGER      NOT NULL DEFAULT 0,
		daily_usage         NUMERIC(12,4) NOT NULL DEFAULT 0,
		location            TEXT         NOT NULL DEFAULT '',
		expected_qty        INTEGER      NOT NULL DEFAULT 0,
		actual_qty          INTEGER      NOT NULL DEFAULT 0,
		status              TEXT         NOT NULL DEFAULT '',
		condition           TEXT         NOT NULL DEFAULT '',
		last_updated        TEXT         NOT NULL DEFAULT '',
		updated_by          TEXT         NOT NULL DEFAULT '',
		notes               TEXT         NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		seq            BIGSERIAL PRIMARY KEY,
		id             TEXT      NOT NULL UNIQUE,
		item_id        TEXT      NOT NULL DEFAULT '',
		item_name      TEXT      NOT NULL DEFAULT '',
		type           TEXT      NOT NULL,
		quantity       INTEGER   NOT NULL,
		work_shift     TEXT      NOT NULL DEFAULT '',
		item_condition TEXT      NOT NULL DEFAULT '',
		from_location  TEXT      NOT NULL DEFAULT '',
		to_location    TEXT      NOT NULL DEFAULT '',
		date           TEXT      NOT NULL DEFAULT '',
		performed_by   TEXT      NOT NULL DEFAULT '',
		notes          TEXT      NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS app_state (
		key        TEXT        PRIMARY KEY,
		value      JSONB       NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT        PRIMARY KEY,
		name          TEXT        NOT NULL,
		username      TEXT        NOT NULL UNIQUE,
		password_hash TEXT        NOT NULL,
		role          TEXT        NOT NULL,
		email         TEXT        NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema crea las tablas si no existen.
func EnsureSchema(ctx context.Context, q Querier) error {
	for _, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
