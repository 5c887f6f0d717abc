package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-laundry/internal/domain/entity"
	"github.com/jhoicas/stock-laundry/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

var snapshotColumns = []string{
	"position", "id", "name", "category", "size", "unit", "usage_type", "min_stock_threshold",
	"daily_usage", "location", "expected_qty", "actual_qty", "status", "condition",
	"last_updated", "updated_by", "notes",
}

// SnapshotRepo filas por ubicación sobre PostgreSQL (usable con pool o tx).
type SnapshotRepo struct {
	q Querier
}

// NewSnapshotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSnapshotRepository(q Querier) *SnapshotRepo {
	return &SnapshotRepo{q: q}
}

// LoadAll devuelve todas las filas en el orden en que se guardaron.
func (r *SnapshotRepo) LoadAll(ctx context.Context) ([]entity.Item, error) {
	query := `
		SELECT id, name, category, size, unit, usage_type, min_stock_threshold, daily_usage, location,
		       expected_qty, actual_qty, status, condition, last_updated, updated_by, notes
		FROM item_snapshots ORDER BY position`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, queryErr("list item snapshots", err)
	}
	defer rows.Close()
	var list []entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(
			&it.ID, &it.Name, &it.Category, &it.Size, &it.Unit, &it.UsageType, &it.MinStockThreshold,
			&it.DailyUsage, &it.Location, &it.ExpectedQty, &it.ActualQty, &it.Status, &it.Condition,
			&it.LastUpdated, &it.UpdatedBy, &it.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan item snapshot: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// ReplaceAll sustituye el conjunto completo. Debe correr dentro de una transacción.
func (r *SnapshotRepo) ReplaceAll(ctx context.Context, items []entity.Item) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM item_snapshots`); err != nil {
		return fmt.Errorf("clear item snapshots: %w", err)
	}
	if len(items) == 0 {
		return nil
	}
	rows := make([][]any, len(items))
	for i, it := range items {
		rows[i] = []any{
			i, it.ID, it.Name, it.Category, it.Size, it.Unit, it.UsageType, it.MinStockThreshold,
			it.DailyUsage, it.Location, it.ExpectedQty, it.ActualQty, it.Status, it.Condition,
			it.LastUpdated, it.UpdatedBy, it.Notes,
		}
	}
	if _, err := r.q.CopyFrom(ctx, pgx.Identifier{"item_snapshots"}, snapshotColumns, pgx.CopyFromRows(rows)); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("copy item snapshots: id repetido: %w", err)
		}
		return fmt.Errorf("copy item snapshots: %w", err)
	}
	return nil
}
