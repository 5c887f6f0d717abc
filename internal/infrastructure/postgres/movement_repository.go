package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-laundry/internal/domain"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
	"github.com/jhoicas/stock-laundry/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos sobre PostgreSQL; seq conserva el orden de llegada.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append anexa un movimiento al final del libro.
func (r *MovementRepo) Append(ctx context.Context, m entity.Movement) error {
	query := `
		INSERT INTO stock_movements (id, item_id, item_name, type, quantity, work_shift, item_condition,
		                             from_location, to_location, date, performed_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ItemID, m.ItemName, m.Type, m.Quantity, m.WorkShift, m.ItemCondition,
		m.FromLocation, m.ToLocation, m.Date, m.PerformedBy, m.Notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("append movement %s: %w", m.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("append movement: %w", err)
	}
	return nil
}

// ListAll devuelve el libro en orden de llegada.
func (r *MovementRepo) ListAll(ctx context.Context) ([]entity.Movement, error) {
	query := `
		SELECT id, item_id, item_name, type, quantity, work_shift, item_condition,
		       from_location, to_location, date, performed_by, notes
		FROM stock_movements ORDER BY seq`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, queryErr("list movements", err)
	}
	defer rows.Close()
	var list []entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(
			&m.ID, &m.ItemID, &m.ItemName, &m.Type, &m.Quantity, &m.WorkShift, &m.ItemCondition,
			&m.FromLocation, &m.ToLocation, &m.Date, &m.PerformedBy, &m.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
