package repository

import (
	"context"

	"github.com/jhoicas/stock-laundry/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de movimientos (solo anexar).
type MovementRepository interface {
	Append(ctx context.Context, m entity.Movement) error
	ListAll(ctx context.Context) ([]entity.Movement, error)
}
