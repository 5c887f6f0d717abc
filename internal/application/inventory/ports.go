package inventory

import (
	"context"

	"github.com/jhoicas/stock-laundry/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza que el libro, las filas y la línea base se persistan juntos o no se persistan.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		snapRepo repository.SnapshotRepository,
		stateRepo repository.StateRepository,
	) error) error
}
