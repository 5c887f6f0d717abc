package repository

import (
	"context"

	"github.com/jhoicas/stock-laundry/internal/domain/entity"
)

// SnapshotRepository define el puerto de persistencia de las filas de inventario por ubicación.
// El conjunto se guarda y se lee completo, conservando el orden de inserción.
type SnapshotRepository interface {
	LoadAll(ctx context.Context) ([]entity.Item, error)
	ReplaceAll(ctx context.Context, items []entity.Item) error
}
