// Package analytics contiene los indicadores del tablero de inventario.
package analytics

import (
	"github.com/jhoicas/stock-laundry/internal/application/dto"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
)

// InventoryReader lectura de filas y libro (implementado por inventory.Store).
type InventoryReader interface {
	Items() []entity.Item
	Movements() []entity.Movement
	PrimaryLocation() string
}

// DashboardUseCase genera el resumen del tablero a partir del estado actual del inventario.
type DashboardUseCase struct {
	inv InventoryReader
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(inv InventoryReader) *DashboardUseCase {
	return &DashboardUseCase{inv: inv}
}

// GetSummary cuenta filas faltantes, dañadas, pendientes y en la bodega principal,
// y lista las que alcanzaron su umbral mínimo.
func (uc *DashboardUseCase) GetSummary() *dto.DashboardSummaryDTO {
	items := uc.inv.Items()
	primary := uc.inv.PrimaryLocation()

	out := &dto.DashboardSummaryDTO{
		TotalItems:      len(items),
		PrimaryLocation: primary,
		LowStock:        make([]entity.Item, 0),
		Movements:       len(uc.inv.Movements()),
	}
	for _, it := range items {
		if it.IsMissing() {
			out.Missing++
		}
		if it.Condition != entity.ConditionGood {
			out.Damaged++
		}
		if it.Status == entity.ItemStatusPending {
			out.Pending++
		}
		if it.Location == primary {
			out.AtPrimary++
		}
		if it.IsLowStock() {
			out.LowStock = append(out.LowStock, it)
		}
	}
	return out
}
