package dto

import "github.com/jhoicas/stock-laundry/internal/domain/entity"

// DashboardSummaryDTO respuesta de GET /api/dashboard.
type DashboardSummaryDTO struct {
	TotalItems      int           `json:"totalItems"`
	Missing         int           `json:"missing"` // conteo físico menor al esperado
	Damaged         int           `json:"damaged"` // condición distinta de GOOD
	Pending         int           `json:"pending"` // esperando aprobación
	AtPrimary       int           `json:"atPrimary"`
	PrimaryLocation string        `json:"primaryLocation"`
	LowStock        []entity.Item `json:"lowStock"` // expectedQty <= minStockThreshold
	Movements       int           `json:"movements"`
}
