package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-laundry/internal/domain/entity"
)

// RegisterMovementRequest body para POST /api/movements.
type RegisterMovementRequest struct {
	ItemID        string `json:"itemId"`
	ItemName      string `json:"itemName"`
	Type          string `json:"type"`
	Quantity      int    `json:"quantity"`
	WorkShift     string `json:"workShift"`
	ItemCondition string `json:"itemCondition"`
	FromLocation  string `json:"fromLocation,omitempty"`
	ToLocation    string `json:"toLocation,omitempty"`
	Date          string `json:"date,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// ToMovement convierte el request en un movimiento sin id ni autor.
func (r RegisterMovementRequest) ToMovement() entity.Movement {
	return entity.Movement{
		ItemID:        r.ItemID,
		ItemName:      r.ItemName,
		Type:          r.Type,
		Quantity:      r.Quantity,
		WorkShift:     r.WorkShift,
		ItemCondition: r.ItemCondition,
		FromLocation:  r.FromLocation,
		ToLocation:    r.ToLocation,
		Date:          r.Date,
		Notes:         r.Notes,
	}
}

// MovementResponse resultado de registrar un movimiento.
type MovementResponse struct {
	Movement entity.Movement `json:"movement"`
	Applied  bool            `json:"applied"` // false: IN registrado sin fila destino
	Touched  []entity.Item   `json:"touched"`
}

// MovementListResponse listado paginado del libro (más recientes primero).
type MovementListResponse struct {
	Movements []entity.Movement `json:"movements"`
	Page      PageResponse      `json:"page"`
}

// CreateItemRequest alta de una definición de artículo en una ubicación.
type CreateItemRequest struct {
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Size              string          `json:"size"`
	Unit              string          `json:"unit"`
	UsageType         string          `json:"usageType"`
	MinStockThreshold int             `json:"minStockThreshold"`
	DailyUsage        decimal.Decimal `json:"dailyUsage"`
	Location          string          `json:"location"`
	ExpectedQty       int             `json:"expectedQty"`
	ActualQty         *int            `json:"actualQty,omitempty"`
	Notes             string          `json:"notes,omitempty"`
}

// UpdateItemRequest cambios parciales sobre una fila. ExpectedQty no se edita: solo cambia por movimientos.
type UpdateItemRequest struct {
	Name              *string          `json:"name,omitempty"`
	Category          *string          `json:"category,omitempty"`
	Size              *string          `json:"size,omitempty"`
	Unit              *string          `json:"unit,omitempty"`
	UsageType         *string          `json:"usageType,omitempty"`
	MinStockThreshold *int             `json:"minStockThreshold,omitempty"`
	DailyUsage        *decimal.Decimal `json:"dailyUsage,omitempty"`
	ActualQty         *int             `json:"actualQty,omitempty"`
	Status            *string          `json:"status,omitempty"`
	Condition         *string          `json:"condition,omitempty"`
	Notes             *string          `json:"notes,omitempty"`
}

// ReplayResponse resultado de recomputar las cantidades desde el libro.
type ReplayResponse struct {
	Corrected int        `json:"corrected"`
	Created   int        `json:"created"`
	Skipped   int        `json:"skipped"`
	Drifts    []DriftDTO `json:"drifts"`
}

// DriftDTO fila corregida por la reconciliación.
type DriftDTO struct {
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
	Size     string `json:"size"`
	Location string `json:"location"`
	Recorded int    `json:"recorded"`
	Derived  int    `json:"derived"`
}

// ImportResult resultado de la carga masiva de datos maestros.
type ImportResult struct {
	Imported []entity.Item  `json:"imported"`
	Skipped  int            `json:"skipped"` // líneas vacías o sin nombre
	Errors   []ImportError  `json:"errors"`
}

// ImportError línea rechazada de la carga masiva.
type ImportError struct {
	Line    int    `json:"line"`
	Name    string `json:"name"`
	Message string `json:"message"`
}
