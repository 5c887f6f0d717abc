package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RestockLineDTO requerimiento de una definición en la ubicación destino.
type RestockLineDTO struct {
	ItemID     string          `json:"itemId"` // id del representante canónico
	RowID      string          `json:"rowId,omitempty"`
	Name       string          `json:"name"`
	Size       string          `json:"size"`
	Category   string          `json:"category"`
	Unit       string          `json:"unit"`
	DailyUsage decimal.Decimal `json:"dailyUsage"`
	CurrentQty int             `json:"currentQty"`
	Target     int             `json:"target"`
	Gap        int             `json:"gap"`
	Level      string          `json:"level"` // EMPTY | CRITICAL | SAFE
}

// RestockListDTO respuesta de GET /api/restock.
type RestockListDTO struct {
	Location     string           `json:"location"`
	Source       string           `json:"source"`
	Period       string           `json:"period"`
	Days         int              `json:"days"`
	SafetyFactor decimal.Decimal  `json:"safetyFactor"`
	Lines        []RestockLineDTO `json:"lines"`
}

// QuickRestockRequest body de POST /api/restock/:itemId.
type QuickRestockRequest struct {
	Location string `json:"location"`
	Period   string `json:"period"`
	Amount   int    `json:"amount,omitempty"` // manual; 0 usa el faltante calculado
}

// RestockReportDTO datos del PDF de reposición.
type RestockReportDTO struct {
	RestockListDTO
	GeneratedAt time.Time
	GeneratedBy string
}
