// Package restock calcula la cantidad objetivo de reposición por ubicación (servicio de dominio).
package restock

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-laundry/internal/domain"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
)

// Periodos de cobertura admitidos.
const (
	Period1D = "1D"
	Period1W = "1W"
	Period1M = "1M"
)

// Niveles de stock respecto al objetivo.
const (
	LevelEmpty    = "EMPTY"
	LevelCritical = "CRITICAL"
	LevelSafe     = "SAFE"
)

// DefaultSafetyFactor multiplicador de seguridad sobre el consumo del periodo.
var DefaultSafetyFactor = decimal.NewFromInt(2)

// PeriodDays traduce un periodo a días.
func PeriodDays(period string) (int, bool) {
	switch period {
	case Period1D:
		return 1, true
	case Period1W:
		return 7, true
	case Period1M:
		return 30, true
	}
	return 0, false
}

// Requirement objetivo y faltante para una fila.
type Requirement struct {
	Target int `json:"target"`
	Gap    int `json:"gap"`
}

// Calculator aplica la fórmula objetivo = ceil(consumoDiario * días * factor).
type Calculator struct {
	safetyFactor decimal.Decimal
}

// NewCalculator construye el calculador; un factor no positivo usa DefaultSafetyFactor.
func NewCalculator(safetyFactor decimal.Decimal) Calculator {
	if !safetyFactor.IsPositive() {
		safetyFactor = DefaultSafetyFactor
	}
	return Calculator{safetyFactor: safetyFactor}
}

// SafetyFactor devuelve el factor en uso.
func (c Calculator) SafetyFactor() decimal.Decimal {
	return c.safetyFactor
}

// Requirement Faltante = max(Objetivo - StockActual, 0).
func (c Calculator) Requirement(dailyUsage decimal.Decimal, periodDays, currentQty int) Requirement {
	if dailyUsage.IsNegative() || periodDays <= 0 {
		return Requirement{Gap: 0}
	}
	target := int(dailyUsage.Mul(decimal.NewFromInt(int64(periodDays))).Mul(c.safetyFactor).Ceil().IntPart())
	gap := target - currentQty
	if gap < 0 {
		gap = 0
	}
	return Requirement{Target: target, Gap: gap}
}

// Level clasifica la cantidad: vacía, crítica (menos de la mitad del objetivo) o segura.
func Level(qty, target int) string {
	switch {
	case qty <= 0:
		return LevelEmpty
	case qty*2 < target:
		return LevelCritical
	default:
		return LevelSafe
	}
}

// BuildReplenishment arma el traslado desde la bodega fuente hacia target. La cantidad manual
// gana cuando es positiva; si no, se usa el faltante calculado.
func BuildReplenishment(def entity.Item, source, target string, manual, gap int, actor entity.Actor, now time.Time) (entity.Movement, error) {
	qty := gap
	if manual > 0 {
		qty = manual
	}
	if qty <= 0 {
		return entity.Movement{}, fmt.Errorf("%w: %s en %s", domain.ErrNothingToRestock, def.Name, target)
	}
	return entity.Movement{
		ItemID:        def.ID,
		ItemName:      def.Name,
		Type:          entity.MovementTypeSHIFT,
		Quantity:      qty,
		WorkShift:     entity.WorkShiftAdmin,
		ItemCondition: entity.ConditionGood,
		FromLocation:  source,
		ToLocation:    target,
		Date:          now.UTC().Format(time.RFC3339),
		PerformedBy:   actor.Name,
		Notes:         "Quick restock",
	}, nil
}
