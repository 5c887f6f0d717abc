package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-laundry/internal/application/dto"
	"github.com/jhoicas/stock-laundry/internal/application/ports"
	"github.com/jhoicas/stock-laundry/internal/domain"
	"github.com/jhoicas/stock-laundry/internal/domain/catalog"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
	"github.com/jhoicas/stock-laundry/internal/domain/restock"
)

// ReplenishmentUseCase genera la lista de reposición de una ubicación a partir del catálogo canónico
// y ejecuta la reposición rápida como traslado desde la bodega principal.
type ReplenishmentUseCase struct {
	store  *Store
	calc   restock.Calculator
	clock  ports.Clock
	report ports.RestockReportGenerator
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	store *Store,
	calc restock.Calculator,
	clock ports.Clock,
	report ports.RestockReportGenerator,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{store: store, calc: calc, clock: clock, report: report}
}

// GenerateReplenishmentList devuelve, por cada definición canónica, la cantidad en location,
// el objetivo para el periodo y el faltante. period vacío equivale a una semana.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(location, period, query string) (*dto.RestockListDTO, error) {
	days, period, err := uc.validate(location, period)
	if err != nil {
		return nil, err
	}
	view := catalog.ProjectAt(uc.store.Items(), uc.store.PrimaryLocation(), location)

	out := &dto.RestockListDTO{
		Location:     location,
		Source:       uc.store.PrimaryLocation(),
		Period:       period,
		Days:         days,
		SafetyFactor: uc.calc.SafetyFactor(),
		Lines:        make([]dto.RestockLineDTO, 0, len(view)),
	}
	for _, e := range view {
		if !catalog.Matches(e.Item, query) {
			continue
		}
		req := uc.calc.Requirement(e.Item.DailyUsage, days, e.Qty)
		out.Lines = append(out.Lines, dto.RestockLineDTO{
			ItemID:     e.Item.ID,
			RowID:      e.RowID,
			Name:       e.Item.Name,
			Size:       e.Item.Size,
			Category:   e.Item.Category,
			Unit:       e.Item.Unit,
			DailyUsage: e.Item.DailyUsage,
			CurrentQty: e.Qty,
			Target:     req.Target,
			Gap:        req.Gap,
			Level:      restock.Level(e.Qty, req.Target),
		})
	}
	return out, nil
}

// QuickRestock traslada desde la bodega principal hacia in.Location la cantidad manual o, si no
// se indica, el faltante del periodo. itemID puede ser cualquier fila de la definición.
func (uc *ReplenishmentUseCase) QuickRestock(ctx context.Context, actor entity.Actor, itemID string, in dto.QuickRestockRequest) (*dto.MovementResponse, error) {
	days, _, err := uc.validate(in.Location, in.Period)
	if err != nil {
		return nil, err
	}
	if in.Amount < 0 {
		return nil, fmt.Errorf("%w: cantidad negativa", domain.ErrInvalidInput)
	}
	row, err := uc.store.Get(itemID)
	if err != nil {
		return nil, err
	}

	var entry *catalog.LocationEntry
	for _, e := range catalog.ProjectAt(uc.store.Items(), uc.store.PrimaryLocation(), in.Location) {
		if e.Item.Key() == row.Key() {
			entry = &e
			break
		}
	}
	if entry == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}

	req := uc.calc.Requirement(entry.Item.DailyUsage, days, entry.Qty)
	m, err := restock.BuildReplenishment(entry.Item, uc.store.PrimaryLocation(), in.Location, in.Amount, req.Gap, actor, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	res, err := uc.store.Append(ctx, m, actor)
	if err != nil {
		return nil, err
	}
	touched := res.Touched
	if touched == nil {
		touched = []entity.Item{}
	}
	return &dto.MovementResponse{Movement: res.Movement, Applied: res.Applied, Touched: touched}, nil
}

// Report genera el PDF de la lista de reposición.
func (uc *ReplenishmentUseCase) Report(actor entity.Actor, location, period string) ([]byte, error) {
	list, err := uc.GenerateReplenishmentList(location, period, "")
	if err != nil {
		return nil, err
	}
	return uc.report.GenerateRestockPDF(&dto.RestockReportDTO{
		RestockListDTO: *list,
		GeneratedAt:    uc.clock.Now(),
		GeneratedBy:    actor.Name,
	})
}

func (uc *ReplenishmentUseCase) validate(location, period string) (int, string, error) {
	if location == "" {
		return 0, "", fmt.Errorf("%w: la ubicación es obligatoria", domain.ErrInvalidInput)
	}
	if location == uc.store.PrimaryLocation() {
		return 0, "", fmt.Errorf("%w: la bodega principal es la fuente de reposición", domain.ErrInvalidInput)
	}
	if period == "" {
		period = restock.Period1W
	}
	days, ok := restock.PeriodDays(period)
	if !ok {
		return 0, "", fmt.Errorf("%w: periodo %q", domain.ErrInvalidInput, period)
	}
	return days, period, nil
}
