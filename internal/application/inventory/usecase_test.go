package inventory_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-laundry/internal/application/dto"
	"github.com/jhoicas/stock-laundry/internal/application/inventory"
	"github.com/jhoicas/stock-laundry/internal/domain"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
	"github.com/jhoicas/stock-laundry/internal/domain/ledger"
	"github.com/jhoicas/stock-laundry/internal/domain/restock"
)

type fakeReport struct {
	got *dto.RestockReportDTO
}

func (r *fakeReport) GenerateRestockPDF(report *dto.RestockReportDTO) ([]byte, error) {
	r.got = report
	return []byte("%PDF-1.4"), nil
}

func newReplenishment(f *fixture) (*inventory.ReplenishmentUseCase, *fakeReport) {
	rep := &fakeReport{}
	return inventory.NewReplenishmentUseCase(f.store, restock.NewCalculator(restock.DefaultSafetyFactor), f.clock, rep), rep
}

// ──────────────────────────────────────────────────────────────────────────────
// Reposición
// ──────────────────────────────────────────────────────────────────────────────

// 5 por día en una semana con factor 2 → objetivo 70; hay 20 en Gudang Singles, faltan 50.
func TestReplenishment_ListaConFaltante(t *testing.T) {
	f := newFixture(t)
	towel := f.register(t, "Towel", "M", gudangUtama, 200)
	f.register(t, "Sheet", "L", gudangUtama, 5)
	_, err := f.store.Append(context.Background(), shiftOf(towel.ID, gudangUtama, gudangSingles, 20), staff)
	require.NoError(t, err)

	uc, _ := newReplenishment(f)
	list, err := uc.GenerateReplenishmentList(gudangSingles, "", "")
	require.NoError(t, err)
	assert.Equal(t, restock.Period1W, list.Period)
	assert.Equal(t, 7, list.Days)
	assert.Equal(t, gudangUtama, list.Source)
	require.Len(t, list.Lines, 2)

	towelLine := list.Lines[0]
	assert.Equal(t, towel.ID, towelLine.ItemID, "el representante es la fila de la bodega principal")
	assert.Equal(t, 20, towelLine.CurrentQty)
	assert.Equal(t, 70, towelLine.Target)
	assert.Equal(t, 50, towelLine.Gap)
	assert.Equal(t, restock.LevelCritical, towelLine.Level)

	sheetLine := list.Lines[1]
	assert.Zero(t, sheetLine.CurrentQty)
	assert.Empty(t, sheetLine.RowID)
	assert.Equal(t, restock.LevelEmpty, sheetLine.Level)
}

func TestReplenishment_ValidaUbicacionYPeriodo(t *testing.T) {
	f := newFixture(t)
	uc, _ := newReplenishment(f)

	_, err := uc.GenerateReplenishmentList(gudangUtama, "1W", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.GenerateReplenishmentList("", "1W", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.GenerateReplenishmentList(repair, "2W", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReplenishment_QuickRestockUsaFaltanteOManual(t *testing.T) {
	f := newFixture(t)
	towel := f.register(t, "Towel", "M", gudangUtama, 200)
	uc, _ := newReplenishment(f)

	res, err := uc.QuickRestock(context.Background(), staff, towel.ID, dto.QuickRestockRequest{Location: repair, Period: "1W"})
	require.NoError(t, err)
	assert.Equal(t, 70, res.Movement.Quantity)
	assert.Equal(t, entity.MovementTypeSHIFT, res.Movement.Type)
	assert.Equal(t, entity.WorkShiftAdmin, res.Movement.WorkShift)

	res, err = uc.QuickRestock(context.Background(), staff, towel.ID, dto.QuickRestockRequest{Location: repair, Period: "1W", Amount: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Movement.Quantity)
	assert.NotNil(t, res.Touched, "la respuesta nunca serializa touched como null")

	items := f.store.Items()
	assert.Equal(t, 125, items[0].ExpectedQty)
	assert.Equal(t, 75, items[1].ExpectedQty)

	_, err = uc.QuickRestock(context.Background(), staff, towel.ID, dto.QuickRestockRequest{Location: repair, Period: "1W"})
	assert.ErrorIs(t, err, domain.ErrNothingToRestock, "con 75 en destino el objetivo 70 ya está cubierto")
}

func TestReplenishment_ReportUsaLista(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Towel", "M", gudangUtama, 200)
	uc, rep := newReplenishment(f)

	pdf, err := uc.Report(leader, repair, "1D")
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
	require.NotNil(t, rep.got)
	assert.Equal(t, "Leader", rep.got.GeneratedBy)
	assert.Equal(t, t0, rep.got.GeneratedAt)
	assert.Len(t, rep.got.Lines, 1)
}

// ──────────────────────────────────────────────────────────────────────────────
// Artículos
// ──────────────────────────────────────────────────────────────────────────────

func TestItemUseCase_CreateAplicaValoresPorDefecto(t *testing.T) {
	f := newFixture(t)
	uc := inventory.NewItemUseCase(f.store, []string{gudangUtama, repair})

	it, err := uc.Create(context.Background(), staff, dto.CreateItemRequest{
		Name: "  Towel ", Size: "M", Location: gudangUtama, ExpectedQty: 12, DailyUsage: decimal.NewFromInt(2),
	})
	require.NoError(t, err)
	assert.Equal(t, "Towel", it.Name)
	assert.Equal(t, "pcs", it.Unit)
	assert.Equal(t, entity.UsageReusable, it.UsageType)
	assert.Equal(t, 12, it.ActualQty)
	assert.Equal(t, entity.ItemStatusPending, it.Status, "staff no aprueba")

	_, err = uc.Create(context.Background(), leader, dto.CreateItemRequest{Name: "Mop", Location: "Garasi"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(context.Background(), leader, dto.CreateItemRequest{Name: "Mop", Location: repair, ExpectedQty: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemUseCase_CambioDeEstadoRequiereAprobacion(t *testing.T) {
	f := newFixture(t)
	towel := f.register(t, "Towel", "M", gudangUtama, 10)
	uc := inventory.NewItemUseCase(f.store, nil)

	approved := entity.ItemStatusRejected
	_, err := uc.Update(context.Background(), staff, towel.ID, dto.UpdateItemRequest{Status: &approved})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	it, err := uc.Update(context.Background(), leader, towel.ID, dto.UpdateItemRequest{Status: &approved})
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusRejected, it.Status)

	counted := 7
	damaged := entity.ConditionDamaged
	it, err = uc.Update(context.Background(), staff, towel.ID, dto.UpdateItemRequest{ActualQty: &counted, Condition: &damaged})
	require.NoError(t, err)
	assert.Equal(t, 7, it.ActualQty)
	assert.True(t, it.IsMissing())
}

func TestItemUseCase_ImportCSV(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Towel", "M", gudangUtama, 10)
	uc := inventory.NewItemUseCase(f.store, []string{gudangUtama, repair})

	csv := "name,category,size,unit,location,usageType,minStockThreshold,dailyUsage\n" +
		"Sheet,Linen,L,pcs,Repair,REUSABLE,5,2.5\n" +
		"Soap,,,,,single_use,,\n" +
		"\n" +
		",Linen\n" +
		"Towel,Linen,M,pcs,Gudang Utama,REUSABLE,10,5\n" +
		"Mop,Tools,-,pcs,Garasi,REUSABLE,1,1\n"

	out, err := uc.Import(context.Background(), leader, strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, out.Imported, 2)

	sheet := out.Imported[0]
	assert.Equal(t, repair, sheet.Location)
	assert.Equal(t, 5, sheet.MinStockThreshold)
	assert.True(t, decimal.RequireFromString("2.5").Equal(sheet.DailyUsage))
	assert.Zero(t, sheet.ExpectedQty)
	assert.Equal(t, entity.ItemStatusApproved, sheet.Status)

	soap := out.Imported[1]
	assert.Equal(t, "General", soap.Category)
	assert.Equal(t, "-", soap.Size)
	assert.Equal(t, "pcs", soap.Unit)
	assert.Equal(t, gudangUtama, soap.Location, "sin ubicación va a la bodega principal")
	assert.Equal(t, entity.UsageSingleUse, soap.UsageType)
	assert.Equal(t, 10, soap.MinStockThreshold)
	assert.True(t, decimal.NewFromInt(1).Equal(soap.DailyUsage))

	assert.Equal(t, 1, out.Skipped, "la línea sin nombre se omite")
	require.Len(t, out.Errors, 2)
	assert.Equal(t, 6, out.Errors[0].Line)
	assert.Contains(t, out.Errors[0].Message, domain.ErrDuplicate.Error())
	assert.Equal(t, 7, out.Errors[1].Line)
	assert.Equal(t, "Mop", out.Errors[1].Name)
	assert.Len(t, f.store.Items(), 3)
}

func TestItemUseCase_ReplaySinDesviacion(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Towel", "M", gudangUtama, 10)
	uc := inventory.NewItemUseCase(f.store, nil)

	out, err := uc.Replay(context.Background(), leader)
	require.NoError(t, err)
	assert.Zero(t, out.Corrected)
	assert.Empty(t, out.Drifts)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos y vistas
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMovement_ListaMasRecientesPrimero(t *testing.T) {
	f := newFixture(t)
	towel := f.register(t, "Towel", "M", gudangUtama, 100)
	uc := inventory.NewRegisterMovementUseCase(f.store)

	for i := 1; i <= 3; i++ {
		_, err := uc.RegisterMovement(context.Background(), staff, dto.RegisterMovementRequest{
			ItemID: towel.ID, Type: entity.MovementTypeOUT, Quantity: i, WorkShift: entity.WorkShift2,
		})
		require.NoError(t, err)
	}

	page := uc.List(dto.PageRequest{Limit: 2}, ledger.Filter{})
	assert.Equal(t, 3, page.Page.Total)
	require.Len(t, page.Movements, 2)
	assert.Equal(t, 3, page.Movements[0].Quantity)
	assert.Equal(t, 2, page.Movements[1].Quantity)

	rest := uc.List(dto.PageRequest{Limit: 2, Offset: 2}, ledger.Filter{})
	require.Len(t, rest.Movements, 1)
	assert.Equal(t, 1, rest.Movements[0].Quantity)
}

func TestRegisterMovement_HistorialDeUnaFila(t *testing.T) {
	f := newFixture(t)
	towel := f.register(t, "Towel", "M", gudangUtama, 100)
	sheet := f.register(t, "Sheet", "L", gudangUtama, 10)
	uc := inventory.NewRegisterMovementUseCase(f.store)

	_, err := f.store.Append(context.Background(), shiftOf(towel.ID, gudangUtama, gudangSingles, 30), staff)
	require.NoError(t, err)
	_, err = uc.RegisterMovement(context.Background(), staff, dto.RegisterMovementRequest{
		ItemID: sheet.ID, Type: entity.MovementTypeOUT, Quantity: 1, WorkShift: entity.WorkShift1,
	})
	require.NoError(t, err)
	_, err = uc.RegisterMovement(context.Background(), staff, dto.RegisterMovementRequest{
		ItemName: "Towel", Type: entity.MovementTypeOUT, Quantity: 5, FromLocation: gudangSingles, WorkShift: entity.WorkShift1,
	})
	require.NoError(t, err)

	var singles entity.Item
	for _, it := range f.store.Items() {
		if it.At("Towel", "M", gudangSingles) {
			singles = it
		}
	}
	require.NotEmpty(t, singles.ID)

	page := uc.List(dto.PageRequest{}, ledger.Filter{ItemID: singles.ID, Location: gudangSingles})
	assert.Equal(t, 2, page.Page.Total)
	require.Len(t, page.Movements, 2)
	assert.Equal(t, entity.MovementTypeOUT, page.Movements[0].Type, "más reciente primero")
	assert.Equal(t, entity.MovementTypeSHIFT, page.Movements[1].Type)

	all := uc.List(dto.PageRequest{}, ledger.Filter{Location: gudangUtama})
	assert.Equal(t, 2, all.Page.Total, "el traslado y la salida de Sheet pasan por la bodega principal")
}

func TestCatalogUseCase_LocationStock(t *testing.T) {
	f := newFixture(t)
	towel := f.register(t, "Towel", "M", gudangUtama, 100)
	f.register(t, "Sheet", "L", gudangUtama, 3)
	_, err := f.store.Append(context.Background(), shiftOf(towel.ID, gudangUtama, repair, 30), staff)
	require.NoError(t, err)

	uc := inventory.NewCatalogUseCase(f.store, []string{gudangUtama, repair})
	view := uc.LocationStock(repair, "")
	assert.Equal(t, 30, view.TotalIn)
	assert.Equal(t, 30, view.TotalQty)
	assert.Len(t, view.Entries, 2)

	entries := uc.Catalog("towel")
	require.Len(t, entries, 1)
	assert.Equal(t, 100, entries[0].TotalQty)
}
