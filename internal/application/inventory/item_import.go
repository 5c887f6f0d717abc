package inventory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/jhoicas/stock-laundry/internal/application/dto"
	"github.com/jhoicas/stock-laundry/internal/domain"
	"github.com/jhoicas/stock-laundry/internal/domain/entity"
)

// Columnas del CSV de datos maestros, en orden. La primera línea es la cabecera.
const (
	colName = iota
	colCategory
	colSize
	colUnit
	colLocation
	colUsageType
	colMinStock
	colDailyUsage
)

const (
	importDefaultSize     = "-"
	importDefaultMinStock = 10
)

var importDefaultDailyUsage = decimal.NewFromInt(1)

// Import da de alta una definición por línea del CSV
// (name, category, size, unit, location, usageType, minStockThreshold, dailyUsage).
// Las filas nuevas arrancan con cantidad cero. Una línea rechazada no detiene la carga:
// queda en Errors con su número de línea.
func (uc *ItemUseCase) Import(ctx context.Context, actor entity.Actor, r io.Reader) (*dto.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	out := &dto.ImportResult{Imported: []entity.Item{}, Errors: []dto.ImportError{}}
	header := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		if header {
			header = false
			continue
		}
		if len(record) < 2 || strings.TrimSpace(record[colName]) == "" {
			out.Skipped++
			continue
		}

		// csv omite las líneas en blanco: el número se toma del propio registro.
		line, _ := reader.FieldPos(colName)
		in := uc.importRow(record)
		it, err := uc.Create(ctx, actor, in)
		if err != nil {
			out.Errors = append(out.Errors, dto.ImportError{Line: line, Name: in.Name, Message: err.Error()})
			continue
		}
		out.Imported = append(out.Imported, *it)
	}
	return out, nil
}

func (uc *ItemUseCase) importRow(record []string) dto.CreateItemRequest {
	field := func(i int) string {
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	usage := entity.UsageReusable
	if strings.EqualFold(field(colUsageType), entity.UsageSingleUse) {
		usage = entity.UsageSingleUse
	}
	minStock, err := cast.ToIntE(field(colMinStock))
	if err != nil || field(colMinStock) == "" {
		minStock = importDefaultMinStock
	}
	daily, err := decimal.NewFromString(field(colDailyUsage))
	if err != nil {
		daily = importDefaultDailyUsage
	}

	return dto.CreateItemRequest{
		Name:              field(colName),
		Category:          field(colCategory),
		Size:              defaultString(field(colSize), importDefaultSize),
		Unit:              field(colUnit),
		Location:          defaultString(field(colLocation), uc.store.PrimaryLocation()),
		UsageType:         usage,
		MinStockThreshold: minStock,
		DailyUsage:        daily,
	}
}
