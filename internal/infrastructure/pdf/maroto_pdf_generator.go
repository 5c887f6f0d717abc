// Package pdf genera la hoja de reposición de una ubicación.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + ubicación  │  Periodo + fecha              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORIGEN / FACTOR DE SEGURIDAD / GENERADO POR                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Artículo | Talla | Uso diario | Actual | Meta | Falta │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL A REPONER                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stock-laundry/internal/application/dto"
	"github.com/jhoicas/stock-laundry/internal/application/ports"
	"github.com/jhoicas/stock-laundry/internal/domain/restock"
)

var _ ports.RestockReportGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorDanger  = &props.Color{Red: 190, Green: 30, Blue: 45}
	colorWarning = &props.Color{Red: 200, Green: 120, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.RestockReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateRestockPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateRestockPDF(report *dto.RestockReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Restock "+report.Location, true).
		WithAuthor(report.GeneratedBy, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(infoRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	total := 0
	for _, l := range report.Lines {
		m.AddRows(lineRow(l))
		total += l.Gap
	}
	if len(report.Lines) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Tidak ada item untuk lokasi ini", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(total))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *dto.RestockReportDTO) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("DAFTAR RESTOCK", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(r.Location, props.Text{Size: 10, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("Periode %s (%d hari)", r.Period, r.Days), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Color: colorPrimary,
			}),
			text.New(r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func infoRow(r *dto.RestockReportDTO) core.Row {
	return row.New(9).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Sumber: %s   |   Faktor keamanan: %s   |   Dibuat oleh: %s",
				r.Source, r.SafetyFactor.String(), nonEmpty(r.GeneratedBy, "-"),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Item", 4, align.Left),
		h("Ukuran", 1, align.Center),
		h("Pemakaian/hari", 2, align.Right),
		h("Stok", 1, align.Right),
		h("Target", 1, align.Right),
		h("Kurang", 1, align.Right),
		h("Status", 2, align.Center),
	)
}

func lineRow(l dto.RestockLineDTO) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	return row.New(7).Add(
		cell(l.Name, 4, align.Left),
		cell(l.Size, 1, align.Center),
		cell(l.DailyUsage.String()+" "+l.Unit, 2, align.Right),
		cell(strconv.Itoa(l.CurrentQty), 1, align.Right),
		cell(strconv.Itoa(l.Target), 1, align.Right),
		cell(strconv.Itoa(l.Gap), 1, align.Right),
		col.New(2).Add(text.New(l.Level, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1, Color: levelColor(l.Level),
		})),
	)
}

func totalRow(total int) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(4).Add(text.New("TOTAL KURANG:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(2).Add(text.New(strconv.Itoa(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func levelColor(level string) *props.Color {
	switch level {
	case restock.LevelEmpty:
		return colorDanger
	case restock.LevelCritical:
		return colorWarning
	}
	return colorGray
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
