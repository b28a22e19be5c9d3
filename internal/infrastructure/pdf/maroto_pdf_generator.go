// Package pdf implementa la representación imprimible del Kardex de un
// producto: la tarjeta valorizada al costo promedio ponderado que la farmacia
// entrega en auditorías.
//
// Layout de la página A4 apaisada:
//
//	┌──────────────────────────────────────────────────────────────────┐
//	│  HEADER: Medicamento + rango del período                         │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  TABLA: Ref | Fecha | Origen | Entradas | Salidas | Saldo        │
//	│         (cada grupo con Cant / C.Unit / Valor)                   │
//	│  ──────────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / Existencia final valorizada       │
//	└──────────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appkardex "github.com/tu-usuario/farmacia-hospitalaria/internal/application/kardex"
	"github.com/tu-usuario/farmacia-hospitalaria/internal/application/dto"
)

var _ appkardex.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa kardex.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateKardexPDF genera el PDF del Kardex y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateKardexPDF(
	_ context.Context,
	medicationName string,
	report *dto.KardexResponse,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Kardex de medicamento", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(medicationName, report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range report.Rows {
		m.AddRows(detailRow(r))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre del medicamento (izq) y período (der).
func headerRow(medicationName string, report *dto.KardexResponse) core.Row {
	periodo := report.From.Format("02/01/2006") + " a " + report.To.Format("02/01/2006")

	return row.New(14).Add(
		col.New(7).Add(
			text.New("KARDEX VALORIZADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1,
			}),
			text.New(medicationName, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 5,
			}),
		),
		col.New(5).Add(
			text.New("Período: "+periodo, props.Text{
				Size: 9, Align: align.Right, Top: 3, Color: colorGray,
			}),
			text.New("Método: costo promedio ponderado", props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: encabezado de la tabla de movimientos.
func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 7, Align: align.Center, Color: colorPrimary}
	return row.New(7).Add(
		col.New(1).Add(text.New("Ref", header)),
		col.New(1).Add(text.New("Fecha", header)),
		col.New(2).Add(text.New("Origen", header)),
		col.New(1).Add(text.New("Ent. Cant", header)),
		col.New(1).Add(text.New("Ent. Valor", header)),
		col.New(1).Add(text.New("Sal. Cant", header)),
		col.New(1).Add(text.New("Sal. Valor", header)),
		col.New(1).Add(text.New("Saldo", header)),
		col.New(1).Add(text.New("C. Prom", header)),
		col.New(2).Add(text.New("Valor saldo", header)),
	)
}

// detailRow: una fila del Kardex.
func detailRow(r dto.KardexRowResponse) core.Row {
	cell := props.Text{Size: 7, Align: align.Center}
	num := props.Text{Size: 7, Align: align.Right}
	return row.New(5).Add(
		col.New(1).Add(text.New(fmt.Sprintf("%d", r.Reference), cell)),
		col.New(1).Add(text.New(r.Date.Format("02/01/2006"), cell)),
		col.New(2).Add(text.New(sourceLabel(r.Source), props.Text{Size: 7})),
		col.New(1).Add(text.New(qty(r.InQty), num)),
		col.New(1).Add(text.New(money(r.InValue), num)),
		col.New(1).Add(text.New(qty(r.OutQty), num)),
		col.New(1).Add(text.New(money(r.OutValue), num)),
		col.New(1).Add(text.New(qty(r.BalanceQty), num)),
		col.New(1).Add(text.New(money(r.AverageCost), num)),
		col.New(2).Add(text.New(money(r.BalanceValue), num)),
	)
}

// totalsRow: agregados del período.
func totalsRow(report *dto.KardexResponse) core.Row {
	label := props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary}
	value := props.Text{Size: 8, Align: align.Right}
	return row.New(8).Add(
		col.New(2).Add(text.New("Total entradas:", label)),
		col.New(1).Add(text.New(qty(report.TotalIn), value)),
		col.New(2).Add(text.New("Total salidas:", label)),
		col.New(1).Add(text.New(qty(report.TotalOut), value)),
		col.New(2).Add(text.New("Existencia final:", label)),
		col.New(1).Add(text.New(qty(report.FinalQty), value)),
		col.New(2).Add(text.New("Valor final:", label)),
		col.New(1).Add(text.New(money(report.FinalValue), value)),
	)
}

// sourceLabel traduce la fuente del movimiento para impresión.
func sourceLabel(source string) string {
	switch source {
	case "goods_receipt":
		return "Recepción"
	case "requisition_delivery":
		return "Requisición"
	case "consolidated_sheet":
		return "Hoja consolidada"
	default:
		return source
	}
}

func qty(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func money(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return "$" + d.StringFixed(2)
}
