// Package pdf genera el comprobante de desecho (una hoja A4 por desecho ejecutado).
//
// Layout de la página:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + NIT       │  Referencia + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRODUCTO / ORIGEN / DESTINO                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Movimiento | Lote/Serie | Cantidad                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL desechado + QR con la referencia                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appscrap "github.com/jhoicas/scrap-api/internal/application/scrap"
	"github.com/jhoicas/scrap-api/internal/domain/entity"
)

var _ appscrap.ScrapPDFGenerator = (*MarotoScrapPDF)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoScrapPDF implementa scrap.ScrapPDFGenerator usando Maroto v2.
type MarotoScrapPDF struct {
	printer *message.Printer
}

// NewMarotoScrapPDF construye el generador; las cantidades se imprimen con formato es-CO (1.234,5).
func NewMarotoScrapPDF() *MarotoScrapPDF {
	return &MarotoScrapPDF{printer: message.NewPrinter(language.MustParse("es-CO"))}
}

// GenerateScrapPDF genera el PDF y devuelve sus bytes.
func (g *MarotoScrapPDF) GenerateScrapPDF(_ context.Context, slip *appscrap.ScrapSlip) ([]byte, error) {
	if slip == nil || slip.Scrap == nil || slip.Product == nil {
		return nil, fmt.Errorf("pdf: comprobante incompleto")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de desecho "+slip.Scrap.Name, true).
		WithAuthor(companyName(slip), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailRow(slip))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.tableRows(slip)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.footerRow(slip))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoScrapPDF) headerRow(slip *appscrap.ScrapSlip) core.Row {
	fecha := "—"
	if slip.Scrap.DateDone != nil {
		fecha = slip.Scrap.DateDone.Format("02/01/2006 15:04")
	}
	nit := ""
	if slip.Company != nil && slip.Company.NIT != "" {
		nit = "NIT: " + slip.Company.NIT
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(companyName(slip), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nit, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE DESECHO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(slip.Scrap.Name, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func detailRow(slip *appscrap.ScrapSlip) core.Row {
	origin := slip.Scrap.Origin
	if origin == "" {
		origin = slip.Scrap.PickingName
	}
	return row.New(20).Add(
		col.New(12).Add(
			text.New("PRODUCTO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(slip.Product.DisplayName(), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Desde: %s   |   Hacia: %s   |   Documento origen: %s",
				locationName(slip.Location), locationName(slip.ScrapLocation), nonEmpty(origin, "—"),
			), props.Text{Size: 8, Top: 13, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Movimiento", 4, align.Left),
		h("Lote/Serie", 4, align.Left),
		h("Cantidad", 4, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *MarotoScrapPDF) tableRows(slip *appscrap.ScrapSlip) []core.Row {
	rows := make([]core.Row, 0, len(slip.Lines))
	for _, l := range slip.Lines {
		rows = append(rows, row.New(7).Add(
			col.New(4).Add(text.New(l.Reference, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(nonEmpty(l.LotName, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(
				g.formatQty(l.Quantity)+" "+slip.UoMName,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return rows
}

func (g *MarotoScrapPDF) footerRow(slip *appscrap.ScrapSlip) core.Row {
	return row.New(30).Add(
		col.New(8).Add(
			text.New("TOTAL DESECHADO:", props.Text{Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 4}),
			text.New(g.formatQty(slip.Scrap.ScrapQty)+" "+slip.UoMName, props.Text{
				Style: fontstyle.Bold, Size: 12, Top: 11,
			}),
			text.New("Las existencias se trasladaron a la ubicación de desecho.", props.Text{
				Size: 7, Top: 20, Color: colorGray,
			}),
		),
		col.New(4).Add(code.NewQr(slip.Scrap.Name, props.Rect{Percent: 90, Center: true})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatQty cantidades con separadores del locale y hasta 3 decimales.
func (g *MarotoScrapPDF) formatQty(d decimal.Decimal) string {
	f, _ := d.Round(3).Float64()
	if d.Equal(d.Truncate(0)) {
		return g.printer.Sprintf("%d", d.IntPart())
	}
	return g.printer.Sprintf("%.3f", f)
}

func companyName(slip *appscrap.ScrapSlip) string {
	if slip.Company != nil && slip.Company.Name != "" {
		return slip.Company.Name
	}
	return "—"
}

func locationName(l *entity.Location) string {
	if l == nil {
		return "—"
	}
	return l.Name
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
