// Package pdf genera el comprobante de venta en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio   │  N° Venta + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / TOTAL                      │
//	│  PAGOS: Moneda | Monto | Tasa | Equivalente + Vuelto        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el ID de la venta                           │
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
	"golang.org/x/text/number"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator arma el comprobante de una venta hidratada (líneas y pagos cargados).
type ReceiptGenerator struct {
	businessName string
	baseCurrency string
	printer      *message.Printer
}

// NewReceiptGenerator construye el generador. Los montos se formatean con separadores en español.
func NewReceiptGenerator(businessName, baseCurrency string) *ReceiptGenerator {
	return &ReceiptGenerator{
		businessName: businessName,
		baseCurrency: baseCurrency,
		printer:      message.NewPrinter(language.Spanish),
	}
}

// GenerateSaleReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateSaleReceipt(ctx context.Context, sale *entity.Sale) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// los montos derivados se validan antes de maquetar nada
	gross, err := sale.Gross()
	if err != nil {
		return nil, err
	}
	change, err := sale.Change()
	if err != nil {
		return nil, err
	}
	subtotals := make([]money.Cents, len(sale.Items))
	for i, it := range sale.Items {
		if subtotals[i], err = it.Subtotal(); err != nil {
			return nil, err
		}
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de venta "+sale.ID, true).
		WithAuthor(g.businessName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow("Cant.", "Producto", "Precio Unit.", "Subtotal"))
	for i, it := range sale.Items {
		m.AddRows(g.itemRow(it, subtotals[i]))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(sale, gross))

	m.AddRows(line.NewRow(3))
	m.AddRows(tableHeaderRow("Moneda", "Monto", "Tasa", "Equivalente "+g.baseCurrency))
	for _, p := range sale.Payments {
		m.AddRows(g.paymentRow(p))
	}
	m.AddRows(g.changeRow(change))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *ReceiptGenerator) headerRow(sale *entity.Sale) core.Row {
	subtitle := "VENTA DE MOSTRADOR"
	if sale.Kind == entity.SaleKindFromOrder && sale.OrderID != nil {
		subtitle = "ENTREGA DE ENCARGO " + *sale.OrderID
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.businessName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(subtitle, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(sale.ID, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+sale.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow(c1, c2, c3, c4 string) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h(c1, 2, align.Center),
		h(c2, 4, align.Left),
		h(c3, 3, align.Right),
		h(c4, 3, align.Right),
	)
}

func (g *ReceiptGenerator) itemRow(it entity.SaleLineItem, subtotal money.Cents) core.Row {
	return row.New(7).Add(
		col.New(2).Add(text.New(
			g.printer.Sprint(it.Quantity),
			props.Text{Size: 8, Align: align.Center, Top: 1},
		)),
		col.New(4).Add(text.New(
			it.ProductName,
			props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
		)),
		col.New(3).Add(text.New(
			g.formatCents(it.UnitPrice),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
		col.New(3).Add(text.New(
			g.formatCents(subtotal),
			props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
		)),
	)
}

func (g *ReceiptGenerator) totalsRow(sale *entity.Sale, gross money.Cents) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:"),
			label("Descuento:"),
			label("TOTAL:"),
		),
		col.New(3).Add(
			value(g.formatCents(gross)),
			value("-"+g.formatCents(sale.Discount)),
			grand(g.formatCents(sale.Total)),
		),
	)
}

func (g *ReceiptGenerator) paymentRow(p entity.PaymentLine) core.Row {
	rate := "-"
	if p.Rate != nil {
		rate = g.formatDecimal(*p.Rate, 4)
	}
	return row.New(7).Add(
		col.New(2).Add(text.New(p.Currency, props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(4).Add(text.New(g.formatDecimal(p.Amount, 2), props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(3).Add(text.New(rate, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(3).Add(text.New(g.formatCents(p.AmountBase), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

// changeRow el vuelto no se almacena: se recalcula como pagado − total.
func (g *ReceiptGenerator) changeRow(change money.Cents) core.Row {
	return row.New(8).Add(
		col.New(9).Add(text.New("Vuelto:", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(g.formatCents(change), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1, Top: 2,
		})),
	)
}

func footerRow(sale *entity.Sale) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(sale.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Gracias por su compra.", props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 8, Left: 3, Color: colorPrimary,
			}),
			text.New("Conserve este comprobante para cualquier reclamo o anulación.", props.Text{
				Size: 8, Top: 16, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatCents formatea céntimos con la moneda base y separadores locales (ej: "VES 1.234,50").
func (g *ReceiptGenerator) formatCents(c money.Cents) string {
	return g.baseCurrency + " " + g.formatDecimal(c.Decimal(), 2)
}

func (g *ReceiptGenerator) formatDecimal(d decimal.Decimal, scale int) string {
	return g.printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(scale)))
}
