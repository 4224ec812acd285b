// Package pdf genera el recibo de una comanda cobrada.
//
// Layout de la página A5:
//
//	┌──────────────────────────────────────────┐
//	│  Restaurante          │  Recibo N° / Fecha│
//	│  Mesa + Mesero                            │
//	│  ───────────────────────────────────────  │
//	│  Cant | Producto | P.Unit | Subtotal      │
//	│  ───────────────────────────────────────  │
//	│  TOTAL / Método / Recibido / Vueltas      │
//	└──────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"time"

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

	"github.com/jhoicas/Comandas-api/internal/domain/entity"
	"github.com/jhoicas/Comandas-api/internal/domain/sales"
	"github.com/jhoicas/Comandas-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 140, Green: 40, Blue: 20}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var methodLabels = map[string]string{
	entity.PaymentCash:     "Efectivo",
	entity.PaymentCard:     "Tarjeta",
	entity.PaymentTransfer: "Transferencia",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// ReceiptGenerator implementa ports.ReceiptGenerator usando Maroto v2.
type ReceiptGenerator struct {
	loc *time.Location
}

// NewReceiptGenerator construye el generador; las fechas se imprimen en loc.
func NewReceiptGenerator(loc *time.Location) *ReceiptGenerator {
	if loc == nil {
		loc = time.Local
	}
	return &ReceiptGenerator{loc: loc}
}

// Generate genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) Generate(restaurant string, o *entity.Order) ([]byte, error) {
	if o == nil || o.Payment == nil {
		return nil, fmt.Errorf("pdf: la comanda no tiene pago registrado")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo "+restaurant, true).
		WithAuthor(restaurant, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(restaurant, o, g.loc))
	m.AddRows(serviceRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(itemsHeaderRow())
	for _, r := range itemRows(o.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(o))
	m.AddRows(row.New(10).Add(col.New(12).Add(
		text.New("¡Gracias por su visita!", props.Text{
			Style: fontstyle.Italic, Size: 9, Align: align.Center, Color: colorGray, Top: 4,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: restaurante (izq) y número + fecha de pago (der).
func headerRow(restaurant string, o *entity.Order, loc *time.Location) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(restaurant, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("RECIBO "+receiptNumber(o.ID), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
			}),
			text.New(o.Payment.PaidAt.In(loc).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 7, Color: colorGray,
			}),
		),
	)
}

// serviceRow: mesa y mesero.
func serviceRow(o *entity.Order) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Mesa: %s   |   Atendió: %s", o.TableName, nonEmpty(o.WaiterName, "-")),
				props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

func itemsHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(7).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 5, align.Left),
		h("P. Unit.", 3, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// itemRows: una fila por línea; la nota de la línea va debajo del nombre.
func itemRows(items []entity.OrderItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.ProductName
		if it.Note != "" {
			name += " (" + it.Note + ")"
		}
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(strconv.Itoa(it.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(3).Add(text.New(money.Format(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(money.Format(it.Subtotal()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRow: total, método y, en efectivo, recibido y vueltas.
func totalsRow(o *entity.Order) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}

	labels := col.New(5).Add(
		label("TOTAL:", 1),
		label("Método:", 7),
	)
	values := col.New(4).Add(
		text.New(money.Format(sales.OrderTotal(o)), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 1,
		}),
		value(nonEmpty(methodLabels[o.Payment.Method], o.Payment.Method), 7),
	)
	if o.Payment.Method == entity.PaymentCash {
		labels.Add(label("Recibido:", 13), label("Vueltas:", 19))
		values.Add(value(money.Format(o.Payment.AmountTendered), 13), value(money.Format(o.Payment.Change), 19))
	}
	return row.New(26).Add(col.New(3), labels, values)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func receiptNumber(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
