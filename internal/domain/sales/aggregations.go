// Package sales contiene los pliegues puros sobre comandas que alimentan el dashboard.
// Ninguna función depende del orden del slice de entrada y solo las comandas pagadas suman.
package sales

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comandas-api/internal/domain/entity"
)

// OrderTotal Σ precio × cantidad de las líneas. Una comanda sin líneas vale cero.
func OrderTotal(o *entity.Order) decimal.Decimal {
	total := decimal.Zero
	if o == nil {
		return total
	}
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// PaidInPeriod comandas pagadas con fecha de pago en [start, end).
func PaidInPeriod(orders []*entity.Order, start, end time.Time) []*entity.Order {
	var out []*entity.Order
	for _, o := range orders {
		if o == nil || !o.IsPaid() {
			continue
		}
		at := o.Payment.PaidAt
		if !at.Before(start) && at.Before(end) {
			out = append(out, o)
		}
	}
	return out
}

// Revenue suma de OrderTotal sobre las comandas pagadas.
func Revenue(orders []*entity.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if o != nil && o.IsPaid() {
			total = total.Add(OrderTotal(o))
		}
	}
	return total
}

// DayBounds devuelve [00:00, 00:00 del día siguiente) del día de t en loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// MonthBounds devuelve [día 1, día 1 del mes siguiente) del mes de t en loc.
func MonthBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// DailyTotal ingresos de las comandas pagadas en el día calendario de day (zona loc).
func DailyTotal(orders []*entity.Order, day time.Time, loc *time.Location) decimal.Decimal {
	start, end := DayBounds(day, loc)
	return Revenue(PaidInPeriod(orders, start, end))
}

// CountPaid número de comandas pagadas en [start, end).
func CountPaid(orders []*entity.Order, start, end time.Time) int {
	return len(PaidInPeriod(orders, start, end))
}

// MethodTotal ventas agrupadas por método de pago.
type MethodTotal struct {
	Method string
	Orders int
	Total  decimal.Decimal
}

// ByPaymentMethod agrupa ingresos por método de pago, ordenado por total descendente.
func ByPaymentMethod(orders []*entity.Order) []MethodTotal {
	idx := map[string]*MethodTotal{}
	for _, o := range orders {
		if o == nil || !o.IsPaid() {
			continue
		}
		m := o.Payment.Method
		acc, ok := idx[m]
		if !ok {
			acc = &MethodTotal{Method: m, Total: decimal.Zero}
			idx[m] = acc
		}
		acc.Orders++
		acc.Total = acc.Total.Add(OrderTotal(o))
	}
	out := make([]MethodTotal, 0, len(idx))
	for _, v := range idx {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// MonthTotal ventas de un mes calendario ("2024-01").
type MonthTotal struct {
	Month  string
	Orders int
	Total  decimal.Decimal
}

// ByMonth agrupa ingresos por mes calendario en loc, ordenado cronológicamente.
func ByMonth(orders []*entity.Order, loc *time.Location) []MonthTotal {
	idx := map[string]*MonthTotal{}
	for _, o := range orders {
		if o == nil || !o.IsPaid() {
			continue
		}
		key := o.Payment.PaidAt.In(loc).Format("2006-01")
		acc, ok := idx[key]
		if !ok {
			acc = &MonthTotal{Month: key, Total: decimal.Zero}
			idx[key] = acc
		}
		acc.Orders++
		acc.Total = acc.Total.Add(OrderTotal(o))
	}
	out := make([]MonthTotal, 0, len(idx))
	for _, v := range idx {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// ProductSales unidades e ingresos de un producto.
type ProductSales struct {
	ProductID   string
	ProductName string
	Quantity    int
	Revenue     decimal.Decimal
}

// TopProducts los n productos más vendidos por cantidad. Empates: por nombre.
// n <= 0 devuelve todos.
func TopProducts(orders []*entity.Order, n int) []ProductSales {
	idx := map[string]*ProductSales{}
	for _, o := range orders {
		if o == nil || !o.IsPaid() {
			continue
		}
		for _, it := range o.Items {
			acc, ok := idx[it.ProductID]
			if !ok {
				acc = &ProductSales{ProductID: it.ProductID, ProductName: it.ProductName, Revenue: decimal.Zero}
				idx[it.ProductID] = acc
			}
			acc.Quantity += it.Quantity
			acc.Revenue = acc.Revenue.Add(it.Subtotal())
		}
	}
	out := make([]ProductSales, 0, len(idx))
	for _, v := range idx {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		if out[i].ProductName != out[j].ProductName {
			return out[i].ProductName < out[j].ProductName
		}
		return out[i].ProductID < out[j].ProductID
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// WaiterSales ventas de un mesero.
type WaiterSales struct {
	WaiterID   string
	WaiterName string
	Orders     int
	Total      decimal.Decimal
}

// ByWaiter agrupa ingresos por mesero, ordenado por total descendente.
func ByWaiter(orders []*entity.Order) []WaiterSales {
	idx := map[string]*WaiterSales{}
	for _, o := range orders {
		if o == nil || !o.IsPaid() {
			continue
		}
		acc, ok := idx[o.WaiterID]
		if !ok {
			acc = &WaiterSales{WaiterID: o.WaiterID, WaiterName: o.WaiterName, Total: decimal.Zero}
			idx[o.WaiterID] = acc
		}
		acc.Orders++
		acc.Total = acc.Total.Add(OrderTotal(o))
	}
	out := make([]WaiterSales, 0, len(idx))
	for _, v := range idx {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].WaiterName < out[j].WaiterName
	})
	return out
}
