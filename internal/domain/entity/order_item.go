package entity

import "github.com/shopspring/decimal"

// OrderItem línea de una comanda. ProductName y UnitPrice se copian del catálogo al crear
// la línea y no se vuelven a leer: un cambio de precio no afecta comandas abiertas ni históricas.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Note        string
}

// Subtotal precio × cantidad.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
