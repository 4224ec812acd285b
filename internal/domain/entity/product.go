package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product plato o bebida de la carta.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Ingredients string // texto libre
	ImageURL    string
	CategoryID  string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
