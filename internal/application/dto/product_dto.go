package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto de la carta.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Ingredients string          `json:"ingredients"`
	CategoryID  string          `json:"category_id" validate:"required,uuid"`
}

// UpdateProductRequest campos opcionales; nil = sin cambio.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Ingredients *string          `json:"ingredients,omitempty"`
	CategoryID  *string          `json:"category_id,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	PriceDisplay string          `json:"price_display"` // ej: "$ 12.500,00"
	Ingredients  string          `json:"ingredients"`
	ImageURL     string          `json:"image_url,omitempty"`
	CategoryID   string          `json:"category_id"`
	CreatedBy    string          `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
