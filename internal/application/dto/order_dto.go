package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest línea pedida: el nombre y el precio se toman del catálogo.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Note      string `json:"note,omitempty"`
}

// CreateOrderRequest entrada de POST /api/orders.
type CreateOrderRequest struct {
	TableID string             `json:"table_id" validate:"required,uuid"`
	Items   []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Note    string             `json:"note,omitempty"`
}

// UpdateOrderRequest actualización parcial: solo se aplican los campos presentes.
type UpdateOrderRequest struct {
	Status *string `json:"status,omitempty"`
	Note   *string `json:"note,omitempty"`
}

// EditItemsRequest reemplazo completo de las líneas.
type EditItemsRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// MoveRequest mover una comanda a otra columna del tablero.
type MoveRequest struct {
	Status string `json:"status" validate:"required"`
}

// PayRequest cobro de una comanda. AmountTendered es obligatorio en efectivo.
type PayRequest struct {
	Method         string           `json:"method" validate:"required,oneof=efectivo tarjeta transferencia"`
	AmountTendered *decimal.Decimal `json:"amount_tendered,omitempty"`
}

// CancelRequest cancelación desde cocina.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// OrderItemResponse línea con su subtotal.
type OrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Note        string          `json:"note,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PaymentResponse datos del cobro.
type PaymentResponse struct {
	Method         string          `json:"method"`
	AmountTendered decimal.Decimal `json:"amount_tendered"`
	Change         decimal.Decimal `json:"change"`
	PaidAt         time.Time       `json:"paid_at"`
}

// OrderResponse salida de una comanda.
type OrderResponse struct {
	ID           string              `json:"id"`
	TableID      string              `json:"table_id"`
	TableName    string              `json:"table_name"`
	Status       string              `json:"status"`
	Note         string              `json:"note,omitempty"`
	WaiterID     string              `json:"waiter_id"`
	WaiterName   string              `json:"waiter_name"`
	Items        []OrderItemResponse `json:"items"`
	Total        decimal.Decimal     `json:"total"`
	TotalDisplay string              `json:"total_display"`
	Payment      *PaymentResponse    `json:"payment,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// BoardColumnDTO una columna del tablero con sus comandas, de la más antigua a la más nueva.
type BoardColumnDTO struct {
	Status string          `json:"status"`
	Label  string          `json:"label"`
	Orders []OrderResponse `json:"orders"`
}

// BoardResponse tablero completo. Las canceladas van aparte para que no desaparezcan.
type BoardResponse struct {
	Columns   []BoardColumnDTO `json:"columns"`
	Cancelled []OrderResponse  `json:"cancelled"`
}

// OrderListResponse listado paginado (historial).
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
