// Package ports define los puertos de salida que la capa de aplicación necesita
// de la infraestructura (tiempo real, eventos, archivos, PDF, QR).
package ports

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comandas-api/internal/domain/entity"
)

// ChangeNotifier avisa que el conjunto de comandas activas cambió.
// El adaptador local refresca el hub; el de Redis publica para todas las instancias.
type ChangeNotifier interface {
	NotifyChanged(ctx context.Context) error
}

// Tipos de evento de comanda.
const (
	EventOrderCreated   = "created"
	EventOrderUpdated   = "updated"
	EventOrderMoved     = "moved"
	EventOrderPaid      = "paid"
	EventOrderCancelled = "cancelled"
	EventOrderArchived  = "archived"
	EventOrderDeleted   = "deleted"
)

// OrderEvent mensaje publicado en el bus cada vez que una comanda cambia.
type OrderEvent struct {
	Type          string          `json:"type"`
	OrderID       string          `json:"order_id"`
	Status        string          `json:"status,omitempty"`
	TableName     string          `json:"table_name,omitempty"`
	WaiterID      string          `json:"waiter_id,omitempty"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// EventPublisher publica eventos de comanda (RabbitMQ, Kafka o varios a la vez).
type EventPublisher interface {
	Publish(ctx context.Context, evt OrderEvent) error
}

// ImageStore guarda imágenes de productos y devuelve la URL pública.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// ReceiptGenerator genera el recibo PDF de una comanda pagada.
type ReceiptGenerator interface {
	Generate(restaurant string, order *entity.Order) ([]byte, error)
}

// QRGenerator genera un PNG con el contenido dado.
type QRGenerator interface {
	Generate(content string, size int) ([]byte, error)
}
