package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Comandas-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia de comandas (DIP).
// Las escrituras son last-writer-wins: no hay control de versión.
type OrderRepository interface {
	// Create persiste la cabecera y sus líneas. Asigna ID si viene vacío.
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// Update escribe solo los campos no nil de upd en una única sentencia.
	Update(ctx context.Context, id string, upd entity.OrderUpdate, updatedAt time.Time) error
	// ReplaceItems reemplaza todas las líneas de la comanda.
	ReplaceItems(ctx context.Context, orderID string, items []entity.OrderItem, updatedAt time.Time) error
	// Delete borra la comanda y sus líneas definitivamente.
	Delete(ctx context.Context, id string) error
	// ListActive devuelve todas las comandas no archivadas que no están pagadas.
	ListActive(ctx context.Context) ([]*entity.Order, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.Order, error)
	// ListPaidBetween comandas pagadas (incluye historial) con paid_at en [start, end).
	ListPaidBetween(ctx context.Context, start, end time.Time) ([]*entity.Order, error)
	CountActiveByTable(ctx context.Context, tableID string) (int, error)
}

// OrderArchive historial de comandas retiradas del tablero.
type OrderArchive interface {
	// Archive mueve la comanda al historial en una transacción.
	Archive(ctx context.Context, id string, archivedAt time.Time) error
	ListHistory(ctx context.Context, limit, offset int) ([]*entity.Order, error)
}
