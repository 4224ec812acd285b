// Package memory implementa los repositorios en memoria. Se usa en pruebas y en
// arranques locales sin PostgreSQL.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Comandas-api/internal/domain"
	"github.com/jhoicas/Comandas-api/internal/domain/entity"
	"github.com/jhoicas/Comandas-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository = (*OrderStore)(nil)
	_ repository.OrderArchive    = (*OrderStore)(nil)
)

type storedOrder struct {
	order      entity.Order
	archivedAt *time.Time
}

// OrderStore comandas en memoria. Guarda y devuelve copias.
type OrderStore struct {
	mu      sync.Mutex
	orders  map[string]*storedOrder
	updates []entity.OrderUpdate // registro de Update, para pruebas
}

// NewOrderStore crea un almacén vacío.
func NewOrderStore() *OrderStore {
	return &OrderStore{orders: map[string]*storedOrder{}}
}

// Updates devuelve las actualizaciones parciales recibidas, en orden.
func (s *OrderStore) Updates() []entity.OrderUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.OrderUpdate(nil), s.updates...)
}

func (s *OrderStore) Create(_ context.Context, o *entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	for i := range o.Items {
		if o.Items[i].ID == "" {
			o.Items[i].ID = uuid.New().String()
		}
		o.Items[i].OrderID = o.ID
	}
	s.orders[o.ID] = &storedOrder{order: cloneOrder(o)}
	return nil
}

func (s *OrderStore) GetByID(_ context.Context, id string) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	so, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	o := cloneOrder(&so.order)
	return &o, nil
}

func (s *OrderStore) Update(_ context.Context, id string, upd entity.OrderUpdate, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	so, ok := s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.updates = append(s.updates, upd)
	so.order.Apply(upd, updatedAt)
	return nil
}

func (s *OrderStore) ReplaceItems(_ context.Context, orderID string, items []entity.OrderItem, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	so, ok := s.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	so.order.Items = append([]entity.OrderItem(nil), items...)
	for i := range so.order.Items {
		if so.order.Items[i].ID == "" {
			so.order.Items[i].ID = uuid.New().String()
		}
		so.order.Items[i].OrderID = orderID
	}
	so.order.UpdatedAt = updatedAt
	return nil
}

func (s *OrderStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *OrderStore) ListActive(_ context.Context) ([]*entity.Order, error) {
	return s.filter(func(so *storedOrder) bool {
		return so.archivedAt == nil && so.order.Status != entity.StatusPaid
	}, byCreatedAt), nil
}

func (s *OrderStore) ListByStatus(_ context.Context, status string) ([]*entity.Order, error) {
	return s.filter(func(so *storedOrder) bool {
		return so.archivedAt == nil && so.order.Status == status
	}, byCreatedAt), nil
}

func (s *OrderStore) ListPaidBetween(_ context.Context, start, end time.Time) ([]*entity.Order, error) {
	return s.filter(func(so *storedOrder) bool {
		p := so.order.Payment
		return so.order.Status == entity.StatusPaid && p != nil &&
			!p.PaidAt.Before(start) && p.PaidAt.Before(end)
	}, byCreatedAt), nil
}

func (s *OrderStore) CountActiveByTable(_ context.Context, tableID string) (int, error) {
	return len(s.filter(func(so *storedOrder) bool {
		return so.archivedAt == nil && so.order.TableID == tableID && !entity.IsTerminal(so.order.Status)
	}, nil)), nil
}

func (s *OrderStore) Archive(_ context.Context, id string, archivedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	so, ok := s.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	if so.archivedAt != nil {
		return domain.ErrConflict
	}
	at := archivedAt
	so.archivedAt = &at
	so.order.UpdatedAt = archivedAt
	return nil
}

func (s *OrderStore) ListHistory(_ context.Context, limit, offset int) ([]*entity.Order, error) {
	s.mu.Lock()
	type row struct {
		o  *entity.Order
		at time.Time
	}
	var rows []row
	for _, so := range s.orders {
		if so.archivedAt != nil {
			o := cloneOrder(&so.order)
			rows = append(rows, row{&o, *so.archivedAt})
		}
	}
	s.mu.Unlock()

	sort.Slice(rows, func(i, j int) bool { return rows[i].at.After(rows[j].at) })
	out := []*entity.Order{}
	for i := offset; i < len(rows) && (limit <= 0 || len(out) < limit); i++ {
		out = append(out, rows[i].o)
	}
	return out, nil
}

func (s *OrderStore) filter(keep func(*storedOrder) bool, less func(a, b *entity.Order) bool) []*entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*entity.Order{}
	for _, so := range s.orders {
		if keep(so) {
			o := cloneOrder(&so.order)
			out = append(out, &o)
		}
	}
	if less != nil {
		sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func byCreatedAt(a, b *entity.Order) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func cloneOrder(o *entity.Order) entity.Order {
	c := *o
	c.Items = append([]entity.OrderItem(nil), o.Items...)
	if o.Payment != nil {
		p := *o.Payment
		c.Payment = &p
	}
	return c
}
