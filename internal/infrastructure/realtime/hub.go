// Package realtime mantiene a los suscriptores del tablero al día: cada cambio
// recarga la colección de comandas activas y la reemplaza completa en todos.
package realtime

import (
	"context"
	"sync"

	"github.com/jhoicas/Comandas-api/internal/domain/entity"
	"github.com/jhoicas/Comandas-api/pkg/logger"
)

// Loader carga la colección actual de comandas activas.
type Loader func(ctx context.Context) ([]*entity.Order, error)

// Hub reparte snapshots a los suscriptores. Cada uno tiene un buffer de uno:
// si no alcanzó a leer, el snapshot viejo se descarta y queda el último.
// Los snapshots se comparten entre suscriptores y son de solo lectura.
type Hub struct {
	load Loader
	log  *logger.Logger

	// refreshMu cubre carga y entrega: el último snapshot entregado es siempre
	// el último cargado.
	refreshMu sync.Mutex

	mu     sync.Mutex
	subs   map[int]chan []*entity.Order
	nextID int
}

// NewHub construye el hub con la función que carga las comandas activas.
func NewHub(load Loader, log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{load: load, log: log.Component("realtime"), subs: map[int]chan []*entity.Order{}}
}

// Subscribe registra un suscriptor y le envía el snapshot actual. El canal se
// cierra cuando ctx termina.
func (h *Hub) Subscribe(ctx context.Context) <-chan []*entity.Order {
	ch := make(chan []*entity.Order, 1)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	h.refreshMu.Lock()
	if snap, err := h.load(ctx); err != nil {
		h.log.Error().Err(err).Msg("snapshot inicial")
	} else {
		h.mu.Lock()
		if _, ok := h.subs[id]; ok {
			deliver(ch, snap)
		}
		h.mu.Unlock()
	}
	h.refreshMu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, id)
		close(ch)
		h.mu.Unlock()
	}()
	return ch
}

// Refresh recarga las comandas activas y las envía a todos los suscriptores.
func (h *Hub) Refresh(ctx context.Context) error {
	h.refreshMu.Lock()
	defer h.refreshMu.Unlock()
	snap, err := h.load(ctx)
	if err != nil {
		return err
	}
	h.Broadcast(snap)
	return nil
}

// NotifyChanged implementa ports.ChangeNotifier para una sola instancia.
func (h *Hub) NotifyChanged(ctx context.Context) error {
	return h.Refresh(ctx)
}

// Broadcast reemplaza el snapshot pendiente de cada suscriptor.
func (h *Hub) Broadcast(snap []*entity.Order) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		deliver(ch, snap)
	}
}

// Subscribers número de suscriptores activos.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// deliver exige h.mu tomado: solo el hub escribe en los canales.
func deliver(ch chan []*entity.Order, snap []*entity.Order) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- snap
}
