// Package order contiene los casos de uso de comandas: alta, edición, tablero,
// cocina, cobro, archivo y suscripción a cambios.
package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comandas-api/internal/application/dto"
	"github.com/jhoicas/Comandas-api/internal/application/ports"
	"github.com/jhoicas/Comandas-api/internal/domain"
	"github.com/jhoicas/Comandas-api/internal/domain/entity"
	"github.com/jhoicas/Comandas-api/internal/domain/repository"
	"github.com/jhoicas/Comandas-api/internal/domain/sales"
	"github.com/jhoicas/Comandas-api/pkg/logger"
)

// Snapshots fuente de colecciones completas de comandas activas.
type Snapshots interface {
	Subscribe(ctx context.Context) <-chan []*entity.Order
}

// Actor quien ejecuta la operación (sale de los claims JWT).
type Actor struct {
	ID   string
	Name string
	Role string
}

// Deps dependencias del caso de uso. Notifier, Events, Receipts y Snapshots son opcionales.
type Deps struct {
	Orders     repository.OrderRepository
	Archive    repository.OrderArchive
	Products   repository.ProductRepository
	Tables     repository.TableRepository
	Snapshots  Snapshots
	Notifier   ports.ChangeNotifier
	Events     ports.EventPublisher
	Receipts   ports.ReceiptGenerator
	Restaurant string
	Logger     *logger.Logger
	Now        func() time.Time
}

// UseCase casos de uso de comandas. Las escrituras son last-writer-wins.
type UseCase struct {
	orders     repository.OrderRepository
	archive    repository.OrderArchive
	products   repository.ProductRepository
	tables     repository.TableRepository
	snapshots  Snapshots
	notifier   ports.ChangeNotifier
	events     ports.EventPublisher
	receipts   ports.ReceiptGenerator
	restaurant string
	log        *logger.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso inyectando sus dependencias.
func NewUseCase(d Deps) *UseCase {
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &UseCase{
		orders:     d.Orders,
		archive:    d.Archive,
		products:   d.Products,
		tables:     d.Tables,
		snapshots:  d.Snapshots,
		notifier:   d.Notifier,
		events:     d.Events,
		receipts:   d.Receipts,
		restaurant: d.Restaurant,
		log:        d.Logger.Component("orders"),
		now:        d.Now,
	}
}

// Subscribe entrega la colección de comandas activas cada vez que cambia.
// El primer valor es el estado actual; el canal se cierra al cancelar ctx.
func (uc *UseCase) Subscribe(ctx context.Context) (<-chan []*entity.Order, error) {
	if uc.snapshots == nil {
		return nil, fmt.Errorf("orders: tiempo real no configurado")
	}
	return uc.snapshots.Subscribe(ctx), nil
}

// Create registra una comanda nueva en la primera columna del tablero.
// Nombre y precio de cada línea se copian del catálogo en este momento.
func (uc *UseCase) Create(ctx context.Context, actor Actor, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !domain.ValidID(in.TableID) {
		return nil, fmt.Errorf("%w: mesa %q", domain.ErrInvalidInput, in.TableID)
	}
	table, err := uc.tables.GetByID(ctx, in.TableID)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, fmt.Errorf("%w: mesa %s no existe", domain.ErrInvalidInput, in.TableID)
	}
	items, err := uc.buildItems(ctx, in.Items, nil)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	o := &entity.Order{
		TableID:    table.ID,
		TableName:  table.Name,
		Items:      items,
		Status:     entity.InitialStatus,
		Note:       strings.TrimSpace(in.Note),
		WaiterID:   actor.ID,
		WaiterName: actor.Name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("orders: crear: %w", err)
	}
	uc.afterWrite(ctx, ports.EventOrderCreated, o)
	return ToResponse(o), nil
}

// Get obtiene una comanda por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(o), nil
}

// Update aplica una actualización parcial de estado y/o nota. Los estados
// terminales solo se alcanzan con Pay y Cancel, y una comanda pagada o
// cancelada ya no se edita.
func (uc *UseCase) Update(ctx context.Context, id string, upd entity.OrderUpdate) (*dto.OrderResponse, error) {
	if upd.Status != nil {
		if !entity.IsValidStatus(*upd.Status) {
			return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, *upd.Status)
		}
		if entity.IsTerminal(*upd.Status) {
			return nil, fmt.Errorf("%w: %q se alcanza con cobrar o cancelar", domain.ErrInvalidInput, *upd.Status)
		}
	}
	upd.Payment = nil
	current, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity.IsTerminal(current.Status) {
		return nil, domain.ErrConflict
	}
	return uc.write(ctx, current, upd, ports.EventOrderUpdated)
}

// write es el camino de escritura común. Si el destino es pagado y la comanda
// no tiene fecha de pago, la sella con el reloj del servicio; si ya la tiene, el
// pago queda intacto.
func (uc *UseCase) write(ctx context.Context, current *entity.Order, upd entity.OrderUpdate, event string) (*dto.OrderResponse, error) {
	id := current.ID
	if upd.IsEmpty() {
		return ToResponse(current), nil
	}

	now := uc.now()
	entity.StampPaidAt(current, &upd, now)
	if err := uc.orders.Update(ctx, id, upd, now); err != nil {
		return nil, fmt.Errorf("orders: actualizar: %w", err)
	}
	current.Apply(upd, now)
	uc.afterWrite(ctx, event, current)
	return ToResponse(current), nil
}

// EditItems reemplaza las líneas. Los productos que ya estaban en la comanda
// conservan su precio original; los nuevos se copian del catálogo.
func (uc *UseCase) EditItems(ctx context.Context, id string, in []dto.OrderItemRequest) (*dto.OrderResponse, error) {
	if len(in) == 0 {
		return nil, domain.ErrInvalidInput
	}
	current, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity.IsTerminal(current.Status) {
		return nil, domain.ErrConflict
	}
	known := make(map[string]entity.OrderItem, len(current.Items))
	for _, it := range current.Items {
		known[it.ProductID] = it
	}
	items, err := uc.buildItems(ctx, in, known)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	if err := uc.orders.ReplaceItems(ctx, id, items, now); err != nil {
		return nil, fmt.Errorf("orders: editar líneas: %w", err)
	}
	current.Items = items
	current.UpdatedAt = now
	uc.afterWrite(ctx, ports.EventOrderUpdated, current)
	return ToResponse(current), nil
}

// Delete borra la comanda definitivamente.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	current, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.orders.Delete(ctx, id); err != nil {
		return err
	}
	uc.afterWrite(ctx, ports.EventOrderDeleted, current)
	return nil
}

// Archive retira la comanda del tablero y la deja en el historial.
func (uc *UseCase) Archive(ctx context.Context, id string) error {
	current, err := uc.get(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.archive.Archive(ctx, id, uc.now()); err != nil {
		return err
	}
	uc.afterWrite(ctx, ports.EventOrderArchived, current)
	return nil
}

// History comandas archivadas, las más recientes primero.
func (uc *UseCase) History(ctx context.Context, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	list, err := uc.archive.ListHistory(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.OrderListResponse{
		Items: ToResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Move mueve la comanda a otra columna del tablero. Cualquier columna a cualquier
// columna; pagado solo se alcanza con Pay.
func (uc *UseCase) Move(ctx context.Context, id, status string) (*dto.OrderResponse, error) {
	if !entity.IsBoardColumn(status) {
		return nil, fmt.Errorf("%w: %q no es una columna del tablero", domain.ErrInvalidInput, status)
	}
	current, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity.IsTerminal(current.Status) {
		return nil, domain.ErrConflict
	}
	return uc.write(ctx, current, entity.OrderUpdate{Status: &status}, ports.EventOrderMoved)
}

// Board comandas activas agrupadas por columna.
func (uc *UseCase) Board(ctx context.Context) (*dto.BoardResponse, error) {
	list, err := uc.orders.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return BuildBoard(list), nil
}

// Pay cobra la comanda: en efectivo exige monto entregado >= total y calcula las
// vueltas; en otros métodos el monto entregado es el total.
func (uc *UseCase) Pay(ctx context.Context, id string, in dto.PayRequest) (*dto.OrderResponse, error) {
	if !entity.IsValidPaymentMethod(in.Method) {
		return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.Method)
	}
	current, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity.IsTerminal(current.Status) {
		return nil, domain.ErrConflict
	}

	total := sales.OrderTotal(current)
	tendered, change := total, decimal.Zero
	if in.Method == entity.PaymentCash {
		if in.AmountTendered == nil {
			return nil, fmt.Errorf("%w: falta el monto entregado", domain.ErrInvalidInput)
		}
		if in.AmountTendered.LessThan(total) {
			return nil, fmt.Errorf("%w: monto entregado menor al total", domain.ErrInvalidInput)
		}
		tendered = *in.AmountTendered
		change = tendered.Sub(total)
	}

	paid := entity.StatusPaid
	return uc.write(ctx, current, entity.OrderUpdate{
		Status: &paid,
		Payment: &entity.Payment{
			Method:         in.Method,
			AmountTendered: tendered,
			Change:         change,
			PaidAt:         uc.now(),
		},
	}, ports.EventOrderPaid)
}

// KitchenQueue comandas en cocina, de la más antigua a la más nueva.
func (uc *UseCase) KitchenQueue(ctx context.Context) ([]dto.OrderResponse, error) {
	list, err := uc.orders.ListByStatus(ctx, entity.StatusKitchen)
	if err != nil {
		return nil, err
	}
	return ToResponses(list), nil
}

// Cancel cancela la comanda. El motivo queda al final de la nota.
func (uc *UseCase) Cancel(ctx context.Context, id, reason string) (*dto.OrderResponse, error) {
	current, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity.IsTerminal(current.Status) {
		return nil, domain.ErrConflict
	}
	status := entity.StatusCancelled
	upd := entity.OrderUpdate{Status: &status}
	if reason = strings.TrimSpace(reason); reason != "" {
		note := "Cancelada: " + reason
		if current.Note != "" {
			note = current.Note + " | " + note
		}
		upd.Note = &note
	}
	return uc.write(ctx, current, upd, ports.EventOrderCancelled)
}

// Receipt genera el recibo PDF. Solo para comandas pagadas.
func (uc *UseCase) Receipt(ctx context.Context, id string) ([]byte, string, error) {
	if uc.receipts == nil {
		return nil, "", fmt.Errorf("orders: generador de recibos no configurado")
	}
	o, err := uc.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !o.IsPaid() {
		return nil, "", fmt.Errorf("%w: la comanda no está pagada", domain.ErrInvalidInput)
	}
	pdf, err := uc.receipts.Generate(uc.restaurant, o)
	if err != nil {
		return nil, "", fmt.Errorf("orders: recibo: %w", err)
	}
	return pdf, fmt.Sprintf("recibo-%s.pdf", shortID(o.ID)), nil
}

func (uc *UseCase) get(ctx context.Context, id string) (*entity.Order, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// buildItems arma las líneas; known trae las copias ya existentes por producto.
func (uc *UseCase) buildItems(ctx context.Context, in []dto.OrderItemRequest, known map[string]entity.OrderItem) ([]entity.OrderItem, error) {
	var missing []string
	for _, r := range in {
		if r.Quantity <= 0 || r.ProductID == "" {
			return nil, fmt.Errorf("%w: línea inválida", domain.ErrInvalidInput)
		}
		if _, ok := known[r.ProductID]; !ok {
			if !domain.ValidID(r.ProductID) {
				return nil, fmt.Errorf("%w: producto %s no existe", domain.ErrInvalidInput, r.ProductID)
			}
			missing = append(missing, r.ProductID)
		}
	}
	catalog, err := uc.products.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}

	items := make([]entity.OrderItem, 0, len(in))
	for _, r := range in {
		it := entity.OrderItem{ProductID: r.ProductID, Quantity: r.Quantity, Note: strings.TrimSpace(r.Note)}
		if prev, ok := known[r.ProductID]; ok {
			it.ProductName, it.UnitPrice = prev.ProductName, prev.UnitPrice
		} else {
			p, ok := catalog[r.ProductID]
			if !ok {
				return nil, fmt.Errorf("%w: producto %s no existe", domain.ErrInvalidInput, r.ProductID)
			}
			it.ProductName, it.UnitPrice = p.Name, p.Price
		}
		items = append(items, it)
	}
	return items, nil
}

// afterWrite avisa al tiempo real y publica el evento. Los fallos no deshacen la escritura.
func (uc *UseCase) afterWrite(ctx context.Context, event string, o *entity.Order) {
	if uc.notifier != nil {
		if err := uc.notifier.NotifyChanged(ctx); err != nil {
			uc.log.Warn().Err(err).Str("order_id", o.ID).Msg("no se pudo notificar el cambio")
		}
	}
	if uc.events == nil {
		return
	}
	evt := ports.OrderEvent{
		Type:       event,
		OrderID:    o.ID,
		Status:     o.Status,
		TableName:  o.TableName,
		WaiterID:   o.WaiterID,
		Total:      sales.OrderTotal(o),
		OccurredAt: uc.now(),
	}
	if o.Payment != nil {
		evt.PaymentMethod = o.Payment.Method
	}
	if err := uc.events.Publish(ctx, evt); err != nil {
		uc.log.Warn().Err(err).Str("order_id", o.ID).Str("event", event).Msg("no se pudo publicar el evento")
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
