package order_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comandas-api/internal/application/dto"
	"github.com/jhoicas/Comandas-api/internal/application/order"
	"github.com/jhoicas/Comandas-api/internal/application/ports"
	"github.com/jhoicas/Comandas-api/internal/domain"
	"github.com/jhoicas/Comandas-api/internal/domain/entity"
	"github.com/jhoicas/Comandas-api/internal/infrastructure/memory"
)

// ─── Dobles de prueba ────────────────────────────────────────────────────────

type notifierMock struct{ mock.Mock }

func (m *notifierMock) NotifyChanged(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type publisherMock struct{ mock.Mock }

func (m *publisherMock) Publish(ctx context.Context, evt ports.OrderEvent) error {
	return m.Called(ctx, evt).Error(0)
}

type receiptStub struct{ calls int }

func (r *receiptStub) Generate(restaurant string, o *entity.Order) ([]byte, error) {
	r.calls++
	return []byte("%PDF-1.4 " + restaurant), nil
}

const (
	tableID   = "11111111-1111-1111-1111-111111111111"
	bandejaID = "22222222-2222-2222-2222-222222222222"
	jugoID    = "33333333-3333-3333-3333-333333333333"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	uc        *order.UseCase
	orders    *memory.OrderStore
	products  *memory.ProductStore
	notifier  *notifierMock
	publisher *publisherMock
	receipts  *receiptStub
	clock     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		orders: memory.NewOrderStore(),
		products: memory.NewProductStore(
			entity.Product{ID: bandejaID, Name: "Bandeja paisa", Price: decimal.NewFromInt(10)},
			entity.Product{ID: jugoID, Name: "Jugo de lulo", Price: decimal.NewFromInt(5)},
		),
		notifier:  &notifierMock{},
		publisher: &publisherMock{},
		receipts:  &receiptStub{},
		clock:     t0,
	}
	f.notifier.On("NotifyChanged", mock.Anything).Return(nil)
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)

	f.uc = order.NewUseCase(order.Deps{
		Orders:     f.orders,
		Archive:    f.orders,
		Products:   f.products,
		Tables:     memory.NewTableStore(entity.Table{ID: tableID, Name: "Mesa 1"}),
		Notifier:   f.notifier,
		Events:     f.publisher,
		Receipts:   f.receipts,
		Restaurant: "La Fonda",
		Now:        func() time.Time { return f.clock },
	})
	return f
}

func (f *fixture) tick(d time.Duration) { f.clock = f.clock.Add(d) }

var waiter = order.Actor{ID: "44444444-4444-4444-4444-444444444444", Name: "Ana", Role: entity.RoleWaiter}

func (f *fixture) create(t *testing.T) *dto.OrderResponse {
	t.Helper()
	resp, err := f.uc.Create(context.Background(), waiter, dto.CreateOrderRequest{
		TableID: tableID,
		Items: []dto.OrderItemRequest{
			{ProductID: bandejaID, Quantity: 2},
			{ProductID: jugoID, Quantity: 1, Note: "sin azúcar"},
		},
	})
	require.NoError(t, err)
	return resp
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// ─── Create ──────────────────────────────────────────────────────────────────

func TestCreate_NaceEnSalaConCopiaDelCatalogo(t *testing.T) {
	f := newFixture(t)
	resp := f.create(t)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, entity.StatusRoom, resp.Status)
	assert.Equal(t, "Mesa 1", resp.TableName)
	assert.Equal(t, "Ana", resp.WaiterName)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Bandeja paisa", resp.Items[0].ProductName)
	assert.True(t, decimal.NewFromInt(25).Equal(resp.Total))
	assert.Nil(t, resp.Payment)

	f.notifier.AssertCalled(t, "NotifyChanged", mock.Anything)
	f.publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e ports.OrderEvent) bool {
		return e.Type == ports.EventOrderCreated && e.OrderID == resp.ID
	}))
}

func TestCreate_CambioDePrecioNoAfectaComandasExistentes(t *testing.T) {
	f := newFixture(t)
	resp := f.create(t)

	p, _ := f.products.GetByID(context.Background(), bandejaID)
	p.Price = decimal.NewFromInt(99)
	require.NoError(t, f.products.Update(context.Background(), p))

	got, err := f.uc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Items[0].UnitPrice))
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Create(ctx, waiter, dto.CreateOrderRequest{TableID: tableID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = f.uc.Create(ctx, waiter, dto.CreateOrderRequest{
		TableID: "99999999-9999-9999-9999-999999999999",
		Items:   []dto.OrderItemRequest{{ProductID: bandejaID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "mesa inexistente")

	_, err = f.uc.Create(ctx, waiter, dto.CreateOrderRequest{
		TableID: tableID,
		Items:   []dto.OrderItemRequest{{ProductID: "no-existe", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "producto inexistente")

	_, err = f.uc.Create(ctx, waiter, dto.CreateOrderRequest{
		TableID: tableID,
		Items:   []dto.OrderItemRequest{{ProductID: bandejaID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")
}

// ─── Update ──────────────────────────────────────────────────────────────────

func TestUpdate_NotaYColumna(t *testing.T) {
	f := newFixture(t)
	resp := f.create(t)
	f.tick(time.Minute)

	got, err := f.uc.Update(context.Background(), resp.ID, entity.OrderUpdate{
		Status: strPtr(entity.StatusDelivered),
		Note:   strPtr("mesa de afuera"),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, got.Status)
	assert.Equal(t, "mesa de afuera", got.Note)
	assert.Nil(t, got.Payment)
}

func TestUpdate_NoAlcanzaEstadosTerminales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.create(t)

	_, err := f.uc.Update(ctx, resp.ID, entity.OrderUpdate{Status: strPtr(entity.StatusPaid)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "pagado solo con el cobro")
	_, err = f.uc.Update(ctx, resp.ID, entity.OrderUpdate{Status: strPtr(entity.StatusCancelled)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cancelado solo desde cocina")

	stored, _ := f.orders.GetByID(ctx, resp.ID)
	assert.Equal(t, entity.StatusRoom, stored.Status)
	assert.Nil(t, stored.Payment)
}

func TestUpdate_ComandaPagadaNoVuelveAlTablero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.create(t)

	_, err := f.uc.Pay(ctx, resp.ID, dto.PayRequest{Method: entity.PaymentCard})
	require.NoError(t, err)
	f.tick(2 * time.Hour)

	_, err = f.uc.Update(ctx, resp.ID, entity.OrderUpdate{Status: strPtr(entity.StatusRoom)})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.Update(ctx, resp.ID, entity.OrderUpdate{Note: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	stored, _ := f.orders.GetByID(ctx, resp.ID)
	assert.Equal(t, entity.StatusPaid, stored.Status)
	require.NotNil(t, stored.Payment)
	assert.Equal(t, t0, stored.Payment.PaidAt)
	assert.Equal(t, entity.PaymentCard, stored.Payment.Method)
}

func TestUpdate_ComandaCanceladaEsConflicto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.create(t)

	_, err := f.uc.Cancel(ctx, resp.ID, "")
	require.NoError(t, err)
	_, err = f.uc.Update(ctx, resp.ID, entity.OrderUpdate{Status: strPtr(entity.StatusKitchen)})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdate_EstadoDesconocido(t *testing.T) {
	f := newFixture(t)
	resp := f.create(t)
	_, err := f.uc.Update(context.Background(), resp.ID, entity.OrderUpdate{Status: strPtr("archivado")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Update(context.Background(), "nada", entity.OrderUpdate{Note: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Tablero ─────────────────────────────────────────────────────────────────

func TestMove_SalaACocinaEnviaSoloElEstado(t *testing.T) {
	f := newFixture(t)
	resp := f.create(t)

	got, err := f.uc.Move(context.Background(), resp.ID, entity.StatusKitchen)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusKitchen, got.Status)

	updates := f.orders.Updates()
	require.Len(t, updates, 1)
	require.NotNil(t, updates[0].Status)
	assert.Equal(t, entity.StatusKitchen, *updates[0].Status)
	assert.Nil(t, updates[0].Note)
	assert.Nil(t, updates[0].Payment)
}

func TestMove_CualquierColumnaACualquierColumna(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.create(t)

	for _, s := range []string{entity.StatusDelivered, entity.StatusRoom, entity.StatusKitchen} {
		got, err := f.uc.Move(ctx, resp.ID, s)
		require.NoError(t, err)
		assert.Equal(t, s, got.Status)
	}
}

func TestMove_RechazaPagadoYTerminales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.create(t)

	_, err := f.uc.Move(ctx, resp.ID, entity.StatusPaid)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Cancel(ctx, resp.ID, "cliente se fue")
	require.NoError(t, err)
	_, err = f.uc.Move(ctx, resp.ID, entity.StatusRoom)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestBoard_AgrupaPorColumnaYOrdenaPorCreacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.create(t)
	f.tick(time.Minute)
	second := f.create(t)
	f.tick(time.Minute)
	third := f.create(t)
	f.tick(time.Minute)
	paid := f.create(t)

	_, err := f.uc.Move(ctx, third.ID, entity.StatusKitchen)
	require.NoError(t, err)
	_, err = f.uc.Cancel(ctx, second.ID, "")
	require.NoError(t, err)
	_, err = f.uc.Pay(ctx, paid.ID, dto.PayRequest{Method: entity.PaymentCard})
	require.NoError(t, err)

	board, err := f.uc.Board(ctx)
	require.NoError(t, err)
	require.Len(t, board.Columns, 3)
	assert.Equal(t, entity.StatusRoom, board.Columns[0].Status)
	require.Len(t, board.Columns[0].Orders, 1)
	assert.Equal(t, first.ID, board.Columns[0].Orders[0].ID)
	require.Len(t, board.Columns[1].Orders, 1)
	assert.Equal(t, third.ID, board.Columns[1].Orders[0].ID)
	assert.Empty(t, board.Columns[2].Orders)
	require.Len(t, board.Cancelled, 1)
	assert.Equal(t, second.ID, board.Cancelled[0].ID)
}

func TestBuildBoard_IgnoraEntradasNulas(t *testing.T) {
	later := &entity.Order{ID: "b", Status: entity.StatusRoom, CreatedAt: t0.Add(time.Minute)}
	earlier := &entity.Order{ID: "a", Status: entity.StatusRoom, CreatedAt: t0}

	var board *dto.BoardResponse
	require.NotPanics(t, func() { board = order.BuildBoard([]*entity.Order{nil, later, nil, earlier}) })
	require.Len(t, board.Columns[0].Orders, 2)
	assert.Equal(t, "a", board.Columns[0].Orders[0].ID)
	assert.Equal(t, "b", board.Columns[0].Orders[1].ID)
}

// ─── Cobro ───────────────────────────────────────────────────────────────────

func TestPay_EfectivoCalculaVueltas(t *testing.T) {
	f := newFixture(t)
	resp := f.create(t)

	got, err := f.uc.Pay(context.Background(), resp.ID, dto.PayRequest{Method: entity.PaymentCash, AmountTendered: decPtr("50000")})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPaid, got.Status)
	require.NotNil(t, got.Payment)
	assert.True(t, decimal.RequireFromString("49975").Equal(got.Payment.Change))
	assert.Equal(t, t0, got.Payment.PaidAt)

	f.publisher.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(e ports.OrderEvent) bool {
		return e.Type == ports.EventOrderPaid && e.PaymentMethod == entity.PaymentCash
	}))
}

func TestPay_TarjetaSinVueltas(t *testing.T) {
	f := newFixture(t)
	resp := f.create(t)

	got, err := f.uc.Pay(context.Background(), resp.ID, dto.PayRequest{Method: entity.PaymentTransfer})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(got.Payment.AmountTendered))
	assert.True(t, got.Payment.Change.IsZero())
}

func TestPay_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.create(t)

	_, err := f.uc.Pay(ctx, resp.ID, dto.PayRequest{Method: "bitcoin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Pay(ctx, resp.ID, dto.PayRequest{Method: entity.PaymentCash})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Pay(ctx, resp.ID, dto.PayRequest{Method: entity.PaymentCash, AmountTendered: decPtr("24.99")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Pay(ctx, resp.ID, dto.PayRequest{Method: entity.PaymentCard})
	require.NoError(t, err)
	_, err = f.uc.Pay(ctx, resp.ID, dto.PayRequest{Method: entity.PaymentCard})
	assert.ErrorIs(t, err, domain.ErrConflict, "cobrar dos veces")
}

// ─── Edición, cocina, archivo ────────────────────────────────────────────────

func TestEditItems_ConservaPrecioOriginal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.create(t)

	p, _ := f.products.GetByID(ctx, bandejaID)
	p.Price = decimal.NewFromInt(99)
	require.NoError(t, f.products.Update(ctx, p))

	got, err := f.uc.EditItems(ctx, resp.ID, []dto.OrderItemRequest{{ProductID: bandejaID, Quantity: 3}})
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Items[0].UnitPrice))
	assert.True(t, decimal.NewFromInt(30).Equal(got.Total))
}

func TestEditItems_ComandaPagada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.create(t)
	_, err := f.uc.Pay(ctx, resp.ID, dto.PayRequest{Method: entity.PaymentCard})
	require.NoError(t, err)

	_, err = f.uc.EditItems(ctx, resp.ID, []dto.OrderItemRequest{{ProductID: jugoID, Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestKitchenQueue_YCancelacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t)
	f.tick(time.Minute)
	b := f.create(t)
	f.create(t)
	_, _ = f.uc.Move(ctx, b.ID, entity.StatusKitchen)
	_, _ = f.uc.Move(ctx, a.ID, entity.StatusKitchen)

	queue, err := f.uc.KitchenQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, a.ID, queue[0].ID, "la más antigua primero")

	got, err := f.uc.Cancel(ctx, a.ID, "sin ingredientes")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, got.Status)
	assert.Contains(t, got.Note, "sin ingredientes")

	queue, _ = f.uc.KitchenQueue(ctx)
	assert.Len(t, queue, 1)
}

func TestArchive_SaleDelTableroYEntraAlHistorial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.create(t)

	require.NoError(t, f.uc.Archive(ctx, resp.ID))
	assert.ErrorIs(t, f.uc.Archive(ctx, resp.ID), domain.ErrConflict)

	board, err := f.uc.Board(ctx)
	require.NoError(t, err)
	assert.Empty(t, board.Columns[0].Orders)

	hist, err := f.uc.History(ctx, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, hist.Items, 1)
	assert.Equal(t, resp.ID, hist.Items[0].ID)
	assert.Equal(t, 20, hist.Page.Limit)
}

func TestDelete_Definitivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.create(t)

	require.NoError(t, f.uc.Delete(ctx, resp.ID))
	_, err := f.uc.Get(ctx, resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.uc.Delete(ctx, resp.ID), domain.ErrNotFound)
}

func TestReceipt_SoloPagadas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resp := f.create(t)

	_, _, err := f.uc.Receipt(ctx, resp.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Pay(ctx, resp.ID, dto.PayRequest{Method: entity.PaymentCard})
	require.NoError(t, err)
	pdf, name, err := f.uc.Receipt(ctx, resp.ID)
	require.NoError(t, err)
	assert.Contains(t, string(pdf), "La Fonda")
	assert.Contains(t, name, "recibo-")
	assert.Equal(t, 1, f.receipts.calls)
}

func TestFallaDelPublicador_NoDeshaceLaEscritura(t *testing.T) {
	f := newFixture(t)
	f.publisher = &publisherMock{}
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker caído"))
	f.uc = order.NewUseCase(order.Deps{
		Orders:   f.orders,
		Archive:  f.orders,
		Products: f.products,
		Tables:   memory.NewTableStore(entity.Table{ID: tableID, Name: "Mesa 1"}),
		Events:   f.publisher,
		Now:      func() time.Time { return f.clock },
	})

	resp := f.create(t)
	got, err := f.uc.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusRoom, got.Status)
}
