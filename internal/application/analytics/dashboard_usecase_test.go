package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comandas-api/internal/application/analytics"
	"github.com/jhoicas/Comandas-api/internal/application/dto"
	"github.com/jhoicas/Comandas-api/internal/domain"
	"github.com/jhoicas/Comandas-api/internal/domain/entity"
	"github.com/jhoicas/Comandas-api/internal/infrastructure/memory"
)

var bogota = time.FixedZone("COT", -5*3600)

func seed(t *testing.T, store *memory.OrderStore, paidAt time.Time, method, waiter string, items ...entity.OrderItem) {
	t.Helper()
	o := &entity.Order{Status: entity.StatusPaid, Items: items, WaiterID: waiter, WaiterName: waiter, CreatedAt: paidAt}
	if !paidAt.IsZero() {
		o.Payment = &entity.Payment{Method: method, PaidAt: paidAt}
	} else {
		o.Status = entity.StatusKitchen
	}
	require.NoError(t, store.Create(context.Background(), o))
}

func line(id, name string, price int64, qty int) entity.OrderItem {
	return entity.OrderItem{ProductID: id, ProductName: name, UnitPrice: decimal.NewFromInt(price), Quantity: qty}
}

func TestGetSummary(t *testing.T) {
	store := memory.NewOrderStore()
	seed(t, store, time.Date(2024, 1, 1, 12, 0, 0, 0, bogota), entity.PaymentCash, "ana", line("p1", "Bandeja", 10, 2))
	seed(t, store, time.Date(2024, 1, 1, 20, 0, 0, 0, bogota), entity.PaymentCard, "ana", line("p2", "Jugo", 5, 1))
	seed(t, store, time.Time{}, "", "ana", line("p1", "Bandeja", 10, 9))
	seed(t, store, time.Date(2023, 12, 31, 22, 0, 0, 0, bogota), entity.PaymentCash, "luis", line("p1", "Bandeja", 10, 1))

	uc := analytics.NewDashboardUseCase(store, bogota).
		WithClock(func() time.Time { return time.Date(2024, 1, 1, 22, 0, 0, 0, bogota) })

	got, err := uc.GetSummary(context.Background())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(25).Equal(got.TodaySales), "hoy: %s", got.TodaySales)
	assert.Equal(t, 2, got.TodayOrders)
	assert.True(t, decimal.NewFromInt(25).Equal(got.MonthlySales))
	assert.Equal(t, "Enero 2024", got.DateLabel)
	require.Len(t, got.TopProducts, 2)
	assert.Equal(t, "p1", got.TopProducts[0].ProductID)
	require.Len(t, got.Monthly, 1, "diciembre 2023 queda fuera del año en curso")
	assert.Equal(t, "2024-01", got.Monthly[0].Month)
	require.Len(t, got.ByPaymentMethod, 2)
}

func TestGetReport_PeriodoInclusivo(t *testing.T) {
	store := memory.NewOrderStore()
	seed(t, store, time.Date(2024, 2, 1, 9, 0, 0, 0, bogota), entity.PaymentCash, "ana", line("p1", "A", 10, 1))
	seed(t, store, time.Date(2024, 2, 10, 23, 30, 0, 0, bogota), entity.PaymentCash, "ana", line("p1", "A", 20, 1))
	seed(t, store, time.Date(2024, 2, 11, 0, 0, 0, 0, bogota), entity.PaymentCash, "ana", line("p1", "A", 40, 1))

	uc := analytics.NewDashboardUseCase(store, bogota)
	got, err := uc.GetReport(context.Background(), dto.SalesReportRequest{StartDate: "2024-02-01", EndDate: "2024-02-10"})
	require.NoError(t, err)
	assert.Equal(t, 2, got.Orders)
	assert.True(t, decimal.NewFromInt(30).Equal(got.Revenue))
	assert.True(t, decimal.NewFromInt(15).Equal(got.AverageTicket))
	assert.Equal(t, "2024-02-10", got.EndDate)
}

func TestGetReport_FechasInvalidas(t *testing.T) {
	uc := analytics.NewDashboardUseCase(memory.NewOrderStore(), bogota)

	_, err := uc.GetReport(context.Background(), dto.SalesReportRequest{StartDate: "01/02/2024"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetReport(context.Background(), dto.SalesReportRequest{StartDate: "2024-03-02", EndDate: "2024-03-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetReport_SinVentas(t *testing.T) {
	uc := analytics.NewDashboardUseCase(memory.NewOrderStore(), bogota)
	got, err := uc.GetReport(context.Background(), dto.SalesReportRequest{StartDate: "2024-03-01", EndDate: "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, 0, got.Orders)
	assert.True(t, got.AverageTicket.IsZero())
	assert.Empty(t, got.TopProducts)
}
