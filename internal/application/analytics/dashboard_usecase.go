// Package analytics contiene los casos de uso del dashboard de ventas del gerente.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comandas-api/internal/application/dto"
	"github.com/jhoicas/Comandas-api/internal/domain"
	"github.com/jhoicas/Comandas-api/internal/domain/repository"
	"github.com/jhoicas/Comandas-api/internal/domain/sales"
)

const (
	dashboardTopProducts = 5 // productos en el widget del dashboard
	defaultTopN          = 10
	maxTopN              = 100
)

// DashboardUseCase arma los KPIs de ventas a partir de las comandas pagadas.
//
// Fuente de datos: OrderRepository.ListPaidBetween (incluye archivadas).
// Los cálculos son los pliegues puros de domain/sales; aquí solo se eligen
// los períodos y se redondea a 2 decimales para la respuesta.
type DashboardUseCase struct {
	orders repository.OrderRepository
	loc    *time.Location
	now    func() time.Time
}

// NewDashboardUseCase construye el caso de uso. loc es la zona horaria del restaurante.
func NewDashboardUseCase(orders repository.OrderRepository, loc *time.Location) *DashboardUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardUseCase{orders: orders, loc: loc, now: time.Now}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary KPIs de hoy y del mes en curso, más la serie mensual del año.
// Una sola consulta trae lo pagado desde el 1 de enero; el resto se pliega en memoria.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now().In(uc.loc)

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	todayStart, todayEnd := sales.DayBounds(now, uc.loc)
	monthStart, _ := sales.MonthBounds(now, uc.loc)
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, uc.loc)

	paid, err := uc.orders.ListPaidBetween(ctx, yearStart, todayEnd)
	if err != nil {
		return nil, fmt.Errorf("dashboard: comandas pagadas: %w", err)
	}

	today := sales.PaidInPeriod(paid, todayStart, todayEnd)
	month := sales.PaidInPeriod(paid, monthStart, todayEnd)

	return &dto.DashboardSummaryDTO{
		TodaySales:      sales.Revenue(today).Round(2),
		TodayOrders:     len(today),
		MonthlySales:    sales.Revenue(month).Round(2),
		MonthlyOrders:   len(month),
		ByPaymentMethod: methodDTOs(sales.ByPaymentMethod(month)),
		ByWaiter:        waiterDTOs(sales.ByWaiter(month)),
		TopProducts:     productDTOs(sales.TopProducts(month, dashboardTopProducts)),
		Monthly:         monthDTOs(sales.ByMonth(paid, uc.loc)),
		DateLabel:       monthLabel(now),
	}, nil
}

// GetReport ventas de un período [start_date, end_date] (días completos).
func (uc *DashboardUseCase) GetReport(ctx context.Context, req dto.SalesReportRequest) (*dto.SalesReportDTO, error) {
	start, end, err := uc.parsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	topN := req.TopN
	if topN <= 0 {
		topN = defaultTopN
	}
	if topN > maxTopN {
		topN = maxTopN
	}

	paid, err := uc.orders.ListPaidBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("reporte: comandas pagadas: %w", err)
	}
	paid = sales.PaidInPeriod(paid, start, end)

	revenue := sales.Revenue(paid)
	avg := decimal.Zero
	if len(paid) > 0 {
		avg = revenue.Div(decimal.NewFromInt(int64(len(paid))))
	}

	return &dto.SalesReportDTO{
		StartDate:       start.Format("2006-01-02"),
		EndDate:         end.AddDate(0, 0, -1).Format("2006-01-02"),
		Revenue:         revenue.Round(2),
		Orders:          len(paid),
		AverageTicket:   avg.Round(2),
		ByPaymentMethod: methodDTOs(sales.ByPaymentMethod(paid)),
		ByWaiter:        waiterDTOs(sales.ByWaiter(paid)),
		TopProducts:     productDTOs(sales.TopProducts(paid, topN)),
		Monthly:         monthDTOs(sales.ByMonth(paid, uc.loc)),
	}, nil
}

// parsePeriod convierte las fechas YYYY-MM-DD en [start, end) en la zona del restaurante.
// Vacíos: desde el primer día del mes actual hasta hoy inclusive.
func (uc *DashboardUseCase) parsePeriod(startStr, endStr string) (start, end time.Time, err error) {
	now := uc.now().In(uc.loc)

	if endStr == "" {
		_, end = sales.DayBounds(now, uc.loc)
	} else {
		day, err := time.ParseInLocation("2006-01-02", endStr, uc.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date inválido", domain.ErrInvalidInput)
		}
		end = day.AddDate(0, 0, 1) // inclusive hasta el final del día
	}

	if startStr == "" {
		start, _ = sales.MonthBounds(now, uc.loc)
	} else {
		start, err = time.ParseInLocation("2006-01-02", startStr, uc.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date inválido", domain.ErrInvalidInput)
		}
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date debe ser anterior o igual a end_date", domain.ErrInvalidInput)
	}
	return start, end, nil
}

// ── Conversión a DTO (redondeo a 2 decimales) ────────────────────────────────

func methodDTOs(in []sales.MethodTotal) []dto.PaymentMethodDTO {
	out := make([]dto.PaymentMethodDTO, 0, len(in))
	for _, m := range in {
		out = append(out, dto.PaymentMethodDTO{Method: m.Method, Orders: m.Orders, Total: m.Total.Round(2)})
	}
	return out
}

func waiterDTOs(in []sales.WaiterSales) []dto.WaiterSalesDTO {
	out := make([]dto.WaiterSalesDTO, 0, len(in))
	for _, w := range in {
		out = append(out, dto.WaiterSalesDTO{WaiterID: w.WaiterID, WaiterName: w.WaiterName, Orders: w.Orders, Total: w.Total.Round(2)})
	}
	return out
}

func productDTOs(in []sales.ProductSales) []dto.TopProductDTO {
	out := make([]dto.TopProductDTO, 0, len(in))
	for _, p := range in {
		out = append(out, dto.TopProductDTO{
			ProductID:    p.ProductID,
			ProductName:  p.ProductName,
			QuantitySold: p.Quantity,
			TotalRevenue: p.Revenue.Round(2),
		})
	}
	return out
}

func monthDTOs(in []sales.MonthTotal) []dto.MonthSalesDTO {
	out := make([]dto.MonthSalesDTO, 0, len(in))
	for _, m := range in {
		label := m.Month
		if t, err := time.Parse("2006-01", m.Month); err == nil {
			label = monthLabel(t)
		}
		out = append(out, dto.MonthSalesDTO{Month: m.Month, Label: label, Orders: m.Orders, Total: m.Total.Round(2)})
	}
	return out
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
