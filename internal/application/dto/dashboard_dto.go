package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// KPIs del día y del mes en curso, más la serie mensual del año.
type DashboardSummaryDTO struct {
	// Día actual (zona del restaurante)
	TodaySales  decimal.Decimal `json:"today_sales"`
	TodayOrders int             `json:"today_orders"`

	// Mes en curso (día 1 – hoy)
	MonthlySales  decimal.Decimal `json:"monthly_sales"`
	MonthlyOrders int             `json:"monthly_orders"`

	ByPaymentMethod []PaymentMethodDTO `json:"by_payment_method"`
	ByWaiter        []WaiterSalesDTO   `json:"by_waiter"`
	TopProducts     []TopProductDTO    `json:"top_products"` // top 5 del mes
	Monthly         []MonthSalesDTO    `json:"monthly"`      // meses del año en curso con ventas

	DateLabel string `json:"date_label"` // ej: "Febrero 2026"
}

// SalesReportRequest parámetros para GET /api/dashboard/report.
type SalesReportRequest struct {
	StartDate string `query:"start_date"` // YYYY-MM-DD; por defecto primer día del mes actual
	EndDate   string `query:"end_date"`   // YYYY-MM-DD; por defecto hoy
	TopN      int    `query:"top_n"`      // default 10, max 100
}

// SalesReportDTO ventas de un período arbitrario.
type SalesReportDTO struct {
	StartDate       string             `json:"start_date"`
	EndDate         string             `json:"end_date"`
	Revenue         decimal.Decimal    `json:"revenue"`
	Orders          int                `json:"orders"`
	AverageTicket   decimal.Decimal    `json:"average_ticket"`
	ByPaymentMethod []PaymentMethodDTO `json:"by_payment_method"`
	ByWaiter        []WaiterSalesDTO   `json:"by_waiter"`
	TopProducts     []TopProductDTO    `json:"top_products"`
	Monthly         []MonthSalesDTO    `json:"monthly"`
}

// PaymentMethodDTO ventas por método de pago.
type PaymentMethodDTO struct {
	Method string          `json:"method"`
	Orders int             `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}

// WaiterSalesDTO ventas por mesero.
type WaiterSalesDTO struct {
	WaiterID   string          `json:"waiter_id"`
	WaiterName string          `json:"waiter_name"`
	Orders     int             `json:"orders"`
	Total      decimal.Decimal `json:"total"`
}

// TopProductDTO producto más vendido por unidades.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int             `json:"quantity_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

// MonthSalesDTO ventas de un mes ("2024-01").
type MonthSalesDTO struct {
	Month  string          `json:"month"`
	Label  string          `json:"label"` // ej: "Enero 2024"
	Orders int             `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}
