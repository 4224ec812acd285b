package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Comandas-api/internal/application/analytics"
	"github.com/jhoicas/Comandas-api/internal/application/dto"
)

// DashboardHandler maneja los endpoints del dashboard de ventas.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve las ventas del día y del mes en curso.
// GET /api/dashboard/summary
//
// Las fechas se calculan en el servidor con la zona horaria del restaurante.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// GetReport ventas de un período.
// GET /api/dashboard/report?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD&top_n=10
//
// Ambas fechas son inclusivas; sin fechas toma el mes en curso.
func (h *DashboardHandler) GetReport(c *fiber.Ctx) error {
	var req dto.SalesReportRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	report, err := h.uc.GetReport(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}
