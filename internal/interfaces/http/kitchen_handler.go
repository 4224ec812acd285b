package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comandas-api/internal/application/dto"
	"github.com/jhoicas/Comandas-api/internal/application/order"
)

// KitchenHandler vista de cocina.
type KitchenHandler struct {
	uc *order.UseCase
}

// NewKitchenHandler construye el handler de cocina.
func NewKitchenHandler(uc *order.UseCase) *KitchenHandler {
	return &KitchenHandler{uc: uc}
}

// Queue godoc
// @Summary      Cola de cocina
// @Description  Comandas en la columna cocina, la más antigua primero.
// @Tags         kitchen
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/kitchen/queue [get]
func (h *KitchenHandler) Queue(c *fiber.Ctx) error {
	out, err := h.uc.KitchenQueue(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar comanda
// @Tags         kitchen
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la comanda"
// @Param        body  body  dto.CancelRequest  false "motivo"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/kitchen/orders/{id}/cancel [post]
func (h *KitchenHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	out, err := h.uc.Cancel(c.Context(), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
