package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comandas-api/internal/application/dto"
	"github.com/jhoicas/Comandas-api/internal/application/order"
	"github.com/jhoicas/Comandas-api/internal/domain/entity"
)

// OrderHandler ciclo de vida de una comanda.
type OrderHandler struct {
	uc *order.UseCase
}

// NewOrderHandler construye el handler de comandas.
func NewOrderHandler(uc *order.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Tomar una comanda
// @Description  La comanda nace en la columna sala; nombre y precio de cada línea se copian de la carta.
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "mesa y líneas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.TableID == "" || len(in.Items) == 0 {
		return validationError(c, "table_id y al menos una línea son requeridos")
	}
	out, err := h.uc.Create(c.Context(), actorFrom(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener comanda
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID de la comanda"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualización parcial (estado y/o nota)
// @Description  Solo columnas del tablero y nota. Pagado y cancelado tienen sus propias rutas; una comanda cerrada no se edita.
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la comanda"
// @Param        body  body  dto.UpdateOrderRequest  true  "campos a cambiar"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [patch]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.Context(), c.Params("id"), entity.OrderUpdate{Status: in.Status, Note: in.Note})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// EditItems godoc
// @Summary      Reemplazar las líneas de una comanda
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la comanda"
// @Param        body  body  dto.EditItemsRequest  true  "líneas"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/items [put]
func (h *OrderHandler) EditItems(c *fiber.Ctx) error {
	var in dto.EditItemsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.EditItems(c.Context(), c.Params("id"), in.Items)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Pay godoc
// @Summary      Cobrar comanda
// @Description  En efectivo amount_tendered es obligatorio y se calculan las vueltas.
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "ID de la comanda"
// @Param        body  body  dto.PayRequest  true  "método y monto recibido"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/pay [post]
func (h *OrderHandler) Pay(c *fiber.Ctx) error {
	var in dto.PayRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Pay(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar comanda definitivamente
// @Tags         orders
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la comanda"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Archive godoc
// @Summary      Archivar comanda
// @Description  Sale del tablero y pasa al historial.
// @Tags         orders
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la comanda"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/archive [post]
func (h *OrderHandler) Archive(c *fiber.Ctx) error {
	if err := h.uc.Archive(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Receipt godoc
// @Summary      Recibo PDF de una comanda cobrada
// @Tags         orders
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la comanda"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.Receipt(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(pdf)
}

// History godoc
// @Summary      Historial de comandas archivadas
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {object}  dto.OrderListResponse
// @Router       /api/orders/history [get]
func (h *OrderHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.Context(), pageFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
