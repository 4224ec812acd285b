package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Comandas-api/internal/application/dto"
	"github.com/jhoicas/Comandas-api/internal/application/usecase"
)

// TableHandler mesas del salón.
type TableHandler struct {
	uc *usecase.TableUseCase
}

// NewTableHandler construye el handler.
func NewTableHandler(uc *usecase.TableUseCase) *TableHandler {
	return &TableHandler{uc: uc}
}

// Create godoc
// @Summary      Crear mesa
// @Tags         tables
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TableRequest  true  "nombre"
// @Success      201   {object}  dto.TableResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tables [post]
func (h *TableHandler) Create(c *fiber.Ctx) error {
	var in dto.TableRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar mesas
// @Tags         tables
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.TableResponse
// @Router       /api/tables [get]
func (h *TableHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Rename godoc
// @Summary      Renombrar mesa
// @Tags         tables
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID de la mesa"
// @Param        body  body  dto.TableRequest  true  "nombre"
// @Success      200   {object}  dto.TableResponse
// @Router       /api/tables/{id} [put]
func (h *TableHandler) Rename(c *fiber.Ctx) error {
	var in dto.TableRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Rename(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar mesa sin comandas activas
// @Tags         tables
// @Security     BearerAuth
// @Param        id  path  string  true  "ID de la mesa"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/tables/{id} [delete]
func (h *TableHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// QR godoc
// @Summary      Código QR de la carta para la mesa
// @Tags         tables
// @Security     BearerAuth
// @Produce      png
// @Param        id  path  string  true  "ID de la mesa"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tables/{id}/qr [get]
func (h *TableHandler) QR(c *fiber.Ctx) error {
	png, err := h.uc.QR(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
