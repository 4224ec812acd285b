package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/Comandas-api/internal/application/dto"
	"github.com/jhoicas/Comandas-api/internal/application/order"
)

// streamKeepAlive intervalo del comentario SSE que mantiene viva la conexión.
const streamKeepAlive = 15 * time.Second

// BoardHandler tablero de comandas por columnas.
type BoardHandler struct {
	uc        *order.UseCase
	keepAlive time.Duration
}

// NewBoardHandler construye el handler del tablero.
func NewBoardHandler(uc *order.UseCase) *BoardHandler {
	return &BoardHandler{uc: uc, keepAlive: streamKeepAlive}
}

// Get godoc
// @Summary      Tablero actual
// @Description  Comandas activas agrupadas en sala, cocina y entregado; las canceladas van aparte.
// @Tags         board
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.BoardResponse
// @Router       /api/board [get]
func (h *BoardHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Board(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Move godoc
// @Summary      Mover comanda a otra columna
// @Tags         board
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID de la comanda"
// @Param        body  body  dto.MoveRequest  true  "columna destino"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/board/orders/{id}/move [patch]
func (h *BoardHandler) Move(c *fiber.Ctx) error {
	var in dto.MoveRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.Status == "" {
		return validationError(c, "status es requerido")
	}
	out, err := h.uc.Move(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Stream godoc
// @Summary      Tablero en tiempo real (SSE)
// @Description  Emite un evento "board" con el tablero completo en cada cambio. Acepta ?access_token=.
// @Tags         board
// @Security     BearerAuth
// @Produce      text/event-stream
// @Success      200
// @Router       /api/board/stream [get]
func (h *BoardHandler) Stream(c *fiber.Ctx) error {
	// El stream vive más que el handler: su contexto no puede ser el de la petición.
	ctx, cancel := context.WithCancel(context.Background())
	snapshots, err := h.uc.Subscribe(ctx)
	if err != nil {
		cancel()
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	keepAlive := h.keepAlive
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()
		for {
			select {
			case snap, ok := <-snapshots:
				if !ok {
					return
				}
				if err := writeBoardEvent(w, order.BuildBoard(snap)); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeBoardEvent(w *bufio.Writer, board *dto.BoardResponse) error {
	data, err := json.Marshal(board)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: board\ndata: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}
