package order

import (
	"sort"

	"github.com/jhoicas/Comandas-api/internal/application/dto"
	"github.com/jhoicas/Comandas-api/internal/domain/entity"
	"github.com/jhoicas/Comandas-api/internal/domain/sales"
	"github.com/jhoicas/Comandas-api/pkg/money"
)

var columnLabels = map[string]string{
	entity.StatusRoom:      "Sala",
	entity.StatusKitchen:   "Cocina",
	entity.StatusDelivered: "Entregado",
}

// ToResponse convierte la comanda a DTO con total y subtotales.
func ToResponse(o *entity.Order) *dto.OrderResponse {
	total := sales.OrderTotal(o)
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Note:        it.Note,
			Subtotal:    it.Subtotal().Round(2),
		})
	}
	resp := &dto.OrderResponse{
		ID:           o.ID,
		TableID:      o.TableID,
		TableName:    o.TableName,
		Status:       o.Status,
		Note:         o.Note,
		WaiterID:     o.WaiterID,
		WaiterName:   o.WaiterName,
		Items:        items,
		Total:        total.Round(2),
		TotalDisplay: money.Format(total),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	if o.Payment != nil {
		resp.Payment = &dto.PaymentResponse{
			Method:         o.Payment.Method,
			AmountTendered: o.Payment.AmountTendered.Round(2),
			Change:         o.Payment.Change.Round(2),
			PaidAt:         o.Payment.PaidAt,
		}
	}
	return resp
}

// ToResponses convierte una lista conservando el orden.
func ToResponses(list []*entity.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		if o != nil {
			out = append(out, *ToResponse(o))
		}
	}
	return out
}

// BuildBoard agrupa las comandas activas por columna, cada una ordenada por hora
// de creación. Las canceladas van en su propia sección; las pagadas no aparecen.
func BuildBoard(list []*entity.Order) *dto.BoardResponse {
	sorted := make([]*entity.Order, 0, len(list))
	for _, o := range list {
		if o != nil {
			sorted = append(sorted, o)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })

	byStatus := map[string][]dto.OrderResponse{}
	for _, o := range sorted {
		byStatus[o.Status] = append(byStatus[o.Status], *ToResponse(o))
	}

	board := &dto.BoardResponse{
		Columns:   make([]dto.BoardColumnDTO, 0, len(entity.BoardColumns)),
		Cancelled: nonNil(byStatus[entity.StatusCancelled]),
	}
	for _, status := range entity.BoardColumns {
		board.Columns = append(board.Columns, dto.BoardColumnDTO{
			Status: status,
			Label:  columnLabels[status],
			Orders: nonNil(byStatus[status]),
		})
	}
	return board
}

func nonNil(list []dto.OrderResponse) []dto.OrderResponse {
	if list == nil {
		return []dto.OrderResponse{}
	}
	return list
}
