package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una comanda. Las columnas del tablero van en orden; pagado y cancelado son terminales.
const (
	StatusRoom      = "sala"
	StatusKitchen   = "cocina"
	StatusDelivered = "entregado"
	StatusPaid      = "pagado"
	StatusCancelled = "cancelado"
)

// BoardColumns columnas del tablero Kanban en orden de presentación.
var BoardColumns = []string{StatusRoom, StatusKitchen, StatusDelivered}

// InitialStatus estado con el que nace toda comanda (primera columna).
const InitialStatus = StatusRoom

// Métodos de pago aceptados en caja.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"
)

// IsBoardColumn indica si el estado es una columna del tablero.
func IsBoardColumn(status string) bool {
	for _, c := range BoardColumns {
		if c == status {
			return true
		}
	}
	return false
}

// IsValidStatus indica si el estado es cualquiera de los reconocidos.
func IsValidStatus(status string) bool {
	return IsBoardColumn(status) || status == StatusPaid || status == StatusCancelled
}

// IsTerminal indica si el estado saca la comanda del tablero activo.
func IsTerminal(status string) bool {
	return status == StatusPaid || status == StatusCancelled
}

// IsValidPaymentMethod valida el método de pago.
func IsValidPaymentMethod(m string) bool {
	return m == PaymentCash || m == PaymentCard || m == PaymentTransfer
}

// Payment datos de cobro. Se escriben juntos al pasar la comanda a pagado.
type Payment struct {
	Method         string
	AmountTendered decimal.Decimal // monto entregado por el cliente
	Change         decimal.Decimal // vueltas
	PaidAt         time.Time
}

// Order comanda de una mesa.
// TableName y WaiterName son copias al momento de crearla (se muestran aunque cambie el catálogo).
type Order struct {
	ID         string
	TableID    string
	TableName  string
	Items      []OrderItem
	Status     string
	Note       string
	WaiterID   string
	WaiterName string
	Payment    *Payment // nil hasta que se cobra
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsPaid indica si la comanda está cobrada con fecha de pago.
func (o *Order) IsPaid() bool {
	return o.Status == StatusPaid && o.Payment != nil && !o.Payment.PaidAt.IsZero()
}

// OrderUpdate campos parciales de una actualización. nil = no tocar.
type OrderUpdate struct {
	Status  *string
	Note    *string
	Payment *Payment
}

// IsEmpty indica que la actualización no modifica nada.
func (u OrderUpdate) IsEmpty() bool {
	return u.Status == nil && u.Note == nil && u.Payment == nil
}

// StampPaidAt aplica la regla de sello de pago sobre una actualización:
// si el destino es pagado y la comanda aún no tiene fecha de pago, se usa now.
// Si ya tiene pago registrado y la actualización no trae uno nuevo, el pago no se toca.
func StampPaidAt(current *Order, upd *OrderUpdate, now time.Time) {
	if upd.Status == nil || *upd.Status != StatusPaid {
		return
	}
	alreadyPaid := current.Payment != nil && !current.Payment.PaidAt.IsZero()
	if upd.Payment == nil {
		if alreadyPaid {
			return
		}
		upd.Payment = &Payment{PaidAt: now}
		return
	}
	if upd.Payment.PaidAt.IsZero() {
		if alreadyPaid {
			upd.Payment.PaidAt = current.Payment.PaidAt
		} else {
			upd.Payment.PaidAt = now
		}
	}
}

// Apply copia en la comanda los campos presentes en la actualización.
func (o *Order) Apply(upd OrderUpdate, now time.Time) {
	if upd.Status != nil {
		o.Status = *upd.Status
	}
	if upd.Note != nil {
		o.Note = *upd.Note
	}
	if upd.Payment != nil {
		p := *upd.Payment
		o.Payment = &p
	}
	o.UpdatedAt = now
}
