package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comandas-api/internal/domain"
	"github.com/jhoicas/Comandas-api/internal/domain/entity"
	"github.com/jhoicas/Comandas-api/internal/domain/repository"
	"github.com/jhoicas/Comandas-api/internal/domain/sales"
)

var (
	_ repository.OrderRepository = (*OrderRepo)(nil)
	_ repository.OrderArchive    = (*OrderRepo)(nil)
)

const orderColumns = `
	id, table_id, table_name, status, note, waiter_id, waiter_name,
	payment_method, amount_tendered, change_amount, paid_at, created_at, updated_at`

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q    Querier
	txer *TxRunner // nil cuando el repo ya corre dentro de una tx
}

// NewOrderRepository construye el adaptador de comandas. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// WithTxRunner habilita Archive, que necesita abrir su propia transacción.
func (r *OrderRepo) WithTxRunner(tx *TxRunner) *OrderRepo {
	r.txer = tx
	return r
}

// Create persiste la cabecera y las líneas en la misma transacción.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	if r.txer != nil {
		return r.txer.RunOrders(ctx, func(orders *OrderRepo) error {
			return orders.Create(ctx, o)
		})
	}
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	method, tendered, change, paidAt := paymentColumns(o.Payment)
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (id, table_id, table_name, status, note, waiter_id, waiter_name,
		                    payment_method, amount_tendered, change_amount, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.ID, o.TableID, o.TableName, o.Status, o.Note, o.WaiterID, o.WaiterName,
		method, tendered, change, paidAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return r.insertItems(ctx, o.ID, o.Items)
}

func (r *OrderRepo) insertItems(ctx context.Context, orderID string, items []entity.OrderItem) error {
	for i := range items {
		it := &items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.OrderID = orderID
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_items (id, order_id, position, product_id, product_name, unit_price, quantity, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			it.ID, orderID, i, it.ProductID, it.ProductName, it.UnitPrice, it.Quantity, it.Note,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una comanda con sus líneas. nil, nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	orders, err := r.list(ctx, `SELECT`+orderColumns+` FROM orders WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return orders[0], nil
}

// Update arma el SET solo con los campos presentes. El pago se escribe completo o no se escribe.
func (r *OrderRepo) Update(ctx context.Context, id string, upd entity.OrderUpdate, updatedAt time.Time) error {
	sets := []string{"updated_at = $2"}
	args := []any{id, updatedAt}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.Note != nil {
		add("note", *upd.Note)
	}
	if upd.Payment != nil {
		method, tendered, change, paidAt := paymentColumns(upd.Payment)
		add("payment_method", method)
		add("amount_tendered", tendered)
		add("change_amount", change)
		add("paid_at", paidAt)
	}

	query := "UPDATE orders SET " + strings.Join(sets, ", ") + " WHERE id = $1"
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceItems borra y vuelve a insertar las líneas en la misma transacción.
func (r *OrderRepo) ReplaceItems(ctx context.Context, orderID string, items []entity.OrderItem, updatedAt time.Time) error {
	if r.txer != nil {
		return r.txer.RunOrders(ctx, func(orders *OrderRepo) error {
			return orders.ReplaceItems(ctx, orderID, items, updatedAt)
		})
	}
	cmd, err := r.q.Exec(ctx, `UPDATE orders SET updated_at = $2 WHERE id = $1`, orderID, updatedAt)
	if err != nil {
		return fmt.Errorf("touch order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	return r.insertItems(ctx, orderID, items)
}

// Delete elimina la comanda (las líneas caen por ON DELETE CASCADE).
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListActive comandas del tablero: no archivadas y no pagadas (incluye canceladas).
func (r *OrderRepo) ListActive(ctx context.Context) ([]*entity.Order, error) {
	orders, err := r.list(ctx, `SELECT`+orderColumns+`
		FROM orders WHERE archived_at IS NULL AND status <> $1
		ORDER BY created_at ASC`, entity.StatusPaid)
	if err != nil {
		return nil, fmt.Errorf("list active orders: %w", err)
	}
	return orders, nil
}

// ListByStatus comandas no archivadas en un estado, de la más antigua a la más nueva.
func (r *OrderRepo) ListByStatus(ctx context.Context, status string) ([]*entity.Order, error) {
	orders, err := r.list(ctx, `SELECT`+orderColumns+`
		FROM orders WHERE archived_at IS NULL AND status = $1
		ORDER BY created_at ASC`, status)
	if err != nil {
		return nil, fmt.Errorf("list orders by status: %w", err)
	}
	return orders, nil
}

// ListPaidBetween comandas pagadas en [start, end), archivadas o no.
func (r *OrderRepo) ListPaidBetween(ctx context.Context, start, end time.Time) ([]*entity.Order, error) {
	orders, err := r.list(ctx, `SELECT`+orderColumns+`
		FROM orders WHERE status = $1 AND paid_at >= $2 AND paid_at < $3
		ORDER BY paid_at ASC`, entity.StatusPaid, start, end)
	if err != nil {
		return nil, fmt.Errorf("list paid orders: %w", err)
	}
	return orders, nil
}

// CountActiveByTable comandas abiertas (no terminales, no archivadas) de una mesa.
func (r *OrderRepo) CountActiveByTable(ctx context.Context, tableID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders
		WHERE table_id = $1 AND archived_at IS NULL AND status NOT IN ($2, $3)`,
		tableID, entity.StatusPaid, entity.StatusCancelled,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count active orders by table: %w", err)
	}
	return n, nil
}

// Archive marca la comanda como archivada y deja el registro en order_history, en una sola tx.
func (r *OrderRepo) Archive(ctx context.Context, id string, archivedAt time.Time) error {
	if r.txer == nil {
		return r.archiveIn(ctx, id, archivedAt)
	}
	return r.txer.RunOrders(ctx, func(orders *OrderRepo) error {
		return orders.archiveIn(ctx, id, archivedAt)
	})
}

func (r *OrderRepo) archiveIn(ctx context.Context, id string, archivedAt time.Time) error {
	order, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE orders SET archived_at = $2, updated_at = $2 WHERE id = $1 AND archived_at IS NULL`,
		id, archivedAt)
	if err != nil {
		return fmt.Errorf("archive order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO order_history (order_id, status, total, archived_at)
		VALUES ($1, $2, $3, $4)`,
		id, order.Status, sales.OrderTotal(order), archivedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert order history: %w", err)
	}
	return nil
}

// ListHistory comandas archivadas, las más recientes primero.
func (r *OrderRepo) ListHistory(ctx context.Context, limit, offset int) ([]*entity.Order, error) {
	orders, err := r.list(ctx, `SELECT`+prefixed("o", orderColumns)+`
		FROM orders o JOIN order_history h ON h.order_id = o.id
		ORDER BY h.archived_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list order history: %w", err)
	}
	return orders, nil
}

// list ejecuta una consulta de cabeceras y carga las líneas en una segunda consulta.
func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		orders []*entity.Order
		ids    []string
		byID   = map[string]*entity.Order{}
	)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*entity.Order{}, nil
	}

	itemRows, err := r.q.Query(ctx, `
		SELECT id, order_id, product_id, product_name, unit_price, quantity, note
		FROM order_items WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position`, ids)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it entity.OrderItem
		if err := itemRows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.UnitPrice, &it.Quantity, &it.Note); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		if o := byID[it.OrderID]; o != nil {
			o.Items = append(o.Items, it)
		}
	}
	return orders, itemRows.Err()
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var (
		o        entity.Order
		method   *string
		tendered decimal.NullDecimal
		change   decimal.NullDecimal
		paidAt   *time.Time
	)
	err := row.Scan(&o.ID, &o.TableID, &o.TableName, &o.Status, &o.Note, &o.WaiterID, &o.WaiterName,
		&method, &tendered, &change, &paidAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	if paidAt != nil {
		o.Payment = &entity.Payment{
			Method:         derefStr(method),
			AmountTendered: tendered.Decimal,
			Change:         change.Decimal,
			PaidAt:         *paidAt,
		}
	}
	return &o, nil
}

func paymentColumns(p *entity.Payment) (method *string, tendered, change decimal.NullDecimal, paidAt *time.Time) {
	if p == nil {
		return nil, decimal.NullDecimal{}, decimal.NullDecimal{}, nil
	}
	at := p.PaidAt
	return nullIfEmpty(p.Method),
		decimal.NullDecimal{Decimal: p.AmountTendered, Valid: true},
		decimal.NullDecimal{Decimal: p.Change, Valid: true},
		&at
}

// prefixed antepone el alias de tabla a una lista de columnas separadas por coma.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		parts[i] = " " + alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ",")
}
