package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Comandas-api/internal/domain"
	"github.com/jhoicas/Comandas-api/internal/domain/entity"
	"github.com/jhoicas/Comandas-api/internal/domain/repository"
)

var _ repository.TableRepository = (*TableRepo)(nil)

// TableRepo implementación del puerto TableRepository sobre PostgreSQL.
type TableRepo struct {
	pool *pgxpool.Pool
}

// NewTableRepository construye el adaptador de mesas.
func NewTableRepository(pool *pgxpool.Pool) *TableRepo {
	return &TableRepo{pool: pool}
}

// Create persiste una mesa. El índice único sobre lower(name) cubre la carrera entre dos altas.
func (r *TableRepo) Create(ctx context.Context, t *entity.Table) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tables (id, name, created_at) VALUES ($1, $2, $3)`,
		t.ID, t.Name, t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert table: %w", err)
	}
	return nil
}

// GetByID obtiene una mesa por ID.
func (r *TableRepo) GetByID(ctx context.Context, id string) (*entity.Table, error) {
	return r.getOne(ctx, `SELECT id, name, created_at FROM tables WHERE id = $1`, id)
}

// GetByName obtiene una mesa por nombre, sin distinguir mayúsculas.
func (r *TableRepo) GetByName(ctx context.Context, name string) (*entity.Table, error) {
	return r.getOne(ctx, `SELECT id, name, created_at FROM tables WHERE lower(name) = lower($1)`, name)
}

func (r *TableRepo) getOne(ctx context.Context, query, arg string) (*entity.Table, error) {
	var t entity.Table
	if err := r.pool.QueryRow(ctx, query, arg).Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get table: %w", err)
	}
	return &t, nil
}

// Update renombra la mesa.
func (r *TableRepo) Update(ctx context.Context, t *entity.Table) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tables SET name = $2 WHERE id = $1`, t.ID, t.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update table: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List todas las mesas por nombre.
func (r *TableRepo) List(ctx context.Context) ([]*entity.Table, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM tables ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()
	list := []*entity.Table{}
	for rows.Next() {
		var t entity.Table
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// Delete elimina la mesa.
func (r *TableRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tables WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
