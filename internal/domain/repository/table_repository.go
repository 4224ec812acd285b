package repository

import (
	"context"

	"github.com/jhoicas/Comandas-api/internal/domain/entity"
)

// TableRepository define el puerto de persistencia para mesas.
type TableRepository interface {
	Create(ctx context.Context, table *entity.Table) error
	GetByID(ctx context.Context, id string) (*entity.Table, error)
	GetByName(ctx context.Context, name string) (*entity.Table, error)
	Update(ctx context.Context, table *entity.Table) error
	List(ctx context.Context) ([]*entity.Table, error)
	Delete(ctx context.Context, id string) error
}
