package repository

import (
	"context"

	"github.com/jhoicas/Comandas-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	// List devuelve el personal activo (excluye borrados lógicos salvo includeDeleted).
	List(ctx context.Context, includeDeleted bool) ([]*entity.User, error)
	Count(ctx context.Context) (int, error)
}
