package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Comandas-api/internal/application/auth"
	"github.com/jhoicas/Comandas-api/internal/application/dto"
	"github.com/jhoicas/Comandas-api/internal/domain"
	"github.com/jhoicas/Comandas-api/internal/domain/entity"
	"github.com/jhoicas/Comandas-api/internal/domain/repository"
)

// StaffUseCase gestión del personal. Todas las operaciones son exclusivas del gerente
// (el router aplica RequireRole).
type StaffUseCase struct {
	repo repository.UserRepository
	now  func() time.Time
}

// NewStaffUseCase construye el caso de uso con el puerto de persistencia.
func NewStaffUseCase(repo repository.UserRepository) *StaffUseCase {
	return &StaffUseCase{repo: repo, now: time.Now}
}

// Create da de alta un mesero, cocinero o gerente.
func (uc *StaffUseCase) Create(ctx context.Context, in dto.CreateStaffRequest) (*dto.UserResponse, error) {
	if in.Name == "" || in.Email == "" || len(in.Password) < 8 || !entity.IsValidRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	user, err := auth.NewUser(in.Name, in.Email, in.Password, in.Role, uc.now())
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// List lista el personal activo.
func (uc *StaffUseCase) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *auth.ToUserResponse(u))
	}
	return out, nil
}

// UpdateRole cambia el rol de un miembro del personal.
func (uc *StaffUseCase) UpdateRole(ctx context.Context, id, role string) (*dto.UserResponse, error) {
	if !entity.IsValidRole(role) {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.active(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	user.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return auth.ToUserResponse(user), nil
}

// Delete borrado lógico. Un gerente no puede borrarse a sí mismo.
func (uc *StaffUseCase) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return domain.ErrSelfDelete
	}
	user, err := uc.active(ctx, id)
	if err != nil {
		return err
	}
	user.Deleted = true
	user.UpdatedAt = uc.now()
	return uc.repo.Update(ctx, user)
}

func (uc *StaffUseCase) active(ctx context.Context, id string) (*entity.User, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrUserNotFound
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Deleted {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
