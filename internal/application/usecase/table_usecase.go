package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Comandas-api/internal/application/dto"
	"github.com/jhoicas/Comandas-api/internal/application/ports"
	"github.com/jhoicas/Comandas-api/internal/domain"
	"github.com/jhoicas/Comandas-api/internal/domain/entity"
	"github.com/jhoicas/Comandas-api/internal/domain/repository"
)

const tableQRSize = 256

// TableUseCase CRUD de mesas y su código QR.
type TableUseCase struct {
	repo    repository.TableRepository
	orders  repository.OrderRepository
	qr      ports.QRGenerator
	menuURL string
}

// NewTableUseCase construye el caso de uso. menuURL es la base pública a la que apunta el QR.
func NewTableUseCase(repo repository.TableRepository, orders repository.OrderRepository, qr ports.QRGenerator, menuURL string) *TableUseCase {
	return &TableUseCase{repo: repo, orders: orders, qr: qr, menuURL: strings.TrimRight(menuURL, "/")}
}

// Create crea una mesa. El nombre es único sin distinguir mayúsculas.
func (uc *TableUseCase) Create(ctx context.Context, in dto.TableRequest) (*dto.TableResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	t := &entity.Table{ID: uuid.New().String(), Name: name, CreatedAt: time.Now()}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return toTableResponse(t), nil
}

// List todas las mesas.
func (uc *TableUseCase) List(ctx context.Context) ([]dto.TableResponse, error) {
	tables, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TableResponse, 0, len(tables))
	for _, t := range tables {
		out = append(out, *toTableResponse(t))
	}
	return out, nil
}

// Rename cambia el nombre de la mesa. Las comandas existentes conservan el nombre anterior.
func (uc *TableUseCase) Rename(ctx context.Context, id string, in dto.TableRequest) (*dto.TableResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	t, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	other, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != id {
		return nil, domain.ErrDuplicate
	}
	t.Name = name
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return toTableResponse(t), nil
}

// Delete elimina la mesa si no tiene comandas abiertas.
func (uc *TableUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.get(ctx, id); err != nil {
		return err
	}
	n, err := uc.orders.CountActiveByTable(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, id)
}

// QR genera el PNG que enlaza la carta pública con la mesa.
func (uc *TableUseCase) QR(ctx context.Context, id string) ([]byte, error) {
	t, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	png, err := uc.qr.Generate(fmt.Sprintf("%s?mesa=%s", uc.menuURL, t.ID), tableQRSize)
	if err != nil {
		return nil, fmt.Errorf("qr mesa: %w", err)
	}
	return png, nil
}

func (uc *TableUseCase) get(ctx context.Context, id string) (*entity.Table, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func toTableResponse(t *entity.Table) *dto.TableResponse {
	return &dto.TableResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}
