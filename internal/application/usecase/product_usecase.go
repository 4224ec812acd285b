package usecase

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Comandas-api/internal/application/dto"
	"github.com/jhoicas/Comandas-api/internal/application/ports"
	"github.com/jhoicas/Comandas-api/internal/domain"
	"github.com/jhoicas/Comandas-api/internal/domain/entity"
	"github.com/jhoicas/Comandas-api/internal/domain/repository"
	"github.com/jhoicas/Comandas-api/pkg/money"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ProductUseCase casos de uso CRUD para productos. Cambiar el precio no toca las comandas existentes.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	images     ports.ImageStore
}

// NewProductUseCase construye el caso de uso. images puede ser nil si no hay bucket configurado.
func NewProductUseCase(repo repository.ProductRepository, categories repository.CategoryRepository, images ports.ImageStore) *ProductUseCase {
	return &ProductUseCase{repo: repo, categories: categories, images: images}
}

// Create crea un nuevo producto en una categoría existente.
func (uc *ProductUseCase) Create(ctx context.Context, createdBy string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.requireCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Price:       in.Price.Round(2),
		Ingredients: strings.TrimSpace(in.Ingredients),
		CategoryID:  in.CategoryID,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos, opcionalmente de una sola categoría.
func (uc *ProductUseCase) List(ctx context.Context, categoryID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	if categoryID != "" && !domain.ValidID(categoryID) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	list, err := uc.repo.List(ctx, categoryID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update aplica los campos presentes.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = name
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = in.Price.Round(2)
	}
	if in.Ingredients != nil {
		product.Ingredients = strings.TrimSpace(*in.Ingredients)
	}
	if in.CategoryID != nil && *in.CategoryID != product.CategoryID {
		if err := uc.requireCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *in.CategoryID
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto. Las líneas de comanda ya creadas conservan su copia.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if !domain.ValidID(id) {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// UploadImage sube la imagen al almacenamiento y guarda la URL en el producto.
func (uc *ProductUseCase) UploadImage(ctx context.Context, id, contentType string, body io.Reader) (*dto.ProductResponse, error) {
	if uc.images == nil {
		return nil, fmt.Errorf("product image: almacenamiento no configurado")
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := uc.images.Upload(ctx, path.Join("products", product.ID+ext), contentType, body)
	if err != nil {
		return nil, fmt.Errorf("product image: %w", err)
	}
	product.ImageURL = url
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	if !domain.ValidID(id) {
		return nil, domain.ErrNotFound
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (uc *ProductUseCase) requireCategory(ctx context.Context, id string) error {
	if !domain.ValidID(id) {
		return domain.ErrInvalidInput
	}
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrInvalidInput
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		PriceDisplay: money.Format(p.Price),
		Ingredients:  p.Ingredients,
		ImageURL:     p.ImageURL,
		CategoryID:   p.CategoryID,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
