package usecase_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comandas-api/internal/application/dto"
	"github.com/jhoicas/Comandas-api/internal/application/usecase"
	"github.com/jhoicas/Comandas-api/internal/domain"
	"github.com/jhoicas/Comandas-api/internal/domain/entity"
	"github.com/jhoicas/Comandas-api/internal/infrastructure/memory"
)

// ─── Personal ────────────────────────────────────────────────────────────────

func TestStaff_AltaRolYBorrado(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewStaffUseCase(memory.NewUserStore())

	cook, err := uc.Create(ctx, dto.CreateStaffRequest{Name: "Pedro", Email: "pedro@fonda.co", Password: "clave-segura", Role: entity.RoleCook})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateStaffRequest{Name: "Pedro 2", Email: "PEDRO@fonda.co", Password: "clave-segura", Role: entity.RoleWaiter})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Create(ctx, dto.CreateStaffRequest{Name: "X", Email: "x@fonda.co", Password: "clave-segura", Role: "cajero"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	updated, err := uc.UpdateRole(ctx, cook.ID, entity.RoleWaiter)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleWaiter, updated.Role)

	require.NoError(t, uc.Delete(ctx, "gerente-id", cook.ID))
	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.ErrorIs(t, uc.Delete(ctx, "gerente-id", cook.ID), domain.ErrUserNotFound)
}

func TestStaff_NoPuedeBorrarseASiMismo(t *testing.T) {
	uc := usecase.NewStaffUseCase(memory.NewUserStore())
	assert.ErrorIs(t, uc.Delete(context.Background(), "u-1", "u-1"), domain.ErrSelfDelete)
}

func TestStaff_IDMalFormadoNoExiste(t *testing.T) {
	uc := usecase.NewStaffUseCase(memory.NewUserStore())
	_, err := uc.UpdateRole(context.Background(), "pedro", entity.RoleCook)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// ─── Mesas ───────────────────────────────────────────────────────────────────

type qrStub struct{ content string }

func (q *qrStub) Generate(content string, size int) ([]byte, error) {
	q.content = content
	return []byte("png"), nil
}

func TestTables_NombreUnicoYBorradoBloqueado(t *testing.T) {
	ctx := context.Background()
	orders := memory.NewOrderStore()
	qr := &qrStub{}
	uc := usecase.NewTableUseCase(memory.NewTableStore(), orders, qr, "https://fonda.co/carta/")

	m1, err := uc.Create(ctx, dto.TableRequest{Name: " Mesa 1 "})
	require.NoError(t, err)
	assert.Equal(t, "Mesa 1", m1.Name)

	_, err = uc.Create(ctx, dto.TableRequest{Name: "mesa 1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	m2, err := uc.Create(ctx, dto.TableRequest{Name: "Mesa 2"})
	require.NoError(t, err)
	_, err = uc.Rename(ctx, m2.ID, dto.TableRequest{Name: "MESA 1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, orders.Create(ctx, &entity.Order{TableID: m1.ID, Status: entity.StatusKitchen, CreatedAt: time.Now()}))
	assert.ErrorIs(t, uc.Delete(ctx, m1.ID), domain.ErrConflict)
	require.NoError(t, uc.Delete(ctx, m2.ID))

	png, err := uc.QR(ctx, m1.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), png)
	assert.Equal(t, "https://fonda.co/carta?mesa="+m1.ID, qr.content)

	_, err = uc.QR(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Rename(ctx, "no-existe", dto.TableRequest{Name: "Terraza"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Catálogo ────────────────────────────────────────────────────────────────

const platosID = "55555555-5555-5555-5555-555555555555"

type imageStoreStub struct{ key string }

func (s *imageStoreStub) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	s.key = key
	_, _ = io.Copy(io.Discard, body)
	return "https://cdn.fonda.co/" + key, nil
}

func TestCategories_BorradoConProductos(t *testing.T) {
	ctx := context.Background()
	products := memory.NewProductStore()
	categories := memory.NewCategoryStore()
	cats := usecase.NewCategoryUseCase(categories, products)
	prods := usecase.NewProductUseCase(products, categories, nil)

	bebidas, err := cats.Create(ctx, dto.CategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)
	_, err = cats.Create(ctx, dto.CategoryRequest{Name: "bebidas"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	p, err := prods.Create(ctx, "gerente-id", dto.CreateProductRequest{Name: "Limonada", Price: decimal.NewFromInt(6500), CategoryID: bebidas.ID})
	require.NoError(t, err)
	assert.ErrorIs(t, cats.Delete(ctx, bebidas.ID), domain.ErrHasDependents)

	require.NoError(t, prods.Delete(ctx, p.ID))
	require.NoError(t, cats.Delete(ctx, bebidas.ID))

	_, err = cats.Update(ctx, "bebidas", dto.CategoryRequest{Name: "Jugos"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, cats.Delete(ctx, "bebidas"), domain.ErrNotFound)
}

func TestProducts_CrudEImagen(t *testing.T) {
	ctx := context.Background()
	categories := memory.NewCategoryStore(entity.Category{ID: platosID, Name: "Platos"})
	images := &imageStoreStub{}
	uc := usecase.NewProductUseCase(memory.NewProductStore(), categories, images)

	_, err := uc.Create(ctx, "g", dto.CreateProductRequest{Name: "Sopa", Price: decimal.NewFromInt(-1), CategoryID: platosID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, "g", dto.CreateProductRequest{Name: "Sopa", Price: decimal.NewFromInt(9000), CategoryID: "c-9"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := uc.Create(ctx, "g", dto.CreateProductRequest{Name: "Sopa", Price: decimal.RequireFromString("9000.456"), CategoryID: platosID})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("9000.46").Equal(p.Price))
	assert.NotEmpty(t, p.PriceDisplay)

	price := decimal.NewFromInt(9500)
	up, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Price: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(up.Price))
	assert.Equal(t, "Sopa", up.Name)

	_, err = uc.UploadImage(ctx, p.ID, "application/pdf", bytes.NewReader(nil))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	withImg, err := uc.UploadImage(ctx, p.ID, "image/png", bytes.NewReader([]byte("img")))
	require.NoError(t, err)
	assert.Equal(t, "products/"+p.ID+".png", images.key)
	assert.Contains(t, withImg.ImageURL, images.key)

	list, err := uc.List(ctx, platosID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)

	_, err = uc.GetByID(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.List(ctx, "platos", dto.PageRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, uc.Delete(ctx, "nada"), domain.ErrNotFound)
}
