package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comandas-api/internal/application/auth"
	"github.com/jhoicas/Comandas-api/internal/application/dto"
	"github.com/jhoicas/Comandas-api/internal/domain"
	"github.com/jhoicas/Comandas-api/internal/domain/entity"
	"github.com/jhoicas/Comandas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Comandas-api/pkg/jwt"
)

const secret = "secreto-de-prueba"

func newAuth() (*auth.AuthUseCase, *memory.UserStore) {
	users := memory.NewUserStore()
	return auth.NewAuthUseCase(users, auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "comandas-api"}), users
}

func TestRegister_SoloElPrimerGerente(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()

	u, err := uc.Register(ctx, dto.RegisterRequest{Name: "Gloria", Email: "Gloria@Fonda.co", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, u.Role)
	assert.Equal(t, "gloria@fonda.co", u.Email)

	_, err = uc.Register(ctx, dto.RegisterRequest{Name: "Otro", Email: "otro@fonda.co", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrAlreadyBootstrapped)
}

func TestRegister_Validacion(t *testing.T) {
	uc, _ := newAuth()
	_, err := uc.Register(context.Background(), dto.RegisterRequest{Name: "G", Email: "g@f.co", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_TokenConRolYNombre(t *testing.T) {
	uc, _ := newAuth()
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Name: "Gloria", Email: "gloria@fonda.co", Password: "clave-segura"})
	require.NoError(t, err)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "gloria@fonda.co", Password: "clave-segura"})
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "Gloria", claims.Name)
	assert.Equal(t, entity.RoleManager, claims.Role)
}

func TestLogin_Errores(t *testing.T) {
	uc, users := newAuth()
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Name: "Gloria", Email: "gloria@fonda.co", Password: "clave-segura"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@fonda.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "gloria@fonda.co", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	u, _ := users.GetByEmail(ctx, "gloria@fonda.co")
	u.Deleted = true
	require.NoError(t, users.Update(ctx, u))
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "gloria@fonda.co", Password: "clave-segura"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
