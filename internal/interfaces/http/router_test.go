package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/Comandas-api/internal/application/analytics"
	"github.com/jhoicas/Comandas-api/internal/application/auth"
	"github.com/jhoicas/Comandas-api/internal/application/dto"
	"github.com/jhoicas/Comandas-api/internal/application/order"
	"github.com/jhoicas/Comandas-api/internal/application/usecase"
	"github.com/jhoicas/Comandas-api/internal/domain/entity"
	"github.com/jhoicas/Comandas-api/internal/infrastructure/memory"
	"github.com/jhoicas/Comandas-api/internal/infrastructure/realtime"
	apphttp "github.com/jhoicas/Comandas-api/internal/interfaces/http"
	"github.com/jhoicas/Comandas-api/pkg/logger"
)

// ─── Servidor de prueba ──────────────────────────────────────────────────────

const (
	mesaID    = "11111111-1111-1111-1111-111111111111"
	platosID  = "55555555-5555-5555-5555-555555555555"
	bandejaID = "22222222-2222-2222-2222-222222222222"
)

type testServer struct {
	app    *fiber.App
	users  *memory.UserStore
	orders *memory.OrderStore
	hub    *realtime.Hub
}

func newServer(t *testing.T, users ...entity.User) *testServer {
	t.Helper()
	s := &testServer{
		users:  memory.NewUserStore(users...),
		orders: memory.NewOrderStore(),
	}
	categories := memory.NewCategoryStore(entity.Category{ID: platosID, Name: "Platos fuertes"})
	products := memory.NewProductStore(entity.Product{
		ID: bandejaID, Name: "Bandeja paisa", Price: decimal.NewFromInt(10), CategoryID: platosID,
	})
	tables := memory.NewTableStore(entity.Table{ID: mesaID, Name: "Mesa 1"})
	s.hub = realtime.NewHub(s.orders.ListActive, nil)

	orderUC := order.NewUseCase(order.Deps{
		Orders:     s.orders,
		Archive:    s.orders,
		Products:   products,
		Tables:     tables,
		Snapshots:  s.hub,
		Notifier:   s.hub,
		Restaurant: "La Fonda",
	})

	s.app = fiber.New(fiber.Config{
		ErrorHandler:          apphttp.ErrorHandler(logger.Nop()),
		DisableStartupMessage: true,
	})
	apphttp.Router(s.app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(s.users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		StaffUC:     usecase.NewStaffUseCase(s.users),
		TableUC:     usecase.NewTableUseCase(tables, s.orders, nil, "https://fonda.co/carta"),
		CategoryUC:  usecase.NewCategoryUseCase(categories, products),
		ProductUC:   usecase.NewProductUseCase(products, categories, nil),
		OrderUC:     orderUC,
		DashboardUC: appanalytics.NewDashboardUseCase(s.orders, time.UTC),
		JWTSecret:   testJWTSecret,
	})
	return s
}

// call lanza la petición con el rol indicado ("" = sin token) y decodifica la respuesta en out.
func (s *testServer) call(t *testing.T, method, path, role string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *testServer) createOrder(t *testing.T) dto.OrderResponse {
	t.Helper()
	var created dto.OrderResponse
	status := s.call(t, http.MethodPost, "/api/orders", entity.RoleWaiter, dto.CreateOrderRequest{
		TableID: mesaID,
		Items:   []dto.OrderItemRequest{{ProductID: bandejaID, Quantity: 2}},
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	return created
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_RegistroLoginYMe(t *testing.T) {
	s := newServer(t)

	var user dto.UserResponse
	status := s.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name: "Lucía", Email: "lucia@fonda.co", Password: "clave-segura",
	}, &user)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, entity.RoleManager, user.Role)

	var errBody dto.ErrorResponse
	status = s.call(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name: "Otro", Email: "otro@fonda.co", Password: "clave-segura",
	}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_BOOTSTRAPPED", errBody.Code)

	var login dto.LoginResponse
	status = s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email: "lucia@fonda.co", Password: "clave-segura",
	}, &login)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me dto.UserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, "Lucía", me.Name)
}

func TestAuth_CredencialesInvalidas(t *testing.T) {
	s := newServer(t)

	var errBody dto.ErrorResponse
	status := s.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email: "nadie@fonda.co", Password: "x",
	}, &errBody)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errBody.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Comandas y tablero
// ──────────────────────────────────────────────────────────────────────────────

func TestOrders_FlujoCompletoPorRol(t *testing.T) {
	s := newServer(t)
	created := s.createOrder(t)
	assert.Equal(t, entity.StatusRoom, created.Status)
	assert.Equal(t, testUserName, created.WaiterName)
	assert.True(t, decimal.NewFromInt(20).Equal(created.Total))

	// El cocinero no toma comandas.
	status := s.call(t, http.MethodPost, "/api/orders", entity.RoleCook, dto.CreateOrderRequest{
		TableID: mesaID,
		Items:   []dto.OrderItemRequest{{ProductID: bandejaID, Quantity: 1}},
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// El cocinero sí mueve la comanda a cocina.
	var moved dto.OrderResponse
	status = s.call(t, http.MethodPatch, "/api/board/orders/"+created.ID+"/move", entity.RoleCook,
		dto.MoveRequest{Status: entity.StatusKitchen}, &moved)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, entity.StatusKitchen, moved.Status)

	var board dto.BoardResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/board", entity.RoleWaiter, nil, &board))
	require.Len(t, board.Columns, 3)
	assert.Empty(t, board.Columns[0].Orders)
	require.Len(t, board.Columns[1].Orders, 1)
	assert.Equal(t, created.ID, board.Columns[1].Orders[0].ID)

	var queue []dto.OrderResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/kitchen/queue", entity.RoleCook, nil, &queue))
	assert.Len(t, queue, 1)
	assert.Equal(t, http.StatusForbidden, s.call(t, http.MethodGet, "/api/kitchen/queue", entity.RoleWaiter, nil, nil))
}

func TestOrders_CobroEnEfectivoYTerminal(t *testing.T) {
	s := newServer(t)
	created := s.createOrder(t)

	tendered := decimal.NewFromInt(30)
	var paid dto.OrderResponse
	status := s.call(t, http.MethodPost, "/api/orders/"+created.ID+"/pay", entity.RoleWaiter,
		dto.PayRequest{Method: entity.PaymentCash, AmountTendered: &tendered}, &paid)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, entity.StatusPaid, paid.Status)
	require.NotNil(t, paid.Payment)
	assert.True(t, decimal.NewFromInt(10).Equal(paid.Payment.Change))

	var errBody dto.ErrorResponse
	status = s.call(t, http.MethodPatch, "/api/board/orders/"+created.ID+"/move", entity.RoleWaiter,
		dto.MoveRequest{Status: entity.StatusRoom}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errBody.Code)

	var summary dto.DashboardSummaryDTO
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/dashboard/summary", entity.RoleManager, nil, &summary))
	assert.Equal(t, 1, summary.TodayOrders)
	assert.True(t, decimal.NewFromInt(20).Equal(summary.TodaySales))
}

func TestOrders_MoverAPagadoNoEsColumna(t *testing.T) {
	s := newServer(t)
	created := s.createOrder(t)

	var errBody dto.ErrorResponse
	status := s.call(t, http.MethodPatch, "/api/board/orders/"+created.ID+"/move", entity.RoleWaiter,
		dto.MoveRequest{Status: entity.StatusPaid}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errBody.Code)
}

func TestOrders_PatchNoCobraNiReabre(t *testing.T) {
	s := newServer(t)
	created := s.createOrder(t)
	paidStatus, roomStatus := entity.StatusPaid, entity.StatusRoom

	var errBody dto.ErrorResponse
	status := s.call(t, http.MethodPatch, "/api/orders/"+created.ID, entity.RoleWaiter,
		dto.UpdateOrderRequest{Status: &paidStatus}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errBody.Code)

	status = s.call(t, http.MethodPost, "/api/orders/"+created.ID+"/pay", entity.RoleWaiter,
		dto.PayRequest{Method: entity.PaymentCard}, nil)
	require.Equal(t, http.StatusOK, status)

	status = s.call(t, http.MethodPatch, "/api/orders/"+created.ID, entity.RoleWaiter,
		dto.UpdateOrderRequest{Status: &roomStatus}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errBody.Code)

	var got dto.OrderResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/orders/"+created.ID, entity.RoleWaiter, nil, &got))
	assert.Equal(t, entity.StatusPaid, got.Status)
	require.NotNil(t, got.Payment)
	assert.Equal(t, entity.PaymentCard, got.Payment.Method)
}

func TestOrders_ErroresHTTP(t *testing.T) {
	s := newServer(t)

	var errBody dto.ErrorResponse
	status := s.call(t, http.MethodGet, "/api/orders/99999999-9999-9999-9999-999999999999", entity.RoleWaiter, nil, &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errBody.Code)

	status = s.call(t, http.MethodGet, "/api/orders/nada", entity.RoleWaiter, nil, &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errBody.Code)

	status = s.call(t, http.MethodPost, "/api/orders", entity.RoleWaiter, dto.CreateOrderRequest{
		TableID: mesaID,
		Items:   []dto.OrderItemRequest{{ProductID: "no-existe", Quantity: 1}},
	}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errBody.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleWaiter))
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	assert.Equal(t, http.StatusUnauthorized, s.call(t, http.MethodGet, "/api/board", "", nil, nil))
}

func TestDashboard_SoloGerente(t *testing.T) {
	s := newServer(t)
	assert.Equal(t, http.StatusForbidden, s.call(t, http.MethodGet, "/api/dashboard/summary", entity.RoleWaiter, nil, nil))
	assert.Equal(t, http.StatusForbidden, s.call(t, http.MethodGet, "/api/dashboard/report", entity.RoleCook, nil, nil))

	var errBody dto.ErrorResponse
	status := s.call(t, http.MethodGet, "/api/dashboard/report?start_date=2024-13-01", entity.RoleManager, nil, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errBody.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Personal y carta
// ──────────────────────────────────────────────────────────────────────────────

func TestStaff_SoloGerente(t *testing.T) {
	s := newServer(t)
	req := dto.CreateStaffRequest{Name: "Pedro", Email: "pedro@fonda.co", Password: "clave-segura", Role: entity.RoleCook}

	assert.Equal(t, http.StatusForbidden, s.call(t, http.MethodPost, "/api/staff", entity.RoleWaiter, req, nil))

	var created dto.UserResponse
	require.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/staff", entity.RoleManager, req, &created))
	assert.Equal(t, entity.RoleCook, created.Role)

	var errBody dto.ErrorResponse
	status := s.call(t, http.MethodDelete, "/api/staff/"+testUserID, entity.RoleManager, nil, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "SELF_DELETE", errBody.Code)
}

func TestCatalog_LecturaParaTodosEscrituraGerente(t *testing.T) {
	s := newServer(t)

	var list dto.ProductListResponse
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/products?category_id="+platosID, entity.RoleCook, nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Bandeja paisa", list.Items[0].Name)

	req := dto.CreateProductRequest{Name: "Ajiaco", Price: decimal.NewFromInt(18), CategoryID: platosID}
	assert.Equal(t, http.StatusForbidden, s.call(t, http.MethodPost, "/api/products", entity.RoleWaiter, req, nil))
	assert.Equal(t, http.StatusCreated, s.call(t, http.MethodPost, "/api/products", entity.RoleManager, req, nil))

	var errBody dto.ErrorResponse
	status := s.call(t, http.MethodDelete, "/api/categories/"+platosID, entity.RoleManager, nil, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "HAS_DEPENDENTS", errBody.Code)
}
