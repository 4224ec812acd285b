package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Comandas-api/internal/application/analytics"
	"github.com/jhoicas/Comandas-api/internal/application/auth"
	"github.com/jhoicas/Comandas-api/internal/application/order"
	"github.com/jhoicas/Comandas-api/internal/application/usecase"
	"github.com/jhoicas/Comandas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	StaffUC     *usecase.StaffUseCase
	TableUC     *usecase.TableUseCase
	CategoryUC  *usecase.CategoryUseCase
	ProductUC   *usecase.ProductUseCase
	OrderUC     *order.UseCase
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	const (
		manager = entity.RoleManager
		waiter  = entity.RoleWaiter
		cook    = entity.RoleCook
	)
	managerOnly := RequireRole(manager)
	floor := RequireRole(manager, waiter)
	kitchenStaff := RequireRole(manager, cook)

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/me", authHandler.Me)

	// Personal (gerente)
	staff := protected.Group("/staff", managerOnly)
	staffHandler := NewStaffHandler(deps.StaffUC)
	staff.Get("/", staffHandler.List)
	staff.Post("/", staffHandler.Create)
	staff.Patch("/:id/role", staffHandler.UpdateRole)
	staff.Delete("/:id", staffHandler.Delete)

	// Mesas
	tables := protected.Group("/tables")
	tableHandler := NewTableHandler(deps.TableUC)
	tables.Get("/", tableHandler.List)
	tables.Post("/", floor, tableHandler.Create)
	tables.Put("/:id", floor, tableHandler.Rename)
	tables.Delete("/:id", floor, tableHandler.Delete)
	tables.Get("/:id/qr", floor, tableHandler.QR)

	// Carta
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", managerOnly, categoryHandler.Create)
	categories.Put("/:id", managerOnly, categoryHandler.Update)
	categories.Delete("/:id", managerOnly, categoryHandler.Delete)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", managerOnly, productHandler.Create)
	products.Put("/:id", managerOnly, productHandler.Update)
	products.Delete("/:id", managerOnly, productHandler.Delete)
	products.Post("/:id/image", managerOnly, productHandler.UploadImage)

	// Comandas
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", floor, orderHandler.Create)
	orders.Get("/history", managerOnly, orderHandler.History)
	orders.Get("/:id", orderHandler.Get)
	orders.Patch("/:id", floor, orderHandler.Update)
	orders.Put("/:id/items", floor, orderHandler.EditItems)
	orders.Post("/:id/pay", floor, orderHandler.Pay)
	orders.Post("/:id/archive", floor, orderHandler.Archive)
	orders.Get("/:id/receipt", floor, orderHandler.Receipt)
	orders.Delete("/:id", managerOnly, orderHandler.Delete)

	// Tablero (todos los roles)
	board := protected.Group("/board")
	boardHandler := NewBoardHandler(deps.OrderUC)
	board.Get("/", boardHandler.Get)
	board.Get("/stream", boardHandler.Stream)
	board.Patch("/orders/:id/move", boardHandler.Move)

	// Cocina
	kitchen := protected.Group("/kitchen", kitchenStaff)
	kitchenHandler := NewKitchenHandler(deps.OrderUC)
	kitchen.Get("/queue", kitchenHandler.Queue)
	kitchen.Post("/orders/:id/cancel", kitchenHandler.Cancel)

	// Dashboard (gerente)
	dashboard := protected.Group("/dashboard", managerOnly)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
	dashboard.Get("/report", dashboardHandler.GetReport)
}
