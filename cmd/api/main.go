package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	appanalytics "github.com/jhoicas/Comandas-api/internal/application/analytics"
	"github.com/jhoicas/Comandas-api/internal/application/auth"
	"github.com/jhoicas/Comandas-api/internal/application/order"
	"github.com/jhoicas/Comandas-api/internal/application/ports"
	"github.com/jhoicas/Comandas-api/internal/application/usecase"
	"github.com/jhoicas/Comandas-api/internal/infrastructure/events"
	infrapdf "github.com/jhoicas/Comandas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Comandas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Comandas-api/internal/infrastructure/qr"
	"github.com/jhoicas/Comandas-api/internal/infrastructure/realtime"
	"github.com/jhoicas/Comandas-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Comandas-api/internal/interfaces/http"
	"github.com/jhoicas/Comandas-api/pkg/config"
	"github.com/jhoicas/Comandas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	loc := cfg.App.Location()
	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	tableRepo := postgres.NewTableRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool).WithTxRunner(postgres.NewTxRunner(pool))

	// Tiempo real: el hub mantiene los suscriptores SSE de esta instancia.
	// Con Redis, los avisos pasan por el canal para que todas las instancias refresquen.
	hub := realtime.NewHub(orderRepo.ListActive, log)
	var notifier ports.ChangeNotifier = hub
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		redisNotifier := realtime.NewRedisNotifier(rdb, cfg.Redis.Channel, log)
		if err := redisNotifier.Listen(ctx, hub.Refresh); err != nil {
			log.Fatal().Err(err).Msg("suscripción a Redis")
		}
		notifier = redisNotifier
		log.Info().Str("channel", cfg.Redis.Channel).Msg("tiempo real vía Redis")
	}

	// Eventos de dominio: RabbitMQ recibe todo el ciclo de vida, Kafka solo los cobros.
	var publishers events.MultiPublisher
	if cfg.RabbitMQ.Enabled() {
		rabbit, err := events.DialRabbit(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a RabbitMQ")
		}
		defer rabbit.Close()
		publishers = append(publishers, rabbit)
	}
	if cfg.Kafka.Enabled() {
		kafkaPub := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer kafkaPub.Close()
		publishers = append(publishers, kafkaPub)
	}
	var eventPublisher ports.EventPublisher
	if len(publishers) > 0 {
		eventPublisher = publishers
	}

	var images ports.ImageStore
	if cfg.S3.Enabled() {
		s3Store, err := storage.NewS3ImageStore(cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Endpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente S3")
		}
		images = s3Store
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	orderUC := order.NewUseCase(order.Deps{
		Orders:     orderRepo,
		Archive:    orderRepo,
		Products:   productRepo,
		Tables:     tableRepo,
		Snapshots:  hub,
		Notifier:   notifier,
		Events:     eventPublisher,
		Receipts:   infrapdf.NewReceiptGenerator(loc),
		Restaurant: cfg.App.Restaurant,
		Logger:     log,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    6 << 20,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Comandas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "subscribers": hub.Subscribers()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		StaffUC:     usecase.NewStaffUseCase(userRepo),
		TableUC:     usecase.NewTableUseCase(tableRepo, orderRepo, qr.NewGenerator(), cfg.App.PublicMenuURL),
		CategoryUC:  usecase.NewCategoryUseCase(categoryRepo, productRepo),
		ProductUC:   usecase.NewProductUseCase(productRepo, categoryRepo, images),
		OrderUC:     orderUC,
		DashboardUC: appanalytics.NewDashboardUseCase(orderRepo, loc),
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	// Cancela la escucha de Redis antes de cerrar el servidor.
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
