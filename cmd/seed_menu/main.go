// seed_menu carga la carta del restaurante desde un CSV exportado de la hoja de cálculo.
//
// Uso: go run ./cmd/seed_menu [ruta/carta.csv]
// Por defecto busca carta.csv en el directorio actual.
// Formato: categoria;producto;precio;ingredientes (con encabezado, UTF-8 o ISO-8859-1).
// Las categorías se crean si no existen; los productos siempre se crean.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/Comandas-api/internal/application/dto"
	"github.com/jhoicas/Comandas-api/internal/application/usecase"
	"github.com/jhoicas/Comandas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Comandas-api/pkg/config"
	"github.com/jhoicas/Comandas-api/pkg/logger"
)

func main() {
	path := "carta.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	rows, err := parseMenu(decodeMenu(raw))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer carta: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed_menu")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	categoryRepo := postgres.NewCategoryRepository(pool)
	categories := usecase.NewCategoryUseCase(categoryRepo, postgres.NewProductRepository(pool))
	products := usecase.NewProductUseCase(postgres.NewProductRepository(pool), categoryRepo, nil)

	categoryIDs := map[string]string{}
	created := 0
	for _, row := range rows {
		id, ok := categoryIDs[row.Category]
		if !ok {
			existing, err := categoryRepo.GetByName(ctx, row.Category)
			if err != nil {
				log.Fatal().Err(err).Str("category", row.Category).Msg("buscar categoría")
			}
			if existing != nil {
				id = existing.ID
			} else {
				c, err := categories.Create(ctx, dto.CategoryRequest{Name: row.Category})
				if err != nil {
					log.Fatal().Err(err).Str("category", row.Category).Msg("crear categoría")
				}
				id = c.ID
			}
			categoryIDs[row.Category] = id
		}

		if _, err := products.Create(ctx, "", dto.CreateProductRequest{
			Name:        row.Name,
			Price:       row.Price,
			Ingredients: row.Ingredients,
			CategoryID:  id,
		}); err != nil {
			log.Fatal().Err(err).Str("product", row.Name).Msg("crear producto")
		}
		created++
	}

	log.Info().Int("categories", len(categoryIDs)).Int("products", created).Msg("carta cargada")
}
