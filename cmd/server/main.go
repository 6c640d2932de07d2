package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/samsa/internal/config"
	"github.com/example/samsa/internal/database"
	"github.com/example/samsa/internal/kv"
	"github.com/example/samsa/internal/routes"
)

func main() {
	cfg := config.Load()
	backend := openBackend(cfg)

	app := fiber.New(fiber.Config{
		AppName: "Samsa Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	routes.Register(app, backend, cfg)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}

// openBackend picks the persistence surface the envelope store writes
// through. Postgres is the deploy default; redis and memory exist for
// lighter environments.
func openBackend(cfg *config.Config) kv.Store {
	switch cfg.StoreBackend {
	case "memory":
		return kv.NewMemory()
	case "redis":
		backend, err := kv.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		return backend
	case "postgres":
		return kv.NewPostgres(database.Connect(cfg.DatabaseURL))
	default:
		log.Fatalf("unknown STORE_BACKEND %q", cfg.StoreBackend)
		return nil
	}
}
