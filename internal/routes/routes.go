package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/samsa/internal/cart"
	"github.com/example/samsa/internal/config"
	"github.com/example/samsa/internal/handlers"
	"github.com/example/samsa/internal/history"
	"github.com/example/samsa/internal/kv"
	"github.com/example/samsa/internal/middleware"
	"github.com/example/samsa/internal/services"
	"github.com/example/samsa/internal/session"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, backend kv.Store, cfg *config.Config) {
	sessions := session.NewManager(backend)
	ledger := history.New(backend)
	carts := cart.NewRegistry()

	pos := services.NewPosClient()
	catalog := services.NewCatalogService(pos)
	chef := services.NewChefService(cfg.ChefAPIURL, cfg.ChefAPIKey, cfg.ChefModel)
	geocoder := services.NewGeocodeService(cfg.GeocoderURL)
	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)

	authHandler := handlers.NewAuthHandler(sessions, cfg)
	profileHandler := handlers.NewProfileHandler(sessions)
	menuHandler := handlers.NewMenuHandler(catalog)
	cartHandler := handlers.NewCartHandler(carts, catalog)
	orderHandler := handlers.NewOrderHandler(carts, ledger, sessions, telegram)
	chatHandler := handlers.NewChatHandler(chef, catalog)
	deliveryHandler := handlers.NewDeliveryHandler(geocoder, cfg)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/request-code", authHandler.RequestCode)
	auth.Post("/verify", authHandler.Verify)
	auth.Post("/logout", middleware.AuthMiddleware(cfg), authHandler.Logout)

	// Storefront
	api.Get("/menu", menuHandler.GetMenu)
	api.Post("/chat", chatHandler.Ask)
	api.Post("/delivery/check", deliveryHandler.Check)

	// Cart
	cartGroup := api.Group("/cart")
	cartGroup.Get("/", cartHandler.GetCart)
	cartGroup.Delete("/", cartHandler.ClearCart)
	cartGroup.Post("/items", cartHandler.AddItem)
	cartGroup.Put("/items/:id", cartHandler.UpdateItem)
	cartGroup.Delete("/items/:id", cartHandler.RemoveItem)

	// Orders work for guests too; a valid token attaches the customer.
	orders := api.Group("/orders", middleware.OptionalAuth(cfg))
	orders.Post("/", orderHandler.Checkout)
	orders.Get("/", orderHandler.ListOrders)
	orders.Get("/latest", orderHandler.LatestOrder)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))
	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
}
