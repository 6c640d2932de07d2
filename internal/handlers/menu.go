package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/samsa/internal/services"
)

// MenuHandler serves the storefront catalog.
type MenuHandler struct {
	catalog *services.CatalogService
}

// NewMenuHandler constructs MenuHandler.
func NewMenuHandler(catalog *services.CatalogService) *MenuHandler {
	return &MenuHandler{catalog: catalog}
}

// GetMenu returns the current menu. The catalog service handles POS
// failures internally, so this never comes back empty.
func (h *MenuHandler) GetMenu(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "data": h.catalog.Menu()})
}
