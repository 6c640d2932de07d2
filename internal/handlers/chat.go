package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/samsa/internal/services"
)

// ChatHandler proxies storefront chat to the AI chef.
type ChatHandler struct {
	chef    *services.ChefService
	catalog *services.CatalogService
}

// NewChatHandler constructs ChatHandler.
func NewChatHandler(chef *services.ChefService, catalog *services.CatalogService) *ChatHandler {
	return &ChatHandler{chef: chef, catalog: catalog}
}

type chatRequest struct {
	Message string              `json:"message"`
	History []services.ChatTurn `json:"history"`
}

// Ask forwards a chat message with the prior exchange and a menu snapshot.
// Upstream failures come back as the chef's apology, never as an error.
func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return fiber.NewError(fiber.StatusBadRequest, "message must not be empty")
	}

	reply := h.chef.Ask(message, req.History, h.catalog.Menu())

	return c.JSON(fiber.Map{"success": true, "data": reply})
}
