package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/samsa/internal/middleware"
	"github.com/example/samsa/internal/session"
)

// ProfileHandler manages customer profile endpoints.
type ProfileHandler struct {
	sessions *session.Manager
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(sessions *session.Manager) *ProfileHandler {
	return &ProfileHandler{sessions: sessions}
}

// GetProfile returns the authenticated customer's record.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	user, found := h.sessions.Get(userID)
	if !found {
		return fiber.NewError(fiber.StatusUnauthorized, "session expired")
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

// UpdateProfile changes the customer's display name.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name must not be empty")
	}

	user, found := h.sessions.UpdateName(userID, name)
	if !found {
		return fiber.NewError(fiber.StatusUnauthorized, "session expired")
	}

	return c.JSON(fiber.Map{"success": true, "data": user})
}
