package handlers

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"

	"github.com/gofiber/fiber/v2"

	"github.com/example/samsa/internal/config"
	"github.com/example/samsa/internal/middleware"
	"github.com/example/samsa/internal/session"
	"github.com/example/samsa/internal/utils"
)

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	sessions *session.Manager
	cfg      *config.Config
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(sessions *session.Manager, cfg *config.Config) *AuthHandler {
	return &AuthHandler{sessions: sessions, cfg: cfg}
}

type requestCodeRequest struct {
	Phone string `json:"phone"`
}

// RequestCode issues a one-time login code for a phone number.
func (h *AuthHandler) RequestCode(c *fiber.Ctx) error {
	var req requestCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	phone := utils.NormalizePhone(req.Phone)
	if !utils.ValidPhone(phone) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid phone number")
	}

	code, err := generateVerificationCode()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate verification code")
	}

	if err := h.sessions.IssueCode(phone, code); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store verification code")
	}

	// TODO: send the code through the Eskiz SMS gateway once credentials land.
	// Only the fact of issuance is logged; the code itself lives bcrypt-hashed
	// in the store and must not leak into log output.
	log.Printf("[Auth] verification code issued for %s", phone)

	return c.JSON(fiber.Map{"success": true, "message": "code sent"})
}

type verifyRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// Verify redeems an OTP code and signs the customer in, creating the
// account on first verification.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var req verifyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	phone := utils.NormalizePhone(req.Phone)
	if !utils.ValidPhone(phone) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid phone number")
	}

	if !h.sessions.RedeemCode(phone, req.Code) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid or expired verification code")
	}

	user := h.sessions.FindOrCreate(phone)

	token, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

// Logout erases the local session entry for the authenticated customer.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	h.sessions.Logout(userID)

	return c.JSON(fiber.Map{"success": true, "message": "logged out"})
}

func generateVerificationCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
