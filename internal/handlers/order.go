package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/samsa/internal/cart"
	"github.com/example/samsa/internal/history"
	"github.com/example/samsa/internal/middleware"
	"github.com/example/samsa/internal/services"
	"github.com/example/samsa/internal/session"
)

// loyaltyDivisor converts an order total into earned points.
const loyaltyDivisor = 1000

// OrderHandler manages checkout and order history endpoints.
type OrderHandler struct {
	carts    *cart.Registry
	ledger   *history.Ledger
	sessions *session.Manager
	telegram *services.TelegramService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(carts *cart.Registry, ledger *history.Ledger, sessions *session.Manager, telegram *services.TelegramService) *OrderHandler {
	return &OrderHandler{carts: carts, ledger: ledger, sessions: sessions, telegram: telegram}
}

// Checkout snapshots the cart into the order ledger. Works for guests and
// authenticated customers alike; the latter earn loyalty points.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	token := c.Get(cartSessionHeader)
	if token == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing cart session")
	}

	cc := h.carts.Get(token)
	lines := cc.Snapshot()
	if len(lines) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "cart is empty")
	}

	userID, _ := middleware.GetCurrentUserID(c)

	order := h.ledger.RecordOrder(lines, cc.Total(), userID)
	cc.Clear()

	var customerName, customerPhone string
	if userID != "" {
		h.sessions.AddLoyaltyPoints(userID, order.Total/loyaltyDivisor)
		if user, ok := h.sessions.Get(userID); ok {
			customerName = user.Name
			customerPhone = user.Phone
		}
	}

	if h.telegram != nil {
		go func() {
			if err := h.telegram.NotifyNewOrder(order, customerName, customerPhone); err != nil {
				log.Printf("[Order] Telegram notification failed: %v", err)
			}
		}()
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

// ListOrders returns the visible order history: the full ledger for an
// authenticated customer, a short recent window for guests.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	userID, _ := middleware.GetCurrentUserID(c)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.ledger.OrdersFor(userID),
	})
}

// LatestOrder returns the most recent visible order, if any.
func (h *OrderHandler) LatestOrder(c *fiber.Ctx) error {
	userID, _ := middleware.GetCurrentUserID(c)

	order, found := h.ledger.MostRecentOrder(userID)
	if !found {
		return c.JSON(fiber.Map{"success": true, "data": nil})
	}

	return c.JSON(fiber.Map{"success": true, "data": order})
}
