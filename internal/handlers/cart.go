package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/samsa/internal/cart"
	"github.com/example/samsa/internal/services"
)

// cartSessionHeader carries the visitor's cart token between requests.
const cartSessionHeader = "X-Cart-Session"

// CartHandler manages the per-session shopping cart.
type CartHandler struct {
	carts   *cart.Registry
	catalog *services.CatalogService
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(carts *cart.Registry, catalog *services.CatalogService) *CartHandler {
	return &CartHandler{carts: carts, catalog: catalog}
}

// session returns the request's cart token, issuing one on first contact.
func (h *CartHandler) session(c *fiber.Ctx) string {
	token := c.Get(cartSessionHeader)
	if token == "" {
		token = h.carts.NewSession()
	}
	c.Set(cartSessionHeader, token)
	return token
}

func cartPayload(token string, cc *cart.Cart) fiber.Map {
	return fiber.Map{
		"session": token,
		"items":   cc.Lines(),
		"total":   cc.Total(),
	}
}

// GetCart returns the current cart contents.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	token := h.session(c)
	cc := h.carts.Get(token)

	return c.JSON(fiber.Map{"success": true, "data": cartPayload(token, cc)})
}

type addItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// AddItem puts a menu item into the cart; adding an existing item bumps its
// quantity instead of duplicating the row.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	item, found := h.catalog.Find(req.ItemID)
	if !found {
		return fiber.NewError(fiber.StatusNotFound, "menu item not found")
	}

	token := h.session(c)
	cc := h.carts.Get(token)
	cc.Add(item, req.Quantity)

	return c.JSON(fiber.Map{"success": true, "data": cartPayload(token, cc)})
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem sets the quantity for a cart line. Zero removes it.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	token := h.session(c)
	cc := h.carts.Get(token)

	if !cc.SetQuantity(c.Params("id"), req.Quantity) {
		return fiber.NewError(fiber.StatusNotFound, "item not in cart")
	}

	return c.JSON(fiber.Map{"success": true, "data": cartPayload(token, cc)})
}

// RemoveItem drops a line from the cart.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	token := h.session(c)
	cc := h.carts.Get(token)

	if !cc.Remove(c.Params("id")) {
		return fiber.NewError(fiber.StatusNotFound, "item not in cart")
	}

	return c.JSON(fiber.Map{"success": true, "data": cartPayload(token, cc)})
}

// ClearCart empties the cart.
func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	token := h.session(c)
	h.carts.Get(token).Clear()

	return c.JSON(fiber.Map{"success": true, "data": cartPayload(token, h.carts.Get(token))})
}
