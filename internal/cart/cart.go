// Package cart holds per-session shopping carts in memory. Carts are not
// persisted: the enveloped KV keeps session and history state, while a cart
// only lives as long as the visit that built it.
package cart

import (
	"sync"

	"github.com/google/uuid"

	"github.com/example/samsa/internal/models"
)

// Cart is a keyed-by-item-id collection with insertion order preserved for
// display. Adding an existing id increments its quantity instead of
// duplicating the row. Fiber serves requests on separate goroutines, so a
// double-submitted request carrying the same session token can hit one cart
// concurrently; every method takes the cart's own lock.
type Cart struct {
	mu    sync.Mutex
	lines []models.CartLine
	index map[string]int
}

func newCart() *Cart {
	return &Cart{index: make(map[string]int)}
}

// Add puts qty of item into the cart. Quantities below one count as one.
func (c *Cart) Add(item models.MenuItem, qty int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if qty < 1 {
		qty = 1
	}

	if i, ok := c.index[item.ID]; ok {
		c.lines[i].Quantity += qty
		return
	}

	c.index[item.ID] = len(c.lines)
	c.lines = append(c.lines, models.CartLine{MenuItem: item, Quantity: qty})
}

// SetQuantity sets the quantity for an item already in the cart. A quantity
// of zero or less removes the line.
func (c *Cart) SetQuantity(itemID string, qty int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[itemID]
	if !ok {
		return false
	}

	if qty < 1 {
		c.remove(i)
		return true
	}

	c.lines[i].Quantity = qty
	return true
}

// Remove drops an item from the cart.
func (c *Cart) Remove(itemID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[itemID]
	if !ok {
		return false
	}
	c.remove(i)
	return true
}

func (c *Cart) remove(i int) {
	delete(c.index, c.lines[i].ID)
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	for j := i; j < len(c.lines); j++ {
		c.index[c.lines[j].ID] = j
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	c.index = make(map[string]int)
}

// Lines returns the cart contents in insertion order.
func (c *Cart) Lines() []models.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total returns the cart total in integer currency units.
func (c *Cart) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := 0
	for _, line := range c.lines {
		total += line.Price * line.Quantity
	}
	return total
}

// Snapshot deep-copies the cart contents for checkout. The returned lines
// are independent of the live cart.
func (c *Cart) Snapshot() []models.CartLine {
	return c.Lines()
}

// Registry maps session tokens to carts. The registry lock guards only the
// map; the carts it hands out carry their own locks.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

// NewRegistry constructs an empty cart registry.
func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*Cart)}
}

// NewSession issues a fresh cart token.
func (r *Registry) NewSession() string {
	return uuid.NewString()
}

// Get returns the cart for token, creating it on first use.
func (r *Registry) Get(token string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[token]
	if !ok {
		c = newCart()
		r.carts[token] = c
	}
	return c
}

// Drop discards the cart for token.
func (r *Registry) Drop(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, token)
}
