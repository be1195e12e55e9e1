// Package pos holds the point-of-sale core: the session cart, the checkout
// engine and the money helpers. The cart is the only mutable state this
// package owns; everything else goes through the store contracts.
package pos

import (
	"errors"
	"sync"

	"github.com/jpiotrowska1604-eng/g1-ns/internal/models"
)

// ErrInsufficientStock is returned by Cart.Add when the requested quantity
// is not positive or exceeds the product's quantity as read at add time.
var ErrInsufficientStock = errors.New("pos: insufficient stock")

// CartLine is one pending sale item. Name and price are snapshots taken at
// add time; they drive display and the receipt, never the stock decrement.
type CartLine struct {
	ProductID      uint   `json:"product_id"`
	ProductName    string `json:"product_name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

// TotalCents is the line total, unit price times quantity.
func (l CartLine) TotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// Cart is an ordered sequence of pending sale lines for one session.
// It never touches the store; it works purely on values handed to it.
type Cart struct {
	lines []CartLine
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// Add appends a snapshot line for the product. The check is against the
// quantity the caller read from the store; checkout re-validates against
// fresh state anyway.
func (c *Cart) Add(p *models.Product, quantity int) error {
	if quantity <= 0 || quantity > p.Quantity {
		return ErrInsufficientStock
	}
	c.lines = append(c.lines, CartLine{
		ProductID:      p.ID,
		ProductName:    p.Name,
		UnitPriceCents: p.UnitPriceCents,
		Quantity:       quantity,
	})
	return nil
}

// Remove drops the line at the given position, keeping insertion order.
func (c *Cart) Remove(index int) bool {
	if index < 0 || index >= len(c.lines) {
		return false
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return true
}

// Clear empties the cart. Irreversible; called after a successful checkout
// or on explicit cancel.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns the cart's lines in insertion order.
func (c *Cart) Lines() []CartLine {
	return c.lines
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// TotalCents sums unit price times quantity over all lines.
func (c *Cart) TotalCents() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.TotalCents()
	}
	return total
}

// SessionCarts keeps one cart per operator. Carts are created on first use
// and live until cleared. The registry is locked because gin handlers run
// concurrently; the cart itself is not, since an operator drives one
// register at a time.
type SessionCarts struct {
	mu    sync.Mutex
	carts map[uint]*Cart
}

// NewSessionCarts returns an empty cart registry.
func NewSessionCarts() *SessionCarts {
	return &SessionCarts{carts: map[uint]*Cart{}}
}

// Get returns the operator's cart, creating it if needed.
func (s *SessionCarts) Get(operatorID uint) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[operatorID]
	if !ok {
		cart = NewCart()
		s.carts[operatorID] = cart
	}
	return cart
}

// Drop removes the operator's cart entirely.
func (s *SessionCarts) Drop(operatorID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, operatorID)
}
