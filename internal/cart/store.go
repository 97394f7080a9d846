// Package cart holds the per-session shopping cart.
package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hastilong/storefront/internal/catalog"
	"github.com/hastilong/storefront/pkg/enums"
	"github.com/hastilong/storefront/pkg/notify"
	"github.com/shopspring/decimal"
)

const (
	OperationAdd    = "add"
	OperationRemove = "remove"
	OperationUpdate = "update"
	OperationClear  = "clear"
)

var hundred = decimal.NewFromInt(100)

// Item is a product plus the quantity held in the cart. Quantity is always at
// least 1.
type Item struct {
	ID       int
	Name     string
	Price    decimal.Decimal
	Category enums.ProductCategory
	Quantity int
}

// LineTotal is price times quantity.
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Snapshot is a point-in-time copy of the cart.
type Snapshot struct {
	Items           []Item
	DiscountPercent int
	Subtotal        decimal.Decimal
	Total           decimal.Decimal
	Count           int
}

// Recorder receives cart activity counters.
type Recorder interface {
	CartOperation(op string)
	CouponApplied(ok bool)
}

// Store owns one session's cart. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	items    []Item
	discount int

	notifier notify.Notifier
	metrics  Recorder
}

// NewStore returns an empty cart. notifier and metrics may be nil.
func NewStore(notifier notify.Notifier, metrics Recorder) *Store {
	return &Store{notifier: notifier, metrics: metrics}
}

// AddToCart increments the quantity of an existing line or appends a new one.
func (s *Store) AddToCart(ctx context.Context, product catalog.Product) {
	s.mu.Lock()
	updated := false
	for i := range s.items {
		if s.items[i].ID == product.ID {
			s.items[i].Quantity++
			updated = true
			break
		}
	}
	if !updated {
		s.items = append(s.items, Item{
			ID:       product.ID,
			Name:     product.Name,
			Price:    product.Price,
			Category: product.Category,
			Quantity: 1,
		})
	}
	s.mu.Unlock()

	s.record(OperationAdd)
	if updated {
		notify.Success(ctx, s.notifier, fmt.Sprintf("Updated %s quantity", product.Name))
		return
	}
	notify.Success(ctx, s.notifier, fmt.Sprintf("Added %s to cart", product.Name))
}

// RemoveFromCart drops the line for productID. Unknown ids are ignored.
func (s *Store) RemoveFromCart(ctx context.Context, productID int) {
	s.mu.Lock()
	s.removeLocked(productID)
	s.mu.Unlock()

	s.record(OperationRemove)
	notify.Success(ctx, s.notifier, "Item removed from cart")
}

// UpdateQuantity sets the quantity of a line. Values below 1 remove it.
func (s *Store) UpdateQuantity(ctx context.Context, productID, quantity int) {
	if quantity < 1 {
		s.RemoveFromCart(ctx, productID)
		return
	}
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == productID {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()
	s.record(OperationUpdate)
}

// ClearCart empties the cart and drops any coupon.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.discount = 0
	s.mu.Unlock()

	s.record(OperationClear)
	notify.Success(ctx, s.notifier, "Cart cleared")
}

// ApplyCoupon activates the discount for code. Unknown codes leave the cart
// unchanged.
func (s *Store) ApplyCoupon(ctx context.Context, code string) bool {
	percent, ok := LookupCoupon(code)
	if s.metrics != nil {
		s.metrics.CouponApplied(ok)
	}
	if !ok {
		notify.Error(ctx, s.notifier, "Invalid coupon code")
		return false
	}
	s.mu.Lock()
	s.discount = percent
	s.mu.Unlock()

	notify.Success(ctx, s.notifier, fmt.Sprintf("Coupon applied! %d%% off", percent))
	return true
}

// Subtotal is the sum of line totals before discount.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subtotalLocked()
}

// CartTotal applies the discount to the subtotal. The result is not rounded.
func (s *Store) CartTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalLocked()
}

// CartCount is the total number of units, not distinct products.
func (s *Store) CartCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked()
}

func (s *Store) DiscountPercent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discount
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return Snapshot{
		Items:           items,
		DiscountPercent: s.discount,
		Subtotal:        s.subtotalLocked(),
		Total:           s.totalLocked(),
		Count:           s.countLocked(),
	}
}

func (s *Store) removeLocked(productID int) {
	for i := range s.items {
		if s.items[i].ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *Store) subtotalLocked() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range s.items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

func (s *Store) totalLocked() decimal.Decimal {
	subtotal := s.subtotalLocked()
	if s.discount == 0 {
		return subtotal
	}
	off := subtotal.Mul(decimal.NewFromInt(int64(s.discount))).Div(hundred)
	return subtotal.Sub(off)
}

func (s *Store) countLocked() int {
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

func (s *Store) record(op string) {
	if s.metrics != nil {
		s.metrics.CartOperation(op)
	}
}

var coupons = map[string]int{
	"SAVE10":    10,
	"SAVE20":    20,
	"WELCOME15": 15,
}

// LookupCoupon returns the discount percent for code, ignoring case and
// surrounding whitespace.
func LookupCoupon(code string) (int, bool) {
	percent, ok := coupons[strings.ToUpper(strings.TrimSpace(code))]
	return percent, ok
}
