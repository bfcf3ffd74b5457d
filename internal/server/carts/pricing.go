package carts

import "github.com/example/cartsync/internal/server/store"

// Discount rule: orders of discountThreshold cents or more get
// discountPercent off the subtotal.
const (
	discountThreshold = 10000
	discountPercent   = 5
)

// Totals derives the cart's aggregate figures. All amounts in cents.
func Totals(cart *store.Cart) (itemCount, subtotal, discount, total int) {
	for _, it := range cart.Items {
		itemCount += it.Quantity
		subtotal += it.Quantity * it.UnitPrice
	}
	if subtotal >= discountThreshold {
		discount = subtotal * discountPercent / 100
	}
	total = subtotal - discount
	return itemCount, subtotal, discount, total
}
