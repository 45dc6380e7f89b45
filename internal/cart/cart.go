// Package cart holds the client-side shopping cart: local persistence,
// pending-action capture across login, and best-effort synchronization with
// the backend cart endpoints. Local storage is the read model; the server is
// reconciled in the background and never blocks the shopper.
package cart

// LineItem is one cart entry. Quantity is always at least 1; a line whose
// quantity would drop below 1 is removed instead.
type LineItem struct {
	ProductID      int64  `json:"productId"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
}

// SubtotalCents is the line's extended price.
func (l LineItem) SubtotalCents() int64 {
	return l.UnitPriceCents * int64(l.Quantity)
}

// Cart is an insertion-ordered list of lines, one per product.
type Cart []LineItem

// TotalQuantity sums the quantities across all lines.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, line := range c {
		total += line.Quantity
	}
	return total
}

// SubtotalCents sums the extended prices across all lines.
func (c Cart) SubtotalCents() int64 {
	var total int64
	for _, line := range c {
		total += line.SubtotalCents()
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// Find returns the line for productID, or nil.
func (c Cart) Find(productID int64) *LineItem {
	for i := range c {
		if c[i].ProductID == productID {
			return &c[i]
		}
	}
	return nil
}

func (c Cart) indexOf(productID int64) int {
	for i := range c {
		if c[i].ProductID == productID {
			return i
		}
	}
	return -1
}
