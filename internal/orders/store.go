// Package orders keeps the local order history. The history is the
// authoritative source for the account and admin order views; the backend
// copy is fed best-effort at checkout and never read back.
package orders

import (
	"context"
	"time"

	"github.com/nirajw/eshop-storefront/pkg/enums"
	pkgerrors "github.com/nirajw/eshop-storefront/pkg/errors"
	"github.com/nirajw/eshop-storefront/pkg/kvstore"
	"github.com/nirajw/eshop-storefront/pkg/logger"
)

const ordersKey = "orders"

// Item is one purchased line frozen at checkout time.
type Item struct {
	ProductID      int64  `json:"productId"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
}

// Shipping is the delivery address frozen at checkout time.
type Shipping struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	ZipCode  string `json:"zipCode"`
}

// Order is one completed checkout.
type Order struct {
	ID            string            `json:"id"`
	UserID        int64             `json:"userId"`
	Items         []Item            `json:"items"`
	Shipping      Shipping          `json:"shipping"`
	PaymentMethod string            `json:"paymentMethod"`
	SubtotalCents int64             `json:"subtotalCents"`
	ShippingCents int64             `json:"shippingCents"`
	TaxCents      int64             `json:"taxCents"`
	TotalCents    int64             `json:"totalCents"`
	Status        enums.OrderStatus `json:"status"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// Store persists order history under a single storage key, newest first.
type Store struct {
	storage kvstore.Store
	logg    *logger.Logger
}

// NewStore builds the order history store.
func NewStore(storage kvstore.Store, logg *logger.Logger) (*Store, error) {
	if storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders: storage is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders: logger is required")
	}
	return &Store{storage: storage, logg: logg}, nil
}

// List returns all recorded orders, newest first. A missing or corrupt
// history reads as empty.
func (s *Store) List(ctx context.Context) []Order {
	var history []Order
	if !kvstore.ReadJSON(ctx, s.logg, s.storage, ordersKey, &history) {
		return nil
	}
	return history
}

// ListForUser returns the given user's orders, newest first.
func (s *Store) ListForUser(ctx context.Context, userID int64) []Order {
	var out []Order
	for _, order := range s.List(ctx) {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out
}

// Get returns one order by id.
func (s *Store) Get(ctx context.Context, orderID string) (*Order, error) {
	for _, order := range s.List(ctx) {
		if order.ID == orderID {
			return &order, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

// Append prepends the order to the history.
func (s *Store) Append(ctx context.Context, order Order) error {
	history := append([]Order{order}, s.List(ctx)...)
	if err := kvstore.WriteJSON(ctx, s.storage, ordersKey, history); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "append order")
	}
	return nil
}

// UpdateStatus mutates one order's status in place.
func (s *Store) UpdateStatus(ctx context.Context, orderID string, status enums.OrderStatus) error {
	if !status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	history := s.List(ctx)
	found := false
	for i := range history {
		if history[i].ID == orderID {
			history[i].Status = status
			found = true
			break
		}
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err := kvstore.WriteJSON(ctx, s.storage, ordersKey, history); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "update order status")
	}
	return nil
}
