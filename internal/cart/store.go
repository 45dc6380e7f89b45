package cart

import (
	"context"

	"github.com/nirajw/eshop-storefront/internal/session"
	pkgerrors "github.com/nirajw/eshop-storefront/pkg/errors"
	"github.com/nirajw/eshop-storefront/pkg/kvstore"
	"github.com/nirajw/eshop-storefront/pkg/logger"
)

// anonymousCartKey holds the cart of a visitor with no session. Authenticated
// carts live under the per-user key from session.CartKey.
const anonymousCartKey = "cart"

// LocalStore persists carts in local storage. Reads never fail: a missing or
// corrupt payload reads as an empty cart and is logged.
type LocalStore struct {
	storage kvstore.Store
	logg    *logger.Logger
}

// NewLocalStore builds the cart storage layer.
func NewLocalStore(storage kvstore.Store, logg *logger.Logger) (*LocalStore, error) {
	if storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart: storage is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart: logger is required")
	}
	return &LocalStore{storage: storage, logg: logg}, nil
}

// storageKey maps a session to its cart key. The zero session is anonymous.
func storageKey(sess session.Session) string {
	if sess.UserID == 0 {
		return anonymousCartKey
	}
	return sess.CartKey()
}

// Read loads the cart for sess. Absent or unreadable carts come back empty.
func (s *LocalStore) Read(ctx context.Context, sess session.Session) Cart {
	var cart Cart
	if !kvstore.ReadJSON(ctx, s.logg, s.storage, storageKey(sess), &cart) {
		return Cart{}
	}
	return cart
}

// Write replaces the stored cart for sess.
func (s *LocalStore) Write(ctx context.Context, sess session.Session, cart Cart) error {
	if err := kvstore.WriteJSON(ctx, s.storage, storageKey(sess), cart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "write cart")
	}
	return nil
}

// Clear removes the stored cart for sess.
func (s *LocalStore) Clear(ctx context.Context, sess session.Session) error {
	if err := s.storage.Delete(ctx, storageKey(sess)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "clear cart")
	}
	return nil
}

// UpsertLine is the single choke point for quantity changes. It applies delta
// to the product's line: a resulting quantity below 1 removes the line, and a
// line is created (via factory) only when delta is positive. The updated cart
// is written back and returned.
func (s *LocalStore) UpsertLine(ctx context.Context, sess session.Session, productID int64, delta int, factory func() LineItem) (Cart, error) {
	cart := s.Read(ctx, sess)

	idx := cart.indexOf(productID)
	switch {
	case idx >= 0:
		next := cart[idx].Quantity + delta
		if next < 1 {
			cart = append(cart[:idx], cart[idx+1:]...)
		} else {
			cart[idx].Quantity = next
		}
	case delta > 0:
		if factory == nil {
			return cart, pkgerrors.New(pkgerrors.CodeInternal, "upsert of unknown product needs a line factory")
		}
		line := factory()
		line.ProductID = productID
		line.Quantity = delta
		cart = append(cart, line)
	default:
		// Decrementing a line that does not exist is a no-op.
		return cart, nil
	}

	if err := s.Write(ctx, sess, cart); err != nil {
		return cart, err
	}
	return cart, nil
}
