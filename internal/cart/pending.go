package cart

import (
	"context"
	"time"

	pkgerrors "github.com/nirajw/eshop-storefront/pkg/errors"
	"github.com/nirajw/eshop-storefront/pkg/kvstore"
	"github.com/nirajw/eshop-storefront/pkg/logger"
)

// pendingKey holds at most one add-to-cart action captured while the visitor
// was anonymous, replayed after they log in.
const pendingKey = "pendingCartItem"

const defaultPendingTTL = 30 * time.Minute

// PendingAction is an add-to-cart intent awaiting authentication.
type PendingAction struct {
	ProductID      int64     `json:"productId"`
	Name           string    `json:"name"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	CapturedAt     time.Time `json:"capturedAt"`
}

// PendingStore captures and consumes the pending add-to-cart action. A new
// capture overwrites any existing one.
type PendingStore struct {
	storage kvstore.Store
	logg    *logger.Logger
	ttl     time.Duration
}

// NewPendingStore builds the pending-action store. A non-positive ttl falls
// back to 30 minutes.
func NewPendingStore(storage kvstore.Store, logg *logger.Logger, ttl time.Duration) (*PendingStore, error) {
	if storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart: storage is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart: logger is required")
	}
	if ttl <= 0 {
		ttl = defaultPendingTTL
	}
	return &PendingStore{storage: storage, logg: logg, ttl: ttl}, nil
}

// Capture records the action, stamping CapturedAt when unset.
func (p *PendingStore) Capture(ctx context.Context, action PendingAction) error {
	if action.Quantity < 1 {
		action.Quantity = 1
	}
	if action.CapturedAt.IsZero() {
		action.CapturedAt = time.Now()
	}
	if err := kvstore.WriteJSON(ctx, p.storage, pendingKey, action); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "capture pending cart action")
	}
	return nil
}

// Consume returns the stored action if one exists and has not expired, and
// clears it either way. A second call finds nothing.
func (p *PendingStore) Consume(ctx context.Context, now time.Time) (PendingAction, bool) {
	var action PendingAction
	if !kvstore.ReadJSON(ctx, p.logg, p.storage, pendingKey, &action) {
		return PendingAction{}, false
	}
	if err := p.storage.Delete(ctx, pendingKey); err != nil {
		p.logg.Error(ctx, "clear pending cart action", err)
	}
	if now.Sub(action.CapturedAt) > p.ttl {
		p.logg.Info(ctx, "pending cart action expired, dropping")
		return PendingAction{}, false
	}
	return action, true
}
