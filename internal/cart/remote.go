package cart

import (
	"context"
	"fmt"

	"github.com/nirajw/eshop-storefront/internal/api"
	"github.com/nirajw/eshop-storefront/pkg/enums"
	pkgerrors "github.com/nirajw/eshop-storefront/pkg/errors"
	"github.com/nirajw/eshop-storefront/pkg/logger"
)

// RemoteAPI is the slice of the backend client the cart needs.
type RemoteAPI interface {
	AddCartItem(ctx context.Context, userID, productID int64, quantity int) error
	RemoveCartItem(ctx context.Context, userID, productID int64) error
	ClearCart(ctx context.Context, userID int64) error
	FetchCart(ctx context.Context, userID int64) ([]api.RemoteCartLine, error)
}

// RemoteClient mirrors cart mutations to the backend. Every call is
// best-effort: failures are classified and logged, never surfaced as errors.
// Only Fetch results are authoritative, and only when the call succeeds.
type RemoteClient struct {
	api  RemoteAPI
	logg *logger.Logger
}

// NewRemoteClient builds the remote sync layer.
func NewRemoteClient(backend RemoteAPI, logg *logger.Logger) (*RemoteClient, error) {
	if backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart: backend client is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart: logger is required")
	}
	return &RemoteClient{api: backend, logg: logg}, nil
}

// classify maps a request error onto a sync outcome. A recorded HTTP status
// means the server answered and rejected; anything else is transport failure.
func (r *RemoteClient) classify(ctx context.Context, op string, err error) enums.SyncOutcome {
	if err == nil {
		return enums.SyncOutcomeOK
	}
	outcome := enums.SyncOutcomeNetworkError
	if api.StatusOf(err) > 0 {
		outcome = enums.SyncOutcomeServerRejected
	}
	r.logg.Error(r.logg.WithOperation(ctx, op), fmt.Sprintf("cart sync %s", outcome), err)
	return outcome
}

// Add mirrors an add/increment to the server.
func (r *RemoteClient) Add(ctx context.Context, userID, productID int64, quantity int) enums.SyncOutcome {
	return r.classify(ctx, "cart.remote.add", r.api.AddCartItem(ctx, userID, productID, quantity))
}

// Remove mirrors a line removal to the server.
func (r *RemoteClient) Remove(ctx context.Context, userID, productID int64) enums.SyncOutcome {
	return r.classify(ctx, "cart.remote.remove", r.api.RemoveCartItem(ctx, userID, productID))
}

// Clear empties the server-side cart.
func (r *RemoteClient) Clear(ctx context.Context, userID int64) enums.SyncOutcome {
	return r.classify(ctx, "cart.remote.clear", r.api.ClearCart(ctx, userID))
}

// Fetch retrieves the server-side cart.
func (r *RemoteClient) Fetch(ctx context.Context, userID int64) ([]api.RemoteCartLine, enums.SyncOutcome) {
	lines, err := r.api.FetchCart(ctx, userID)
	outcome := r.classify(ctx, "cart.remote.fetch", err)
	if !outcome.Succeeded() {
		return nil, outcome
	}
	return lines, outcome
}
