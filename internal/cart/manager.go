package cart

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nirajw/eshop-storefront/internal/api"
	"github.com/nirajw/eshop-storefront/internal/session"
	"github.com/nirajw/eshop-storefront/internal/ui"
	pkgerrors "github.com/nirajw/eshop-storefront/pkg/errors"
	"github.com/nirajw/eshop-storefront/pkg/logger"
)

// ManagerParams carries the manager's dependencies.
type ManagerParams struct {
	Sessions  *session.Store
	Local     *LocalStore
	Pending   *PendingStore
	Remote    *RemoteClient
	Notifier  ui.Notifier
	Navigator ui.Navigator
	Logger    *logger.Logger
}

// Manager orchestrates cart operations. Anonymous visitors get their intent
// captured and are sent to login; authenticated shoppers write locally first
// and the server is reconciled best-effort.
type Manager struct {
	sessions  *session.Store
	local     *LocalStore
	pending   *PendingStore
	remote    *RemoteClient
	notifier  ui.Notifier
	navigator ui.Navigator
	logg      *logger.Logger

	mu         sync.Mutex
	displays   []ui.CountDisplay
	recounting atomic.Bool
}

// NewManager validates dependencies and builds the manager. Notifier and
// Navigator default to no-ops.
func NewManager(params ManagerParams) (*Manager, error) {
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart: session store is required")
	}
	if params.Local == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart: local store is required")
	}
	if params.Pending == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart: pending store is required")
	}
	if params.Remote == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart: remote client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart: logger is required")
	}
	if params.Notifier == nil {
		params.Notifier = ui.NopNotifier{}
	}
	if params.Navigator == nil {
		params.Navigator = ui.NopNavigator{}
	}
	return &Manager{
		sessions:  params.Sessions,
		local:     params.Local,
		pending:   params.Pending,
		remote:    params.Remote,
		notifier:  params.Notifier,
		navigator: params.Navigator,
		logg:      params.Logger,
	}, nil
}

// RegisterCountDisplay adds a badge to the broadcast set.
func (m *Manager) RegisterCountDisplay(display ui.CountDisplay) {
	if display == nil {
		return
	}
	m.mu.Lock()
	m.displays = append(m.displays, display)
	m.mu.Unlock()
}

// Cart returns the current session's cart.
func (m *Manager) Cart(ctx context.Context) Cart {
	sess, _ := m.sessions.Current(ctx)
	return m.local.Read(ctx, sess)
}

// AddToCart adds quantity of product for the current visitor. Anonymous
// visitors do not touch the cart: the intent is captured and they are sent to
// the login page so the add can replay afterwards.
func (m *Manager) AddToCart(ctx context.Context, product api.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	if !product.InStock() {
		err := pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is out of stock", product.Name))
		m.notifier.Error(pkgerrors.UserMessage(err))
		return err
	}

	sess, authed := m.sessions.Current(ctx)
	if !authed {
		action := PendingAction{
			ProductID:      product.ID,
			Name:           product.Name,
			UnitPriceCents: product.PriceCents,
			Quantity:       quantity,
		}
		if err := m.pending.Capture(ctx, action); err != nil {
			m.logg.Error(ctx, "capture pending add", err)
		}
		m.notifier.Error("Please login to add items to your cart")
		m.navigator.GoTo(ui.PageLogin)
		return nil
	}

	line := LineItem{Name: product.Name, UnitPriceCents: product.PriceCents}
	if err := m.addLine(ctx, sess, product.ID, quantity, line); err != nil {
		m.notifier.Error(pkgerrors.UserMessage(err))
		return err
	}
	m.notifier.Success(fmt.Sprintf("%s added to cart", product.Name))
	return nil
}

// addLine is the authenticated add path shared with pending replay: local
// write through the upsert choke point, best-effort server mirror, count
// broadcast.
func (m *Manager) addLine(ctx context.Context, sess session.Session, productID int64, quantity int, line LineItem) error {
	_, err := m.local.UpsertLine(ctx, sess, productID, quantity, func() LineItem { return line })
	if err != nil {
		return err
	}
	m.remote.Add(ctx, sess.UserID, productID, quantity)
	m.PublishCount(ctx)
	return nil
}

// UpdateQuantity applies delta to a line. The server-side line is restated
// after the local write so both sides converge on the same quantity.
func (m *Manager) UpdateQuantity(ctx context.Context, productID int64, delta int) error {
	sess, authed := m.sessions.Current(ctx)
	if !authed {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "log in to manage your cart")
	}

	cart, err := m.local.UpsertLine(ctx, sess, productID, delta, nil)
	if err != nil {
		m.notifier.Error(pkgerrors.UserMessage(err))
		return err
	}

	m.remote.Remove(ctx, sess.UserID, productID)
	if line := cart.Find(productID); line != nil {
		m.remote.Add(ctx, sess.UserID, productID, line.Quantity)
	}
	m.PublishCount(ctx)
	return nil
}

// Remove deletes a line locally and on the server.
func (m *Manager) Remove(ctx context.Context, productID int64) error {
	sess, authed := m.sessions.Current(ctx)
	if !authed {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "log in to manage your cart")
	}

	cart := m.local.Read(ctx, sess)
	if line := cart.Find(productID); line != nil {
		if _, err := m.local.UpsertLine(ctx, sess, productID, -line.Quantity, nil); err != nil {
			m.notifier.Error(pkgerrors.UserMessage(err))
			return err
		}
	}
	m.remote.Remove(ctx, sess.UserID, productID)
	m.PublishCount(ctx)
	return nil
}

// Clear empties the cart locally and on the server.
func (m *Manager) Clear(ctx context.Context) error {
	sess, authed := m.sessions.Current(ctx)
	if !authed {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "log in to manage your cart")
	}
	if err := m.local.Clear(ctx, sess); err != nil {
		return err
	}
	m.remote.Clear(ctx, sess.UserID)
	m.PublishCount(ctx)
	return nil
}

// Refresh replaces the local cart with the server's copy. The server is
// trusted only when the fetch succeeds; on failure the local cart stands.
func (m *Manager) Refresh(ctx context.Context) error {
	sess, authed := m.sessions.Current(ctx)
	if !authed {
		return nil
	}
	lines, outcome := m.remote.Fetch(ctx, sess.UserID)
	if !outcome.Succeeded() {
		return nil
	}
	cart := make(Cart, 0, len(lines))
	for _, line := range lines {
		cart = append(cart, LineItem{
			ProductID:      line.ProductID,
			Name:           line.Name,
			UnitPriceCents: line.PriceCents,
			Quantity:       line.Quantity,
		})
	}
	if err := m.local.Write(ctx, sess, cart); err != nil {
		return err
	}
	m.PublishCount(ctx)
	return nil
}

// OnLogin flushes the anonymous cart to the server and replays any pending
// add. The flush is one-directional: lines go to the remote cart only, never
// into the per-user local key. The anonymous key is deleted afterwards so
// the flush happens at most once.
func (m *Manager) OnLogin(ctx context.Context, sess session.Session) error {
	anonCart := m.local.Read(ctx, session.Session{})
	for _, line := range anonCart {
		m.remote.Add(ctx, sess.UserID, line.ProductID, line.Quantity)
	}
	if err := m.local.Clear(ctx, session.Session{}); err != nil {
		m.logg.Error(ctx, "clear anonymous cart after flush", err)
	}

	if action, ok := m.pending.Consume(ctx, time.Now()); ok {
		line := LineItem{Name: action.Name, UnitPriceCents: action.UnitPriceCents}
		if err := m.addLine(ctx, sess, action.ProductID, action.Quantity, line); err != nil {
			m.logg.Error(ctx, "replay pending add", err)
		} else {
			m.notifier.Success(fmt.Sprintf("%s added to cart", action.Name))
		}
	}

	m.PublishCount(ctx)
	return nil
}

// OnLogout pushes the local cart to the server so nothing is lost, then
// clears the per-user key. Flush failures are logged and do not block the
// logout.
func (m *Manager) OnLogout(ctx context.Context, sess session.Session) error {
	if sess.UserID != 0 {
		cart := m.local.Read(ctx, sess)
		for _, line := range cart {
			m.remote.Add(ctx, sess.UserID, line.ProductID, line.Quantity)
		}
		if err := m.local.Clear(ctx, sess); err != nil {
			return err
		}
	}
	m.PublishCount(ctx)
	return nil
}

// PublishCount recomputes the total quantity and pushes it to every
// registered display, hiding them at zero. An overlapping recomputation is
// dropped rather than queued.
func (m *Manager) PublishCount(ctx context.Context) {
	if !m.recounting.CompareAndSwap(false, true) {
		return
	}
	defer m.recounting.Store(false)

	sess, _ := m.sessions.Current(ctx)
	count := m.local.Read(ctx, sess).TotalQuantity()

	m.mu.Lock()
	displays := make([]ui.CountDisplay, len(m.displays))
	copy(displays, m.displays)
	m.mu.Unlock()

	for _, display := range displays {
		if count == 0 {
			display.Hide()
		} else {
			display.SetCount(count)
		}
	}
}
