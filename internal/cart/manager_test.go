package cart

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nirajw/eshop-storefront/internal/api"
	"github.com/nirajw/eshop-storefront/internal/session"
	"github.com/nirajw/eshop-storefront/internal/ui"
	"github.com/nirajw/eshop-storefront/pkg/enums"
	"github.com/nirajw/eshop-storefront/pkg/kvstore"
	"github.com/nirajw/eshop-storefront/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cart-test", Output: io.Discard})
}

type remoteCall struct {
	op        string
	userID    int64
	productID int64
	quantity  int
}

// stubRemote records calls and fails whole operations on demand.
type stubRemote struct {
	mu      sync.Mutex
	calls   []remoteCall
	failAll bool
	fetched []api.RemoteCartLine
}

func (s *stubRemote) record(call remoteCall) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	if s.failAll {
		return errors.New("connection refused")
	}
	return nil
}

func (s *stubRemote) AddCartItem(_ context.Context, userID, productID int64, quantity int) error {
	return s.record(remoteCall{op: "add", userID: userID, productID: productID, quantity: quantity})
}

func (s *stubRemote) RemoveCartItem(_ context.Context, userID, productID int64) error {
	return s.record(remoteCall{op: "remove", userID: userID, productID: productID})
}

func (s *stubRemote) ClearCart(_ context.Context, userID int64) error {
	return s.record(remoteCall{op: "clear", userID: userID})
}

func (s *stubRemote) FetchCart(_ context.Context, userID int64) ([]api.RemoteCartLine, error) {
	if err := s.record(remoteCall{op: "fetch", userID: userID}); err != nil {
		return nil, err
	}
	return s.fetched, nil
}

func (s *stubRemote) callsFor(op string) []remoteCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []remoteCall
	for _, call := range s.calls {
		if call.op == op {
			out = append(out, call)
		}
	}
	return out
}

type stubNotifier struct {
	successes []string
	failures  []string
}

func (n *stubNotifier) Success(msg string) { n.successes = append(n.successes, msg) }
func (n *stubNotifier) Error(msg string)   { n.failures = append(n.failures, msg) }

type stubNavigator struct {
	pages []ui.Page
}

func (n *stubNavigator) GoTo(page ui.Page) { n.pages = append(n.pages, page) }

type stubDisplay struct {
	counts []int
	hidden int
}

func (d *stubDisplay) SetCount(n int) { d.counts = append(d.counts, n) }
func (d *stubDisplay) Hide()          { d.hidden++ }

// blockingDisplay parks inside SetCount until released, so a broadcast can be
// held in flight from a test.
type blockingDisplay struct {
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (d *blockingDisplay) SetCount(int) {
	d.calls.Add(1)
	d.entered <- struct{}{}
	<-d.release
}

func (d *blockingDisplay) Hide() {}

type fixture struct {
	storage   *kvstore.MemoryStore
	sessions  *session.Store
	local     *LocalStore
	pending   *PendingStore
	remote    *stubRemote
	notifier  *stubNotifier
	navigator *stubNavigator
	manager   *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logg := testLogger()
	storage := kvstore.NewMemory()

	sessions, err := session.NewStore(storage, logg)
	if err != nil {
		t.Fatalf("session.NewStore: %v", err)
	}
	local, err := NewLocalStore(storage, logg)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	pending, err := NewPendingStore(storage, logg, 30*time.Minute)
	if err != nil {
		t.Fatalf("NewPendingStore: %v", err)
	}
	remote := &stubRemote{}
	remoteClient, err := NewRemoteClient(remote, logg)
	if err != nil {
		t.Fatalf("NewRemoteClient: %v", err)
	}
	notifier := &stubNotifier{}
	navigator := &stubNavigator{}

	manager, err := NewManager(ManagerParams{
		Sessions:  sessions,
		Local:     local,
		Pending:   pending,
		Remote:    remoteClient,
		Notifier:  notifier,
		Navigator: navigator,
		Logger:    logg,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return &fixture{
		storage:   storage,
		sessions:  sessions,
		local:     local,
		pending:   pending,
		remote:    remote,
		notifier:  notifier,
		navigator: navigator,
		manager:   manager,
	}
}

func (f *fixture) login(t *testing.T, userID int64) session.Session {
	t.Helper()
	sess := session.Session{UserID: userID, Username: "shopper"}
	if err := f.sessions.Save(context.Background(), sess, "tok"); err != nil {
		t.Fatalf("save session: %v", err)
	}
	return sess
}

func widget() api.Product {
	return api.Product{ID: 10, Name: "Widget", PriceCents: 1500, StockQuantity: 5}
}

func TestAnonymousAddCapturesPendingWithoutCartWrite(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if err := f.manager.AddToCart(ctx, widget(), 2); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	if got := f.local.Read(ctx, session.Session{}); !got.IsEmpty() {
		t.Errorf("anonymous cart written: %+v", got)
	}
	if len(f.navigator.pages) != 1 || f.navigator.pages[0] != ui.PageLogin {
		t.Errorf("navigation = %v, want login", f.navigator.pages)
	}
	if len(f.notifier.failures) != 1 || len(f.notifier.successes) != 0 {
		t.Errorf("login prompt not on the error channel: %+v", f.notifier)
	}
	if calls := f.remote.callsFor("add"); len(calls) != 0 {
		t.Errorf("remote add issued for anonymous visitor: %v", calls)
	}

	action, ok := f.pending.Consume(ctx, time.Now())
	if !ok {
		t.Fatal("pending action not captured")
	}
	if action.ProductID != 10 || action.Quantity != 2 {
		t.Errorf("unexpected pending action %+v", action)
	}
}

func TestAuthenticatedAddWritesLocallyAndMirrors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	sess := f.login(t, 7)

	if err := f.manager.AddToCart(ctx, widget(), 1); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if err := f.manager.AddToCart(ctx, widget(), 2); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	cart := f.local.Read(ctx, sess)
	if len(cart) != 1 || cart[0].Quantity != 3 {
		t.Fatalf("cart = %+v, want one line qty 3", cart)
	}
	if calls := f.remote.callsFor("add"); len(calls) != 2 || calls[1].quantity != 2 {
		t.Errorf("remote adds = %v", calls)
	}
}

func TestAddSucceedsLocallyWhenRemoteFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.remote.failAll = true
	ctx := context.Background()
	sess := f.login(t, 7)

	if err := f.manager.AddToCart(ctx, widget(), 1); err != nil {
		t.Fatalf("AddToCart with remote down: %v", err)
	}
	if cart := f.local.Read(ctx, sess); cart.TotalQuantity() != 1 {
		t.Errorf("local cart = %+v", cart)
	}
}

func TestOutOfStockAddIsRejected(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.login(t, 7)

	product := widget()
	product.StockQuantity = 0
	if err := f.manager.AddToCart(context.Background(), product, 1); err == nil {
		t.Fatal("expected validation error")
	}
	if len(f.notifier.failures) != 1 {
		t.Errorf("failure notifications = %v", f.notifier.failures)
	}
}

func TestOnLoginFlushesAnonymousCartToRemoteOnce(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	anon := Cart{{ProductID: 1, Name: "Mug", UnitPriceCents: 850, Quantity: 2}}
	if err := f.local.Write(ctx, session.Session{}, anon); err != nil {
		t.Fatalf("seed anonymous cart: %v", err)
	}

	sess := f.login(t, 42)
	if err := f.manager.OnLogin(ctx, sess); err != nil {
		t.Fatalf("OnLogin: %v", err)
	}

	// The flush is one-directional: lines go to the server, never into the
	// per-user local key.
	adds := f.remote.callsFor("add")
	if len(adds) != 1 || adds[0].userID != 42 || adds[0].productID != 1 || adds[0].quantity != 2 {
		t.Fatalf("remote adds = %+v", adds)
	}
	if got := f.local.Read(ctx, sess); !got.IsEmpty() {
		t.Errorf("anonymous lines copied into per-user cart: %+v", got)
	}
	if got := f.local.Read(ctx, session.Session{}); !got.IsEmpty() {
		t.Errorf("anonymous cart survived flush: %+v", got)
	}

	// A second login must not flush again.
	if err := f.manager.OnLogin(ctx, sess); err != nil {
		t.Fatalf("second OnLogin: %v", err)
	}
	if got := f.remote.callsFor("add"); len(got) != 1 {
		t.Errorf("remote adds after second login = %+v", got)
	}
}

func TestOnLoginReplaysPendingExactlyOnce(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if err := f.manager.AddToCart(ctx, widget(), 1); err != nil {
		t.Fatalf("anonymous AddToCart: %v", err)
	}

	sess := f.login(t, 42)
	if err := f.manager.OnLogin(ctx, sess); err != nil {
		t.Fatalf("OnLogin: %v", err)
	}
	if got := f.local.Read(ctx, sess).TotalQuantity(); got != 1 {
		t.Fatalf("cart after replay = %d, want 1", got)
	}

	if err := f.manager.OnLogin(ctx, sess); err != nil {
		t.Fatalf("second OnLogin: %v", err)
	}
	if got := f.local.Read(ctx, sess).TotalQuantity(); got != 1 {
		t.Errorf("pending replayed twice, quantity = %d", got)
	}
}

func TestCountBroadcast(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	sess := f.login(t, 7)

	display := &stubDisplay{}
	f.manager.RegisterCountDisplay(display)

	cart := Cart{
		{ProductID: 1, Name: "Mug", UnitPriceCents: 850, Quantity: 2},
		{ProductID: 2, Name: "Lamp", UnitPriceCents: 1999, Quantity: 3},
	}
	if err := f.local.Write(ctx, sess, cart); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	f.manager.PublishCount(ctx)
	if len(display.counts) != 1 || display.counts[0] != 5 {
		t.Errorf("counts = %v, want [5]", display.counts)
	}

	if err := f.manager.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if display.hidden == 0 {
		t.Error("display not hidden at zero")
	}
}

func TestPublishCountDropsOverlappingRecomputation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	sess := f.login(t, 7)

	cart := Cart{{ProductID: 1, Name: "Mug", UnitPriceCents: 850, Quantity: 2}}
	if err := f.local.Write(ctx, sess, cart); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	display := &blockingDisplay{entered: make(chan struct{}), release: make(chan struct{})}
	f.manager.RegisterCountDisplay(display)

	done := make(chan struct{})
	go func() {
		f.manager.PublishCount(ctx)
		close(done)
	}()
	<-display.entered

	// The first broadcast is parked inside the display; an overlapping
	// trigger must return without a second update.
	f.manager.PublishCount(ctx)
	if got := display.calls.Load(); got != 1 {
		t.Fatalf("display updated %d times with a broadcast in flight", got)
	}

	close(display.release)
	<-done
	if got := display.calls.Load(); got != 1 {
		t.Errorf("display updated %d times, want 1", got)
	}
}

func TestUpdateQuantityRemovesAtZero(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	sess := f.login(t, 7)

	if err := f.manager.AddToCart(ctx, widget(), 2); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if err := f.manager.UpdateQuantity(ctx, 10, -2); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if got := f.local.Read(ctx, sess); !got.IsEmpty() {
		t.Errorf("line survived decrement to zero: %+v", got)
	}
	if calls := f.remote.callsFor("remove"); len(calls) == 0 {
		t.Error("remote remove not issued")
	}
}

func TestOnLogoutFlushesAndClearsPerUserKey(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	sess := f.login(t, 7)

	if err := f.manager.AddToCart(ctx, widget(), 2); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	f.remote.failAll = true

	if err := f.manager.OnLogout(ctx, sess); err != nil {
		t.Fatalf("OnLogout with remote down: %v", err)
	}
	if got := f.local.Read(ctx, sess); !got.IsEmpty() {
		t.Errorf("per-user cart survived logout: %+v", got)
	}
}

func TestCartsAreKeyedPerUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	first := f.login(t, 1)
	if err := f.manager.AddToCart(ctx, widget(), 3); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if err := f.manager.OnLogout(ctx, first); err != nil {
		t.Fatalf("OnLogout: %v", err)
	}
	if err := f.sessions.Clear(ctx); err != nil {
		t.Fatalf("clear session: %v", err)
	}

	second := f.login(t, 2)
	if got := f.local.Read(ctx, second); !got.IsEmpty() {
		t.Errorf("user 2 sees user 1 cart: %+v", got)
	}
}

func TestRefreshTrustsServerOnlyOnSuccess(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	sess := f.login(t, 7)

	if err := f.manager.AddToCart(ctx, widget(), 1); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	f.remote.fetched = []api.RemoteCartLine{
		{ProductID: 99, Name: "Poster", PriceCents: 1200, Quantity: 4},
	}
	if err := f.manager.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	cart := f.local.Read(ctx, sess)
	if len(cart) != 1 || cart[0].ProductID != 99 || cart[0].Quantity != 4 {
		t.Fatalf("cart after refresh = %+v", cart)
	}

	f.remote.failAll = true
	if err := f.manager.Refresh(ctx); err != nil {
		t.Fatalf("Refresh with remote down: %v", err)
	}
	if got := f.local.Read(ctx, sess); len(got) != 1 || got[0].ProductID != 99 {
		t.Errorf("failed fetch overwrote local cart: %+v", got)
	}
}

func TestRemoteFailureOutcomeIsNetworkError(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.remote.failAll = true

	client, err := NewRemoteClient(f.remote, testLogger())
	if err != nil {
		t.Fatalf("NewRemoteClient: %v", err)
	}
	if got := client.Add(context.Background(), 1, 2, 1); got != enums.SyncOutcomeNetworkError {
		t.Errorf("outcome = %s, want %s", got, enums.SyncOutcomeNetworkError)
	}
}
