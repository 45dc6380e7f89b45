package checkout

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/nirajw/eshop-storefront/internal/api"
	"github.com/nirajw/eshop-storefront/internal/cart"
	"github.com/nirajw/eshop-storefront/internal/orders"
	"github.com/nirajw/eshop-storefront/internal/session"
	"github.com/nirajw/eshop-storefront/pkg/config"
	"github.com/nirajw/eshop-storefront/pkg/enums"
	pkgerrors "github.com/nirajw/eshop-storefront/pkg/errors"
	"github.com/nirajw/eshop-storefront/pkg/kvstore"
	"github.com/nirajw/eshop-storefront/pkg/logger"
)

type stubCartAPI struct{}

func (stubCartAPI) AddCartItem(context.Context, int64, int64, int) error { return nil }
func (stubCartAPI) RemoveCartItem(context.Context, int64, int64) error   { return nil }
func (stubCartAPI) ClearCart(context.Context, int64) error               { return nil }
func (stubCartAPI) FetchCart(context.Context, int64) ([]api.RemoteCartLine, error) {
	return nil, nil
}

type stubOrderAPI struct {
	submissions []api.OrderSubmission
	tokens      []string
	err         error
}

func (s *stubOrderAPI) CreateOrder(_ context.Context, order api.OrderSubmission, token string) error {
	s.submissions = append(s.submissions, order)
	s.tokens = append(s.tokens, token)
	return s.err
}

type fixture struct {
	sessions *session.Store
	manager  *cart.Manager
	orders   *orders.Store
	orderAPI *stubOrderAPI
	service  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard})
	storage := kvstore.NewMemory()

	sessions, err := session.NewStore(storage, logg)
	if err != nil {
		t.Fatalf("session.NewStore: %v", err)
	}
	local, err := cart.NewLocalStore(storage, logg)
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	pending, err := cart.NewPendingStore(storage, logg, 0)
	if err != nil {
		t.Fatalf("NewPendingStore: %v", err)
	}
	remote, err := cart.NewRemoteClient(stubCartAPI{}, logg)
	if err != nil {
		t.Fatalf("NewRemoteClient: %v", err)
	}
	manager, err := cart.NewManager(cart.ManagerParams{
		Sessions: sessions,
		Local:    local,
		Pending:  pending,
		Remote:   remote,
		Logger:   logg,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	orderStore, err := orders.NewStore(storage, logg)
	if err != nil {
		t.Fatalf("orders.NewStore: %v", err)
	}
	orderAPI := &stubOrderAPI{}

	service, err := NewService(ServiceParams{
		Config:   config.CheckoutConfig{ShippingFlatCents: 599, TaxRate: 0.08},
		Sessions: sessions,
		Cart:     manager,
		Orders:   orderStore,
		API:      orderAPI,
		Logger:   logg,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &fixture{
		sessions: sessions,
		manager:  manager,
		orders:   orderStore,
		orderAPI: orderAPI,
		service:  service,
	}
}

func (f *fixture) loginWithCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	sess := session.Session{UserID: 7, Username: "shopper"}
	if err := f.sessions.Save(ctx, sess, "tok-7"); err != nil {
		t.Fatalf("save session: %v", err)
	}
	product := api.Product{ID: 1, Name: "Headphones", PriceCents: 4200, StockQuantity: 3}
	if err := f.manager.AddToCart(ctx, product, 1); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
}

func validForm() ShippingForm {
	return ShippingForm{
		FullName:      "Niraj W",
		Address:       "1 Main St",
		City:          "Springfield",
		ZipCode:       "12345",
		PaymentMethod: "card",
	}
}

func TestTotalsVector(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	c := cart.Cart{{ProductID: 1, Name: "Headphones", UnitPriceCents: 4200, Quantity: 1}}
	totals := f.service.Totals(c)

	if totals.SubtotalCents != 4200 {
		t.Errorf("subtotal = %d, want 4200", totals.SubtotalCents)
	}
	if totals.ShippingCents != 599 {
		t.Errorf("shipping = %d, want 599", totals.ShippingCents)
	}
	if totals.TaxCents != 336 {
		t.Errorf("tax = %d, want 336", totals.TaxCents)
	}
	if totals.TotalCents != 5135 {
		t.Errorf("total = %d, want 5135", totals.TotalCents)
	}
}

func TestTotalsHonorsZeroRateConfig(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	service, err := NewService(ServiceParams{
		Config:   config.CheckoutConfig{ShippingFlatCents: 0, TaxRate: 0},
		Sessions: f.sessions,
		Cart:     f.manager,
		Orders:   f.orders,
		API:      f.orderAPI,
		Logger:   logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	c := cart.Cart{{ProductID: 1, Name: "Headphones", UnitPriceCents: 4200, Quantity: 1}}
	totals := service.Totals(c)
	if totals.ShippingCents != 0 || totals.TaxCents != 0 {
		t.Errorf("free-shipping zero-tax config produced %+v", totals)
	}
	if totals.TotalCents != 4200 {
		t.Errorf("total = %d, want 4200", totals.TotalCents)
	}
}

func TestTotalsEmptyCartCostsNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	totals := f.service.Totals(cart.Cart{})
	if totals.SubtotalCents != 0 || totals.ShippingCents != 0 || totals.TaxCents != 0 || totals.TotalCents != 0 {
		t.Errorf("totals = %+v, want all zero", totals)
	}
}

func TestPlaceOrderRecordsLocallyAndClearsCart(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.loginWithCart(t)

	order, err := f.service.PlaceOrder(ctx, validForm())
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if order.ID == "" {
		t.Error("order has no id")
	}
	if order.TotalCents != 5135 {
		t.Errorf("total = %d, want 5135", order.TotalCents)
	}

	history := f.orders.ListForUser(ctx, 7)
	if len(history) != 1 || history[0].ID != order.ID {
		t.Errorf("history = %+v", history)
	}
	if got := f.manager.Cart(ctx); !got.IsEmpty() {
		t.Errorf("cart not cleared: %+v", got)
	}

	if len(f.orderAPI.submissions) != 1 {
		t.Fatalf("backend submissions = %d", len(f.orderAPI.submissions))
	}
	if f.orderAPI.tokens[0] != "tok-7" {
		t.Errorf("token = %q", f.orderAPI.tokens[0])
	}
	if got := f.orderAPI.submissions[0].Total; got != 51.35 {
		t.Errorf("wire total = %v, want 51.35", got)
	}
}

func TestPlaceOrderSucceedsWhenBackendFails(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.orderAPI.err = errors.New("connection refused")
	f.loginWithCart(t)

	order, err := f.service.PlaceOrder(context.Background(), validForm())
	if err != nil {
		t.Fatalf("PlaceOrder with backend down: %v", err)
	}
	if order == nil || order.Status != enums.OrderStatusConfirmed {
		t.Errorf("order = %+v", order)
	}
	if len(f.orders.List(context.Background())) != 1 {
		t.Error("local record missing")
	}
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	if err := f.sessions.Save(ctx, session.Session{UserID: 7}, "tok"); err != nil {
		t.Fatalf("save session: %v", err)
	}

	_, err := f.service.PlaceOrder(ctx, validForm())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want VALIDATION", err)
	}
	if len(f.orders.List(ctx)) != 0 {
		t.Error("empty-cart checkout wrote an order")
	}
	if len(f.orderAPI.submissions) != 0 {
		t.Error("empty-cart checkout hit the backend")
	}
}

func TestPlaceOrderValidatesShippingForm(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.loginWithCart(t)

	form := validForm()
	form.City = ""
	_, err := f.service.PlaceOrder(context.Background(), form)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("err = %v, want VALIDATION", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["city"] == "" {
		t.Errorf("details = %v", typed.Details())
	}
}

func TestPlaceOrderRequiresLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.service.PlaceOrder(context.Background(), validForm())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("err = %v, want UNAUTHORIZED", err)
	}
}
