// Package checkout turns the current cart into an order: totals, shipping
// form validation, local order record, and a best-effort submission to the
// backend. The local history is what the shopper sees afterwards.
package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nirajw/eshop-storefront/internal/api"
	"github.com/nirajw/eshop-storefront/internal/cart"
	"github.com/nirajw/eshop-storefront/internal/orders"
	"github.com/nirajw/eshop-storefront/internal/session"
	"github.com/nirajw/eshop-storefront/pkg/config"
	"github.com/nirajw/eshop-storefront/pkg/enums"
	pkgerrors "github.com/nirajw/eshop-storefront/pkg/errors"
	"github.com/nirajw/eshop-storefront/pkg/logger"
	"github.com/nirajw/eshop-storefront/pkg/money"
	"github.com/nirajw/eshop-storefront/pkg/validation"
)

// OrderAPI is the slice of the backend client checkout needs.
type OrderAPI interface {
	CreateOrder(ctx context.Context, order api.OrderSubmission, token string) error
}

// ServiceParams carries the checkout dependencies.
type ServiceParams struct {
	Config   config.CheckoutConfig
	Sessions *session.Store
	Cart     *cart.Manager
	Orders   *orders.Store
	API      OrderAPI
	Logger   *logger.Logger
}

// Service places orders.
type Service struct {
	cfg      config.CheckoutConfig
	sessions *session.Store
	cart     *cart.Manager
	orders   *orders.Store
	api      OrderAPI
	logg     *logger.Logger
}

// NewService validates dependencies and builds the checkout service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout: session store is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout: cart manager is required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout: order store is required")
	}
	if params.API == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout: api client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout: logger is required")
	}
	return &Service{
		cfg:      params.Config,
		sessions: params.Sessions,
		cart:     params.Cart,
		orders:   params.Orders,
		api:      params.API,
		logg:     params.Logger,
	}, nil
}

// Totals is the checkout price breakdown in cents.
type Totals struct {
	SubtotalCents int64
	ShippingCents int64
	TaxCents      int64
	TotalCents    int64
}

// Totals computes the breakdown for a cart. An empty cart costs nothing:
// shipping applies only when there is a subtotal. Tax is rounded half-up.
func (s *Service) Totals(c cart.Cart) Totals {
	subtotal := c.SubtotalCents()

	var shipping int64
	if subtotal > 0 {
		shipping = s.cfg.ShippingFlatCents
	}
	tax := money.ApplyRate(subtotal, s.cfg.TaxRate)

	return Totals{
		SubtotalCents: subtotal,
		ShippingCents: shipping,
		TaxCents:      tax,
		TotalCents:    subtotal + shipping + tax,
	}
}

// ShippingForm is the checkout address form.
type ShippingForm struct {
	FullName      string `json:"fullName" validate:"required"`
	Address       string `json:"address" validate:"required"`
	City          string `json:"city" validate:"required"`
	ZipCode       string `json:"zipCode" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"required"`
}

// PlaceOrder validates the form, records the order locally, submits it to the
// backend best-effort, and clears the cart. An empty cart is rejected before
// anything is written.
func (s *Service) PlaceOrder(ctx context.Context, form ShippingForm) (*orders.Order, error) {
	sess, authed := s.sessions.Current(ctx)
	if !authed {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "log in to check out")
	}
	if err := validation.Struct(form); err != nil {
		return nil, err
	}

	current := s.cart.Cart(ctx)
	if current.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "your cart is empty")
	}
	totals := s.Totals(current)

	order := orders.Order{
		ID:     uuid.NewString(),
		UserID: sess.UserID,
		Shipping: orders.Shipping{
			FullName: form.FullName,
			Address:  form.Address,
			City:     form.City,
			ZipCode:  form.ZipCode,
		},
		PaymentMethod: form.PaymentMethod,
		SubtotalCents: totals.SubtotalCents,
		ShippingCents: totals.ShippingCents,
		TaxCents:      totals.TaxCents,
		TotalCents:    totals.TotalCents,
		Status:        enums.OrderStatusConfirmed,
		CreatedAt:     time.Now().UTC(),
	}
	for _, line := range current {
		order.Items = append(order.Items, orders.Item{
			ProductID:      line.ProductID,
			Name:           line.Name,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
		})
	}

	if err := s.orders.Append(ctx, order); err != nil {
		return nil, err
	}

	// The backend copy is best-effort; the local record already stands.
	if err := s.api.CreateOrder(ctx, s.submission(order), s.sessions.Token(ctx)); err != nil {
		s.logg.Error(s.logg.WithOperation(ctx, "checkout.submit"), "submit order to backend", err)
	}

	if err := s.cart.Clear(ctx); err != nil {
		s.logg.Error(ctx, "clear cart after checkout", err)
	}
	return &order, nil
}

// submission converts the local record to the backend wire shape, prices in
// dollars.
func (s *Service) submission(order orders.Order) api.OrderSubmission {
	items := make([]api.OrderLine, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, api.OrderLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     money.ToDollars(item.UnitPriceCents),
			Quantity:  item.Quantity,
		})
	}
	return api.OrderSubmission{
		Items: items,
		ShippingInfo: api.ShippingInfo{
			FullName: order.Shipping.FullName,
			Address:  order.Shipping.Address,
			City:     order.Shipping.City,
			ZipCode:  order.Shipping.ZipCode,
		},
		PaymentMethod: order.PaymentMethod,
		Total:         money.ToDollars(order.TotalCents),
	}
}
