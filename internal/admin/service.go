// Package admin is the role-gated dashboard service: catalog statistics,
// product and category management, destructive maintenance, and order status
// updates. Every operation checks the ADMIN role before any call goes out.
package admin

import (
	"context"

	"github.com/nirajw/eshop-storefront/internal/api"
	"github.com/nirajw/eshop-storefront/internal/orders"
	"github.com/nirajw/eshop-storefront/internal/session"
	"github.com/nirajw/eshop-storefront/pkg/enums"
	pkgerrors "github.com/nirajw/eshop-storefront/pkg/errors"
	"github.com/nirajw/eshop-storefront/pkg/logger"
)

// AdminAPI is the slice of the backend client the dashboard needs.
type AdminAPI interface {
	ListProducts(ctx context.Context) ([]api.Product, error)
	ListCategories(ctx context.Context) ([]api.Category, error)
	GetProductsCount(ctx context.Context) (*api.ProductsCount, error)
	CreateProduct(ctx context.Context, product api.NewProduct) (*api.Product, error)
	UpdateProduct(ctx context.Context, id int64, fields map[string]any) error
	DeleteProduct(ctx context.Context, id int64) error
	CreateCategory(ctx context.Context, name, description string) (*api.Category, error)
	DeleteAllProducts(ctx context.Context) (*api.PurgeResult, error)
	FixProductImages(ctx context.Context) (*api.PurgeResult, error)
	DebugProducts(ctx context.Context) ([]api.ProductDebugInfo, error)
}

// ServiceParams carries the dashboard dependencies.
type ServiceParams struct {
	API      AdminAPI
	Sessions *session.Store
	Orders   *orders.Store
	Logger   *logger.Logger
}

// Service is the dashboard facade.
type Service struct {
	api      AdminAPI
	sessions *session.Store
	orders   *orders.Store
	logg     *logger.Logger
}

// NewService validates dependencies and builds the dashboard service.
func NewService(params ServiceParams) (*Service, error) {
	if params.API == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "admin: api client is required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "admin: session store is required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "admin: order store is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "admin: logger is required")
	}
	return &Service{
		api:      params.API,
		sessions: params.Sessions,
		orders:   params.Orders,
		logg:     params.Logger,
	}, nil
}

func (s *Service) requireAdmin(ctx context.Context) error {
	sess, ok := s.sessions.Current(ctx)
	if !ok || !sess.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
	}
	return nil
}

// Stats is the dashboard summary.
type Stats struct {
	TotalProducts   int
	TotalCategories int
	CategoryCounts  map[string]int
	TotalOrders     int
	RevenueCents    int64
}

// Stats builds the dashboard numbers: catalog counts from the admin endpoint
// with a plain-listing fallback, order count and revenue from local history.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	stats := &Stats{}
	if counts, err := s.api.GetProductsCount(ctx); err == nil && counts.Success {
		stats.TotalProducts = counts.TotalProducts
		stats.TotalCategories = counts.TotalCategories
		stats.CategoryCounts = counts.CategoryCount
	} else {
		if err != nil {
			s.logg.Warn(s.logg.WithOperation(ctx, "admin.stats"), "products-count unavailable, falling back to listings")
		}
		products, listErr := s.api.ListProducts(ctx)
		if listErr != nil {
			return nil, listErr
		}
		categories, listErr := s.api.ListCategories(ctx)
		if listErr != nil {
			return nil, listErr
		}
		stats.TotalProducts = len(products)
		stats.TotalCategories = len(categories)
	}

	for _, order := range s.orders.List(ctx) {
		stats.TotalOrders++
		stats.RevenueCents += order.TotalCents
	}
	return stats, nil
}

// CreateProduct adds a product to the catalog.
func (s *Service) CreateProduct(ctx context.Context, product api.NewProduct) (*api.Product, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if product.Name == "" || product.PriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product needs a name and a positive price")
	}
	return s.api.CreateProduct(ctx, product)
}

// UpdateProduct patches a product.
func (s *Service) UpdateProduct(ctx context.Context, id int64, fields map[string]any) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if len(fields) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	return s.api.UpdateProduct(ctx, id, fields)
}

// DeleteProduct removes one product.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return s.api.DeleteProduct(ctx, id)
}

// CreateCategory adds a category.
func (s *Service) CreateCategory(ctx context.Context, name, description string) (*api.Category, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category needs a name")
	}
	return s.api.CreateCategory(ctx, name, description)
}

// DeleteAllProducts wipes the catalog.
func (s *Service) DeleteAllProducts(ctx context.Context) (*api.PurgeResult, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.api.DeleteAllProducts(ctx)
}

// FixProductImages repairs broken catalog image URLs.
func (s *Service) FixProductImages(ctx context.Context) (*api.PurgeResult, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.api.FixProductImages(ctx)
}

// DebugProducts returns the per-product image diagnostics.
func (s *Service) DebugProducts(ctx context.Context) ([]api.ProductDebugInfo, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.api.DebugProducts(ctx)
}

// Orders lists the recorded order history.
func (s *Service) Orders(ctx context.Context) ([]orders.Order, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.orders.List(ctx), nil
}

// UpdateOrderStatus moves an order through its lifecycle in the local record.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, status enums.OrderStatus) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	return s.orders.UpdateStatus(ctx, orderID, status)
}
