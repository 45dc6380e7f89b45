// Package catalog implements product and category browsing. Listings are
// fetched through the backend client and searched, filtered, sorted, and
// paginated in memory, matching how the storefront renders its grids.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/nirajw/eshop-storefront/internal/api"
	"github.com/nirajw/eshop-storefront/pkg/enums"
	pkgerrors "github.com/nirajw/eshop-storefront/pkg/errors"
	"github.com/nirajw/eshop-storefront/pkg/logger"
	"github.com/nirajw/eshop-storefront/pkg/pagination"
)

// CatalogAPI is the slice of the backend client the catalog needs.
type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]api.Product, error)
	GetProduct(ctx context.Context, id int64) (*api.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int64) ([]api.Product, error)
	ListCategories(ctx context.Context) ([]api.Category, error)
}

// ServiceParams carries the catalog dependencies.
type ServiceParams struct {
	API    CatalogAPI
	Logger *logger.Logger
}

// Service is the browsing facade.
type Service struct {
	api  CatalogAPI
	logg *logger.Logger
}

// NewService validates dependencies and builds the catalog service.
func NewService(params ServiceParams) (*Service, error) {
	if params.API == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog: api client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog: logger is required")
	}
	return &Service{api: params.API, logg: params.Logger}, nil
}

// Query narrows and orders a product listing.
type Query struct {
	Search     string
	CategoryID int64
	PriceBand  enums.PriceBand
	Sort       enums.SortOption
	Page       int
	PageSize   int
}

// Listing is one rendered page of products.
type Listing struct {
	Products []api.Product
	Page     pagination.Page
}

// Categories loads all categories.
func (s *Service) Categories(ctx context.Context) ([]api.Category, error) {
	return s.api.ListCategories(ctx)
}

// Product loads one product by id.
func (s *Service) Product(ctx context.Context, id int64) (*api.Product, error) {
	return s.api.GetProduct(ctx, id)
}

// ProductsByCategory loads the products of one category.
func (s *Service) ProductsByCategory(ctx context.Context, categoryID int64) ([]api.Product, error) {
	return s.api.ListProductsByCategory(ctx, categoryID)
}

// List loads every product and applies the query: search, category and price
// filters, sort, then pagination with page clamping.
func (s *Service) List(ctx context.Context, query Query) (*Listing, error) {
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	filtered := Filter(products, query)
	Sort(filtered, query.Sort)

	page := pagination.Resolve(len(filtered), query.Page, query.PageSize)
	start, end := page.Bounds()
	return &Listing{Products: filtered[start:end], Page: page}, nil
}

// Featured returns the head of the listing for the home page hero grid.
func (s *Service) Featured(ctx context.Context, n int) ([]api.Product, error) {
	products, err := s.api.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	return head(products, n), nil
}

// CategoryPreview returns the first n products of a category.
func (s *Service) CategoryPreview(ctx context.Context, categoryID int64, n int) ([]api.Product, error) {
	products, err := s.api.ListProductsByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return head(products, n), nil
}

func head(products []api.Product, n int) []api.Product {
	if n < 0 {
		n = 0
	}
	if n > len(products) {
		n = len(products)
	}
	return products[:n]
}

// Filter applies the query's search text, category, and price band.
func Filter(products []api.Product, query Query) []api.Product {
	needle := strings.ToLower(strings.TrimSpace(query.Search))

	out := make([]api.Product, 0, len(products))
	for _, product := range products {
		if needle != "" && !matches(product, needle) {
			continue
		}
		if query.CategoryID != 0 && (product.Category == nil || product.Category.ID != query.CategoryID) {
			continue
		}
		if !query.PriceBand.Contains(product.PriceCents) {
			continue
		}
		out = append(out, product)
	}
	return out
}

// matches checks name, description, and brand case-insensitively.
func matches(product api.Product, needle string) bool {
	return strings.Contains(strings.ToLower(product.Name), needle) ||
		strings.Contains(strings.ToLower(product.Description), needle) ||
		strings.Contains(strings.ToLower(product.Brand), needle)
}

// Sort orders products in place. An unknown option leaves the listing in API
// order.
func Sort(products []api.Product, option enums.SortOption) {
	switch option {
	case enums.SortNameAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
		})
	case enums.SortNameDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return strings.ToLower(products[i].Name) > strings.ToLower(products[j].Name)
		})
	case enums.SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].PriceCents < products[j].PriceCents
		})
	case enums.SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].PriceCents > products[j].PriceCents
		})
	}
}
