package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/nirajw/eshop-storefront/pkg/errors"
	"github.com/nirajw/eshop-storefront/pkg/money"
)

// NewProduct is the admin create-product form payload.
type NewProduct struct {
	Name          string
	Description   string
	PriceCents    int64
	StockQuantity int
	CategoryID    int64
	Brand         string
}

// CreateProduct submits the create-product form. The backend takes form
// fields, not JSON, on this endpoint.
func (c *Client) CreateProduct(ctx context.Context, product NewProduct) (*Product, error) {
	form := url.Values{}
	form.Set("name", product.Name)
	form.Set("description", product.Description)
	form.Set("price", strconv.FormatFloat(money.ToDollars(product.PriceCents), 'f', 2, 64))
	form.Set("stockQuantity", strconv.Itoa(product.StockQuantity))
	form.Set("categoryId", strconv.FormatInt(product.CategoryID, 10))
	if product.Brand != "" {
		form.Set("brand", product.Brand)
	}

	var wire productWire
	if err := c.postForm(ctx, "admin/products", form, &wire); err != nil {
		return nil, err
	}
	created := wire.toProduct()
	return &created, nil
}

// UpdateProduct issues the (backend-stubbed) product update.
func (c *Client) UpdateProduct(ctx context.Context, id int64, fields map[string]any) error {
	return c.doJSON(ctx, http.MethodPut, fmt.Sprintf("admin/products/%d", id), fields, "", nil)
}

// DeleteProduct removes one product.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("admin/products/%d", id), nil, "", nil)
}

// CreateCategory submits the create-category form.
func (c *Client) CreateCategory(ctx context.Context, name, description string) (*Category, error) {
	form := url.Values{}
	form.Set("name", name)
	form.Set("description", description)

	var category Category
	if err := c.postForm(ctx, "admin/categories", form, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

// PurgeResult reports what a destructive maintenance call touched.
type PurgeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Deleted int    `json:"deletedCount"`
	Updated int    `json:"updatedCount"`
}

// DeleteAllProducts wipes the entire catalog.
func (c *Client) DeleteAllProducts(ctx context.Context) (*PurgeResult, error) {
	var result PurgeResult
	if err := c.doJSON(ctx, http.MethodDelete, "admin/delete-all-products", nil, "", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FixProductImages rewrites broken catalog image URLs server-side.
func (c *Client) FixProductImages(ctx context.Context) (*PurgeResult, error) {
	var result PurgeResult
	if err := c.postJSON(ctx, "admin/fix-product-images", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ProductsCount is the admin stats payload.
type ProductsCount struct {
	Success         bool           `json:"success"`
	TotalProducts   int            `json:"totalProducts"`
	TotalCategories int            `json:"totalCategories"`
	CategoryCount   map[string]int `json:"categoryCount"`
}

// GetProductsCount fetches catalog totals for the dashboard.
func (c *Client) GetProductsCount(ctx context.Context) (*ProductsCount, error) {
	var counts ProductsCount
	if err := c.getJSON(ctx, "admin/products-count", &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}

// ProductDebugInfo flags products with missing or placeholder images.
type ProductDebugInfo struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ImageURL      string `json:"imageUrl"`
	HasImage      bool   `json:"hasImage"`
	IsPlaceholder bool   `json:"isPlaceholder"`
}

// DebugProducts fetches the per-product image diagnostics.
func (c *Client) DebugProducts(ctx context.Context) ([]ProductDebugInfo, error) {
	var wire struct {
		Success  bool               `json:"success"`
		Products []ProductDebugInfo `json:"products"`
	}
	if err := c.getJSON(ctx, "admin/debug-products", &wire); err != nil {
		return nil, err
	}
	return wire.Products, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(path), strings.NewReader(form.Encode()))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return pkgerrors.
			New(pkgerrors.CodeDependency, fmt.Sprintf("request %s failed", path)).
			WithDetails(statusDetails{Status: resp.StatusCode})
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	return nil
}
