package api

import (
	"context"
	"fmt"

	"github.com/nirajw/eshop-storefront/pkg/money"
)

// Product mirrors the backend catalog entry, with the price converted to
// cents at the boundary.
type Product struct {
	ID            int64
	Name          string
	Description   string
	PriceCents    int64
	StockQuantity int
	ImageURL      string
	Brand         string
	Category      *Category
}

// Category is a product grouping.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// InStock reports whether the product can currently be added to a cart.
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}

type productWire struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stockQuantity"`
	ImageURL      string    `json:"imageUrl"`
	Brand         string    `json:"brand"`
	Category      *Category `json:"category"`
}

func (w productWire) toProduct() Product {
	return Product{
		ID:            w.ID,
		Name:          w.Name,
		Description:   w.Description,
		PriceCents:    money.FromDollars(w.Price),
		StockQuantity: w.StockQuantity,
		ImageURL:      w.ImageURL,
		Brand:         w.Brand,
		Category:      w.Category,
	}
}

func toProducts(wires []productWire) []Product {
	products := make([]Product, 0, len(wires))
	for _, w := range wires {
		products = append(products, w.toProduct())
	}
	return products
}

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var wires []productWire
	if err := c.getJSON(ctx, "products", &wires); err != nil {
		return nil, err
	}
	return toProducts(wires), nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var wire productWire
	if err := c.getJSON(ctx, fmt.Sprintf("products/%d", id), &wire); err != nil {
		return nil, err
	}
	product := wire.toProduct()
	return &product, nil
}

// ListProductsByCategory fetches the products in one category.
func (c *Client) ListProductsByCategory(ctx context.Context, categoryID int64) ([]Product, error) {
	var wires []productWire
	if err := c.getJSON(ctx, fmt.Sprintf("products/category/%d", categoryID), &wires); err != nil {
		return nil, err
	}
	return toProducts(wires), nil
}

// ListCategories fetches all categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.getJSON(ctx, "categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
