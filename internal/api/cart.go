package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nirajw/eshop-storefront/pkg/money"
)

// RemoteCartLine is one server-side cart entry.
type RemoteCartLine struct {
	ProductID  int64
	Name       string
	PriceCents int64
	Quantity   int
}

type remoteCartWire struct {
	CartItems []struct {
		Quantity int `json:"quantity"`
		Product  struct {
			ID    int64   `json:"id"`
			Name  string  `json:"name"`
			Price float64 `json:"price"`
		} `json:"product"`
	} `json:"cartItems"`
}

// AddCartItem posts one add/increment to the server-side cart.
func (c *Client) AddCartItem(ctx context.Context, userID, productID int64, quantity int) error {
	body := map[string]any{
		"userId":    userID,
		"productId": productID,
		"quantity":  quantity,
	}
	return c.postJSON(ctx, "cart/add", body, nil)
}

// RemoveCartItem deletes one product from the server-side cart.
func (c *Client) RemoveCartItem(ctx context.Context, userID, productID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("cart/remove/%d/%d", userID, productID), nil, "", nil)
}

// ClearCart empties the server-side cart.
func (c *Client) ClearCart(ctx context.Context, userID int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("cart/clear/%d", userID), nil, "", nil)
}

// FetchCart retrieves the server-side cart. The result is authoritative only
// when the call succeeds.
func (c *Client) FetchCart(ctx context.Context, userID int64) ([]RemoteCartLine, error) {
	var wire remoteCartWire
	if err := c.getJSON(ctx, fmt.Sprintf("cart/%d", userID), &wire); err != nil {
		return nil, err
	}
	lines := make([]RemoteCartLine, 0, len(wire.CartItems))
	for _, item := range wire.CartItems {
		lines = append(lines, RemoteCartLine{
			ProductID:  item.Product.ID,
			Name:       item.Product.Name,
			PriceCents: money.FromDollars(item.Product.Price),
			Quantity:   item.Quantity,
		})
	}
	return lines, nil
}
