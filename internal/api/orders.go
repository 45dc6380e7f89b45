package api

import (
	"context"
	"net/http"
)

// OrderLine is one purchased line in an order submission.
type OrderLine struct {
	ProductID int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// ShippingInfo is the checkout address block.
type ShippingInfo struct {
	FullName string `json:"fullName"`
	Address  string `json:"address"`
	City     string `json:"city"`
	ZipCode  string `json:"zipCode"`
}

// OrderSubmission is the payload POSTed to the orders endpoint.
type OrderSubmission struct {
	Items         []OrderLine  `json:"items"`
	ShippingInfo  ShippingInfo `json:"shippingInfo"`
	PaymentMethod string       `json:"paymentMethod"`
	Total         float64      `json:"total"`
}

// CreateOrder submits the order with the bearer token attached. The local
// order record is authoritative either way; this call is best effort.
func (c *Client) CreateOrder(ctx context.Context, order OrderSubmission, token string) error {
	return c.doJSON(ctx, http.MethodPost, "orders", order, token, nil)
}
