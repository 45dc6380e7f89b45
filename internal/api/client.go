// Package api is the typed client for the storefront backend REST API. Every
// method maps transport failures onto coded errors; callers decide whether an
// operation is foreground (login) or background (cart sync).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nirajw/eshop-storefront/pkg/config"
	pkgerrors "github.com/nirajw/eshop-storefront/pkg/errors"
	"github.com/nirajw/eshop-storefront/pkg/logger"
)

const errorBodyReadLimit int64 = 1024

// Client issues requests against the backend API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the backend client from configuration.
func NewClient(cfg config.APIConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "api base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Health pings the backend health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.getJSON(ctx, "health", &struct{}{})
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), strings.TrimLeft(path, "/"))
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, "", dest)
}

func (c *Client) postJSON(ctx context.Context, path string, body, dest any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, "", dest)
}

// doJSON executes one request. A non-2xx response surfaces as CodeDependency
// with the status and trimmed body attached, so fire-and-forget callers can
// classify rejection vs transport failure.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, token string, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		if c.logger != nil {
			c.logger.Debug(c.logger.WithField(ctx, "status", resp.StatusCode), "backend rejected "+path)
		}
		return pkgerrors.
			New(pkgerrors.CodeDependency, fmt.Sprintf("request %s failed", path)).
			WithDetails(statusDetails{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))})
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response")
	}
	return nil
}

type statusDetails struct {
	Status int    `json:"status"`
	Body   string `json:"body,omitempty"`
}

// StatusOf extracts the HTTP status recorded on a request error, or 0.
func StatusOf(err error) int {
	typed := pkgerrors.As(err)
	if typed == nil {
		return 0
	}
	if details, ok := typed.Details().(statusDetails); ok {
		return details.Status
	}
	return 0
}
