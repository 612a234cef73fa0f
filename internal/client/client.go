// Package client is a thin HTTP client for the storefront API, used by the
// shopctl command.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/suprmushrooms/storefront/internal/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return e.Message
}

// IsClientError reports whether the API rejected the request as invalid
// (4xx) rather than failing internally.
func IsClientError(err error) bool {
	apiErr, ok := err.(*apiError)
	return ok && apiErr.Status >= 400 && apiErr.Status < 500
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = fmt.Sprintf("%s %s: unexpected status %d", method, path, resp.StatusCode)
		}
		return &apiError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type ProductPage struct {
	Items      []models.Product `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

func (c *Client) ListProducts(ctx context.Context, page int) (*ProductPage, error) {
	var result ProductPage
	path := fmt.Sprintf("/api/products?page=%d", page)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id.String()), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

type CouponPreview struct {
	Code               string          `json:"code"`
	DiscountPercentage int             `json:"discount_percentage"`
	Discount           decimal.Decimal `json:"discount"`
	FinalTotal         decimal.Decimal `json:"final_total"`
}

func (c *Client) ValidateCoupon(ctx context.Context, code string, orderTotal decimal.Decimal) (*CouponPreview, error) {
	var preview CouponPreview
	body := map[string]interface{}{
		"code":        code,
		"order_total": orderTotal,
	}
	if err := c.do(ctx, http.MethodPost, "/api/coupons/validate", body, &preview); err != nil {
		return nil, err
	}
	return &preview, nil
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

type PlaceOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress string             `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
	PaymentProofURL *string            `json:"payment_proof_url,omitempty"`
	CouponCode      *string            `json:"coupon_code,omitempty"`
	UserID          *uuid.UUID         `json:"user_id,omitempty"`
	GuestEmail      *string            `json:"guest_email,omitempty"`
}

type PlaceOrderResponse struct {
	Success bool      `json:"success"`
	OrderID uuid.UUID `json:"orderId"`
	Message string    `json:"message"`
}

func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*PlaceOrderResponse, error) {
	var result PlaceOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id.String()), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
