package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/suprmushrooms/storefront/internal/models"
	"github.com/suprmushrooms/storefront/internal/server"
	"github.com/suprmushrooms/storefront/internal/store"
)

func postJSON(t *testing.T, ts *httptest.Server, path, body string) (int, map[string]interface{}) {
	t.Helper()

	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("Decode response: %v", err)
	}

	return resp.StatusCode, decoded
}

func TestOrderEndpoint(t *testing.T) {
	db, _, cleanup := setupTestDB(t)
	defer cleanup()

	ts := httptest.NewServer(server.New(db).Handler())
	defer ts.Close()

	productID := seedProduct(t, db, "API Kit", 100, 5, models.ProductStatusActive)
	seedCoupon(t, db, "SAVE10", 10, true, nil, nil)

	t.Run("tampered client price is ignored", func(t *testing.T) {
		// The request smuggles a price of 1; the decoder drops it and the
		// committed snapshot is the catalog price.
		body := fmt.Sprintf(`{
			"items": [{"productId": %q, "quantity": 2, "price": 1}],
			"shipping_address": "API Buyer, 9 Test Road",
			"payment_method": "Cash on Delivery",
			"coupon_code": "save10",
			"guest_email": "api@example.com"
		}`, productID)

		status, resp := postJSON(t, ts, "/api/orders", body)
		if status != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %v", status, resp)
		}
		if resp["success"] != true {
			t.Errorf("Expected success=true, got %v", resp["success"])
		}

		orderID, err := uuid.Parse(resp["orderId"].(string))
		if err != nil {
			t.Fatalf("Parse order id: %v", err)
		}

		order, err := store.GetOrder(context.Background(), db, orderID)
		if err != nil {
			t.Fatalf("Get order: %v", err)
		}
		if !order.Items[0].PriceAtOrder.Equal(decimal.NewFromInt(100)) {
			t.Errorf("Expected server price 100, got %s", order.Items[0].PriceAtOrder)
		}
		if !order.TotalAmount.Equal(decimal.NewFromInt(180)) {
			t.Errorf("Expected total 180 after coupon, got %s", order.TotalAmount)
		}
	})

	t.Run("insufficient stock is a 400 naming the product", func(t *testing.T) {
		body := fmt.Sprintf(`{
			"items": [{"productId": %q, "quantity": 50}],
			"shipping_address": "API Buyer, 9 Test Road",
			"payment_method": "Cash on Delivery",
			"guest_email": "api@example.com"
		}`, productID)

		status, resp := postJSON(t, ts, "/api/orders", body)
		if status != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d: %v", status, resp)
		}
		if msg, _ := resp["error"].(string); !strings.Contains(msg, "API Kit") {
			t.Errorf("Error should name the product, got %q", msg)
		}
	})

	t.Run("unknown coupon is a 400", func(t *testing.T) {
		body := fmt.Sprintf(`{
			"items": [{"productId": %q, "quantity": 1}],
			"shipping_address": "API Buyer, 9 Test Road",
			"payment_method": "Cash on Delivery",
			"coupon_code": "BOGUS",
			"guest_email": "api@example.com"
		}`, productID)

		status, _ := postJSON(t, ts, "/api/orders", body)
		if status != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", status)
		}
	})

	t.Run("missing buyer identity is a 400", func(t *testing.T) {
		body := fmt.Sprintf(`{
			"items": [{"productId": %q, "quantity": 1}],
			"shipping_address": "API Buyer, 9 Test Road",
			"payment_method": "Cash on Delivery"
		}`, productID)

		status, _ := postJSON(t, ts, "/api/orders", body)
		if status != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", status)
		}
	})
}

func TestCouponPreviewEndpoint(t *testing.T) {
	db, _, cleanup := setupTestDB(t)
	defer cleanup()

	ts := httptest.NewServer(server.New(db).Handler())
	defer ts.Close()

	seedCoupon(t, db, "CAPPED", 50, true, nil, int64Ptr(100))

	status, resp := postJSON(t, ts, "/api/coupons/validate", `{"code": "capped", "order_total": 1000}`)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %v", status, resp)
	}
	if resp["code"] != "CAPPED" {
		t.Errorf("Expected canonical code, got %v", resp["code"])
	}
	if resp["discount"] != "100" {
		t.Errorf("Expected capped discount 100, got %v", resp["discount"])
	}
	if resp["final_total"] != "900" {
		t.Errorf("Expected final total 900, got %v", resp["final_total"])
	}

	status, _ = postJSON(t, ts, "/api/coupons/validate", `{"code": "NOPE", "order_total": 100}`)
	if status != http.StatusBadRequest {
		t.Fatalf("Expected 400 for unknown coupon, got %d", status)
	}
}

func TestProductEndpoints(t *testing.T) {
	db, _, cleanup := setupTestDB(t)
	defer cleanup()

	ts := httptest.NewServer(server.New(db).Handler())
	defer ts.Close()

	productID := seedProduct(t, db, "Visible Kit", 100, 5, models.ProductStatusActive)

	resp, err := http.Get(ts.URL + "/api/products/" + productID.String())
	if err != nil {
		t.Fatalf("GET product: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	var product models.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		t.Fatalf("Decode product: %v", err)
	}
	if product.Name != "Visible Kit" {
		t.Errorf("Expected Visible Kit, got %q", product.Name)
	}

	missing, err := http.Get(ts.URL + "/api/products/" + uuid.NewString())
	if err != nil {
		t.Fatalf("GET missing product: %v", err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", missing.StatusCode)
	}
}
