package server

import (
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/suprmushrooms/storefront/internal/database"
	"github.com/suprmushrooms/storefront/internal/store"
)

type orderItemPayload struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	// No price field: a client-supplied price is never decoded, let alone
	// trusted.
}

type placeOrderPayload struct {
	Items           []orderItemPayload `json:"items"`
	ShippingAddress string             `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
	PaymentProofURL *string            `json:"payment_proof_url"`
	CouponCode      *string            `json:"coupon_code"`
	UserID          *uuid.UUID         `json:"user_id"`
	GuestEmail      *string            `json:"guest_email"`
}

func (s *Server) placeOrder(c echo.Context) error {
	var payload placeOrderPayload
	if err := c.Bind(&payload); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	req := store.PlaceOrderRequest{
		ShippingAddress: payload.ShippingAddress,
		PaymentMethod:   payload.PaymentMethod,
		PaymentProofURL: payload.PaymentProofURL,
		CouponCode:      payload.CouponCode,
		UserID:          payload.UserID,
		GuestEmail:      payload.GuestEmail,
	}
	for _, item := range payload.Items {
		req.Items = append(req.Items, store.CartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := store.PlaceOrder(c.Request().Context(), s.db, req)
	if err != nil {
		if database.IsClientError(err) {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
		log.Printf("place order: %v", err)
		return respondError(c, http.StatusInternalServerError, "Order processing failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"orderId": order.ID,
		"message": "Order placed successfully",
	})
}

type validateCouponPayload struct {
	Code       string          `json:"code"`
	OrderTotal decimal.Decimal `json:"order_total"`
}

// validateCoupon previews a discount for the checkout UI. The preview is
// advisory: placeOrder re-validates the code against the server-computed
// total.
func (s *Server) validateCoupon(c echo.Context) error {
	var payload validateCouponPayload
	if err := c.Bind(&payload); err != nil || payload.Code == "" {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	coupon, discount, err := store.ValidateCoupon(c.Request().Context(), s.db, payload.Code, payload.OrderTotal)
	if err != nil {
		if database.IsClientError(err) {
			return respondError(c, http.StatusBadRequest, err.Error())
		}
		log.Printf("validate coupon: %v", err)
		return respondError(c, http.StatusInternalServerError, "Coupon validation failed")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":                coupon.Code,
		"discount_percentage": coupon.DiscountPercentage,
		"discount":            discount,
		"final_total":         payload.OrderTotal.Sub(discount),
	})
}

func (s *Server) listProducts(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	result, err := store.ListProducts(c.Request().Context(), s.db, page, pageSize)
	if err != nil {
		log.Printf("list products: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to load products")
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) getProduct(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid product ID")
	}

	product, err := store.GetProduct(c.Request().Context(), s.db, id)
	if err != nil {
		if database.IsClientError(err) {
			return respondError(c, http.StatusNotFound, err.Error())
		}
		log.Printf("get product: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to load product")
	}

	return c.JSON(http.StatusOK, product)
}

func (s *Server) getOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid order ID")
	}

	order, err := store.GetOrder(c.Request().Context(), s.db, id)
	if err != nil {
		if err == database.ErrOrderNotFound {
			return respondError(c, http.StatusNotFound, err.Error())
		}
		log.Printf("get order: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to load order")
	}

	return c.JSON(http.StatusOK, order)
}

func (s *Server) listOrders(c echo.Context) error {
	userID, err := uuid.Parse(c.QueryParam("user_id"))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid user ID")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	result, err := store.ListOrdersCursor(c.Request().Context(), s.db, userID, c.QueryParam("cursor"), limit)
	if err != nil {
		log.Printf("list orders: %v", err)
		return respondError(c, http.StatusInternalServerError, "Failed to load orders")
	}

	return c.JSON(http.StatusOK, result)
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}
