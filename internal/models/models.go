package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Status      string          `json:"status"`
	Images      pq.StringArray  `json:"images"`
	IsDeleted   bool            `json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Product statuses. Unknown statuses behave like active at checkout: the
// stock check applies.
const (
	ProductStatusActive     = "active"
	ProductStatusComingSoon = "coming_soon"
	ProductStatusSoldOut    = "sold_out"
)

// IsPreOrder reports whether the product is sold as a pre-order, in which
// case stock is neither checked nor decremented at checkout.
func (p *Product) IsPreOrder() bool {
	return p.Status == ProductStatusComingSoon
}

type Coupon struct {
	ID                 uuid.UUID        `json:"id"`
	Code               string           `json:"code"`
	IsActive           bool             `json:"is_active"`
	DiscountPercentage int              `json:"discount_percentage"`
	MinOrderValue      *decimal.Decimal `json:"min_order_value,omitempty"`
	MaxDiscountAmount  *decimal.Decimal `json:"max_discount_amount,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
}

type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID              uuid.UUID       `json:"id"`
	UserID          *uuid.UUID      `json:"user_id,omitempty"`
	GuestEmail      *string         `json:"guest_email,omitempty"`
	ShippingAddress string          `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentProofURL *string         `json:"payment_proof_url,omitempty"`
	CouponCode      *string         `json:"coupon_code,omitempty"`
	DiscountApplied decimal.Decimal `json:"discount_applied"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	NotifiedAt      *time.Time      `json:"notified_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []OrderItem     `json:"items,omitempty"`
}

// Reference is the short order number shown to buyers in emails and the UI.
func (o *Order) Reference() string {
	return "#" + strings.ToUpper(o.ID.String()[:8])
}

type OrderItem struct {
	ID           int64           `json:"id"`
	OrderID      uuid.UUID       `json:"order_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	PriceAtOrder decimal.Decimal `json:"price_at_order"`
}

// Subtotal is quantity times the committed price snapshot.
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtOrder.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

const (
	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

const (
	PaymentMethodCOD = "Cash on Delivery"
	PaymentMethodUPI = "UPI"
)
