package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/suprmushrooms/storefront/internal/database"
	"github.com/suprmushrooms/storefront/internal/models"
)

// Querier lets coupon lookups run against the pool (preview endpoint) or
// inside the checkout transaction (authoritative re-validation).
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// GetActiveCoupon looks a coupon up by code, case-insensitively, among
// active coupons only.
func GetActiveCoupon(ctx context.Context, q Querier, code string) (*models.Coupon, error) {
	coupon := &models.Coupon{}

	query := `
		SELECT id, code, is_active, discount_percentage, min_order_value, max_discount_amount, created_at
		FROM coupons
		WHERE code = $1 AND is_active`

	var minOrder, maxDiscount decimal.NullDecimal
	err := q.QueryRowContext(ctx, query, strings.ToUpper(code)).Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.IsActive,
		&coupon.DiscountPercentage,
		&minOrder,
		&maxDiscount,
		&coupon.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", database.ErrInvalidCoupon, strings.ToUpper(code))
		}
		return nil, fmt.Errorf("get coupon: %w", err)
	}

	if minOrder.Valid {
		coupon.MinOrderValue = &minOrder.Decimal
	}
	if maxDiscount.Valid {
		coupon.MaxDiscountAmount = &maxDiscount.Decimal
	}

	return coupon, nil
}

// CouponDiscount computes the discount a coupon grants on an order total:
// the percentage of the total rounded to whole rupees, clamped to the
// coupon's cap when one is set.
func CouponDiscount(total decimal.Decimal, coupon *models.Coupon) decimal.Decimal {
	discount := total.
		Mul(decimal.NewFromInt(int64(coupon.DiscountPercentage))).
		Div(decimal.NewFromInt(100)).
		Round(0)

	if coupon.MaxDiscountAmount != nil && discount.GreaterThan(*coupon.MaxDiscountAmount) {
		discount = *coupon.MaxDiscountAmount
	}

	return discount
}

// ValidateCoupon resolves a coupon code against an order total and returns
// the coupon and the discount it grants. The checkout pipeline calls this
// inside its transaction; the preview endpoint calls it against the pool.
// A client-reported discount is never trusted.
func ValidateCoupon(ctx context.Context, q Querier, code string, total decimal.Decimal) (*models.Coupon, decimal.Decimal, error) {
	coupon, err := GetActiveCoupon(ctx, q, code)
	if err != nil {
		return nil, decimal.Zero, err
	}

	if coupon.MinOrderValue != nil && total.LessThan(*coupon.MinOrderValue) {
		return nil, decimal.Zero, fmt.Errorf("%w: coupon %s requires a minimum order of %s",
			database.ErrCouponMinimum, coupon.Code, coupon.MinOrderValue.StringFixed(0))
	}

	return coupon, CouponDiscount(total, coupon), nil
}
