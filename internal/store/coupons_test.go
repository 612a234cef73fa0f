package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/suprmushrooms/storefront/internal/models"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestCouponDiscount(t *testing.T) {
	tests := []struct {
		name     string
		total    decimal.Decimal
		coupon   models.Coupon
		expected decimal.Decimal
	}{
		{
			name:     "simple percentage",
			total:    dec(200),
			coupon:   models.Coupon{DiscountPercentage: 10},
			expected: dec(20),
		},
		{
			name:     "rounds to whole rupees",
			total:    dec(199),
			coupon:   models.Coupon{DiscountPercentage: 10},
			expected: dec(20), // 19.9 rounds up
		},
		{
			name:     "rounds down below half",
			total:    dec(154),
			coupon:   models.Coupon{DiscountPercentage: 10},
			expected: dec(15), // 15.4 rounds down
		},
		{
			name:     "cap clamps discount",
			total:    dec(1000),
			coupon:   models.Coupon{DiscountPercentage: 50, MaxDiscountAmount: decPtr(100)},
			expected: dec(100),
		},
		{
			name:     "cap above discount leaves it alone",
			total:    dec(100),
			coupon:   models.Coupon{DiscountPercentage: 10, MaxDiscountAmount: decPtr(100)},
			expected: dec(10),
		},
		{
			name:     "full discount",
			total:    dec(250),
			coupon:   models.Coupon{DiscountPercentage: 100},
			expected: dec(250),
		},
		{
			name:     "zero total",
			total:    decimal.Zero,
			coupon:   models.Coupon{DiscountPercentage: 25},
			expected: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CouponDiscount(tt.total, &tt.coupon)
			assert.True(t, tt.expected.Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}
