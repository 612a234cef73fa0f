package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/suprmushrooms/storefront/internal/database"
	"github.com/suprmushrooms/storefront/internal/models"
)

type PlaceOrderRequest struct {
	Items           []CartLine
	ShippingAddress string
	PaymentMethod   string
	PaymentProofURL *string
	CouponCode      *string
	UserID          *uuid.UUID
	GuestEmail      *string
}

// CartLine is a client-supplied cart entry. It deliberately carries no price
// field: the committed price always comes from the catalog row.
type CartLine struct {
	ProductID uuid.UUID
	Quantity  int
}

func (r *PlaceOrderRequest) validate() error {
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: cart is empty", database.ErrMalformedRequest)
	}
	for _, line := range r.Items {
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive for product %s",
				database.ErrMalformedRequest, line.ProductID)
		}
	}
	if strings.TrimSpace(r.ShippingAddress) == "" {
		return fmt.Errorf("%w: shipping address is required", database.ErrMalformedRequest)
	}
	if strings.TrimSpace(r.PaymentMethod) == "" {
		return fmt.Errorf("%w: payment method is required", database.ErrMalformedRequest)
	}
	if r.PaymentMethod == models.PaymentMethodUPI && (r.PaymentProofURL == nil || *r.PaymentProofURL == "") {
		return fmt.Errorf("%w: payment proof is required for UPI orders", database.ErrMalformedRequest)
	}

	hasUser := r.UserID != nil && *r.UserID != uuid.Nil
	hasGuest := r.GuestEmail != nil && strings.TrimSpace(*r.GuestEmail) != ""
	if hasUser == hasGuest {
		return fmt.Errorf("%w: exactly one of user_id and guest_email must be set",
			database.ErrMalformedRequest)
	}

	return nil
}

// PlaceOrder runs the checkout pipeline: re-validate every cart line against
// the catalog, recompute the total and coupon discount from server-held
// prices, then commit order, order items, and stock decrements as one
// serializable transaction. Validation is fail-fast; nothing is written
// unless every line passes and every decrement succeeds.
func PlaceOrder(ctx context.Context, db *sql.DB, req PlaceOrderRequest) (*models.Order, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var order *models.Order

	err := database.WithRetry(ctx, db, database.SerializableTxOptions(), func(tx *sql.Tx) error {
		calculatedTotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(req.Items))
		preOrder := make(map[uuid.UUID]bool)

		for _, line := range req.Items {
			product, err := lockProduct(ctx, tx, line.ProductID)
			if err != nil {
				return err
			}

			if !product.IsPreOrder() && product.Stock < line.Quantity {
				return fmt.Errorf("%w: %s has %d left, %d requested",
					database.ErrInsufficientStock, product.Name, product.Stock, line.Quantity)
			}
			preOrder[product.ID] = product.IsPreOrder()

			calculatedTotal = calculatedTotal.Add(
				product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))

			items = append(items, models.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				Quantity:     line.Quantity,
				PriceAtOrder: product.Price,
			})
		}

		discount := decimal.Zero
		var couponCode *string
		if req.CouponCode != nil && *req.CouponCode != "" {
			coupon, d, err := ValidateCoupon(ctx, tx, *req.CouponCode, calculatedTotal)
			if err != nil {
				return err
			}
			discount = d
			couponCode = &coupon.Code
		}

		order = &models.Order{
			ID:              uuid.New(),
			UserID:          req.UserID,
			GuestEmail:      req.GuestEmail,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			PaymentProofURL: req.PaymentProofURL,
			CouponCode:      couponCode,
			DiscountApplied: discount,
			TotalAmount:     calculatedTotal.Sub(discount),
			Status:          models.OrderStatusPending,
		}

		err := tx.QueryRowContext(ctx,
			`INSERT INTO orders (id, user_id, guest_email, shipping_address, payment_method,
			                     payment_proof_url, coupon_code, discount_applied, total_amount,
			                     status, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
			 RETURNING created_at`,
			order.ID, order.UserID, order.GuestEmail, order.ShippingAddress,
			order.PaymentMethod, order.PaymentProofURL, order.CouponCode,
			order.DiscountApplied, order.TotalAmount, order.Status).Scan(&order.CreatedAt)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for i := range items {
			items[i].OrderID = order.ID
			err := tx.QueryRowContext(ctx,
				`INSERT INTO order_items (order_id, product_id, product_name_snapshot, quantity, price_at_order)
				 VALUES ($1, $2, $3, $4, $5)
				 RETURNING id`,
				items[i].OrderID, items[i].ProductID, items[i].ProductName,
				items[i].Quantity, items[i].PriceAtOrder).Scan(&items[i].ID)
			if err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}

		for _, line := range req.Items {
			if preOrder[line.ProductID] {
				continue
			}
			if err := DecrementStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

const orderColumns = `id, user_id, guest_email, shipping_address, payment_method,
	payment_proof_url, coupon_code, discount_applied, total_amount, status, notified_at, created_at`

func scanOrder(row interface{ Scan(...interface{}) error }, o *models.Order) error {
	return row.Scan(
		&o.ID,
		&o.UserID,
		&o.GuestEmail,
		&o.ShippingAddress,
		&o.PaymentMethod,
		&o.PaymentProofURL,
		&o.CouponCode,
		&o.DiscountApplied,
		&o.TotalAmount,
		&o.Status,
		&o.NotifiedAt,
		&o.CreatedAt,
	)
}

func GetOrder(ctx context.Context, db *sql.DB, id uuid.UUID) (*models.Order, error) {
	order := &models.Order{}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1`

	err := scanOrder(db.QueryRowContext(ctx, query, id), order)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	itemsQuery := `
		SELECT id, order_id, product_id, product_name_snapshot, quantity, price_at_order
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`

	rows, err := db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.PriceAtOrder,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return order, nil
}

// ListOrdersCursor pages through a buyer's order history, newest first.
func ListOrdersCursor(ctx context.Context, db *sql.DB, userID uuid.UUID, cursor string, limit int) (*CursorPage, error) {
	cursorData, err := DecodeCursor(cursor)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		  AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4`

	rows, err := db.QueryContext(ctx, query, userID, cursorData.CreatedAt, cursorData.ID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	var nextCursor string
	if hasMore && len(orders) > 0 {
		last := orders[len(orders)-1]
		nextCursor = EncodeCursor(OrderCursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	return &CursorPage{
		Items:      orders,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

// ListUnnotifiedOrders is the notifier's catch-up sweep: pending orders whose
// confirmation email has not gone out yet.
func ListUnnotifiedOrders(ctx context.Context, db *sql.DB, limit int) ([]uuid.UUID, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id
		 FROM orders
		 WHERE notified_at IS NULL AND status = $1
		 ORDER BY created_at
		 LIMIT $2`,
		models.OrderStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list unnotified orders: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// MarkNotified records that the confirmation email for an order was sent (or
// deliberately skipped). It reports whether this call won the claim, so two
// notifier processes cannot double-send.
func MarkNotified(ctx context.Context, db *sql.DB, id uuid.UUID) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE orders SET notified_at = NOW() WHERE id = $1 AND notified_at IS NULL`, id)
	if err != nil {
		return false, fmt.Errorf("mark notified: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}
