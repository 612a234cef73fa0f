// shopctl drives the storefront API from the terminal: browse the catalog,
// keep a local cart and wishlist, preview coupons, and place orders. Cart
// state lives in a JSON file under the user config directory; the server
// never trusts it beyond product ids and quantities.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/suprmushrooms/storefront/internal/cart"
	"github.com/suprmushrooms/storefront/internal/client"
	"github.com/suprmushrooms/storefront/internal/models"
)

var (
	apiURL    string
	statePath string
)

func main() {
	root := &cobra.Command{
		Use:           "shopctl",
		Short:         "Supr Mushrooms storefront client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultState, err := cart.DefaultPath()
	if err != nil {
		defaultState = "state.json"
	}

	root.PersistentFlags().StringVar(&apiURL, "api", "http://localhost:8080", "storefront API base URL")
	root.PersistentFlags().StringVar(&statePath, "state", defaultState, "cart state file")

	root.AddCommand(productsCmd(), cartCmd(), wishlistCmd(), couponCmd(), checkoutCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func api() *client.Client {
	return client.New(apiURL)
}

func loadState() (*cart.Store, *cart.State, error) {
	store := cart.NewStore(statePath)
	state, err := store.Load()
	if err != nil {
		return nil, nil, err
	}
	return store, state, nil
}

func productsCmd() *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := api().ListProducts(context.Background(), page)
			if err != nil {
				return err
			}
			for _, p := range result.Items {
				tag := ""
				if p.IsPreOrder() {
					tag = " [pre-order]"
				} else if p.Stock == 0 {
					tag = " [out of stock]"
				}
				fmt.Printf("%s  %-30s ₹%s  (stock %d)%s\n", p.ID, p.Name, p.Price.StringFixed(0), p.Stock, tag)
			}
			fmt.Printf("page %d/%d, %d products\n", result.Page, result.TotalPages, result.Total)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "catalog page")
	return cmd
}

func cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the local cart",
	}

	add := &cobra.Command{
		Use:   "add PRODUCT_ID [QUANTITY]",
		Short: "Add a product to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id: %w", err)
			}
			quantity := 1
			if len(args) == 2 {
				if quantity, err = strconv.Atoi(args[1]); err != nil || quantity < 1 {
					return fmt.Errorf("invalid quantity %q", args[1])
				}
			}

			product, err := api().GetProduct(context.Background(), id)
			if err != nil {
				return err
			}

			store, state, err := loadState()
			if err != nil {
				return err
			}
			state.Add(cart.Line{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				PreOrder:  product.IsPreOrder(),
			}, quantity)
			if err := store.Save(state); err != nil {
				return err
			}

			fmt.Printf("Added %d × %s\n", quantity, product.Name)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm PRODUCT_ID",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id: %w", err)
			}
			store, state, err := loadState()
			if err != nil {
				return err
			}
			state.Remove(id)
			return store.Save(state)
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, state, err := loadState()
			if err != nil {
				return err
			}
			if len(state.Cart) == 0 {
				fmt.Println("Cart is empty")
				return nil
			}
			for _, line := range state.Lines() {
				tag := ""
				if line.PreOrder {
					tag = " [pre-order]"
				}
				fmt.Printf("%d × %-30s ₹%s%s\n", line.Quantity, line.Name,
					line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))).StringFixed(0), tag)
			}
			fmt.Printf("Subtotal: ₹%s\n", state.Subtotal().StringFixed(0))
			return nil
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, state, err := loadState()
			if err != nil {
				return err
			}
			state.Clear()
			return store.Save(state)
		},
	}

	cmd.AddCommand(add, rm, show, clear)
	return cmd
}

func wishlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage the wishlist",
	}

	add := &cobra.Command{
		Use:   "add PRODUCT_ID",
		Short: "Add a product to the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id: %w", err)
			}
			product, err := api().GetProduct(context.Background(), id)
			if err != nil {
				return err
			}
			store, state, err := loadState()
			if err != nil {
				return err
			}
			state.WishlistAdd(cart.Line{
				ProductID: product.ID,
				Name:      product.Name,
				Price:     product.Price,
				PreOrder:  product.IsPreOrder(),
			})
			return store.Save(state)
		},
	}

	rm := &cobra.Command{
		Use:   "rm PRODUCT_ID",
		Short: "Remove a product from the wishlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id: %w", err)
			}
			store, state, err := loadState()
			if err != nil {
				return err
			}
			state.WishlistRemove(id)
			return store.Save(state)
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the wishlist",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, state, err := loadState()
			if err != nil {
				return err
			}
			if len(state.Wishlist) == 0 {
				fmt.Println("Wishlist is empty")
				return nil
			}
			for _, line := range state.Wishlist {
				fmt.Printf("%s  %s ₹%s\n", line.ProductID, line.Name, line.Price.StringFixed(0))
			}
			return nil
		},
	}

	move := &cobra.Command{
		Use:   "move PRODUCT_ID",
		Short: "Move a wishlist entry into the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid product id: %w", err)
			}
			store, state, err := loadState()
			if err != nil {
				return err
			}
			if !state.MoveToCart(id) {
				return fmt.Errorf("product %s is not on the wishlist", id)
			}
			return store.Save(state)
		},
	}

	cmd.AddCommand(add, rm, show, move)
	return cmd
}

func couponCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "coupon CODE",
		Short: "Preview a coupon against the current cart subtotal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, state, err := loadState()
			if err != nil {
				return err
			}
			preview, err := api().ValidateCoupon(context.Background(), args[0], state.Subtotal())
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d%% off, saves ₹%s → ₹%s\n",
				preview.Code, preview.DiscountPercentage,
				preview.Discount.StringFixed(0), preview.FinalTotal.StringFixed(0))
			return nil
		},
	}
}

func checkoutCmd() *cobra.Command {
	var (
		name, address, phone, email string
		payment, proofURL, coupon   string
		userID                      string
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, state, err := loadState()
			if err != nil {
				return err
			}
			if len(state.Cart) == 0 {
				return fmt.Errorf("cart is empty")
			}

			req := client.PlaceOrderRequest{
				ShippingAddress: fmt.Sprintf("%s, %s, Ph: %s, Email: %s", name, address, phone, email),
				PaymentMethod:   payment,
			}
			for _, line := range state.Lines() {
				req.Items = append(req.Items, client.OrderItemRequest{
					ProductID: line.ProductID,
					Quantity:  line.Quantity,
				})
			}
			if proofURL != "" {
				req.PaymentProofURL = &proofURL
			}
			if coupon != "" {
				req.CouponCode = &coupon
			}
			if userID != "" {
				id, err := uuid.Parse(userID)
				if err != nil {
					return fmt.Errorf("invalid user id: %w", err)
				}
				req.UserID = &id
			} else {
				req.GuestEmail = &email
			}

			result, err := api().PlaceOrder(context.Background(), req)
			if err != nil {
				return err
			}

			state.Clear()
			if err := store.Save(state); err != nil {
				return err
			}

			fmt.Printf("Order placed: %s. Check your email for confirmation.\n", result.OrderID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&address, "address", "", "shipping address with pincode")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&email, "email", "", "email for the confirmation")
	cmd.Flags().StringVar(&payment, "payment", models.PaymentMethodCOD, "payment method")
	cmd.Flags().StringVar(&proofURL, "proof", "", "payment proof URL (required for UPI)")
	cmd.Flags().StringVar(&coupon, "coupon", "", "coupon code")
	cmd.Flags().StringVar(&userID, "user-id", "", "account id (omit for guest checkout)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("address")
	cmd.MarkFlagRequired("phone")
	cmd.MarkFlagRequired("email")

	return cmd
}
