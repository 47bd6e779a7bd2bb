package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/primecart/internal/domain"
)

// CheckoutOptions holds options for the checkout command.
type CheckoutOptions struct {
	*RootOptions
	Details domain.ShippingDetails
}

// NewCheckoutCommand creates the checkout command.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckoutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the current cart",
		Long: `Place an order for everything in the cart and empty it.

Shipping is free above $200 and $25 otherwise. No payment is taken; the
order is recorded as Pending.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckout(cmd, opts)
		},
	}

	d := &opts.Details
	cmd.Flags().StringVar(&d.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&d.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&d.Address, "address", "", "street address (required)")
	cmd.Flags().StringVar(&d.City, "city", "", "city (required)")
	cmd.Flags().StringVar(&d.PostalCode, "postal-code", "", "postal code")

	return cmd
}

func runCheckout(cmd *cobra.Command, opts *CheckoutOptions) error {
	if err := opts.Details.Validate(); err != nil {
		return opts.formatter(cmd).Fail(ExitFailure, ErrCodeValidation, "invalid shipping details", err)
	}

	return withShop(cmd, opts.RootOptions, func(s *shop) error {
		order, err := s.engine.PlaceOrder(opts.Details)
		if err != nil {
			return s.out.Fail(ExitFailure, ErrCodeValidation, "checkout rejected", err)
		}

		return s.out.Success(order, func(w io.Writer) {
			fmt.Fprintf(w, "Order %s placed: %d items, %s (%s)\n",
				order.ID, domain.ItemCount(order.Items), money(order.Total), order.Status)
		})
	})
}

// NewOrdersCommand creates the orders command.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "orders",
		Short:         "List the order history, most recent first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withShop(cmd, rootOpts, func(s *shop) error {
				orders := s.engine.Orders()
				return s.out.Success(orders, func(w io.Writer) {
					writeOrders(w, orders)
				})
			})
		},
	}
}
