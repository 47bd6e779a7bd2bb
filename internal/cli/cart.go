package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

// cartView is the JSON shape of the cart commands.
type cartView struct {
	Items     any     `json:"items"`
	ItemCount int     `json:"itemCount"`
	Subtotal  float64 `json:"subtotal"`
	Open      bool    `json:"open"`
}

// NewCartCommand groups the cart subcommands.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and edit the shopping cart",
	}
	cmd.AddCommand(newCartShowCommand(rootOpts))
	cmd.AddCommand(newCartAddCommand(rootOpts))
	cmd.AddCommand(newCartRemoveCommand(rootOpts))
	cmd.AddCommand(newCartSetCommand(rootOpts))
	cmd.AddCommand(newCartClearCommand(rootOpts))
	return cmd
}

// showCart prints the cart as it stands after the command's mutation.
func (s *shop) showCart() error {
	cart := s.engine.Cart()
	view := cartView{
		Items:     cart,
		ItemCount: s.engine.ItemCount(),
		Subtotal:  s.engine.Subtotal(),
		Open:      s.engine.CartOpen(),
	}
	return s.out.Success(view, func(w io.Writer) {
		writeCart(w, cart)
	})
}

func newCartShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show",
		Short:         "Show the cart with subtotal, shipping and total",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withShop(cmd, rootOpts, func(s *shop) error {
				return s.showCart()
			})
		},
	}
}

func newCartAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "add <product-id>",
		Short:         "Add one unit of a product to the cart",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withShop(cmd, rootOpts, func(s *shop) error {
				p, err := s.product(args[0])
				if err != nil {
					return err
				}
				change := s.engine.AddToCart(p)
				s.logger.Debug("cart updated",
					"product_id", p.ID, "quantity", change.Item.Quantity, "inserted", change.Inserted)
				return s.showCart()
			})
		},
	}
}

func newCartRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <product-id>",
		Short:         "Remove a product from the cart",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withShop(cmd, rootOpts, func(s *shop) error {
				if !s.engine.RemoveFromCart(args[0]) {
					return s.out.Fail(ExitFailure, ErrCodeNotFound, "not in cart: "+args[0], nil)
				}
				return s.showCart()
			})
		},
	}
}

func newCartSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set the quantity of a cart item",
		Long: `Set the quantity of a product already in the cart.

Quantities below 1 are rejected; use "cart remove" to drop an item.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return rootOpts.formatter(cmd).Fail(ExitCommandError, ErrCodeInput, "invalid quantity", err)
			}
			return withShop(cmd, rootOpts, func(s *shop) error {
				if !s.engine.UpdateQuantity(args[0], qty) {
					if qty < 1 {
						msg := fmt.Sprintf("quantity must be at least 1, got %d", qty)
						return s.out.Fail(ExitFailure, ErrCodeInput, msg, nil)
					}
					return s.out.Fail(ExitFailure, ErrCodeNotFound, "not in cart: "+args[0], nil)
				}
				return s.showCart()
			})
		},
	}
}

func newCartClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "clear",
		Short:         "Empty the cart",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withShop(cmd, rootOpts, func(s *shop) error {
				s.engine.ClearCart()
				return s.showCart()
			})
		},
	}
}
