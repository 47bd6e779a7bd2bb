package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/primecart/internal/catalog"
	"github.com/roach88/primecart/internal/domain"
)

// NewCatalogCommand groups the catalog subcommands.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse and manage the product catalog",
	}
	cmd.AddCommand(NewCatalogListCommand(rootOpts))
	cmd.AddCommand(NewCatalogAddCommand(rootOpts))
	cmd.AddCommand(NewCatalogDeleteCommand(rootOpts))
	cmd.AddCommand(NewCatalogSeedCommand(rootOpts))
	return cmd
}

// CatalogListOptions holds options for the catalog list command.
type CatalogListOptions struct {
	*RootOptions
	Query    string
	Category string
	MinPrice float64
	MaxPrice float64
	Sort     string
	Featured bool
}

// NewCatalogListCommand creates the catalog list command.
func NewCatalogListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products, optionally filtered and sorted",
		Long: `List the catalog, newest first.

--query matches name, description and category, ignoring case and
accents written in either composed or decomposed form.
--featured shows only the home page selection and ignores the filters.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogList(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "search text")
	cmd.Flags().StringVar(&opts.Category, "category", catalog.AllCategories, "category to show")
	cmd.Flags().Float64Var(&opts.MinPrice, "min-price", 0, "lowest price to show")
	cmd.Flags().Float64Var(&opts.MaxPrice, "max-price", 0, "highest price to show (0 for no limit)")
	cmd.Flags().StringVar(&opts.Sort, "sort", string(catalog.SortFeatured), "featured|price-low|price-high|rating")
	cmd.Flags().BoolVar(&opts.Featured, "featured", false, "show the featured products only")

	return cmd
}

func runCatalogList(cmd *cobra.Command, opts *CatalogListOptions) error {
	sort, err := catalog.ParseSort(opts.Sort)
	if err != nil {
		return opts.formatter(cmd).Fail(ExitCommandError, ErrCodeInput, "invalid --sort", err)
	}

	return withShop(cmd, opts.RootOptions, func(s *shop) error {
		var products []domain.Product
		if opts.Featured {
			products = catalog.Featured(s.engine.Products())
		} else {
			products = catalog.Apply(s.engine.Products(), catalog.Filter{
				Query:    opts.Query,
				Category: opts.Category,
				MinPrice: opts.MinPrice,
				MaxPrice: opts.MaxPrice,
				Sort:     sort,
			})
		}
		s.logger.Debug("catalog filtered", "matches", len(products))

		return s.out.Success(products, func(w io.Writer) {
			writeProducts(w, products)
		})
	})
}

// CatalogAddOptions holds options for the catalog add command.
type CatalogAddOptions struct {
	*RootOptions
	Draft domain.ProductDraft
}

// NewCatalogAddCommand creates the catalog add command.
func NewCatalogAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product (admin)",
		Long: `Add a product to the top of the catalog.

The form is checked before it reaches the catalog: a name and a positive
price are required. Empty optional fields are filled with the defaults
(category Men, a placeholder image, rating 5 and the New Arrival tags).`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogAdd(cmd, opts)
		},
	}

	d := &opts.Draft
	cmd.Flags().StringVar(&d.Name, "name", "", "product name")
	cmd.Flags().Float64Var(&d.Price, "price", 0, "price in dollars")
	cmd.Flags().StringVar(&d.Category, "category", "", "Men|Women|Accessories|Footwear")
	cmd.Flags().StringVar(&d.Image, "image", "", "image URL")
	cmd.Flags().StringVar(&d.Description, "description", "", "description")
	cmd.Flags().Float64Var(&d.Rating, "rating", 0, "rating from 0 to 5")
	cmd.Flags().IntVar(&d.Reviews, "reviews", 0, "number of reviews")
	cmd.Flags().IntVar(&d.Stock, "stock", 0, "units in stock")
	cmd.Flags().StringArrayVar(&d.Features, "feature", nil, "feature tag (repeatable)")

	return cmd
}

func runCatalogAdd(cmd *cobra.Command, opts *CatalogAddOptions) error {
	return withShop(cmd, opts.RootOptions, func(s *shop) error {
		if err := s.requireAdmin(); err != nil {
			return err
		}
		if err := catalog.ValidateDraft(opts.Draft); err != nil {
			return s.out.Fail(ExitFailure, ErrCodeValidation, "invalid product", err)
		}

		p, err := s.engine.AddProduct(opts.Draft)
		if err != nil {
			return s.out.Fail(ExitFailure, ErrCodeValidation, "invalid product", err)
		}

		return s.out.Success(p, func(w io.Writer) {
			fmt.Fprintf(w, "Added %s (%s) at %s\n", p.Name, p.ID, money(p.Price))
		})
	})
}

// NewCatalogDeleteCommand creates the catalog delete command.
func NewCatalogDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <product-id>",
		Short: "Remove a product from the catalog (admin)",
		Long: `Remove a product from the catalog.

Carts that already hold the product keep their copy of it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withShop(cmd, rootOpts, func(s *shop) error {
				if err := s.requireAdmin(); err != nil {
					return err
				}
				if !s.engine.DeleteProduct(args[0]) {
					return s.out.Fail(ExitFailure, ErrCodeNotFound, "product not found: "+args[0], nil)
				}
				return s.out.Success(map[string]string{"deleted": args[0]}, func(w io.Writer) {
					fmt.Fprintf(w, "Deleted %s\n", args[0])
				})
			})
		},
	}
}

// NewCatalogSeedCommand creates the catalog seed command.
func NewCatalogSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Add every product in a seed file (admin)",
		Long: `Add the products listed in a YAML seed file, in file order.

Every entry is checked first; if any is invalid nothing is added.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogSeed(cmd, rootOpts, args[0])
		},
	}
}

func runCatalogSeed(cmd *cobra.Command, opts *RootOptions, path string) error {
	seed, err := catalog.LoadSeed(path)
	if err != nil {
		return opts.formatter(cmd).Fail(ExitCommandError, ErrCodeInput, "load seed", err)
	}

	return withShop(cmd, opts, func(s *shop) error {
		if err := s.requireAdmin(); err != nil {
			return err
		}
		for i, d := range seed.Products {
			if err := catalog.ValidateDraft(d); err != nil {
				return s.out.Fail(ExitFailure, ErrCodeValidation, fmt.Sprintf("invalid product #%d", i+1), err)
			}
		}

		added := make([]domain.Product, 0, len(seed.Products))
		for _, d := range seed.Products {
			p, err := s.engine.AddProduct(d)
			if err != nil {
				return s.out.Fail(ExitFailure, ErrCodeValidation, "invalid product", err)
			}
			added = append(added, p)
		}

		return s.out.Success(added, func(w io.Writer) {
			fmt.Fprintf(w, "Added %d products\n", len(added))
		})
	})
}
