package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/primecart/internal/advisor"
)

// AdviseOptions holds options for the advise command.
type AdviseOptions struct {
	*RootOptions
	Insight bool
	Timeout time.Duration
}

// advice is the JSON shape of the advise command.
type advice struct {
	ProductID string `json:"productId,omitempty"`
	Text      string `json:"text"`
}

// NewAdviseCommand creates the advise command.
func NewAdviseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AdviseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "advise [product-id]",
		Short: "Ask the stylist about a product, or for catalog insight",
		Long: `Ask the recommendation service for styling advice on a product.

With --insight, ask for merchandising advice on the whole catalog instead
(admin). Without PRIMECART_ADVISOR_KEY (or API_KEY) the service is offline
and a fixed notice is shown. Advice never changes the shop's state.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.Insight {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdvise(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Insight, "insight", false, "analyze the whole catalog")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "give up on the service after this long")

	return cmd
}

func runAdvise(cmd *cobra.Command, opts *AdviseOptions, args []string) error {
	return withShop(cmd, opts.RootOptions, func(s *shop) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
		defer cancel()

		adv := advisor.NewLatest(advisor.New(ctx, advisor.Settings{
			Key:     s.cfg.AdvisorKey,
			Model:   s.cfg.AdvisorModel,
			BaseURL: s.cfg.AdvisorURL,
		}, s.logger))

		var (
			result advice
			err    error
		)
		if opts.Insight {
			if err := s.requireAdmin(); err != nil {
				return err
			}
			result.Text, err = adv.Insight(ctx, s.engine.Products())
		} else {
			p, lookupErr := s.product(args[0])
			if lookupErr != nil {
				return lookupErr
			}
			result.ProductID = p.ID
			result.Text, err = adv.Recommend(ctx, p)
		}
		if err != nil {
			return s.out.Fail(ExitFailure, ErrCodeGeneric, "advisor unavailable", err)
		}

		return s.out.Success(result, func(w io.Writer) {
			fmt.Fprintln(w, result.Text)
		})
	})
}
