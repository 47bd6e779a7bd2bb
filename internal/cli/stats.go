package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/primecart/internal/domain"
	"github.com/roach88/primecart/internal/stats"
)

// dashboard is the JSON shape of the stats command.
type dashboard struct {
	Summary  stats.Summary         `json:"summary"`
	Monthly  []stats.MonthSales    `json:"monthly"`
	Statuses map[domain.Status]int `json:"statuses"`
	LowStock []domain.Product      `json:"lowStock"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the admin dashboard (admin)",
		Long: `Show revenue, order counts, monthly sales and products running low.

Every figure is derived from the order history and catalog on demand.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withShop(cmd, rootOpts, func(s *shop) error {
				if err := s.requireAdmin(); err != nil {
					return err
				}
				d := buildDashboard(s.engine.Orders(), s.engine.Products())
				return s.out.Success(d, d.render)
			})
		},
	}
}

func buildDashboard(orders []domain.Order, products []domain.Product) dashboard {
	d := dashboard{
		Summary:  stats.Summarize(orders),
		Monthly:  stats.MonthlySales(orders),
		Statuses: stats.StatusCounts(orders),
		LowStock: []domain.Product{},
	}
	for _, p := range products {
		if p.LowStock() {
			d.LowStock = append(d.LowStock, p)
		}
	}
	return d
}

func (d dashboard) render(w io.Writer) {
	fmt.Fprintf(w, "Revenue:          %s\n", money(d.Summary.TotalRevenue))
	fmt.Fprintf(w, "Orders:           %d\n", d.Summary.TotalOrders)
	fmt.Fprintf(w, "Active customers: %d\n", d.Summary.ActiveCustomers)
	fmt.Fprintf(w, "Growth:           %.0f%%\n", d.Summary.Growth)

	fmt.Fprintf(w, "\nStatus: %d pending, %d shipped, %d delivered\n",
		d.Statuses[domain.StatusPending], d.Statuses[domain.StatusShipped], d.Statuses[domain.StatusDelivered])

	if len(d.Monthly) > 0 {
		fmt.Fprintln(w, "\nMonthly sales:")
		tw := newTable(w)
		for _, m := range d.Monthly {
			fmt.Fprintf(tw, "  %s\t%s\n", m.Month, money(m.Sales))
		}
		tw.Flush()
	}

	if len(d.LowStock) > 0 {
		fmt.Fprintln(w, "\nLow stock:")
		tw := newTable(w)
		for _, p := range d.LowStock {
			fmt.Fprintf(tw, "  %s\t%s\t%d left\n", p.ID, p.Name, p.Stock)
		}
		tw.Flush()
	}
}
