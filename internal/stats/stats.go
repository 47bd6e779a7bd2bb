// Package stats derives the admin dashboard figures from the order history.
// Every value is recomputed on demand and never persisted.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/roach88/primecart/internal/domain"
)

// Summary is the dashboard header.
type Summary struct {
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalOrders     int     `json:"totalOrders"`
	ActiveCustomers int     `json:"activeCustomers"`
	Growth          float64 `json:"growth"`
}

// MonthSales is one bar of the sales chart.
type MonthSales struct {
	Month string  `json:"name"`
	Sales float64 `json:"sales"`
}

// Summarize computes the dashboard header from orders.
//
// ActiveCustomers and Growth are display heuristics, not measurements: with
// n > 0 orders they are 1+floor(0.8n) and 100, otherwise 0.
func Summarize(orders []domain.Order) Summary {
	n := len(orders)
	s := Summary{
		TotalRevenue: sum(orders),
		TotalOrders:  n,
	}
	if n > 0 {
		s.ActiveCustomers = 1 + n*8/10
		s.Growth = 100
	}
	return s
}

// MonthlySales groups order totals by short month name ("Jan", "Feb", ...)
// in the order each month is first seen. Years are not distinguished.
func MonthlySales(orders []domain.Order) []MonthSales {
	out := []MonthSales{}
	totals := make(map[string]decimal.Decimal)
	for _, o := range orders {
		month := o.Date.UTC().Format("Jan")
		if _, ok := totals[month]; !ok {
			out = append(out, MonthSales{Month: month})
		}
		totals[month] = totals[month].Add(decimal.NewFromFloat(o.Total))
	}
	for i := range out {
		out[i].Sales = totals[out[i].Month].Round(2).InexactFloat64()
	}
	return out
}

// StatusCounts counts orders per status. Every known status is present.
func StatusCounts(orders []domain.Order) map[domain.Status]int {
	counts := map[domain.Status]int{
		domain.StatusPending:   0,
		domain.StatusShipped:   0,
		domain.StatusDelivered: 0,
	}
	for _, o := range orders {
		counts[o.Status]++
	}
	return counts
}

func sum(orders []domain.Order) float64 {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(decimal.NewFromFloat(o.Total))
	}
	return total.Round(2).InexactFloat64()
}
