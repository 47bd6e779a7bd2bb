package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/roach88/primecart/internal/domain"
)

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeProducts(w io.Writer, products []domain.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tRATING\tSTOCK")
	for _, p := range products {
		stock := fmt.Sprint(p.Stock)
		if p.LowStock() {
			stock += " (low)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%s\n", p.ID, p.Name, p.Category, money(p.Price), p.Rating, stock)
	}
	tw.Flush()
}

func writeCart(w io.Writer, cart []domain.CartItem) {
	if len(cart) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tTOTAL")
	for _, item := range cart {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			item.ID, item.Name, money(item.Price), item.Quantity, money(item.LineTotal()))
	}
	tw.Flush()

	subtotal := domain.Subtotal(cart)
	fmt.Fprintf(w, "\nItems:    %d\n", domain.ItemCount(cart))
	fmt.Fprintf(w, "Subtotal: %s\n", money(subtotal))
	if fee := domain.Shipping(subtotal); fee > 0 {
		fmt.Fprintf(w, "Shipping: %s\n", money(fee))
	} else {
		fmt.Fprintln(w, "Shipping: free")
	}
	fmt.Fprintf(w, "Total:    %s\n", money(domain.CheckoutTotal(subtotal)))
}

func writeOrders(w io.Writer, orders []domain.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders yet.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tSTATUS\tITEMS\tTOTAL")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			o.ID, o.Date.Format(time.DateOnly), o.Status, domain.ItemCount(o.Items), money(o.Total))
	}
	tw.Flush()
}

func writeUser(w io.Writer, u *domain.User) {
	if u == nil {
		fmt.Fprintln(w, "Not logged in.")
		return
	}
	fmt.Fprintf(w, "%s <%s> (%s)\n", u.Name, u.Email, u.Role)
}
