package harness

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/primecart/internal/domain"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Executed steps for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %v -> %s\n", event.Seq, event.Action, event.Args, event.Outcome)
		}
	}

	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the final state.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(h *Harness, result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertCartSize:
			err = expectCount(assertion, len(result.Final.Cart), "cart items")
		case AssertCartQuantity:
			err = assertCartQuantity(h, result.Final, assertion)
		case AssertSubtotal:
			err = expectAmount(assertion, result.Final.Subtotal, "subtotal")
		case AssertOrderCount:
			err = expectCount(assertion, len(result.Final.Orders), "orders")
		case AssertOrderTotal:
			err = assertOrderTotal(result.Final, assertion)
		case AssertCatalogSize:
			err = expectCount(assertion, len(result.Final.Products), "products")
		case AssertUserRole:
			err = assertUserRole(result.Final, assertion)
		case AssertCartOpen:
			if result.Final.CartOpen != *assertion.Open {
				err = &AssertionError{
					Type:     AssertCartOpen,
					Expected: fmt.Sprintf("cart open = %t", *assertion.Open),
					Actual:   fmt.Sprintf("cart open = %t", result.Final.CartOpen),
				}
			}
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			if ae, ok := err.(*AssertionError); ok && ae.Trace == nil {
				ae.Trace = result.Trace
			}
			errors = append(errors, err.Error())
		}
	}

	return errors
}

func expectCount(a Assertion, got int, what string) error {
	if got == *a.Count {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%d %s", *a.Count, what),
		Actual:   fmt.Sprintf("%d %s", got, what),
	}
}

func expectAmount(a Assertion, got float64, what string) error {
	// Amounts are money: equal to the cent.
	if math.Abs(got-*a.Amount) < 0.005 {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%s %.2f", what, *a.Amount),
		Actual:   fmt.Sprintf("%s %.2f", what, got),
	}
}

func assertCartQuantity(h *Harness, final FinalState, a Assertion) error {
	id := h.resolveID(a.Product)
	i := domain.FindItem(final.Cart, id)
	if i < 0 {
		return &AssertionError{
			Type:     AssertCartQuantity,
			Expected: fmt.Sprintf("%s in cart with quantity %d", a.Product, a.Quantity),
			Actual:   "not in cart",
		}
	}
	if got := final.Cart[i].Quantity; got != a.Quantity {
		return &AssertionError{
			Type:     AssertCartQuantity,
			Expected: fmt.Sprintf("%s quantity %d", a.Product, a.Quantity),
			Actual:   fmt.Sprintf("%s quantity %d", a.Product, got),
		}
	}
	return nil
}

func assertOrderTotal(final FinalState, a Assertion) error {
	if a.Index >= len(final.Orders) {
		return &AssertionError{
			Type:     AssertOrderTotal,
			Expected: fmt.Sprintf("order at index %d", a.Index),
			Actual:   fmt.Sprintf("%d orders", len(final.Orders)),
		}
	}
	return expectAmount(a, final.Orders[a.Index].Total, fmt.Sprintf("order[%d] total", a.Index))
}

func assertUserRole(final FinalState, a Assertion) error {
	got := RoleNone
	if final.User != nil {
		got = string(final.User.Role)
	}
	if strings.EqualFold(got, a.Role) {
		return nil
	}
	return &AssertionError{
		Type:     AssertUserRole,
		Expected: fmt.Sprintf("role %s", a.Role),
		Actual:   fmt.Sprintf("role %s", got),
	}
}

// assertTraceCount checks if the action ran exactly the specified number of times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Action == a.Action {
			count++
		}
	}

	if count != *a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", *a.Count, a.Action),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}

	return nil
}
