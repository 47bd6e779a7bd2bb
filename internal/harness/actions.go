package harness

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/primecart/internal/domain"
)

// stepResult is what an operation reported. err is an operation failure the
// scenario may expect, not a harness failure.
type stepResult struct {
	changed *bool
	err     error
}

type actionFunc func(h *Harness, args map[string]any) (stepResult, error)

// actions maps step names to engine operations.
var actions = map[string]actionFunc{
	"addToCart":      addToCart,
	"removeFromCart": removeFromCart,
	"updateQuantity": updateQuantity,
	"clearCart":      clearCart,
	"placeOrder":     placeOrder,
	"login":          login,
	"logout":         logout,
	"addProduct":     addProduct,
	"deleteProduct":  deleteProduct,
	"setCartOpen":    setCartOpen,
}

type productArgs struct {
	Product string `yaml:"product"`
}

type quantityArgs struct {
	Product  string `yaml:"product"`
	Quantity int    `yaml:"quantity"`
}

type loginArgs struct {
	Role string `yaml:"role"`
}

type shippingArgs struct {
	FirstName  string `yaml:"firstName"`
	LastName   string `yaml:"lastName"`
	Address    string `yaml:"address"`
	City       string `yaml:"city"`
	PostalCode string `yaml:"postalCode"`
}

type addProductArgs struct {
	// Ref names the product for later steps; its id is generated.
	Ref                 string `yaml:"ref"`
	domain.ProductDraft `yaml:",inline"`
}

type cartOpenArgs struct {
	Open bool `yaml:"open"`
}

// decodeArgs round-trips args through YAML into dst, rejecting unknown keys.
func decodeArgs(args map[string]any, dst any) error {
	if args == nil {
		args = map[string]any{}
	}
	raw, err := yaml.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode args: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decode args: %w", err)
	}
	return nil
}

func changed(b bool) stepResult {
	return stepResult{changed: &b}
}

func addToCart(h *Harness, args map[string]any) (stepResult, error) {
	var a productArgs
	if err := decodeArgs(args, &a); err != nil {
		return stepResult{}, err
	}
	p, err := h.product(a.Product)
	if err != nil {
		return stepResult{}, err
	}
	h.engine.AddToCart(p)
	return stepResult{}, nil
}

func removeFromCart(h *Harness, args map[string]any) (stepResult, error) {
	var a productArgs
	if err := decodeArgs(args, &a); err != nil {
		return stepResult{}, err
	}
	return changed(h.engine.RemoveFromCart(h.resolveID(a.Product))), nil
}

func updateQuantity(h *Harness, args map[string]any) (stepResult, error) {
	var a quantityArgs
	if err := decodeArgs(args, &a); err != nil {
		return stepResult{}, err
	}
	return changed(h.engine.UpdateQuantity(h.resolveID(a.Product), a.Quantity)), nil
}

func clearCart(h *Harness, args map[string]any) (stepResult, error) {
	if err := decodeArgs(args, &struct{}{}); err != nil {
		return stepResult{}, err
	}
	h.engine.ClearCart()
	return stepResult{}, nil
}

func placeOrder(h *Harness, args map[string]any) (stepResult, error) {
	var a shippingArgs
	if err := decodeArgs(args, &a); err != nil {
		return stepResult{}, err
	}
	_, err := h.engine.PlaceOrder(domain.ShippingDetails(a))
	return stepResult{err: err}, nil
}

func login(h *Harness, args map[string]any) (stepResult, error) {
	var a loginArgs
	if err := decodeArgs(args, &a); err != nil {
		return stepResult{}, err
	}
	role, err := domain.ParseRole(a.Role)
	if err != nil {
		return stepResult{}, err
	}
	h.engine.Login(role)
	return stepResult{}, nil
}

func logout(h *Harness, args map[string]any) (stepResult, error) {
	if err := decodeArgs(args, &struct{}{}); err != nil {
		return stepResult{}, err
	}
	h.engine.Logout()
	return stepResult{}, nil
}

func addProduct(h *Harness, args map[string]any) (stepResult, error) {
	var a addProductArgs
	if err := decodeArgs(args, &a); err != nil {
		return stepResult{}, err
	}
	if a.Ref != "" {
		if _, dup := h.refs[a.Ref]; dup {
			return stepResult{}, fmt.Errorf("duplicate product ref %q", a.Ref)
		}
	}

	p, err := h.engine.AddProduct(a.ProductDraft)
	if err != nil {
		return stepResult{err: err}, nil
	}
	h.seen[p.ID] = p
	if a.Ref != "" {
		h.refs[a.Ref] = p.ID
	}
	return stepResult{}, nil
}

func deleteProduct(h *Harness, args map[string]any) (stepResult, error) {
	var a productArgs
	if err := decodeArgs(args, &a); err != nil {
		return stepResult{}, err
	}
	return changed(h.engine.DeleteProduct(h.resolveID(a.Product))), nil
}

func setCartOpen(h *Harness, args map[string]any) (stepResult, error) {
	var a cartOpenArgs
	if err := decodeArgs(args, &a); err != nil {
		return stepResult{}, err
	}
	h.engine.SetCartOpen(a.Open)
	return stepResult{}, nil
}
