package engine

import (
	"fmt"
	"slices"

	"github.com/roach88/primecart/internal/domain"
)

// AddProduct assigns a new id to draft, fills empty fields from the default
// policy and prepends the product to the catalog.
//
// Without strict validation any draft is accepted; the admin form is expected
// to have checked it.
func (e *Engine) AddProduct(draft domain.ProductDraft) (domain.Product, error) {
	e.lockMutation()

	if e.strict {
		if err := e.validate(draft); err != nil {
			e.mu.Unlock()
			return domain.Product{}, fmt.Errorf("add product: %w", err)
		}
	}

	p := draft.Build(e.ids.NewID())
	e.products = slices.Insert(e.products, 0, p)
	e.save(KeyProducts, e.products)

	e.logger.Info("product added", "product_id", p.ID, "name", p.Name)
	e.commit(Change{Op: "addProduct", Collections: []string{CollectionProducts}, CartOpen: e.cartOpen})
	return p.Clone(), nil
}

// DeleteProduct removes the product with id from the catalog. Returns false,
// and changes nothing, if there is no such product. Cart items for the
// product are left alone.
func (e *Engine) DeleteProduct(id string) bool {
	e.lockMutation()

	i := slices.IndexFunc(e.products, func(p domain.Product) bool { return p.ID == id })
	if i < 0 {
		e.mu.Unlock()
		return false
	}
	e.products = slices.Delete(e.products, i, i+1)
	e.save(KeyProducts, e.products)

	e.logger.Info("product deleted", "product_id", id)
	e.commit(Change{Op: "deleteProduct", Collections: []string{CollectionProducts}, CartOpen: e.cartOpen})
	return true
}
