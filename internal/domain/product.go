package domain

import (
	"fmt"
	"hash/fnv"
	"slices"
)

// Category groups products in the catalog. The set is fixed but may be extended.
type Category string

const (
	CategoryMen         Category = "Men"
	CategoryWomen       Category = "Women"
	CategoryAccessories Category = "Accessories"
	CategoryFootwear    Category = "Footwear"
)

// Categories lists the known categories in display order.
var Categories = []Category{CategoryMen, CategoryWomen, CategoryAccessories, CategoryFootwear}

// LowStockThreshold is the stock level below which a product is flagged as low stock.
const LowStockThreshold = 10

// Product is a catalog entry.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Price       float64  `json:"price" yaml:"price"`
	Category    string   `json:"category" yaml:"category"`
	Image       string   `json:"image" yaml:"image"`
	Description string   `json:"description" yaml:"description"`
	Rating      float64  `json:"rating" yaml:"rating"`
	Reviews     int      `json:"reviews" yaml:"reviews"`
	Stock       int      `json:"stock" yaml:"stock"`
	Features    []string `json:"features" yaml:"features"`
}

// Clone returns a deep copy of the product.
func (p Product) Clone() Product {
	p.Features = slices.Clone(p.Features)
	return p
}

// LowStock reports whether the product should be displayed with a low stock badge.
func (p Product) LowStock() bool {
	return p.Stock < LowStockThreshold
}

// ProductDraft carries every Product field except the ID, as submitted by the
// admin form.
type ProductDraft struct {
	Name        string   `json:"name" yaml:"name"`
	Price       float64  `json:"price" yaml:"price"`
	Category    string   `json:"category" yaml:"category"`
	Image       string   `json:"image" yaml:"image"`
	Description string   `json:"description" yaml:"description"`
	Rating      float64  `json:"rating" yaml:"rating"`
	Reviews     int      `json:"reviews" yaml:"reviews"`
	Stock       int      `json:"stock" yaml:"stock"`
	Features    []string `json:"features" yaml:"features"`
}

// Draft defaults applied when the admin leaves a field empty.
const (
	DefaultProductName        = "New Product"
	DefaultProductDescription = "No description provided."
	DefaultProductRating      = 5.0
)

// DefaultFeatures are the feature tags assigned to products created without any.
var DefaultFeatures = []string{"New Arrival", "Premium Quality"}

// Build turns the draft into a Product with the given id, filling empty fields
// from the default policy. The placeholder image is derived from the id so the
// same id always yields the same image.
func (d ProductDraft) Build(id string) Product {
	p := Product{
		ID:          id,
		Name:        d.Name,
		Price:       d.Price,
		Category:    d.Category,
		Image:       d.Image,
		Description: d.Description,
		Rating:      d.Rating,
		Reviews:     d.Reviews,
		Stock:       d.Stock,
		Features:    slices.Clone(d.Features),
	}
	if p.Name == "" {
		p.Name = DefaultProductName
	}
	if p.Category == "" {
		p.Category = string(CategoryMen)
	}
	if p.Image == "" {
		p.Image = placeholderImage(id)
	}
	if p.Description == "" {
		p.Description = DefaultProductDescription
	}
	if p.Rating == 0 {
		p.Rating = DefaultProductRating
	}
	if len(p.Features) == 0 {
		p.Features = slices.Clone(DefaultFeatures)
	}
	return p
}

func placeholderImage(id string) string {
	h := fnv.New32a()
	h.Write([]byte(id))
	return fmt.Sprintf("https://picsum.photos/400/500?random=%d", h.Sum32()%1000)
}

// CloneProducts deep-copies a product slice. A nil input yields an empty slice.
func CloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
