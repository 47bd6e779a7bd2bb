package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/primecart/internal/domain"
)

// Seed is a catalog seed file: a list of product drafts to add in order.
type Seed struct {
	Products []domain.ProductDraft `yaml:"products"`
}

// LoadSeed reads and parses a seed YAML file.
// Unknown fields are rejected so typos surface instead of being dropped.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(bytes.NewReader(data))
}

// ParseSeed parses seed YAML from r.
func ParseSeed(r io.Reader) (*Seed, error) {
	var seed Seed
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
	}
	if len(seed.Products) == 0 {
		return nil, fmt.Errorf("invalid seed: products list is required and must be non-empty")
	}
	return &seed, nil
}
