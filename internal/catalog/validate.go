package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/primecart/internal/domain"
)

//go:embed product.cue
var productSchema string

// Validator checks product drafts against the admin form schema.
//
// Thread-safety: a cue.Context is not safe for concurrent use, so Validate
// serializes callers.
type Validator struct {
	mu     sync.Mutex
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(productSchema, cue.Filename("product.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile product schema: %w", err)
	}

	schema := v.LookupPath(cue.ParsePath("#ProductDraft"))
	if !schema.Exists() {
		return nil, fmt.Errorf("product schema: #ProductDraft not defined")
	}
	return &Validator{ctx: ctx, schema: schema}, nil
}

// Validate returns nil or a domain.ValidationErrors with one entry per
// rejected field, in schema order.
func (v *Validator) Validate(d domain.ProductDraft) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	value := v.schema.Unify(v.ctx.Encode(d))
	err := value.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs domain.ValidationErrors
	seen := make(map[string]bool)
	for _, e := range cueerrors.Errors(err) {
		field := fieldOf(e.Path())
		if seen[field] {
			continue
		}
		seen[field] = true

		format, args := e.Msg()
		errs = append(errs, &domain.ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}
	return errs
}

// fieldOf drops definition labels from a CUE error path.
func fieldOf(path []string) string {
	parts := make([]string, 0, len(path))
	for _, p := range path {
		if strings.HasPrefix(p, "#") {
			continue
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, ".")
}

var defaultValidator = sync.OnceValues(NewValidator)

// ValidateDraft validates d with a shared Validator. It has the signature of
// engine.DraftValidator.
func ValidateDraft(d domain.ProductDraft) error {
	v, err := defaultValidator()
	if err != nil {
		return fmt.Errorf("validate draft: %w", err)
	}
	return v.Validate(d)
}
