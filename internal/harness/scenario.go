package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a storefront scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Strict enables strict validation on the engine under test.
	Strict bool `yaml:"strict,omitempty"`

	// Setup establishes initial state. Setup steps must succeed and carry no
	// expectations.
	Setup []Step `yaml:"setup,omitempty"`

	// Steps is the flow under test.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one engine operation, or a restart.
type Step struct {
	// Action is the engine operation name, e.g. "addToCart".
	Action string `yaml:"action,omitempty"`

	// Args are decoded into the operation's argument struct. Unknown keys
	// are rejected.
	Args map[string]any `yaml:"args,omitempty"`

	// Restart closes the engine and builds a new one over the same store.
	Restart bool `yaml:"restart,omitempty"`

	// Expect validates the step outcome. If nil, the step must succeed.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the expected outcome of a step.
type Expect struct {
	// Changed is the expected boolean result of operations that report
	// whether anything changed (removeFromCart, updateQuantity, deleteProduct).
	Changed *bool `yaml:"changed,omitempty"`

	// Error, if set, requires the step to fail with a message containing it.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Product is a product id or ref (cart_quantity).
	Product string `yaml:"product,omitempty"`

	// Count is the expected size (cart_size, order_count, catalog_size, trace_count).
	Count *int `yaml:"count,omitempty"`

	// Quantity is the expected cart quantity (cart_quantity).
	Quantity int `yaml:"quantity,omitempty"`

	// Amount is the expected money value (subtotal, order_total).
	Amount *float64 `yaml:"amount,omitempty"`

	// Index selects the order for order_total; 0 is the newest.
	Index int `yaml:"index,omitempty"`

	// Role is the expected session role, or "none" (user_role).
	Role string `yaml:"role,omitempty"`

	// Open is the expected cart panel flag (cart_open).
	Open *bool `yaml:"open,omitempty"`

	// Action is the step action counted by trace_count.
	Action string `yaml:"action,omitempty"`
}

// Assertion type constants.
const (
	AssertCartSize     = "cart_size"
	AssertCartQuantity = "cart_quantity"
	AssertSubtotal     = "subtotal"
	AssertOrderCount   = "order_count"
	AssertOrderTotal   = "order_total"
	AssertCatalogSize  = "catalog_size"
	AssertUserRole     = "user_role"
	AssertCartOpen     = "cart_open"
	AssertTraceCount   = "trace_count"
)

// RoleNone is the user_role value for a logged-out session.
const RoleNone = "none"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict fields catch typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if step.Restart {
			return fmt.Errorf("setup[%d]: restart is only allowed in steps", i)
		}
		if err := validateStep(step); err != nil {
			return fmt.Errorf("setup[%d]: %w", i, err)
		}
		if step.Expect != nil {
			return fmt.Errorf("setup[%d]: expect is not allowed in setup", i)
		}
	}

	for i, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(step Step) error {
	if step.Restart {
		if step.Action != "" || step.Args != nil || step.Expect != nil {
			return fmt.Errorf("restart step takes no action, args or expect")
		}
		return nil
	}
	if step.Action == "" {
		return fmt.Errorf("action is required")
	}
	if _, ok := actions[step.Action]; !ok {
		return fmt.Errorf("unknown action %q", step.Action)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCartSize, AssertOrderCount, AssertCatalogSize:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for %s", index, a.Type)
		}
	case AssertCartQuantity:
		if a.Product == "" {
			return fmt.Errorf("assertions[%d]: product is required for cart_quantity", index)
		}
		if a.Quantity < 1 {
			return fmt.Errorf("assertions[%d]: quantity must be at least 1 for cart_quantity", index)
		}
	case AssertSubtotal, AssertOrderTotal:
		if a.Amount == nil {
			return fmt.Errorf("assertions[%d]: amount is required for %s", index, a.Type)
		}
		if a.Index < 0 {
			return fmt.Errorf("assertions[%d]: index must be non-negative", index)
		}
	case AssertUserRole:
		if a.Role == "" {
			return fmt.Errorf("assertions[%d]: role is required for user_role (use %q when logged out)", index, RoleNone)
		}
	case AssertCartOpen:
		if a.Open == nil {
			return fmt.Errorf("assertions[%d]: open is required for cart_open", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
