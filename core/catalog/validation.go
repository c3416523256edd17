// Package catalog - Catalog validation
// Flags bundle definitions that load fine but are probably data mistakes.
package catalog

import (
	"fmt"
)

// ValidationRule checks one bundle definition
type ValidationRule func(c *Catalog, def Definition) error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateGrantsSomething,
		validatePriceLabel,
	}
}

// Validate checks every definition against rules, in catalog order
func (c *Catalog) Validate(rules []ValidationRule) []error {
	var errs []error

	for _, def := range c.Definitions() {
		for _, rule := range rules {
			if err := rule(c, def); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", def.Key, err))
			}
		}
	}

	return errs
}

// validateGrantsSomething rejects bundles whose every amount is zero
func validateGrantsSomething(_ *Catalog, def Definition) error {
	if def.Vector().IsZero() {
		return fmt.Errorf("bundle grants nothing")
	}
	return nil
}

// validatePriceLabel requires a package label with a readable price, so
// spend can be reported
func validatePriceLabel(c *Catalog, def Definition) error {
	if _, ok := c.Price(def.Key); !ok {
		return fmt.Errorf("package %q has no price", def.Key.Package)
	}
	return nil
}
