package catalog

import (
	"fmt"
	"strings"
)

// Categories the storefront knows how to display.
var supportedCategories = map[string]bool{
	"wheelchairs":       true,
	"mobility-scooters": true,
	"walking-aids":      true,
	"hospital-beds":     true,
	"accessories":       true,
}

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Validate(seed *SeedFile) error {
	if len(seed.Products) == 0 {
		return fmt.Errorf("at least one product is required")
	}

	names := make(map[string]bool)
	for i, product := range seed.Products {
		if err := v.validateProduct(&product); err != nil {
			return fmt.Errorf("product %d validation failed: %w", i, err)
		}

		if names[product.Name] {
			return fmt.Errorf("duplicate product name: %s", product.Name)
		}
		names[product.Name] = true
	}

	return nil
}

func (v *Validator) validateProduct(product *ProductSeed) error {
	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("product name is required")
	}

	if strings.TrimSpace(product.Brand) == "" {
		return fmt.Errorf("product brand is required")
	}

	category := strings.TrimSpace(product.Category)
	if category == "" {
		return fmt.Errorf("product category is required")
	}
	if !supportedCategories[category] {
		return fmt.Errorf("unsupported category: %s", category)
	}

	if product.Price <= 0 {
		return fmt.Errorf("product price must be positive")
	}

	return nil
}
