package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/karvanashop/karvana/internal/logging"
	"github.com/karvanashop/karvana/internal/models"
)

type productWriter interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, product *models.Product) error
}

// Seeder populates the products table from a YAML seed file on first boot.
type Seeder struct {
	parser    *Parser
	validator *Validator
	products  productWriter
	logger    *slog.Logger
}

func NewSeeder(products productWriter, logger *slog.Logger) *Seeder {
	return &Seeder{
		parser:    NewParser(),
		validator: NewValidator(),
		products:  products,
		logger:    logger,
	}
}

// SeedIfEmpty loads the seed file and inserts its products, but only when the
// table has no rows. A populated table is left untouched so admin edits
// survive restarts.
func (s *Seeder) SeedIfEmpty(ctx context.Context, path string) error {
	logger := logging.FromContext(ctx, s.logger)

	count, err := s.products.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		logger.Debug("catalog already populated, skipping seed", "products", count)
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	seed, err := s.parser.Parse(content)
	if err != nil {
		return err
	}
	if err := s.validator.Validate(seed); err != nil {
		return fmt.Errorf("seed file invalid: %w", err)
	}

	for _, ps := range seed.Products {
		product := &models.Product{
			Name:        ps.Name,
			Brand:       ps.Brand,
			Category:    ps.Category,
			Description: ps.Description,
			Image:       ps.Image,
			Price:       ps.Price,
			IsActive:    ps.Active,
		}
		if err := s.products.Create(ctx, product); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", ps.Name, err)
		}
	}

	logger.Info("seeded product catalog", "path", path, "products", len(seed.Products))
	return nil
}
