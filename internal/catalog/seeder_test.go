package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/karvanashop/karvana/internal/models"
)

type fakeProductWriter struct {
	count   int
	created []*models.Product
}

func (f *fakeProductWriter) Count(ctx context.Context) (int, error) {
	return f.count, nil
}

func (f *fakeProductWriter) Create(ctx context.Context, product *models.Product) error {
	f.created = append(f.created, product)
	return nil
}

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSeedIfEmptyPopulatesEmptyTable(t *testing.T) {
	t.Parallel()

	writer := &fakeProductWriter{}
	seeder := NewSeeder(writer, nil)

	path := writeSeedFile(t, sampleSeed)
	if err := seeder.SeedIfEmpty(context.Background(), path); err != nil {
		t.Fatalf("SeedIfEmpty() error = %v", err)
	}

	if len(writer.created) != 2 {
		t.Fatalf("created %d products, want 2", len(writer.created))
	}
	if writer.created[0].Name != "Folding Wheelchair" {
		t.Errorf("Name = %q", writer.created[0].Name)
	}
}

func TestSeedIfEmptySkipsPopulatedTable(t *testing.T) {
	t.Parallel()

	writer := &fakeProductWriter{count: 5}
	seeder := NewSeeder(writer, nil)

	path := writeSeedFile(t, sampleSeed)
	if err := seeder.SeedIfEmpty(context.Background(), path); err != nil {
		t.Fatalf("SeedIfEmpty() error = %v", err)
	}
	if len(writer.created) != 0 {
		t.Fatalf("created %d products, want 0", len(writer.created))
	}
}

func TestSeedIfEmptyRejectsInvalidSeed(t *testing.T) {
	t.Parallel()

	writer := &fakeProductWriter{}
	seeder := NewSeeder(writer, nil)

	path := writeSeedFile(t, `
products:
  - name: Broken Product
    brand: Acme
    category: furniture
    price: 10
`)
	if err := seeder.SeedIfEmpty(context.Background(), path); err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(writer.created) != 0 {
		t.Fatalf("created %d products, want 0", len(writer.created))
	}
}
