package catalog

import "testing"

const sampleSeed = `
products:
  - name: Folding Wheelchair
    brand: Karma
    category: wheelchairs
    description: Lightweight aluminium frame
    image: wheelchair.jpg
    price: 450.00
    active: true
  - name: Walking Frame
    brand: Bion
    category: walking-aids
    price: 89.90
    active: true
`

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	seed, err := NewParser().ParseFromString(sampleSeed)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(seed.Products) != 2 {
		t.Fatalf("len(Products) = %d, want 2", len(seed.Products))
	}
	first := seed.Products[0]
	if first.Name != "Folding Wheelchair" {
		t.Errorf("Name = %q", first.Name)
	}
	if first.Price != 450.00 {
		t.Errorf("Price = %v, want 450.00", first.Price)
	}
	if !first.Active {
		t.Error("Active = false, want true")
	}
	if seed.Products[1].Description != "" {
		t.Errorf("Description = %q, want empty", seed.Products[1].Description)
	}
}

func TestParser_ParseInvalidYAML(t *testing.T) {
	t.Parallel()

	if _, err := NewParser().ParseFromString("products: [unclosed"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
