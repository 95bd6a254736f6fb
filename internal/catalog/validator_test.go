package catalog

import "testing"

func validSeed() *SeedFile {
	return &SeedFile{
		Products: []ProductSeed{
			{Name: "Folding Wheelchair", Brand: "Karma", Category: "wheelchairs", Price: 450, Active: true},
			{Name: "Walking Frame", Brand: "Bion", Category: "walking-aids", Price: 89.90, Active: true},
		},
	}
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*SeedFile)
		wantErr bool
	}{
		{
			name:    "valid seed",
			mutate:  func(*SeedFile) {},
			wantErr: false,
		},
		{
			name:    "empty seed",
			mutate:  func(s *SeedFile) { s.Products = nil },
			wantErr: true,
		},
		{
			name:    "missing name",
			mutate:  func(s *SeedFile) { s.Products[0].Name = " " },
			wantErr: true,
		},
		{
			name:    "missing brand",
			mutate:  func(s *SeedFile) { s.Products[0].Brand = "" },
			wantErr: true,
		},
		{
			name:    "unsupported category",
			mutate:  func(s *SeedFile) { s.Products[0].Category = "furniture" },
			wantErr: true,
		},
		{
			name:    "zero price",
			mutate:  func(s *SeedFile) { s.Products[1].Price = 0 },
			wantErr: true,
		},
		{
			name:    "duplicate names",
			mutate:  func(s *SeedFile) { s.Products[1].Name = s.Products[0].Name },
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			seed := validSeed()
			tt.mutate(seed)

			err := NewValidator().Validate(seed)
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}
