package catalog

// Package catalog parses and validates the product seed file used to
// populate an empty products table.

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type SeedFile struct {
	Products []ProductSeed `yaml:"products"`
}

type ProductSeed struct {
	Name        string  `yaml:"name"`
	Brand       string  `yaml:"brand"`
	Category    string  `yaml:"category"`
	Description string  `yaml:"description"`
	Image       string  `yaml:"image"`
	Price       float64 `yaml:"price"`
	Active      bool    `yaml:"active"`
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(content []byte) (*SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(content, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &seed, nil
}

func (p *Parser) ParseFromString(content string) (*SeedFile, error) {
	return p.Parse([]byte(content))
}
