package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProductNotFound = errors.New("product not found")

// ProductStore is the product authority: the source of truth for product
// existence, active status, and price at order-creation time.
type ProductStore struct {
	pool *pgxpool.Pool
}

func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

const productColumns = `id, name, brand, category, description, image, price, is_active, date_added, updated_at`

// GetByIDs fetches the referenced products in one batch. It returns only
// the ids that resolved; callers reject the whole order on a partial set.
func (s *ProductStore) GetByIDs(ctx context.Context, ids []int) ([]ProductRef, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, image, price, is_active FROM products WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to look up products: %w", err)
	}
	defer rows.Close()

	var refs []ProductRef
	for rows.Next() {
		var ref ProductRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Image, &ref.Price, &ref.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

func (s *ProductStore) GetByID(ctx context.Context, id int) (*Product, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (s *ProductStore) List(ctx context.Context) ([]*Product, error) {
	return s.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY date_added DESC`)
}

func (s *ProductStore) ListActive(ctx context.Context) ([]*Product, error) {
	return s.list(ctx, `SELECT `+productColumns+` FROM products WHERE is_active ORDER BY date_added DESC`)
}

func (s *ProductStore) list(ctx context.Context, query string) ([]*Product, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (s *ProductStore) Create(ctx context.Context, product *Product) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO products (name, brand, category, description, image, price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, date_added, updated_at
	`, product.Name, product.Brand, product.Category, product.Description, product.Image, product.Price, product.IsActive)
	if err := row.Scan(&product.ID, &product.DateAdded, &product.UpdatedAt); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (s *ProductStore) Update(ctx context.Context, product *Product) error {
	cmdTag, err := s.pool.Exec(ctx, `
		UPDATE products
		SET name = $1, brand = $2, category = $3, description = $4, image = $5,
		    price = $6, is_active = $7, updated_at = NOW()
		WHERE id = $8
	`, product.Name, product.Brand, product.Category, product.Description, product.Image,
		product.Price, product.IsActive, product.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product from the catalog. Order line items keep their
// snapshots; there is no FK coupling back into historical orders.
func (s *ProductStore) Delete(ctx context.Context, id int) error {
	cmdTag, err := s.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *ProductStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func scanProduct(row pgx.Row) (*Product, error) {
	product := &Product{}
	err := row.Scan(
		&product.ID, &product.Name, &product.Brand, &product.Category,
		&product.Description, &product.Image, &product.Price, &product.IsActive,
		&product.DateAdded, &product.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	return product, nil
}
