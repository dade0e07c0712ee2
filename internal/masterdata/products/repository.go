package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/db"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	// Update replaces the product and returns the images it had before.
	Update(ctx context.Context, product Product) (Product, []string, error)
	// Delete removes the product and returns the images it referenced.
	Delete(ctx context.Context, id string) ([]string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const selectProducts = `
SELECT p.id, p.name, p.price, p.cost_price, p.images, p.category_id, c.id, c.name, p.created_at, p.updated_at
FROM products p
LEFT JOIN categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p       Product
		cost    decimal.NullDecimal
		catID   *string
		catName *string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &cost, &p.Images, &p.CategoryID, &catID, &catName, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Product{}, err
	}
	if cost.Valid {
		p.CostPrice = &cost.Decimal
	}
	if catID != nil {
		ref := &CategoryRef{ID: *catID}
		if catName != nil {
			ref.Name = *catName
		}
		p.Category = ref
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, selectProducts+` ORDER BY p.created_at DESC, p.id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, selectProducts+` WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("product %s: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	now := time.Now().UTC()
	product.ID = uuid.NewString()
	product.CreatedAt = now
	product.UpdatedAt = now
	_, err := r.pool.Exec(ctx, `
INSERT INTO products (id, name, price, cost_price, images, category_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		product.ID, product.Name, product.Price, nullDecimal(product.CostPrice), product.Images,
		product.CategoryID, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (r *repository) Update(ctx context.Context, product Product) (Product, []string, error) {
	var previous []string
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT images FROM products WHERE id = $1 FOR UPDATE`, product.ID).Scan(&previous)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("product %s: %w", product.ID, shared.ErrNotFound)
		}
		if err != nil {
			return err
		}
		product.UpdatedAt = time.Now().UTC()
		return tx.QueryRow(ctx, `
UPDATE products
SET name = $2, price = $3, cost_price = $4, images = $5, category_id = $6, updated_at = $7
WHERE id = $1
RETURNING created_at`,
			product.ID, product.Name, product.Price, nullDecimal(product.CostPrice), product.Images,
			product.CategoryID, product.UpdatedAt).Scan(&product.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Product{}, nil, err
		}
		return Product{}, nil, fmt.Errorf("update product: %w", err)
	}
	return product, previous, nil
}

func (r *repository) Delete(ctx context.Context, id string) ([]string, error) {
	var images []string
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `DELETE FROM products WHERE id = $1 RETURNING images`, id).Scan(&images)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("product %s: %w", id, shared.ErrNotFound)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}
	return images, nil
}

func nullDecimal(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *v, Valid: true}
}
