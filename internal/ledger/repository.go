package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

type Repository interface {
	List(ctx context.Context, period shared.DateRange) ([]Entry, error)
	Create(ctx context.Context, entry Entry) (Entry, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	pool *pgxpool.Pool
	kind Kind
}

// NewRepository returns the store for one ledger kind.
func NewRepository(pool *pgxpool.Pool, kind Kind) Repository {
	return &repository{pool: pool, kind: kind}
}

func (r *repository) List(ctx context.Context, period shared.DateRange) ([]Entry, error) {
	query := `
SELECT l.id, l.product_id, p.id, p.name, p.price, p.cost_price, p.category_id,
       l.category_id, l.category_name, c.id, c.name, l.quantity, l.total_price, l.date
FROM ` + r.kind.table() + ` l
LEFT JOIN products p ON p.id = l.product_id
LEFT JOIN categories c ON c.id = l.category_id`
	var args []any
	if !period.IsZero() {
		start, end := period.Bounds()
		query += ` WHERE l.date >= $1 AND l.date < $2`
		args = append(args, start, end)
	}
	query += ` ORDER BY l.date DESC NULLS LAST, l.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.kind.table(), err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		entry, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *repository) scan(row pgx.Row) (Entry, error) {
	var (
		e            = Entry{Kind: r.kind}
		productID    *string
		productName  *string
		productPrice decimal.NullDecimal
		productCost  decimal.NullDecimal
		productCat   *string
		categoryName *string
		catID        *string
		catName      *string
		total        decimal.NullDecimal
	)
	err := row.Scan(&e.ID, &e.ProductID, &productID, &productName, &productPrice, &productCost, &productCat,
		&e.CategoryID, &categoryName, &catID, &catName, &e.Quantity, &total, &e.Date)
	if err != nil {
		return Entry{}, err
	}
	if productID != nil {
		ref := &ProductRef{ID: *productID, Price: productPrice.Decimal}
		if productName != nil {
			ref.Name = *productName
		}
		if productCost.Valid {
			ref.CostPrice = &productCost.Decimal
		}
		if productCat != nil {
			ref.CategoryID = *productCat
		}
		e.Product = ref
	}
	if categoryName != nil {
		e.CategoryName = *categoryName
	}
	if catID != nil {
		ref := &CategoryRef{ID: *catID}
		if catName != nil {
			ref.Name = *catName
		}
		e.Category = ref
	}
	if total.Valid {
		e.TotalPrice = shared.MoneyOrZero(&total.Decimal)
	}
	return e, nil
}

func (r *repository) Create(ctx context.Context, entry Entry) (Entry, error) {
	entry.ID = uuid.NewString()
	entry.Kind = r.kind
	_, err := r.pool.Exec(ctx, `
INSERT INTO `+r.kind.table()+` (id, product_id, category_id, category_name, quantity, total_price, date)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.ProductID, entry.CategoryID, entry.CategoryName, entry.Quantity, entry.TotalPrice, entry.Date)
	if err != nil {
		return Entry{}, fmt.Errorf("create %s: %w", r.kind, err)
	}
	return entry, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM `+r.kind.table()+` WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete %s: %w", r.kind, err)
	}
	return nil
}
