package ledger

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/odyssey-admin/internal/masterdata/categories"
	"github.com/odyssey-erp/odyssey-admin/internal/masterdata/products"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

// ProductLookup resolves a product id, returning shared.ErrNotFound when absent.
type ProductLookup interface {
	Get(ctx context.Context, id string) (products.Product, error)
}

// CategoryLookup resolves a category id, returning shared.ErrNotFound when absent.
type CategoryLookup interface {
	Get(ctx context.Context, id string) (categories.Category, error)
}

type Service struct {
	kind       Kind
	repo       Repository
	products   ProductLookup
	categories CategoryLookup
	notifier   shared.ChangeNotifier
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(kind Kind, repo Repository, products ProductLookup, categories CategoryLookup, notifier shared.ChangeNotifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		kind:       kind,
		repo:       repo,
		products:   products,
		categories: categories,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// Kind reports which ledger this service writes.
func (s *Service) Kind() Kind { return s.kind }

// List returns entries newest first. A zero period returns everything.
func (s *Service) List(ctx context.Context, period shared.DateRange) ([]Entry, error) {
	return s.repo.List(ctx, period)
}

// Create validates the input, resolves the product (and the category when given) and stores
// the entry with totalPrice = price × quantity fixed at this moment.
func (s *Service) Create(ctx context.Context, in CreateInput) (Entry, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	if err := shared.ValidateStruct(in); err != nil {
		return Entry{}, err
	}

	product, err := s.products.Get(ctx, in.ProductID)
	if err != nil {
		return Entry{}, err
	}

	entry := Entry{
		Kind:       s.kind,
		ProductID:  product.ID,
		Product:    &ProductRef{ID: product.ID, Name: product.Name, Price: product.Price, CostPrice: product.CostPrice, CategoryID: product.ResolvedCategoryID()},
		Quantity:   in.Quantity,
		TotalPrice: product.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
	}
	now := s.now().UTC()
	entry.Date = &now

	switch {
	case in.CategoryID != "":
		category, err := s.categories.Get(ctx, in.CategoryID)
		if err != nil {
			return Entry{}, err
		}
		entry.setCategory(category.ID, category.Name)
	case product.Category != nil:
		entry.setCategory(product.Category.ID, product.Category.Name)
	}

	created, err := s.repo.Create(ctx, entry)
	if err != nil {
		return Entry{}, err
	}
	shared.NotifyChange(ctx, s.notifier, s.logger, string(s.kind))
	return created, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return shared.NewValidationError("id", "is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	shared.NotifyChange(ctx, s.notifier, s.logger, string(s.kind))
	return nil
}

func (e *Entry) setCategory(id, name string) {
	e.CategoryID = &id
	e.CategoryName = name
	e.Category = &CategoryRef{ID: id, Name: name}
}
