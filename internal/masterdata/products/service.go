package products

import (
	"context"
	"log/slog"
	"strings"

	"github.com/odyssey-erp/odyssey-admin/internal/masterdata/categories"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

// CategoryLookup resolves a category id, returning shared.ErrNotFound when absent.
type CategoryLookup interface {
	Get(ctx context.Context, id string) (categories.Category, error)
}

// ImageRemover deletes stored image files. Callers treat failures as non-fatal.
type ImageRemover interface {
	RemoveImages(ctx context.Context, urls []string) error
}

type Service struct {
	repo       Repository
	categories CategoryLookup
	images     ImageRemover
	notifier   shared.ChangeNotifier
	logger     *slog.Logger
}

func NewService(repo Repository, categories CategoryLookup, images ImageRemover, notifier shared.ChangeNotifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, categories: categories, images: images, notifier: notifier, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Product{}, shared.NewValidationError("id", "is required")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form ProductForm) (Product, error) {
	if err := form.validate(false); err != nil {
		return Product{}, err
	}
	product, err := s.fromForm(ctx, form)
	if err != nil {
		return Product{}, err
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return Product{}, err
	}
	shared.NotifyChange(ctx, s.notifier, s.logger, "product")
	return created, nil
}

func (s *Service) Update(ctx context.Context, form ProductForm) (Product, error) {
	if err := form.validate(true); err != nil {
		return Product{}, err
	}
	product, err := s.fromForm(ctx, form)
	if err != nil {
		return Product{}, err
	}
	product.ID = form.ID
	updated, previous, err := s.repo.Update(ctx, product)
	if err != nil {
		return Product{}, err
	}
	s.removeImages(ctx, product.ID, droppedImages(previous, updated.Images))
	shared.NotifyChange(ctx, s.notifier, s.logger, "product")
	return updated, nil
}

// Delete removes the product, then its images best-effort. Sales and expenses keep
// their product reference and report it as unknown.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return shared.NewValidationError("id", "is required")
	}
	images, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.removeImages(ctx, id, images)
	shared.NotifyChange(ctx, s.notifier, s.logger, "product")
	return nil
}

func (s *Service) fromForm(ctx context.Context, form ProductForm) (Product, error) {
	product := Product{
		Name:      form.Name,
		Price:     *form.Price,
		CostPrice: form.CostPrice,
		Images:    form.Images.normalized(),
	}
	if form.CategoryID != "" {
		category, err := s.categories.Get(ctx, form.CategoryID)
		if err != nil {
			return Product{}, err
		}
		id := category.ID
		product.CategoryID = &id
		product.Category = &CategoryRef{ID: category.ID, Name: category.Name}
	}
	return product, nil
}

func (s *Service) removeImages(ctx context.Context, productID string, urls []string) {
	if s.images == nil || len(urls) == 0 {
		return
	}
	if err := s.images.RemoveImages(ctx, urls); err != nil {
		s.logger.Warn("remove product images failed",
			slog.String("product_id", productID),
			slog.Int("count", len(urls)),
			slog.Any("error", err))
	}
}

func droppedImages(previous, current []string) []string {
	keep := make(map[string]struct{}, len(current))
	for _, img := range current {
		keep[img] = struct{}{}
	}
	var dropped []string
	for _, img := range previous {
		if _, ok := keep[img]; !ok {
			dropped = append(dropped, img)
		}
	}
	return dropped
}
