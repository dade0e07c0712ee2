package categories

import (
	"context"
	"log/slog"
	"strings"

	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

type Service struct {
	repo     Repository
	notifier shared.ChangeNotifier
	logger   *slog.Logger
}

func NewService(repo Repository, notifier shared.ChangeNotifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Category, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Category{}, shared.NewValidationError("id", "is required")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := shared.ValidateStruct(in); err != nil {
		return Category{}, err
	}
	created, err := s.repo.Create(ctx, in.Name)
	if err != nil {
		return Category{}, err
	}
	shared.NotifyChange(ctx, s.notifier, s.logger, "category")
	return created, nil
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (Category, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	if err := shared.ValidateStruct(in); err != nil {
		return Category{}, err
	}
	updated, err := s.repo.Update(ctx, in.ID, in.Name)
	if err != nil {
		return Category{}, err
	}
	shared.NotifyChange(ctx, s.notifier, s.logger, "category")
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return shared.NewValidationError("id", "is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	shared.NotifyChange(ctx, s.notifier, s.logger, "category")
	return nil
}
