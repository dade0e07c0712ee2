package media

import (
	"context"
	"errors"
	"log/slog"
)

// Remover deletes image URLs from a Store, continuing past individual failures.
type Remover struct {
	store  Store
	logger *slog.Logger
}

func NewRemover(store Store, logger *slog.Logger) *Remover {
	return &Remover{store: store, logger: logger}
}

// RemoveImages deletes every url and returns the joined failures.
func (r *Remover) RemoveImages(ctx context.Context, urls []string) error {
	var errs []error
	for _, url := range urls {
		if err := r.store.Delete(ctx, url); err != nil {
			r.logger.Warn("image delete failed", slog.String("url", url), slog.Any("error", err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
