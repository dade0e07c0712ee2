package shared

import (
	"context"
	"log/slog"
)

// ChangeNotifier is told about every committed write so derived read models can refresh.
type ChangeNotifier interface {
	Bump(ctx context.Context) error
}

// NotifyChange bumps n and logs instead of failing the write that already committed.
func NotifyChange(ctx context.Context, n ChangeNotifier, logger *slog.Logger, entity string) {
	if n == nil {
		return
	}
	if err := n.Bump(ctx); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("report cache bump failed", slog.String("entity", entity), slog.Any("error", err))
	}
}
