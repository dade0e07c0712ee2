package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/odyssey-erp/odyssey-admin/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ImageRemover deletes stored image files.
type ImageRemover interface {
	RemoveImages(ctx context.Context, urls []string) error
}

// MediaDeleteJob executes media:delete tasks against the configured store.
type MediaDeleteJob struct {
	Remover ImageRemover
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

func NewMediaDeleteJob(remover ImageRemover, logger *slog.Logger, metrics *jobmetrics.Metrics) *MediaDeleteJob {
	return &MediaDeleteJob{Remover: remover, Logger: logger, Metrics: metrics}
}

// Handle deletes every URL of the payload. Malformed payloads are not retried.
func (j *MediaDeleteJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Remover == nil {
		return errors.New("media delete: handler not configured")
	}
	var payload MediaDeletePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tracker := metricsOrDefault(j.Metrics).Track(TaskMediaDelete)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	if len(payload.URLs) == 0 {
		return nil
	}
	if err := j.Remover.RemoveImages(ctx, payload.URLs); err != nil {
		loggerOrDefault(j.Logger, TaskMediaDelete).Warn("media delete incomplete", slog.Int("urls", len(payload.URLs)), slog.Any("error", err))
		return err
	}
	return nil
}

func metricsOrDefault(m *jobmetrics.Metrics) *jobmetrics.Metrics {
	if m != nil {
		return m
	}
	return defaultJobMetrics
}

func loggerOrDefault(l *slog.Logger, job string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With(slog.String("job", job))
}
