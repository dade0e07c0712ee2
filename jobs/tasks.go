package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskMediaDelete removes product image files that are no longer referenced.
	TaskMediaDelete = "media:delete"
	// TaskReportsWarmup pre-builds the category rollup after data changes.
	TaskReportsWarmup = "reports:warmup"

	warmupUniqueWindow = time.Minute
)

// MediaDeletePayload lists the URLs to delete.
type MediaDeletePayload struct {
	URLs []string `json:"urls"`
}

// ReportsWarmupPayload records what triggered the warmup.
type ReportsWarmupPayload struct {
	Reason  string `json:"reason"`
	Version int64  `json:"version,omitempty"`
}

// NewMediaDeleteTask constructs a media deletion task.
func NewMediaDeleteTask(urls []string) (*asynq.Task, error) {
	data, err := json.Marshal(MediaDeletePayload{URLs: urls})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMediaDelete, data, asynq.MaxRetry(5)), nil
}

// NewReportsWarmupTask constructs a warmup task. Duplicates within a minute are dropped.
func NewReportsWarmupTask(reason string, version int64) (*asynq.Task, error) {
	if reason == "" {
		reason = "schedule"
	}
	data, err := json.Marshal(ReportsWarmupPayload{Reason: reason, Version: version})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportsWarmup, data, asynq.MaxRetry(3), asynq.Unique(warmupUniqueWindow)), nil
}
