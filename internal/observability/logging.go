// Package observability provides structured logging for the service and
// task lifecycle helpers for the orchestrator.
package observability

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/laudatorai/internal/types"
)

// NewLogger creates a JSON logger at the given level. Unknown level names
// fall back to info.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// TaskStart logs the beginning of a task attempt and returns the start time
// for the matching TaskComplete/TaskError call.
func TaskStart(log logrus.FieldLogger, task *types.ProcessingTask) time.Time {
	log.WithFields(logrus.Fields{
		"task_id":     task.ID,
		"task_type":   task.Type,
		"queue":       task.Queue,
		"retry_count": task.RetryCount,
	}).Info("task started")
	return time.Now()
}

// TaskComplete logs a successful task attempt with its duration.
func TaskComplete(log logrus.FieldLogger, task *types.ProcessingTask, started time.Time) {
	log.WithFields(logrus.Fields{
		"task_id":     task.ID,
		"task_type":   task.Type,
		"duration_ms": time.Since(started).Milliseconds(),
	}).Info("task completed")
}

// TaskError logs a failed task attempt. willRetry distinguishes a retryable
// failure from a terminal one.
func TaskError(log logrus.FieldLogger, task *types.ProcessingTask, started time.Time, err error, willRetry bool) {
	log.WithFields(logrus.Fields{
		"task_id":     task.ID,
		"task_type":   task.Type,
		"duration_ms": time.Since(started).Milliseconds(),
		"error":       err.Error(),
		"will_retry":  willRetry,
	}).Error("task failed")
}
