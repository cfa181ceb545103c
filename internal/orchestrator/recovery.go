package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/laudatorai/internal/db"
	"github.com/jonathan/laudatorai/internal/types"
)

// pollLoop delivers queued task rows to the worker channels. It covers
// restart recovery, channel overflow, and rows created by other processes.
func (o *Orchestrator) pollLoop(ctx context.Context) {
	defer o.wg.Done()

	ticker := time.NewTicker(o.opts.PollInterval)
	defer ticker.Stop()

	o.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-o.stop:
			return
		case <-ticker.C:
			o.pollOnce(ctx)
		}
	}
}

func (o *Orchestrator) pollOnce(ctx context.Context) {
	for _, queue := range Queues() {
		tasks, err := o.db.ListQueuedTasks(ctx, queue)
		if err != nil {
			o.log.WithError(err).WithField("queue", queue).Warn("failed to poll queue")
			continue
		}
		for _, task := range tasks {
			o.enqueue(queue, task.ID)
		}
	}
}

// recoveryLoop requeues running tasks whose heartbeat exceeded the lease
// timeout. The stale row is failed and superseded by a fresh queued row
// carrying the same retry count.
func (o *Orchestrator) recoveryLoop(ctx context.Context) {
	defer o.wg.Done()

	ticker := time.NewTicker(o.opts.LeaseTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-o.stop:
			return
		case <-ticker.C:
			o.recoverStaleTasks(ctx)
		}
	}
}

func (o *Orchestrator) recoverStaleTasks(ctx context.Context) {
	stale, err := o.db.ListStaleRunningTasks(ctx, o.opts.LeaseTimeout)
	if err != nil {
		o.log.WithError(err).Warn("failed to list stale tasks")
		return
	}

	for _, task := range stale {
		o.log.WithFields(logrus.Fields{
			"task_id":   task.ID,
			"task_type": task.Type,
		}).Warn("requeuing task with expired lease")

		if err := o.db.MarkTaskFailed(ctx, task.ID, "lease expired"); err != nil {
			o.log.WithError(err).WithField("task_id", task.ID).Error("failed to fail stale task")
			continue
		}
		retry, err := o.db.CreateTask(ctx, task.Type, task.Queue, task.EntityID, task.ApplicationID, task.Payload, task.RetryCount)
		if err != nil {
			if !errors.Is(err, db.ErrDuplicateTask) {
				o.log.WithError(err).WithField("task_id", task.ID).Error("failed to requeue stale task")
			}
			continue
		}
		o.enqueue(task.Queue, retry.ID)
	}
}

// cleanupLoop periodically enqueues a retention sweep on the cleanup queue.
func (o *Orchestrator) cleanupLoop(ctx context.Context) {
	defer o.wg.Done()

	ticker := time.NewTicker(o.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-o.stop:
			return
		case <-ticker.C:
			payload := types.CleanupPayload{OlderThanHours: o.opts.TaskRetentionHours}
			if _, err := o.Submit(ctx, types.TaskCleanupTasks, uuid.New(), uuid.Nil, payload); err != nil {
				o.log.WithError(err).Warn("failed to submit cleanup task")
			}
		}
	}
}
