package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jonathan/laudatorai/internal/db"
	"github.com/jonathan/laudatorai/internal/observability"
	"github.com/jonathan/laudatorai/internal/schemas"
	"github.com/jonathan/laudatorai/internal/types"
)

// Handler executes one task and returns its result payload.
type Handler func(ctx context.Context, task *types.ProcessingTask) (any, error)

// Options configures queue worker counts and maintenance intervals.
type Options struct {
	Workers            map[types.Queue]int
	LeaseTimeout       time.Duration
	CleanupInterval    time.Duration
	TaskRetentionHours int
	PollInterval       time.Duration
}

func (o *Options) applyDefaults() {
	if o.Workers == nil {
		o.Workers = map[types.Queue]int{}
	}
	defaults := map[types.Queue]int{
		types.QueueJobProcessing:         2,
		types.QueueResumeProcessing:      2,
		types.QueueApplicationProcessing: 4,
		types.QueueCleanup:               1,
	}
	for queue, n := range defaults {
		if o.Workers[queue] <= 0 {
			o.Workers[queue] = n
		}
	}
	if o.LeaseTimeout <= 0 {
		o.LeaseTimeout = 5 * time.Minute
	}
	if o.CleanupInterval <= 0 {
		o.CleanupInterval = time.Hour
	}
	if o.TaskRetentionHours <= 0 {
		o.TaskRetentionHours = 168
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 3 * time.Second
	}
}

// Orchestrator owns the queue channels, worker pools, and task state
// transitions. One instance is constructed per process; there is no
// ambient global registry.
type Orchestrator struct {
	db       *db.DB
	log      *logrus.Logger
	opts     Options
	handlers map[types.TaskType]Handler
	queues   map[types.Queue]chan uuid.UUID

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// New creates an orchestrator. Handlers must be registered before Start.
func New(database *db.DB, log *logrus.Logger, opts Options) *Orchestrator {
	opts.applyDefaults()

	queues := make(map[types.Queue]chan uuid.UUID, len(Queues()))
	for _, queue := range Queues() {
		queues[queue] = make(chan uuid.UUID, 256)
	}

	return &Orchestrator{
		db:       database,
		log:      log,
		opts:     opts,
		handlers: make(map[types.TaskType]Handler),
		queues:   queues,
		stop:     make(chan struct{}),
	}
}

// RegisterHandler binds a handler to a task type.
func (o *Orchestrator) RegisterHandler(taskType types.TaskType, handler Handler) {
	o.handlers[taskType] = handler
}

// Start launches the worker pools, the queued-task poller, the stale-lease
// recovery loop, and the cleanup scheduler.
func (o *Orchestrator) Start(ctx context.Context) {
	for queue, n := range o.opts.Workers {
		for i := 0; i < n; i++ {
			o.wg.Add(1)
			go o.worker(ctx, queue)
		}
	}

	o.wg.Add(3)
	go o.pollLoop(ctx)
	go o.recoveryLoop(ctx)
	go o.cleanupLoop(ctx)
}

// Stop signals all loops to exit and waits for in-flight tasks to finish.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() { close(o.stop) })
	o.wg.Wait()
}

// Submit validates the payload, persists a queued task row, and hands it
// to the matching queue. Payloads that fail schema validation are
// rejected before anything is queued.
func (o *Orchestrator) Submit(ctx context.Context, taskType types.TaskType, entityID, applicationID uuid.UUID, payload any) (uuid.UUID, error) {
	def, err := Definition(taskType)
	if err != nil {
		return uuid.Nil, err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	if err := schemas.ValidatePayload(taskType, raw); err != nil {
		return uuid.Nil, err
	}

	task, err := o.db.CreateTask(ctx, taskType, def.Queue, entityID, applicationID, json.RawMessage(raw), 0)
	if err != nil {
		return uuid.Nil, err
	}

	o.enqueue(def.Queue, task.ID)
	return task.ID, nil
}

// GetStatus reads the current task row. Returns nil when unknown.
func (o *Orchestrator) GetStatus(ctx context.Context, taskID uuid.UUID) (*types.ProcessingTask, error) {
	return o.db.GetTask(ctx, taskID)
}

// CancelApplication marks the application cancelled and skips its queued
// tasks. In-flight tasks finish naturally; their results are discarded.
func (o *Orchestrator) CancelApplication(ctx context.Context, applicationID uuid.UUID) error {
	if err := o.db.UpdateApplicationStatus(ctx, applicationID, types.ApplicationStatusCancelled, ""); err != nil {
		return err
	}
	_, err := o.db.CancelQueuedTasksForApplication(ctx, applicationID, "cancelled")
	return err
}

// enqueue hands a task id to a queue without blocking. When the channel
// is full the row stays queued in the database and the poll loop delivers
// it later.
func (o *Orchestrator) enqueue(queue types.Queue, taskID uuid.UUID) {
	select {
	case o.queues[queue] <- taskID:
	default:
	}
}

func (o *Orchestrator) worker(ctx context.Context, queue types.Queue) {
	defer o.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-o.stop:
			return
		case taskID := <-o.queues[queue]:
			o.runTask(ctx, taskID)
		}
	}
}

// runTask claims a queued task and drives it through the handler. The
// queued-to-running transition is a compare-and-set, so a task id
// delivered twice is executed once.
func (o *Orchestrator) runTask(ctx context.Context, taskID uuid.UUID) {
	task, err := o.db.GetTask(ctx, taskID)
	if err != nil {
		o.log.WithError(err).WithField("task_id", taskID).Error("failed to load task")
		return
	}
	if task == nil || task.Status != types.TaskStatusQueued {
		return
	}

	def, err := Definition(task.Type)
	if err != nil {
		_ = o.db.MarkTaskFailed(ctx, task.ID, err.Error())
		return
	}

	handler, ok := o.handlers[task.Type]
	if !ok {
		_ = o.db.MarkTaskFailed(ctx, task.ID, fmt.Sprintf("no handler for task type %s", task.Type))
		return
	}

	if o.applicationCancelled(ctx, task) {
		_ = o.db.MarkTaskFailed(ctx, task.ID, "cancelled")
		return
	}

	claimed, err := o.db.MarkTaskRunning(ctx, task.ID)
	if err != nil {
		o.log.WithError(err).WithField("task_id", task.ID).Error("failed to claim task")
		return
	}
	if !claimed {
		return
	}

	started := observability.TaskStart(o.log, task)

	heartbeatDone := make(chan struct{})
	o.wg.Add(1)
	go o.heartbeat(ctx, task.ID, heartbeatDone)

	taskCtx, cancel := context.WithTimeout(ctx, def.Timeout)
	result, runErr := handler(taskCtx, task)
	cancel()
	close(heartbeatDone)

	if runErr != nil {
		o.onFailure(ctx, task, def, started, runErr)
		return
	}
	o.onComplete(ctx, task, def, started, result)
}

func (o *Orchestrator) heartbeat(ctx context.Context, taskID uuid.UUID, done <-chan struct{}) {
	defer o.wg.Done()
	ticker := time.NewTicker(o.opts.LeaseTimeout / 3)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := o.db.Heartbeat(ctx, taskID); err != nil {
				o.log.WithError(err).WithField("task_id", taskID).Warn("heartbeat failed")
			}
		}
	}
}

// onComplete records success and submits dependents whose prerequisites
// are now all satisfied.
func (o *Orchestrator) onComplete(ctx context.Context, task *types.ProcessingTask, def TaskDefinition, started time.Time, result any) {
	if err := o.db.MarkTaskSucceeded(ctx, task.ID, result); err != nil {
		o.log.WithError(err).WithField("task_id", task.ID).Error("failed to record task success")
		return
	}
	observability.TaskComplete(o.log, task, started)

	if o.applicationCancelled(ctx, task) {
		return
	}

	switch task.Type {
	case types.TaskExtractJob, types.TaskParseResume:
		if task.ApplicationID != uuid.Nil {
			o.maybeStartApplicationStages(ctx, task.ApplicationID)
		}
	case types.TaskTailorResume:
		o.submitRender(ctx, task.ApplicationID, types.DocumentKindResume, false)
	case types.TaskGenerateCoverLetter:
		o.submitRender(ctx, task.ApplicationID, types.DocumentKindCoverLetter, false)
	case types.TaskRenderDocument:
		o.checkApplicationComplete(ctx, task.ApplicationID)
	}
}

// onFailure records the failure and either schedules a retry or finalizes
// the task. Retries are fresh queued rows; the failed row stays for
// inspection.
func (o *Orchestrator) onFailure(ctx context.Context, task *types.ProcessingTask, def TaskDefinition, started time.Time, taskErr error) {
	willRetry := task.RetryCount+1 < def.MaxRetries
	observability.TaskError(o.log, task, started, taskErr, willRetry)

	if err := o.db.MarkTaskFailed(ctx, task.ID, taskErr.Error()); err != nil {
		o.log.WithError(err).WithField("task_id", task.ID).Error("failed to record task failure")
	}

	if willRetry {
		o.scheduleRetry(task)
		return
	}
	o.onTerminalFailure(ctx, task, def, taskErr)
}

// scheduleRetry waits out the backoff and creates a fresh queued row with
// the retry count bumped.
func (o *Orchestrator) scheduleRetry(task *types.ProcessingTask) {
	delay := retryDelay(task.RetryCount)
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		select {
		case <-o.stop:
			return
		case <-time.After(delay):
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		retry, err := o.db.CreateTask(ctx, task.Type, task.Queue, task.EntityID, task.ApplicationID, task.Payload, task.RetryCount+1)
		if err != nil {
			if !errors.Is(err, db.ErrDuplicateTask) {
				o.log.WithError(err).WithField("task_id", task.ID).Error("failed to requeue task")
			}
			return
		}
		o.enqueue(task.Queue, retry.ID)
	}()
}

// onTerminalFailure propagates a final failure. Degradable tasks keep the
// pipeline alive with a fallback; everything else fails the Application
// and skips its remaining tasks.
func (o *Orchestrator) onTerminalFailure(ctx context.Context, task *types.ProcessingTask, def TaskDefinition, taskErr error) {
	message := fmt.Sprintf("%s: %v", failureLabel(task.Type), taskErr)

	switch task.Type {
	case types.TaskExtractJob:
		if err := o.db.UpdateJobStatus(ctx, task.EntityID, types.JobStatusFailed, message); err != nil {
			o.log.WithError(err).Error("failed to mark job failed")
		}
	case types.TaskParseResume:
		if err := o.db.UpdateResumeStatus(ctx, task.EntityID, types.ResumeStatusFailed, message); err != nil {
			o.log.WithError(err).Error("failed to mark resume failed")
		}
	}

	if def.Degradable {
		o.log.WithFields(logrus.Fields{
			"task_id":        task.ID,
			"application_id": task.ApplicationID,
		}).Warn("tailoring exhausted retries, rendering original resume")
		o.submitRender(ctx, task.ApplicationID, types.DocumentKindResume, true)
		return
	}

	if task.ApplicationID == uuid.Nil {
		return
	}
	if err := o.db.UpdateApplicationStatus(ctx, task.ApplicationID, types.ApplicationStatusFailed, message); err != nil {
		o.log.WithError(err).Error("failed to mark application failed")
	}
	if _, err := o.db.CancelQueuedTasksForApplication(ctx, task.ApplicationID, "DependencyFailed: "+message); err != nil {
		o.log.WithError(err).Error("failed to skip dependent tasks")
	}
}

// maybeStartApplicationStages submits the tailoring and cover letter
// tasks once both prerequisites have succeeded for the application.
func (o *Orchestrator) maybeStartApplicationStages(ctx context.Context, applicationID uuid.UUID) {
	app, err := o.db.GetApplication(ctx, applicationID)
	if err != nil || app == nil {
		return
	}
	if app.Status == types.ApplicationStatusCancelled || app.Status == types.ApplicationStatusFailed {
		return
	}

	if depErr := o.stageDependencies(ctx, app); depErr != nil {
		o.log.WithField("application_id", app.ID).Debug(depErr.Error())
		return
	}

	tasks, err := o.db.ListTasksForApplication(ctx, applicationID)
	if err != nil {
		o.log.WithError(err).Error("failed to list application tasks")
		return
	}

	alreadySubmitted := map[types.TaskType]bool{}
	for _, t := range tasks {
		if t.Type == types.TaskTailorResume || t.Type == types.TaskGenerateCoverLetter {
			alreadySubmitted[t.Type] = true
		}
	}

	payload := types.ApplicationTaskPayload{
		ApplicationID: app.ID,
		JobID:         app.JobID,
		ResumeID:      app.ResumeID,
	}
	// ErrDuplicateTask means another worker submitted the stage between
	// the read above and this insert. The unique index makes the race
	// harmless.
	if !alreadySubmitted[types.TaskTailorResume] {
		if _, err := o.Submit(ctx, types.TaskTailorResume, app.ID, app.ID, payload); err != nil && !errors.Is(err, db.ErrDuplicateTask) {
			o.log.WithError(err).Error("failed to submit tailoring task")
		}
	}
	if !alreadySubmitted[types.TaskGenerateCoverLetter] {
		if _, err := o.Submit(ctx, types.TaskGenerateCoverLetter, app.ID, app.ID, payload); err != nil && !errors.Is(err, db.ErrDuplicateTask) {
			o.log.WithError(err).Error("failed to submit cover letter task")
		}
	}
}

// stageDependencies reports prerequisites the application stages still
// wait on. Prerequisites are judged on entity state rather than task
// rows, so a job or resume that was already processed before this
// application existed counts as satisfied.
func (o *Orchestrator) stageDependencies(ctx context.Context, app *types.Application) *DependencyError {
	var missing []types.TaskType
	job, err := o.db.GetJob(ctx, app.JobID)
	if err != nil || job == nil || job.Status != types.JobStatusCompleted || job.Normalized == nil {
		missing = append(missing, types.TaskExtractJob)
	}
	resume, err := o.db.GetResume(ctx, app.ResumeID)
	if err != nil || resume == nil || resume.Parsed == nil {
		missing = append(missing, types.TaskParseResume)
	}
	if len(missing) == 0 {
		return nil
	}
	return &DependencyError{Task: types.TaskTailorResume, Missing: missing}
}

func (o *Orchestrator) submitRender(ctx context.Context, applicationID uuid.UUID, kind string, degraded bool) {
	if applicationID == uuid.Nil {
		return
	}
	payload := types.RenderDocumentPayload{
		ApplicationID: applicationID,
		Kind:          kind,
		Degraded:      degraded,
	}
	if _, err := o.Submit(ctx, types.TaskRenderDocument, applicationID, applicationID, payload); err != nil {
		o.log.WithError(err).Error("failed to submit render task")
	}
}

// checkApplicationComplete flips the application to completed once all
// four artifact paths are set.
func (o *Orchestrator) checkApplicationComplete(ctx context.Context, applicationID uuid.UUID) {
	if applicationID == uuid.Nil {
		return
	}
	app, err := o.db.GetApplication(ctx, applicationID)
	if err != nil || app == nil {
		return
	}
	if app.HasResumeDocuments() && app.HasCoverLetterDocuments() {
		if err := o.db.UpdateApplicationStatus(ctx, applicationID, types.ApplicationStatusCompleted, ""); err != nil {
			o.log.WithError(err).Error("failed to mark application completed")
		}
	}
}

func (o *Orchestrator) applicationCancelled(ctx context.Context, task *types.ProcessingTask) bool {
	if task.ApplicationID == uuid.Nil {
		return false
	}
	app, err := o.db.GetApplication(ctx, task.ApplicationID)
	if err != nil || app == nil {
		return false
	}
	return app.Status == types.ApplicationStatusCancelled
}

// failureLabel maps a task type to the user-visible error category.
func failureLabel(taskType types.TaskType) string {
	switch taskType {
	case types.TaskExtractJob:
		return "ExtractionFailed"
	case types.TaskParseResume:
		return "ParseFailed"
	case types.TaskTailorResume:
		return "TailoringFailed"
	case types.TaskGenerateCoverLetter:
		return "GenerationFailed"
	case types.TaskRenderDocument:
		return "RenderFailed"
	default:
		return "TaskFailed"
	}
}
