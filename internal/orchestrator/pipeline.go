package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/laudatorai/internal/types"
)

// ApplicationStatus is the aggregate view of one pipeline run.
type ApplicationStatus struct {
	ApplicationID uuid.UUID                 `json:"application_id"`
	Status        string                    `json:"status"`
	ErrorMessage  string                    `json:"error_message,omitempty"`
	Stages        map[types.TaskType]string `json:"stages"`
	Application   *types.Application        `json:"application"`
}

// SubmitPipeline starts a full pipeline run for a job URL and an uploaded
// resume. The job record is reused when the URL was seen before, and
// stages whose results already exist are not re-run.
func (o *Orchestrator) SubmitPipeline(ctx context.Context, jobURL string, resumeID uuid.UUID, notes string) (uuid.UUID, error) {
	resume, err := o.db.GetResume(ctx, resumeID)
	if err != nil {
		return uuid.Nil, err
	}
	if resume == nil {
		return uuid.Nil, fmt.Errorf("resume not found: %s", resumeID)
	}

	job, err := o.db.GetJobByURL(ctx, jobURL)
	if err != nil {
		return uuid.Nil, err
	}
	if job == nil {
		job, err = o.db.CreateJob(ctx, jobURL)
		if err != nil {
			return uuid.Nil, err
		}
	}

	app, err := o.db.CreateApplication(ctx, job.ID, resume.ID, notes)
	if err != nil {
		return uuid.Nil, err
	}

	jobDone := job.Status == types.JobStatusCompleted && job.Normalized != nil
	if !jobDone {
		payload := types.ExtractJobPayload{JobID: job.ID, URL: jobURL, ApplicationID: app.ID}
		if _, err := o.Submit(ctx, types.TaskExtractJob, job.ID, app.ID, payload); err != nil {
			return uuid.Nil, err
		}
	}

	resumeDone := resume.Parsed != nil
	if !resumeDone {
		payload := types.ParseResumePayload{
			ResumeID:      resume.ID,
			StoragePath:   resume.StoragePath,
			Filename:      resume.Filename,
			ApplicationID: app.ID,
		}
		if _, err := o.Submit(ctx, types.TaskParseResume, resume.ID, app.ID, payload); err != nil {
			return uuid.Nil, err
		}
	}

	if jobDone && resumeDone {
		o.maybeStartApplicationStages(ctx, app.ID)
	}

	return app.ID, nil
}

// GetApplicationStatus reads the application and the latest task status
// per stage.
func (o *Orchestrator) GetApplicationStatus(ctx context.Context, applicationID uuid.UUID) (*ApplicationStatus, error) {
	app, err := o.db.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, nil
	}

	tasks, err := o.db.ListTasksForApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	stages := make(map[types.TaskType]string)
	for _, task := range tasks {
		// tasks come back oldest first, so the newest row wins
		stages[task.Type] = task.Status
	}

	return &ApplicationStatus{
		ApplicationID: app.ID,
		Status:        app.Status,
		ErrorMessage:  app.ErrorMessage,
		Stages:        stages,
		Application:   app,
	}, nil
}
