package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/laudatorai/internal/types"
)

type createJobRequest struct {
	URL string `json:"url" validate:"required,url"`
}

// handleCreateJob registers a job posting URL and submits it for
// extraction. A URL seen before returns the existing record.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := s.validateRequest(req); err != nil {
		s.errorResponse(w, err)
		return
	}

	existing, err := s.db.GetJobByURL(r.Context(), req.URL)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if existing != nil {
		s.jsonResponse(w, http.StatusOK, existing)
		return
	}

	job, err := s.db.CreateJob(r.Context(), req.URL)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	payload := types.ExtractJobPayload{JobID: job.ID, URL: job.URL}
	if _, err := s.orch.Submit(r.Context(), types.TaskExtractJob, job.ID, uuid.Nil, payload); err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, job)
}

// handleListJobs lists jobs, optionally filtered by status.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.db.ListJobs(r.Context(), r.URL.Query().Get("status"), queryInt(r, "limit", 50))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"jobs": jobs, "count": len(jobs)})
}

// handleGetJob returns one job record.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	job, err := s.db.GetJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if job == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "job", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleReprocessJob re-runs extraction for a job, refreshing stale
// content or retrying a failed scrape.
func (s *Server) handleReprocessJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	job, err := s.db.GetJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if job == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "job", ID: id.String()})
		return
	}

	if err := s.db.UpdateJobStatus(r.Context(), job.ID, types.JobStatusPending, ""); err != nil {
		s.errorResponse(w, err)
		return
	}

	payload := types.ExtractJobPayload{JobID: job.ID, URL: job.URL}
	taskID, err := s.orch.Submit(r.Context(), types.TaskExtractJob, job.ID, uuid.Nil, payload)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusAccepted, map[string]string{
		"job_id":  job.ID.String(),
		"task_id": taskID.String(),
		"status":  types.JobStatusPending,
	})
}

// handleDeleteJob removes a job record.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	job, err := s.db.GetJob(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if job == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "job", ID: id.String()})
		return
	}

	if err := s.db.DeleteJob(r.Context(), id); err != nil {
		s.errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
