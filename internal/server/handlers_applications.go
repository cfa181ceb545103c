package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/laudatorai/internal/db"
	"github.com/jonathan/laudatorai/internal/types"
)

// signedURLTTL bounds how long artifact download links stay valid.
const signedURLTTL = 15 * time.Minute

type submitPipelineRequest struct {
	JobURL   string `json:"job_url" validate:"required,url"`
	ResumeID string `json:"resume_id" validate:"required,uuid"`
	Notes    string `json:"notes"`
}

// handleSubmitPipeline starts a full pipeline run.
func (s *Server) handleSubmitPipeline(w http.ResponseWriter, r *http.Request) {
	var req submitPipelineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := s.validateRequest(req); err != nil {
		s.errorResponse(w, err)
		return
	}

	resumeID, err := uuid.Parse(req.ResumeID)
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "resume_id", Message: "must be a valid UUID"})
		return
	}

	resume, err := s.db.GetResume(r.Context(), resumeID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if resume == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "resume", ID: req.ResumeID})
		return
	}

	appID, err := s.orch.SubmitPipeline(r.Context(), req.JobURL, resumeID, req.Notes)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusAccepted, map[string]string{
		"application_id": appID.String(),
		"status":         types.ApplicationStatusPending,
	})
}

// handleListApplications lists applications with optional filters.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	filters := db.ApplicationFilters{
		Status: r.URL.Query().Get("status"),
		Limit:  queryInt(r, "limit", 50),
	}
	if raw := r.URL.Query().Get("job_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.errorResponse(w, &ErrValidation{Field: "job_id", Message: "must be a valid UUID"})
			return
		}
		filters.JobID = id
	}
	if raw := r.URL.Query().Get("resume_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.errorResponse(w, &ErrValidation{Field: "resume_id", Message: "must be a valid UUID"})
			return
		}
		filters.ResumeID = id
	}

	apps, err := s.db.ListApplications(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"applications": apps, "count": len(apps)})
}

// handleGetApplication returns one application record.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	app, err := s.db.GetApplication(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if app == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "application", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// handleApplicationStatus returns the per-stage pipeline status.
func (s *Server) handleApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	status, err := s.orch.GetApplicationStatus(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if status == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "application", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, status)
}

// handleApplicationDocument redirects to a signed download URL for a
// rendered artifact. Kind selects the document, format the file type.
func (s *Server) handleApplicationDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	kind := r.PathValue("kind")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "pdf"
	}

	app, err := s.db.GetApplication(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if app == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "application", ID: id.String()})
		return
	}

	key, err := documentKey(app, kind, format)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if key == "" {
		s.errorResponse(w, &ErrNotFound{Resource: "document", ID: kind + "." + format})
		return
	}

	signed, err := s.store.SignedURL(r.Context(), key, signedURLTTL)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	http.Redirect(w, r, signed, http.StatusFound)
}

func documentKey(app *types.Application, kind, format string) (string, error) {
	switch {
	case kind == types.DocumentKindResume && format == "docx":
		return app.TailoredResumePath, nil
	case kind == types.DocumentKindResume && format == "pdf":
		return app.TailoredResumePDFPath, nil
	case kind == types.DocumentKindCoverLetter && format == "docx":
		return app.CoverLetterPath, nil
	case kind == types.DocumentKindCoverLetter && format == "pdf":
		return app.CoverLetterPDFPath, nil
	case kind != types.DocumentKindResume && kind != types.DocumentKindCoverLetter:
		return "", &ErrValidation{Field: "kind", Message: "must be resume or cover_letter"}
	default:
		return "", &ErrValidation{Field: "format", Message: "must be pdf or docx"}
	}
}

// handleCancelApplication cancels a pipeline run that has not finished.
func (s *Server) handleCancelApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	app, err := s.db.GetApplication(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if app == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "application", ID: id.String()})
		return
	}
	if app.Status == types.ApplicationStatusCompleted || app.Status == types.ApplicationStatusFailed {
		s.errorResponse(w, &ErrConflict{Message: "application already " + app.Status})
		return
	}

	if err := s.orch.CancelApplication(r.Context(), id); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"application_id": id.String(),
		"status":         types.ApplicationStatusCancelled,
	})
}

// handleDeleteApplication removes an application record. Rendered
// artifacts in object storage are deleted best-effort.
func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	app, err := s.db.GetApplication(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if app == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "application", ID: id.String()})
		return
	}

	for _, key := range []string{app.TailoredResumePath, app.TailoredResumePDFPath, app.CoverLetterPath, app.CoverLetterPDFPath} {
		if key == "" {
			continue
		}
		if err := s.store.Delete(r.Context(), key); err != nil {
			s.log.WithError(err).WithField("key", key).Warn("failed to delete artifact")
		}
	}

	if err := s.db.DeleteApplication(r.Context(), id); err != nil {
		s.errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryInt reads an integer query parameter with a default.
func queryInt(r *http.Request, name string, def int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return def
}
