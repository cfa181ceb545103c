package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/laudatorai/internal/coverletter"
	"github.com/jonathan/laudatorai/internal/db"
	"github.com/jonathan/laudatorai/internal/extraction"
	"github.com/jonathan/laudatorai/internal/rendering"
	"github.com/jonathan/laudatorai/internal/resumes"
	"github.com/jonathan/laudatorai/internal/storage"
	"github.com/jonathan/laudatorai/internal/tailoring"
	"github.com/jonathan/laudatorai/internal/types"
)

const (
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	pdfContentType  = "application/pdf"
)

// Handlers binds the pipeline components to the orchestrator's task types.
type Handlers struct {
	DB          *db.DB
	Extractor   *extraction.Extractor
	Parser      *resumes.Parser
	Tailor      *tailoring.Engine
	CoverLetter *coverletter.Generator
	Renderer    *rendering.Renderer
	Store       storage.ObjectStore
	Candidate   types.PersonalInfo
	Log         *logrus.Logger
}

// Register wires every task type to its handler.
func (h *Handlers) Register(o *Orchestrator) {
	o.RegisterHandler(types.TaskExtractJob, h.HandleExtractJob)
	o.RegisterHandler(types.TaskParseResume, h.HandleParseResume)
	o.RegisterHandler(types.TaskTailorResume, h.HandleTailorResume)
	o.RegisterHandler(types.TaskGenerateCoverLetter, h.HandleGenerateCoverLetter)
	o.RegisterHandler(types.TaskRenderDocument, h.HandleRenderDocument)
	o.RegisterHandler(types.TaskCleanupTasks, h.HandleCleanup)
}

// HandleExtractJob scrapes the posting, normalizes it, and writes the
// result onto the job row.
func (h *Handlers) HandleExtractJob(ctx context.Context, task *types.ProcessingTask) (any, error) {
	var payload types.ExtractJobPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	if err := h.DB.UpdateJobStatus(ctx, payload.JobID, types.JobStatusProcessing, ""); err != nil {
		return nil, err
	}

	posting, err := h.Extractor.Extract(ctx, payload.URL)
	if err != nil {
		return nil, err
	}

	normalized := extraction.Normalize(posting)
	if err := h.DB.UpdateJobContent(ctx, payload.JobID, normalized, posting.RawHTML); err != nil {
		return nil, err
	}

	return map[string]any{
		"title":   normalized.Title,
		"company": normalized.Company,
		"skills":  len(normalized.Skills),
	}, nil
}

// HandleParseResume loads the uploaded file from storage and extracts the
// structured sections.
func (h *Handlers) HandleParseResume(ctx context.Context, task *types.ProcessingTask) (any, error) {
	var payload types.ParseResumePayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	if err := h.DB.UpdateResumeStatus(ctx, payload.ResumeID, types.ResumeStatusPending, ""); err != nil {
		return nil, err
	}

	data, err := h.Store.Get(ctx, payload.StoragePath)
	if err != nil {
		return nil, err
	}

	parsed, err := h.Parser.Parse(payload.Filename, data)
	if err != nil {
		return nil, err
	}

	if err := h.DB.UpdateResumeParsed(ctx, payload.ResumeID, parsed); err != nil {
		return nil, err
	}

	return map[string]any{
		"experience_entries": len(parsed.Experience),
		"education_entries":  len(parsed.Education),
		"skills":             len(parsed.Skills),
	}, nil
}

// HandleTailorResume tailors the parsed resume against the normalized job
// and stores the result on the application.
func (h *Handlers) HandleTailorResume(ctx context.Context, task *types.ProcessingTask) (any, error) {
	var payload types.ApplicationTaskPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	if err := h.DB.UpdateApplicationStatus(ctx, payload.ApplicationID, types.ApplicationStatusProcessing, ""); err != nil {
		return nil, err
	}

	job, resume, err := h.loadInputs(ctx, payload)
	if err != nil {
		return nil, err
	}

	tailored, err := h.Tailor.Tailor(ctx, resume.Parsed, job.Normalized)
	if err != nil {
		return nil, err
	}

	if err := h.DB.SaveTailoredContent(ctx, payload.ApplicationID, tailored); err != nil {
		return nil, err
	}

	return map[string]any{"skills": len(tailored.Skills)}, nil
}

// HandleGenerateCoverLetter drafts the cover letter. The tailored resume
// is preferred when it already exists; otherwise the original parse is
// used so this stage never waits on tailoring.
func (h *Handlers) HandleGenerateCoverLetter(ctx context.Context, task *types.ProcessingTask) (any, error) {
	var payload types.ApplicationTaskPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	job, resume, err := h.loadInputs(ctx, payload)
	if err != nil {
		return nil, err
	}

	app, err := h.DB.GetApplication(ctx, payload.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, fmt.Errorf("application not found: %s", payload.ApplicationID)
	}

	content := resume.Parsed
	if app.TailoredContent != nil {
		content = app.TailoredContent
	}

	letter, err := h.CoverLetter.Generate(ctx, job.Normalized, content, h.candidateInfo(resume.Parsed))
	if err != nil {
		return nil, err
	}

	if err := h.DB.SaveCoverLetterContent(ctx, payload.ApplicationID, letter); err != nil {
		return nil, err
	}

	return map[string]any{"greeting": letter.Greeting}, nil
}

// HandleRenderDocument renders one artifact pair (DOCX + PDF), uploads
// both, and records their storage paths.
func (h *Handlers) HandleRenderDocument(ctx context.Context, task *types.ProcessingTask) (any, error) {
	var payload types.RenderDocumentPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	app, err := h.DB.GetApplication(ctx, payload.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, fmt.Errorf("application not found: %s", payload.ApplicationID)
	}

	switch payload.Kind {
	case types.DocumentKindResume:
		return h.renderResume(ctx, app, payload.Degraded)
	case types.DocumentKindCoverLetter:
		return h.renderCoverLetter(ctx, app)
	default:
		return nil, &rendering.RenderError{Message: fmt.Sprintf("unknown document kind %q", payload.Kind)}
	}
}

func (h *Handlers) renderResume(ctx context.Context, app *types.Application, degraded bool) (any, error) {
	content := app.TailoredContent
	if degraded || content == nil {
		resume, err := h.DB.GetResume(ctx, app.ResumeID)
		if err != nil {
			return nil, err
		}
		if resume == nil || resume.Parsed == nil {
			return nil, &rendering.RenderError{Message: "no resume content available"}
		}
		content = resume.Parsed
	}

	docs, err := h.Renderer.RenderResume(ctx, content, h.candidateInfo(content))
	if err != nil {
		return nil, err
	}

	docxKey := fmt.Sprintf("applications/%s/tailored_resume.docx", app.ID)
	pdfKey := fmt.Sprintf("applications/%s/tailored_resume.pdf", app.ID)
	if err := h.uploadPair(ctx, docxKey, pdfKey, docs); err != nil {
		return nil, err
	}

	if err := h.DB.SaveResumeDocumentPaths(ctx, app.ID, docxKey, pdfKey); err != nil {
		return nil, err
	}
	return map[string]any{"docx_path": docxKey, "pdf_path": pdfKey, "degraded": degraded}, nil
}

func (h *Handlers) renderCoverLetter(ctx context.Context, app *types.Application) (any, error) {
	if app.CoverLetter == nil {
		return nil, &rendering.RenderError{Message: "no cover letter content available"}
	}

	job, err := h.DB.GetJob(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	var normalized *types.NormalizedJob
	if job != nil {
		normalized = job.Normalized
	}

	var parsed *types.ParsedResume
	if resume, err := h.DB.GetResume(ctx, app.ResumeID); err == nil && resume != nil {
		parsed = resume.Parsed
	}

	docs, err := h.Renderer.RenderCoverLetter(ctx, app.CoverLetter, normalized, h.candidateInfo(parsed))
	if err != nil {
		return nil, err
	}

	docxKey := fmt.Sprintf("applications/%s/cover_letter.docx", app.ID)
	pdfKey := fmt.Sprintf("applications/%s/cover_letter.pdf", app.ID)
	if err := h.uploadPair(ctx, docxKey, pdfKey, docs); err != nil {
		return nil, err
	}

	if err := h.DB.SaveCoverLetterDocumentPaths(ctx, app.ID, docxKey, pdfKey); err != nil {
		return nil, err
	}
	return map[string]any{"docx_path": docxKey, "pdf_path": pdfKey}, nil
}

// HandleCleanup deletes terminal task rows past the retention window.
func (h *Handlers) HandleCleanup(ctx context.Context, task *types.ProcessingTask) (any, error) {
	var payload types.CleanupPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}

	deleted, err := h.DB.DeleteOldTerminalTasks(ctx, time.Duration(payload.OlderThanHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return map[string]any{"deleted": deleted}, nil
}

func (h *Handlers) loadInputs(ctx context.Context, payload types.ApplicationTaskPayload) (*types.Job, *types.Resume, error) {
	job, err := h.DB.GetJob(ctx, payload.JobID)
	if err != nil {
		return nil, nil, err
	}
	if job == nil || job.Normalized == nil {
		return nil, nil, fmt.Errorf("job %s has no normalized content", payload.JobID)
	}

	resume, err := h.DB.GetResume(ctx, payload.ResumeID)
	if err != nil {
		return nil, nil, err
	}
	if resume == nil || resume.Parsed == nil {
		return nil, nil, fmt.Errorf("resume %s has no parsed content", payload.ResumeID)
	}
	return job, resume, nil
}

func (h *Handlers) uploadPair(ctx context.Context, docxKey, pdfKey string, docs *rendering.Documents) error {
	if err := h.Store.Put(ctx, docxKey, docxContentType, docs.DOCX); err != nil {
		return err
	}
	return h.Store.Put(ctx, pdfKey, pdfContentType, docs.PDF)
}

// candidateInfo resolves the identity stamped on documents: configured
// candidate details win, resume contact details fill the gaps.
func (h *Handlers) candidateInfo(parsed *types.ParsedResume) types.PersonalInfo {
	info := h.Candidate
	if parsed == nil {
		return info
	}
	if info.Name == "" {
		info.Name = parsed.Contact.Name
	}
	if info.Email == "" {
		info.Email = parsed.Contact.Email
	}
	if info.Phone == "" {
		info.Phone = parsed.Contact.Phone
	}
	return info
}
