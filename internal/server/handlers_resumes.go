package server

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/laudatorai/internal/rendering"
	"github.com/jonathan/laudatorai/internal/storage"
	"github.com/jonathan/laudatorai/internal/types"
)

// maxUploadBytes caps resume uploads.
const maxUploadBytes = 10 << 20

var uploadContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
}

// handleUploadResume stores an uploaded resume file and submits it for
// parsing. Re-uploading identical content returns the existing record.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "file", Message: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "file", Message: "file field is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := uploadContentTypes[ext]
	if !ok {
		s.errorResponse(w, &ErrUnsupportedFormat{Filename: header.Filename})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if len(data) == 0 {
		s.errorResponse(w, &ErrValidation{Field: "file", Message: "file is empty"})
		return
	}

	hash := storage.ContentHash(data)
	existing, err := s.db.GetResumeByHash(r.Context(), hash)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if existing != nil {
		s.jsonResponse(w, http.StatusOK, existing)
		return
	}

	key := storage.ContentKey("resumes", header.Filename, data)
	if err := s.store.Put(r.Context(), key, contentType, data); err != nil {
		s.errorResponse(w, err)
		return
	}

	resume, err := s.db.CreateResume(r.Context(), header.Filename, hash, key)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	payload := types.ParseResumePayload{
		ResumeID:    resume.ID,
		StoragePath: resume.StoragePath,
		Filename:    resume.Filename,
	}
	if _, err := s.orch.Submit(r.Context(), types.TaskParseResume, resume.ID, uuid.Nil, payload); err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, resume)
}

// handleListResumes lists uploaded resumes, newest first.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	list, err := s.db.ListResumes(r.Context(), queryInt(r, "limit", 50))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": list, "count": len(list)})
}

// handleGetResume returns one resume record.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	resume, err := s.db.GetResume(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if resume == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "resume", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleResumePreview renders the parsed resume as an HTML page.
func (s *Server) handleResumePreview(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	resume, err := s.db.GetResume(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if resume == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "resume", ID: id.String()})
		return
	}
	if resume.Parsed == nil {
		s.errorResponse(w, &ErrConflict{Message: "resume is not parsed yet"})
		return
	}

	html, err := rendering.ResumeHTML(resume.Parsed, s.previewInfo(resume.Parsed))
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := io.WriteString(w, html); err != nil {
		s.log.WithError(err).Error("failed to write preview")
	}
}

// previewInfo fills candidate identity from config, falling back to the
// contact block parsed out of the resume itself.
func (s *Server) previewInfo(parsed *types.ParsedResume) types.PersonalInfo {
	info := s.candidate
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

// handleDeleteResume removes a resume record and its stored file.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	resume, err := s.db.GetResume(r.Context(), id)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if resume == nil {
		s.errorResponse(w, &ErrNotFound{Resource: "resume", ID: id.String()})
		return
	}

	if err := s.store.Delete(r.Context(), resume.StoragePath); err != nil {
		s.log.WithError(err).WithField("key", resume.StoragePath).Warn("failed to delete stored resume")
	}
	if err := s.db.DeleteResume(r.Context(), id); err != nil {
		s.errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
