package rendering

import (
	"bytes"
	"strings"
	"time"

	"github.com/fumiama/go-docx"

	"github.com/jonathan/laudatorai/internal/types"
)

// ResumeDOCX builds a resume document with a fixed section order: header,
// summary, experience, education, skills, certifications, projects. Empty
// sections are skipped. Output is deterministic for identical input.
func ResumeDOCX(content *types.ParsedResume, info types.PersonalInfo) ([]byte, error) {
	if content == nil {
		return nil, &RenderError{Message: "no resume content"}
	}
	if info.Name == "" && content.Contact.Name == "" {
		return nil, &RenderError{Message: "missing candidate name"}
	}

	w := docx.New().WithDefaultTheme()

	addResumeHeader(w, content, info)

	if content.Summary != "" {
		addHeading(w, "Summary")
		w.AddParagraph().AddText(content.Summary)
	}

	if len(content.Experience) > 0 {
		addHeading(w, "Experience")
		for _, exp := range content.Experience {
			title := exp.Title
			if exp.Company != "" {
				title += " - " + exp.Company
			}
			if exp.Duration != "" {
				title += " (" + exp.Duration + ")"
			}
			w.AddParagraph().AddText(title).Bold()
			if exp.Description != "" {
				w.AddParagraph().AddText(exp.Description)
			}
		}
	}

	if len(content.Education) > 0 {
		addHeading(w, "Education")
		for _, edu := range content.Education {
			line := edu.Institution
			if edu.Degree != "" {
				line = edu.Degree + ", " + edu.Institution
			}
			w.AddParagraph().AddText(line).Bold()
		}
	}

	if len(content.Skills) > 0 {
		addHeading(w, "Skills")
		w.AddParagraph().AddText(strings.Join(content.Skills, ", "))
	}

	if len(content.Certifications) > 0 {
		addHeading(w, "Certifications")
		for _, cert := range content.Certifications {
			w.AddParagraph().AddText(cert)
		}
	}

	if len(content.Projects) > 0 {
		addHeading(w, "Projects")
		for _, project := range content.Projects {
			w.AddParagraph().AddText(project.Title).Bold()
			if project.Description != "" {
				w.AddParagraph().AddText(project.Description)
			}
		}
	}

	return writeDocument(w)
}

// CoverLetterDOCX builds a cover letter document. The date is passed in
// so output stays reproducible.
func CoverLetterDOCX(content *types.CoverLetterContent, job *types.NormalizedJob, info types.PersonalInfo, date time.Time) ([]byte, error) {
	if content == nil {
		return nil, &RenderError{Message: "no cover letter content"}
	}
	if info.Name == "" {
		return nil, &RenderError{Message: "missing candidate name"}
	}

	w := docx.New().WithDefaultTheme()

	w.AddParagraph().AddText(info.Name).Size("32").Bold()
	if contact := contactLine(info); contact != "" {
		w.AddParagraph().AddText(contact)
	}

	w.AddParagraph()
	w.AddParagraph().AddText(date.Format("January 2, 2006"))

	if job != nil && (job.Company != "" || job.Title != "") {
		w.AddParagraph()
		if job.Company != "" {
			w.AddParagraph().AddText(job.Company)
		}
		if job.Title != "" {
			w.AddParagraph().AddText("Re: " + job.Title)
		}
	}

	w.AddParagraph()
	w.AddParagraph().AddText(content.Greeting)

	for _, section := range []string{content.Opening, content.Body, content.Closing} {
		if section == "" {
			continue
		}
		for _, paragraph := range strings.Split(section, "\n\n") {
			if paragraph = strings.TrimSpace(paragraph); paragraph != "" {
				w.AddParagraph()
				w.AddParagraph().AddText(paragraph)
			}
		}
	}

	w.AddParagraph()
	for _, line := range strings.Split(content.Signature, "\n") {
		w.AddParagraph().AddText(line)
	}

	return writeDocument(w)
}

func addResumeHeader(w *docx.Docx, content *types.ParsedResume, info types.PersonalInfo) {
	name := info.Name
	if name == "" {
		name = content.Contact.Name
	}
	para := w.AddParagraph().Justification("center")
	para.AddText(name).Size("36").Bold()

	contact := contactLine(types.PersonalInfo{
		Email: firstNonEmpty(info.Email, content.Contact.Email),
		Phone: firstNonEmpty(info.Phone, content.Contact.Phone),
	})
	if contact != "" {
		w.AddParagraph().Justification("center").AddText(contact)
	}
}

func addHeading(w *docx.Docx, text string) {
	w.AddParagraph()
	w.AddParagraph().AddText(text).Size("28").Bold()
}

func contactLine(info types.PersonalInfo) string {
	var parts []string
	if info.Email != "" {
		parts = append(parts, info.Email)
	}
	if info.Phone != "" {
		parts = append(parts, info.Phone)
	}
	return strings.Join(parts, " | ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func writeDocument(w *docx.Docx) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, &RenderError{Message: "failed to write document", Cause: err}
	}
	return buf.Bytes(), nil
}
