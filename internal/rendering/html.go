package rendering

import (
	"html/template"
	"strings"
	"time"

	"github.com/jonathan/laudatorai/internal/types"
)

const baseStyle = `body { font-family: Arial, sans-serif; margin: 1in; color: #2c3e50; }
h1 { font-size: 24px; margin-bottom: 4px; }
h2 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 2px; }
.header { text-align: center; margin-bottom: 20px; }
.contact { color: #7f8c8d; }
.entry-title { font-weight: bold; margin-bottom: 2px; }
.letter p { margin: 0 0 14px 0; }
.signature { white-space: pre-line; }`

var resumeTemplate = template.Must(template.New("resume").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>` + baseStyle + `</style></head>
<body><div class="resume-preview">
<div class="header">
<h1>{{.Name}}</h1>
{{if .Contact}}<p class="contact">{{.Contact}}</p>{{end}}
</div>
{{if .Resume.Summary}}<section class="summary"><h2>Summary</h2><p>{{.Resume.Summary}}</p></section>{{end}}
{{if .Resume.Experience}}<section class="experience"><h2>Experience</h2>
{{range .Resume.Experience}}<div class="experience-item">
<p class="entry-title">{{.Title}}{{if .Company}} - {{.Company}}{{end}}{{if .Duration}} ({{.Duration}}){{end}}</p>
{{if .Description}}<p>{{.Description}}</p>{{end}}
</div>{{end}}</section>{{end}}
{{if .Resume.Education}}<section class="education"><h2>Education</h2>
{{range .Resume.Education}}<p class="entry-title">{{if .Degree}}{{.Degree}}, {{end}}{{.Institution}}</p>{{end}}</section>{{end}}
{{if .Skills}}<section class="skills"><h2>Skills</h2><p>{{.Skills}}</p></section>{{end}}
{{if .Resume.Certifications}}<section class="certifications"><h2>Certifications</h2>
{{range .Resume.Certifications}}<p>{{.}}</p>{{end}}</section>{{end}}
{{if .Resume.Projects}}<section class="projects"><h2>Projects</h2>
{{range .Resume.Projects}}<div class="project-item">
<p class="entry-title">{{.Title}}</p>
{{if .Description}}<p>{{.Description}}</p>{{end}}
</div>{{end}}</section>{{end}}
</div></body></html>`))

var coverLetterTemplate = template.Must(template.New("coverletter").Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><style>` + baseStyle + `</style></head>
<body><div class="letter">
<h1>{{.Name}}</h1>
{{if .Contact}}<p class="contact">{{.Contact}}</p>{{end}}
<p>{{.Date}}</p>
{{if .Company}}<p>{{.Company}}{{if .JobTitle}}<br>Re: {{.JobTitle}}{{end}}</p>{{end}}
<p>{{.Letter.Greeting}}</p>
{{if .Letter.Opening}}<p>{{.Letter.Opening}}</p>{{end}}
{{range .BodyParagraphs}}<p>{{.}}</p>{{end}}
{{if .Letter.Closing}}<p>{{.Letter.Closing}}</p>{{end}}
<p class="signature">{{.Letter.Signature}}</p>
</div></body></html>`))

type resumeTemplateData struct {
	Name    string
	Contact string
	Skills  string
	Resume  *types.ParsedResume
}

type coverLetterTemplateData struct {
	Name           string
	Contact        string
	Date           string
	Company        string
	JobTitle       string
	BodyParagraphs []string
	Letter         *types.CoverLetterContent
}

// ResumeHTML renders the structured resume as a standalone HTML page,
// used both as the user-facing preview and as the PDF intermediate.
func ResumeHTML(content *types.ParsedResume, info types.PersonalInfo) (string, error) {
	if content == nil {
		return "", &RenderError{Message: "no resume content"}
	}

	data := resumeTemplateData{
		Name: firstNonEmpty(info.Name, content.Contact.Name),
		Contact: contactLine(types.PersonalInfo{
			Email: firstNonEmpty(info.Email, content.Contact.Email),
			Phone: firstNonEmpty(info.Phone, content.Contact.Phone),
		}),
		Skills: strings.Join(content.Skills, ", "),
		Resume: content,
	}

	var sb strings.Builder
	if err := resumeTemplate.Execute(&sb, data); err != nil {
		return "", &TemplateError{Message: "failed to execute resume template", Cause: err}
	}
	return sb.String(), nil
}

// CoverLetterHTML renders the cover letter as a standalone HTML page.
func CoverLetterHTML(content *types.CoverLetterContent, job *types.NormalizedJob, info types.PersonalInfo, date time.Time) (string, error) {
	if content == nil {
		return "", &RenderError{Message: "no cover letter content"}
	}

	data := coverLetterTemplateData{
		Name:    info.Name,
		Contact: contactLine(info),
		Date:    date.Format("January 2, 2006"),
		Letter:  content,
	}
	if job != nil {
		data.Company = job.Company
		data.JobTitle = job.Title
	}
	for _, p := range strings.Split(content.Body, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			data.BodyParagraphs = append(data.BodyParagraphs, p)
		}
	}

	var sb strings.Builder
	if err := coverLetterTemplate.Execute(&sb, data); err != nil {
		return "", &TemplateError{Message: "failed to execute cover letter template", Cause: err}
	}
	return sb.String(), nil
}
