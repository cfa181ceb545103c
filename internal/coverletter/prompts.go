package coverletter

import (
	"fmt"
	"strings"

	"github.com/jonathan/laudatorai/internal/types"
)

// buildPrompt assembles the structured cover letter prompt from the job,
// the tailored resume, and the candidate's contact details. Lists are
// truncated so the prompt stays within a predictable size.
func buildPrompt(job *types.NormalizedJob, resume *types.ParsedResume, info types.PersonalInfo) string {
	var sb strings.Builder

	sb.WriteString("You are an expert cover letter writer. Write a professional cover letter for the following job opportunity.\n\n")
	fmt.Fprintf(&sb, "Job Title: %s\nCompany: %s\n", job.Title, job.Company)
	if job.Description != "" {
		fmt.Fprintf(&sb, "Job Summary: %s\n", truncate(job.Description, 1200))
	}

	if len(job.Requirements) > 0 {
		sb.WriteString("\nKey Requirements:\n")
		for _, req := range firstN(job.Requirements, 10) {
			fmt.Fprintf(&sb, "- %s\n", req)
		}
	}

	fmt.Fprintf(&sb, "\nCandidate Information:\nName: %s\nEmail: %s\nPhone: %s\n", info.Name, info.Email, info.Phone)

	if len(resume.Experience) > 0 {
		sb.WriteString("\nRelevant Experience:\n")
		for _, exp := range resume.Experience[:min(3, len(resume.Experience))] {
			fmt.Fprintf(&sb, "- %s at %s (%s)\n", exp.Title, exp.Company, exp.Duration)
		}
	}

	if len(resume.Skills) > 0 {
		sb.WriteString("\nKey Skills:\n")
		for _, skill := range firstN(resume.Skills, 10) {
			fmt.Fprintf(&sb, "- %s\n", skill)
		}
	}

	if len(resume.Education) > 0 {
		sb.WriteString("\nEducation:\n")
		for _, edu := range resume.Education[:min(2, len(resume.Education))] {
			fmt.Fprintf(&sb, "- %s from %s\n", edu.Degree, edu.Institution)
		}
	}

	sb.WriteString(`
The cover letter must:
1. Address the hiring manager professionally
2. Open with a compelling introduction that mentions the specific position
3. Highlight 2-3 of the most relevant experiences for the requirements
4. Demonstrate understanding of the company and role
5. Close with enthusiasm and a call to action
6. Be concise, 3-4 paragraphs and roughly 300-400 words
7. Maintain a professional yet engaging tone

Respond with JSON of this exact shape:
{
  "greeting": "Dear Hiring Manager,",
  "opening": "Opening paragraph...",
  "body": "Body paragraphs...",
  "closing": "Closing paragraph...",
  "signature": "Sincerely,\n[Name]"
}`)

	return sb.String()
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
