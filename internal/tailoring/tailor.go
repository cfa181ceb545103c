// Package tailoring rewrites parsed resume content to emphasize alignment
// with a target job. Skills are reordered so matches come first, experience
// descriptions that mention no job keyword are rephrased through the LLM,
// and the summary is extended with the top matching skills.
package tailoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/laudatorai/internal/llm"
	"github.com/jonathan/laudatorai/internal/types"
)

// Engine tailors a parsed resume against normalized job fields.
type Engine struct {
	client llm.Client
}

// NewEngine creates a tailoring engine backed by an LLM client.
func NewEngine(client llm.Client) *Engine {
	return &Engine{client: client}
}

// Tailor returns a tailored copy of the resume. The input is never
// mutated, so the stored parse result stays intact for the degraded path.
func (e *Engine) Tailor(ctx context.Context, resume *types.ParsedResume, job *types.NormalizedJob) (*types.ParsedResume, error) {
	if resume == nil {
		return nil, &Error{Message: "no parsed resume content"}
	}
	if job == nil {
		return nil, &Error{Message: "no normalized job content"}
	}

	tailored := resume.Clone()
	keywords := JobKeywords(job)

	tailored.Skills = ReorderSkills(resume.Skills, job.Skills)

	experience, err := e.tailorExperience(ctx, resume.Experience, keywords)
	if err != nil {
		return nil, err
	}
	tailored.Experience = experience

	tailored.Summary = tailorSummary(resume.Summary, keywords)

	return tailored, nil
}

// JobKeywords collects the terms worth surfacing in the resume. The
// job's skill list leads; requirement lines fill in when no skills were
// normalized.
func JobKeywords(job *types.NormalizedJob) []string {
	if len(job.Skills) > 0 {
		return job.Skills
	}

	var keywords []string
	for _, req := range job.Requirements {
		req = strings.TrimSpace(req)
		if req == "" || len(req) > 60 {
			continue
		}
		keywords = append(keywords, req)
		if len(keywords) == 5 {
			break
		}
	}
	return keywords
}

// ReorderSkills moves resume skills that match a job skill to the front,
// preserving relative order within each group. Matching is case-insensitive
// substring in either direction.
func ReorderSkills(resumeSkills, jobSkills []string) []string {
	if len(jobSkills) == 0 {
		return resumeSkills
	}

	var matched, other []string
	for _, skill := range resumeSkills {
		if matchesAny(skill, jobSkills) {
			matched = append(matched, skill)
		} else {
			other = append(other, skill)
		}
	}
	return append(matched, other...)
}

func matchesAny(skill string, jobSkills []string) bool {
	skillLower := strings.ToLower(skill)
	for _, jobSkill := range jobSkills {
		jobLower := strings.ToLower(jobSkill)
		if strings.Contains(skillLower, jobLower) || strings.Contains(jobLower, skillLower) {
			return true
		}
	}
	return false
}

// tailorExperience rephrases entries whose description mentions none of
// the job keywords. Entries that already cover a keyword pass through
// untouched.
func (e *Engine) tailorExperience(ctx context.Context, experience []types.ExperienceEntry, keywords []string) ([]types.ExperienceEntry, error) {
	if len(keywords) == 0 {
		return experience, nil
	}

	tailored := make([]types.ExperienceEntry, 0, len(experience))
	for _, entry := range experience {
		if entry.Description == "" || containsAnyKeyword(entry.Description, keywords) {
			tailored = append(tailored, entry)
			continue
		}

		rewritten, err := e.rewriteDescription(ctx, entry, keywords[0])
		if err != nil {
			return nil, err
		}
		if rewritten != "" {
			entry.Description = rewritten
		}
		tailored = append(tailored, entry)
	}
	return tailored, nil
}

func (e *Engine) rewriteDescription(ctx context.Context, entry types.ExperienceEntry, keyword string) (string, error) {
	prompt := buildRewritePrompt(keyword, entry.Title, entry.Company, entry.Description)

	response, err := e.client.Complete(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", &Error{Message: fmt.Sprintf("experience rewrite for %q", entry.Title), Cause: err}
	}
	return strings.TrimSpace(response), nil
}

// tailorSummary appends a proficiency note for up to three keywords the
// summary does not already mention.
func tailorSummary(summary string, keywords []string) string {
	if summary == "" {
		return summary
	}

	limit := 3
	if len(keywords) < limit {
		limit = len(keywords)
	}
	for _, keyword := range keywords[:limit] {
		if !strings.Contains(strings.ToLower(summary), strings.ToLower(keyword)) {
			summary += fmt.Sprintf(" Proficient in %s.", keyword)
		}
	}
	return summary
}

func containsAnyKeyword(text string, keywords []string) bool {
	textLower := strings.ToLower(text)
	for _, keyword := range keywords {
		if strings.Contains(textLower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
