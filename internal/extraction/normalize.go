package extraction

import (
	"regexp"
	"strings"

	"github.com/jonathan/laudatorai/internal/types"
)

// Section patterns run against the cleaned description text. Group 1
// captures the section body up to a blank line or a new capitalized block.
var (
	requirementPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:requirements?|qualifications?|must have|should have|need to have):\s*(.*?)(?:\n\n|\n[A-Z]|$)`),
		regexp.MustCompile(`(?is)(?:minimum|required|preferred)\s+(?:qualifications?|requirements?|experience):\s*(.*?)(?:\n\n|\n[A-Z]|$)`),
		regexp.MustCompile(`(?is)(?:experience|skills?|knowledge)\s+(?:required|needed|preferred):\s*(.*?)(?:\n\n|\n[A-Z]|$)`),
	}

	responsibilityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:responsibilities?|duties?|what you'll do|key responsibilities?):\s*(.*?)(?:\n\n|\n[A-Z]|$)`),
		regexp.MustCompile(`(?is)(?:role|position|job)\s+(?:responsibilities?|duties?):\s*(.*?)(?:\n\n|\n[A-Z]|$)`),
	}

	benefitPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)(?:benefits?|perks?|what we offer|compensation):\s*(.*?)(?:\n\n|\n[A-Z]|$)`),
		regexp.MustCompile(`(?is)(?:health|dental|vision|insurance|401k|pto|vacation):\s*(.*?)(?:\n\n|\n[A-Z]|$)`),
	}

	salaryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\$[\d,]+(?:\s*-\s*\$[\d,]+)?(?:\s*(?:per\s+)?(?:year|month|hour|annually|monthly|hourly))?`),
		regexp.MustCompile(`(?i)(?:salary|compensation|pay)\s*(?:range|package)?\s*:\s*\$[\d,]+(?:\s*-\s*\$[\d,]+)?`),
		regexp.MustCompile(`(?i)(?:competitive|attractive|excellent)\s+(?:salary|compensation|pay)`),
	}

	employmentTypePattern = regexp.MustCompile(`(?i)(?:full\s*-?\s*time|part\s*-?\s*time|contract|temporary|permanent|remote|hybrid|on\s*-?\s*site)`)

	experienceLevelPattern = regexp.MustCompile(`(?i)(?:entry\s*-?\s*level|junior|mid\s*-?\s*level|senior|lead|principal|executive)`)

	educationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:bachelor's|master's|phd|degree|diploma|certification)\s+(?:in|of)\s+([^.\n]+)`),
		regexp.MustCompile(`(?i)(?:education|degree|qualification):\s*([^.\n]+)`),
	}

	industryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:industry|sector):\s*([^.\n]+)`),
		regexp.MustCompile(`(?i)(technology|healthcare|finance|education|retail|manufacturing|consulting)`),
	}

	departmentPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:department|team|division):\s*([^.\n]+)`),
		regexp.MustCompile(`(?i)(engineering|marketing|sales|hr|finance|operations|product|design)`),
	}

	bulletSplit   = regexp.MustCompile(`[•·▪▫‣⁃]\s*`)
	numberedSplit = regexp.MustCompile(`\d+\.\s*`)
	spaceCollapse = regexp.MustCompile(`\s+`)
)

// skillVocabulary is the fixed list of skills matched as substrings of the
// lowercased description.
var skillVocabulary = []string{
	"python", "javascript", "java", "c++", "c#", "php", "ruby", "go", "rust",
	"react", "angular", "vue", "node.js", "django", "flask", "spring",
	"aws", "azure", "gcp", "docker", "kubernetes", "jenkins", "git",
	"sql", "mongodb", "redis", "elasticsearch", "kafka", "rabbitmq",
	"machine learning", "ai", "data science", "analytics", "statistics",
	"agile", "scrum", "kanban", "jira", "confluence", "slack",
	"excel", "powerpoint", "word", "photoshop", "illustrator",
	"salesforce", "hubspot", "marketo", "google analytics",
}

// Normalize converts a scraped posting into the structured job record.
// Missing fields stay empty; partial extraction is not an error.
func Normalize(posting *ScrapedPosting) *types.NormalizedJob {
	description := posting.Description

	normalized := &types.NormalizedJob{
		Title:            CleanText(posting.Title),
		Company:          CleanText(posting.Company),
		Location:         CleanText(posting.Location),
		Description:      description,
		Requirements:     extractRequirements(description),
		Responsibilities: extractByPatterns(description, responsibilityPatterns),
		Benefits:         extractByPatterns(description, benefitPatterns),
		Skills:           extractSkills(description),
		SalaryRange:      firstMatch(description, salaryPatterns),
		EmploymentType:   employmentTypePattern.FindString(description),
		ExperienceLevel:  experienceLevelPattern.FindString(description),
		Education:        firstGroup(description, educationPatterns),
		Industry:         firstGroup(description, industryPatterns),
		Department:       firstGroup(description, departmentPatterns),
	}
	return normalized
}

// CleanText collapses whitespace and strips zero-width characters.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	// Drop zero-width and directional mark characters (U+200B..U+200F)
	text = strings.Map(func(r rune) rune {
		if r >= 0x200B && r <= 0x200F {
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(spaceCollapse.ReplaceAllString(text, " "))
}

func extractRequirements(text string) []string {
	requirements := extractByPatterns(text, requirementPatterns)
	if len(requirements) > 0 {
		return requirements
	}

	// No section header matched: fall back to requirement-like lines
	keywords := []string{"years", "experience", "degree", "certification", "proficiency"}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				requirements = append(requirements, line)
				break
			}
		}
	}
	return dedupe(requirements)
}

func extractByPatterns(text string, patterns []*regexp.Regexp) []string {
	var items []string
	for _, pattern := range patterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			items = append(items, SplitBulletPoints(match[1])...)
		}
	}
	return dedupe(items)
}

func extractSkills(text string) []string {
	lower := strings.ToLower(text)
	var skills []string
	for _, skill := range skillVocabulary {
		if strings.Contains(lower, skill) {
			skills = append(skills, skill)
		}
	}
	return skills
}

func firstMatch(text string, patterns []*regexp.Regexp) string {
	for _, pattern := range patterns {
		if m := pattern.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

func firstGroup(text string, patterns []*regexp.Regexp) string {
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(text); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// SplitBulletPoints splits a section body into items by bullet characters,
// numbered lists, or line breaks, in that order of preference.
func SplitBulletPoints(text string) []string {
	if parts := splitNonEmpty(bulletSplit.Split(text, -1)); len(parts) > 1 {
		return parts
	}
	if parts := splitNonEmpty(numberedSplit.Split(text, -1)); len(parts) > 1 {
		return parts
	}
	return splitNonEmpty(strings.Split(text, "\n"))
}

func splitNonEmpty(parts []string) []string {
	var out []string
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
