package resumes

import (
	"regexp"
	"strings"

	"github.com/jonathan/laudatorai/internal/types"
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe = regexp.MustCompile(`\+?\(?\d[\d\s().-]{8,}\d`)
)

// sectionHeadings maps heading keywords to section names. A line matching
// a keyword switches the active section.
var sectionHeadings = []struct {
	section  string
	keywords []string
}{
	{"experience", []string{"experience", "work history", "employment"}},
	{"education", []string{"education", "academic", "degree"}},
	{"skills", []string{"skills", "technical skills", "competencies"}},
	{"certifications", []string{"certifications", "certificates"}},
	{"projects", []string{"projects", "portfolio"}},
	{"languages", []string{"languages"}},
	{"summary", []string{"summary", "objective", "profile"}},
}

// ExtractSections segments plain resume text into structured content using
// heading keywords and contact heuristics. Unrecognized text is preserved
// in RawText.
func ExtractSections(text string) *types.ParsedResume {
	parsed := &types.ParsedResume{RawText: text}

	var (
		section    string
		currentExp *types.ExperienceEntry
		currentPrj *types.ProjectEntry
	)

	flushExperience := func() {
		if currentExp != nil {
			parsed.Experience = append(parsed.Experience, *currentExp)
			currentExp = nil
		}
	}
	flushProject := func() {
		if currentPrj != nil {
			parsed.Projects = append(parsed.Projects, *currentPrj)
			currentPrj = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if name := detectHeading(line); name != "" {
			flushExperience()
			flushProject()
			section = name
			continue
		}

		scanContact(parsed, line, section)

		switch section {
		case "summary":
			if parsed.Summary != "" {
				parsed.Summary += " "
			}
			parsed.Summary += line
		case "skills":
			for _, skill := range strings.Split(line, ",") {
				if skill = strings.TrimSpace(skill); skill != "" {
					parsed.Skills = append(parsed.Skills, skill)
				}
			}
		case "experience":
			// A title line looks like "Engineer - Acme" or "Engineer at Acme"
			if strings.Contains(line, " - ") || strings.Contains(line, " at ") {
				flushExperience()
				currentExp = &types.ExperienceEntry{Title: line}
			} else if currentExp != nil {
				if currentExp.Description == "" {
					currentExp.Description = line
				} else {
					currentExp.Description += " " + line
				}
			}
		case "education":
			parsed.Education = append(parsed.Education, types.EducationEntry{Institution: line})
		case "certifications":
			parsed.Certifications = append(parsed.Certifications, line)
		case "languages":
			for _, lang := range strings.Split(line, ",") {
				if lang = strings.TrimSpace(lang); lang != "" {
					parsed.Languages = append(parsed.Languages, lang)
				}
			}
		case "projects":
			if strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") {
				if currentPrj != nil {
					desc := strings.TrimSpace(strings.TrimLeft(line, "•- "))
					if currentPrj.Description == "" {
						currentPrj.Description = desc
					} else {
						currentPrj.Description += " " + desc
					}
					continue
				}
			}
			flushProject()
			currentPrj = &types.ProjectEntry{Title: line}
		}
	}

	flushExperience()
	flushProject()

	parsed.Summary = strings.TrimSpace(parsed.Summary)
	return parsed
}

// detectHeading returns the section name when the line is a heading,
// otherwise "". Headings are short lines containing a section keyword.
func detectHeading(line string) string {
	if len(line) > 40 {
		return ""
	}
	lower := strings.ToLower(line)
	for _, h := range sectionHeadings {
		for _, kw := range h.keywords {
			if strings.Contains(lower, kw) {
				return h.section
			}
		}
	}
	return ""
}

// scanContact fills contact fields from header-area lines. Phone detection
// is limited to text before the first section to avoid matching dates in
// experience entries.
func scanContact(parsed *types.ParsedResume, line, section string) {
	if parsed.Contact.Email == "" {
		if email := emailRe.FindString(line); email != "" {
			parsed.Contact.Email = email
			return
		}
	}
	if section == "" && parsed.Contact.Phone == "" {
		if phone := phoneRe.FindString(line); phone != "" {
			parsed.Contact.Phone = strings.TrimSpace(phone)
			return
		}
	}
	if parsed.Contact.Address == "" {
		lower := strings.ToLower(line)
		for _, kw := range []string{"street", "avenue", "road", "drive", "lane"} {
			if strings.Contains(lower, kw) {
				parsed.Contact.Address = line
				return
			}
		}
	}
}
