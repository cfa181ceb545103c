package fetch

import (
	"net/url"
	"strings"
)

// Platform identifies a known applicant tracking system. Knowing the
// platform lets extraction target its DOM instead of guessing.
type Platform string

const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformAshby      Platform = "ashby"
	PlatformUnknown    Platform = "unknown"
)

var platformHosts = map[string]Platform{
	"greenhouse.io":     PlatformGreenhouse,
	"lever.co":          PlatformLever,
	"workday.com":       PlatformWorkday,
	"myworkdayjobs.com": PlatformWorkday,
	"ashbyhq.com":       PlatformAshby,
}

// DetectPlatform identifies the job board platform from a posting URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)
	for suffix, platform := range platformHosts {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return platform
		}
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns description selectors for a platform,
// most specific first.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return []string{
			".job__description.body",
			".job__description",
			".job-description__content",
			"#content",
			".job-post-container",
		}
	case PlatformLever:
		return []string{
			".posting-page",
			".section-wrapper.page-full-width",
			".posting-description",
			".content",
		}
	case PlatformWorkday:
		return []string{
			"[data-automation-id='jobDescription']",
			".gwt-HTML",
			".job-description",
		}
	case PlatformAshby:
		return []string{
			"#job-overview",
			"._descriptionText",
			".ashby-job-posting-brief-description",
		}
	default:
		return JobPostingSelectors()
	}
}

// noise elements shared by every job board: application forms, EEO and
// legal disclosures, share widgets, cookie banners.
var commonNoiseSelectors = []string{
	"form",
	"#application-form",
	".application-form",
	".application--container",
	".apply-button-container",
	"[data-testid='application-form']",
	".voluntary-disclosure",
	".eeo-statement",
	".eeo-section",
	"[data-testid='eeo']",
	".legal-disclosure",
	".self-identification",
	".social-share",
	".share-buttons",
	".social-links",
	".cookie-banner",
	".cookie-consent",
	".gdpr-notice",
}

// PlatformNoiseSelectors returns elements to strip before extracting
// posting text.
func PlatformNoiseSelectors(platform Platform) []string {
	var extra []string
	switch platform {
	case PlatformGreenhouse:
		extra = []string{
			".application--wrapper",
			".voluntary-self-id",
			"#usa_self_id_section",
			".post-apply",
		}
	case PlatformLever:
		extra = []string{
			".apply-section",
			".lever-application-form",
			".posting-apply",
		}
	case PlatformWorkday:
		extra = []string{
			"[data-automation-id='applyButton']",
			".application-section",
		}
	case PlatformAshby:
		extra = []string{
			".ashby-application-form-container",
			"#application",
		}
	}
	return append(append([]string(nil), commonNoiseSelectors...), extra...)
}
