package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://boards.greenhouse.io/acme/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/acme/abc-def", PlatformLever},
		{"https://acme.wd1.myworkdayjobs.com/en-US/careers/job/123", PlatformWorkday},
		{"https://jobs.ashbyhq.com/acme/123", PlatformAshby},
		{"https://careers.example.com/jobs/123", PlatformUnknown},
		{"https://notgreenhouse.iomalicious.com/jobs", PlatformUnknown},
		{"://bad url", PlatformUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}

func TestPlatformContentSelectors(t *testing.T) {
	for _, platform := range []Platform{PlatformGreenhouse, PlatformLever, PlatformWorkday, PlatformAshby} {
		assert.NotEmpty(t, PlatformContentSelectors(platform), "platform %s", platform)
	}

	// unknown platforms fall back to the generic job posting selectors
	assert.Equal(t, JobPostingSelectors(), PlatformContentSelectors(PlatformUnknown))
}

func TestPlatformNoiseSelectors(t *testing.T) {
	common := PlatformNoiseSelectors(PlatformUnknown)
	assert.Contains(t, common, "form")
	assert.Contains(t, common, ".cookie-banner")

	greenhouse := PlatformNoiseSelectors(PlatformGreenhouse)
	assert.Greater(t, len(greenhouse), len(common), "platform adds its own noise selectors")
	assert.Contains(t, greenhouse, ".post-apply")

	// the shared slice must not be mutated by platform appends
	again := PlatformNoiseSelectors(PlatformUnknown)
	assert.Equal(t, common, again)
}
