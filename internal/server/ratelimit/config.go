package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Rule limits one endpoint. Paths ending in "/" match by prefix, so
// "/applications/" covers "/applications/{id}" and deeper.
type Rule struct {
	Path   string
	Method string
	Limit  int // requests per Window; 0 means unlimited
	Window time.Duration
	Burst  int // defaults to Limit
}

// Config holds the limiter settings.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Allowlist       map[string]bool
	Blocklist       map[string]bool
	Rules           []Rule
}

// LoadConfig reads limiter settings from the environment.
func LoadConfig() *Config {
	if !envBool("RATE_LIMIT_ENABLED", true) {
		return &Config{}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    envInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   envDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: envDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Allowlist:       parseIPList(os.Getenv("RATE_LIMIT_ALLOWLIST")),
		Blocklist:       parseIPList(os.Getenv("RATE_LIMIT_BLOCKLIST")),
		Rules:           DefaultRules(),
	}
}

// DefaultRules tiers the API: pipeline submissions are the expensive
// path (each one fans out scraping, LLM calls and rendering), uploads
// and re-processing sit in the middle, reads fall through to the
// default limit, and health checks are never limited.
func DefaultRules() []Rule {
	return []Rule{
		{Path: "/pipeline", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/resumes", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},
		{Path: "/jobs", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},
		{Path: "/jobs/", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},
		{Path: "/applications/", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/applications/", Method: "DELETE", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/resumes/", Method: "DELETE", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/jobs/", Method: "DELETE", Limit: 120, Window: time.Minute, Burst: 20},
	}
}

// match finds the rule for a request, falling back to the default limit.
func (c *Config) match(path, method string) Rule {
	if path == "/health" && method == "GET" {
		return Rule{}
	}

	for _, rule := range c.Rules {
		if rule.Method == method && rule.Path == path {
			return rule
		}
	}
	for _, rule := range c.Rules {
		if rule.Method == method && strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			return rule
		}
	}
	return Rule{Path: path, Limit: c.DefaultLimit, Window: c.DefaultWindow}
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
