package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Allowlist:     map[string]bool{},
		Blocklist:     map[string]bool{},
		Rules:         DefaultRules(),
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()

	allowed, info := l.Allow("1.2.3.4", "/pipeline", "POST")
	assert.True(t, allowed)
	assert.True(t, info.Allowed)
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	cfg := testConfig()
	cfg.Rules = []Rule{{Path: "/pipeline", Method: "POST", Limit: 2, Window: time.Hour, Burst: 2}}
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/pipeline", "POST")
		require.True(t, allowed, "request %d within burst", i)
	}

	allowed, info := l.Allow("1.2.3.4", "/pipeline", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 2, info.Limit)
	assert.Positive(t, info.RetryAfter)
}

func TestLimiter_ClientsIsolated(t *testing.T) {
	cfg := testConfig()
	cfg.Rules = []Rule{{Path: "/pipeline", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1}}
	l := NewLimiter(cfg)
	defer l.Stop()

	allowed, _ := l.Allow("1.2.3.4", "/pipeline", "POST")
	require.True(t, allowed)
	allowed, _ = l.Allow("1.2.3.4", "/pipeline", "POST")
	require.False(t, allowed)

	allowed, _ = l.Allow("5.6.7.8", "/pipeline", "POST")
	assert.True(t, allowed, "second client has its own bucket")
}

func TestLimiter_AllowAndBlockLists(t *testing.T) {
	cfg := testConfig()
	cfg.Rules = []Rule{{Path: "/pipeline", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1}}
	cfg.Allowlist["10.0.0.1"] = true
	cfg.Blocklist["10.0.0.2"] = true
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/pipeline", "POST")
		assert.True(t, allowed)
	}

	allowed, _ := l.Allow("10.0.0.2", "/jobs", "GET")
	assert.False(t, allowed)
}

func TestConfig_Match(t *testing.T) {
	cfg := testConfig()

	rule := cfg.match("/pipeline", "POST")
	assert.Equal(t, "/pipeline", rule.Path)

	// prefix rules cover parameterized paths
	rule = cfg.match("/applications/123/cancel", "POST")
	assert.Equal(t, "/applications/", rule.Path)

	// reads fall back to the default limit
	rule = cfg.match("/jobs", "GET")
	assert.Equal(t, cfg.DefaultLimit, rule.Limit)

	// health is never limited
	rule = cfg.match("/health", "GET")
	assert.Zero(t, rule.Limit)
}

func TestLimiter_DropIdleBuckets(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	l.Allow("1.2.3.4", "/pipeline", "POST")
	require.NotEmpty(t, l.buckets)

	l.dropIdleBuckets(0)
	assert.Empty(t, l.buckets)
	assert.Empty(t, l.lastAccess)
}
