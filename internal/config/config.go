// Package config provides configuration loading and validation for the
// server and worker processes.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds every tunable for the service. Values load from the
// environment first; an optional JSON file fills anything still unset.
type Config struct {
	// Server
	ListenAddr string `json:"listen_addr,omitempty"` // HTTP bind address
	LogLevel   string `json:"log_level,omitempty"`   // logrus level name

	// Datastores
	DatabaseURL   string `json:"database_url,omitempty"`   // PostgreSQL connection URL
	StorageURL    string `json:"storage_url,omitempty"`    // Object store base URL
	StorageBucket string `json:"storage_bucket,omitempty"` // Bucket for resumes and artifacts
	StorageKey    string `json:"storage_key,omitempty"`    // Bearer token for the bucket API

	// LLM
	LLMProvider string `json:"llm_provider,omitempty"` // "gemini" or "local"
	GeminiKey   string `json:"gemini_api_key,omitempty"`
	LocalLLMURL string `json:"local_llm_url,omitempty"` // OpenAI-compatible server base URL

	// Candidate identity used in generated documents
	CandidateName  string `json:"candidate_name,omitempty"`
	CandidateEmail string `json:"candidate_email,omitempty"`
	CandidatePhone string `json:"candidate_phone,omitempty"`

	// Orchestrator
	JobWorkers         int           `json:"job_workers,omitempty"`
	ResumeWorkers      int           `json:"resume_workers,omitempty"`
	ApplicationWorkers int           `json:"application_workers,omitempty"`
	CleanupWorkers     int           `json:"cleanup_workers,omitempty"`
	LeaseTimeout       time.Duration `json:"-"`
	CleanupInterval    time.Duration `json:"-"`
	TaskRetentionHours int           `json:"task_retention_hours,omitempty"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		ListenAddr:         ":8080",
		LogLevel:           "info",
		StorageBucket:      "laudatorai",
		LLMProvider:        "gemini",
		JobWorkers:         2,
		ResumeWorkers:      2,
		ApplicationWorkers: 4,
		CleanupWorkers:     1,
		LeaseTimeout:       5 * time.Minute,
		CleanupInterval:    time.Hour,
		TaskRetentionHours: 7 * 24,
	}
}

// FromEnv builds a Config from environment variables layered over defaults.
func FromEnv() Config {
	cfg := Defaults()
	setStr := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setStr(&cfg.ListenAddr, "LISTEN_ADDR")
	setStr(&cfg.LogLevel, "LOG_LEVEL")
	setStr(&cfg.DatabaseURL, "DATABASE_URL")
	setStr(&cfg.StorageURL, "STORAGE_URL")
	setStr(&cfg.StorageBucket, "STORAGE_BUCKET")
	setStr(&cfg.StorageKey, "STORAGE_KEY")
	setStr(&cfg.LLMProvider, "LLM_PROVIDER")
	setStr(&cfg.GeminiKey, "GEMINI_API_KEY")
	setStr(&cfg.LocalLLMURL, "LOCAL_LLM_URL")
	setStr(&cfg.CandidateName, "CANDIDATE_NAME")
	setStr(&cfg.CandidateEmail, "CANDIDATE_EMAIL")
	setStr(&cfg.CandidatePhone, "CANDIDATE_PHONE")
	setInt(&cfg.JobWorkers, "JOB_WORKERS")
	setInt(&cfg.ResumeWorkers, "RESUME_WORKERS")
	setInt(&cfg.ApplicationWorkers, "APPLICATION_WORKERS")
	setInt(&cfg.CleanupWorkers, "CLEANUP_WORKERS")
	setInt(&cfg.TaskRetentionHours, "TASK_RETENTION_HOURS")
	if v := os.Getenv("LEASE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.LeaseTimeout = d
		}
	}
	if v := os.Getenv("CLEANUP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.CleanupInterval = d
		}
	}
	return cfg
}

// LoadFile loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// Merge returns c with empty fields filled from file values. Environment
// wins over the file; the file wins over built-in defaults only for fields
// the environment left unset.
func (c Config) Merge(file *Config) Config {
	if file == nil {
		return c
	}
	result := c
	defaults := Defaults()

	mergeStr := func(dst *string, fileVal, defVal string) {
		if (*dst == "" || *dst == defVal) && fileVal != "" {
			*dst = fileVal
		}
	}
	mergeInt := func(dst *int, fileVal, defVal int) {
		if *dst == defVal && fileVal != 0 {
			*dst = fileVal
		}
	}
	mergeStr(&result.ListenAddr, file.ListenAddr, defaults.ListenAddr)
	mergeStr(&result.LogLevel, file.LogLevel, defaults.LogLevel)
	mergeStr(&result.DatabaseURL, file.DatabaseURL, "")
	mergeStr(&result.StorageURL, file.StorageURL, "")
	mergeStr(&result.StorageBucket, file.StorageBucket, defaults.StorageBucket)
	mergeStr(&result.StorageKey, file.StorageKey, "")
	mergeStr(&result.LLMProvider, file.LLMProvider, defaults.LLMProvider)
	mergeStr(&result.GeminiKey, file.GeminiKey, "")
	mergeStr(&result.LocalLLMURL, file.LocalLLMURL, "")
	mergeStr(&result.CandidateName, file.CandidateName, "")
	mergeStr(&result.CandidateEmail, file.CandidateEmail, "")
	mergeStr(&result.CandidatePhone, file.CandidatePhone, "")
	mergeInt(&result.JobWorkers, file.JobWorkers, defaults.JobWorkers)
	mergeInt(&result.ResumeWorkers, file.ResumeWorkers, defaults.ResumeWorkers)
	mergeInt(&result.ApplicationWorkers, file.ApplicationWorkers, defaults.ApplicationWorkers)
	mergeInt(&result.CleanupWorkers, file.CleanupWorkers, defaults.CleanupWorkers)
	mergeInt(&result.TaskRetentionHours, file.TaskRetentionHours, defaults.TaskRetentionHours)
	return result
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required")
	}
	switch c.LLMProvider {
	case "gemini":
		if c.GeminiKey == "" {
			return fmt.Errorf("config error: 'gemini_api_key' is required for the gemini provider")
		}
	case "local":
		if c.LocalLLMURL == "" {
			return fmt.Errorf("config error: 'local_llm_url' is required for the local provider")
		}
	default:
		return fmt.Errorf("config error: unknown llm provider %q", c.LLMProvider)
	}
	if c.JobWorkers <= 0 || c.ResumeWorkers <= 0 || c.ApplicationWorkers <= 0 || c.CleanupWorkers <= 0 {
		return fmt.Errorf("config error: worker counts must be positive")
	}
	if c.LeaseTimeout <= 0 {
		return fmt.Errorf("config error: lease timeout must be positive")
	}
	if c.TaskRetentionHours <= 0 {
		return fmt.Errorf("config error: 'task_retention_hours' must be positive")
	}
	return nil
}
