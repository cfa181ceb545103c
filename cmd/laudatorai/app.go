package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/laudatorai/internal/config"
	"github.com/jonathan/laudatorai/internal/coverletter"
	"github.com/jonathan/laudatorai/internal/db"
	"github.com/jonathan/laudatorai/internal/extraction"
	"github.com/jonathan/laudatorai/internal/llm"
	"github.com/jonathan/laudatorai/internal/observability"
	"github.com/jonathan/laudatorai/internal/orchestrator"
	"github.com/jonathan/laudatorai/internal/rendering"
	"github.com/jonathan/laudatorai/internal/resumes"
	"github.com/jonathan/laudatorai/internal/storage"
	"github.com/jonathan/laudatorai/internal/tailoring"
	"github.com/jonathan/laudatorai/internal/types"
)

// app holds the wired process components shared by serve and worker.
type app struct {
	cfg   config.Config
	log   *logrus.Logger
	db    *db.DB
	llm   llm.Client
	store storage.ObjectStore
	orch  *orchestrator.Orchestrator
}

// loadConfig layers environment variables over an optional config file.
func loadConfig() (config.Config, error) {
	cfg := config.FromEnv()
	if configPath != "" {
		file, err := config.LoadFile(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = cfg.Merge(file)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildApp connects the datastores, constructs every pipeline component
// and registers the task handlers.
func buildApp(ctx context.Context, cfg config.Config) (*app, error) {
	log := observability.NewLogger(cfg.LogLevel)

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	llmConfig := llm.DefaultGeminiConfig()
	if cfg.LLMProvider == "local" {
		llmConfig = llm.DefaultLocalConfig(cfg.LocalLLMURL, "")
	}
	client, err := llm.NewClient(ctx, llmConfig, cfg.GeminiKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	store := storage.NewBucketClient(cfg.StorageURL, cfg.StorageBucket, cfg.StorageKey)

	orch := orchestrator.New(database, log, orchestrator.Options{
		Workers: map[types.Queue]int{
			types.QueueJobProcessing:         cfg.JobWorkers,
			types.QueueResumeProcessing:      cfg.ResumeWorkers,
			types.QueueApplicationProcessing: cfg.ApplicationWorkers,
			types.QueueCleanup:               cfg.CleanupWorkers,
		},
		LeaseTimeout:       cfg.LeaseTimeout,
		CleanupInterval:    cfg.CleanupInterval,
		TaskRetentionHours: cfg.TaskRetentionHours,
	})

	handlers := &orchestrator.Handlers{
		DB:          database,
		Extractor:   extraction.NewExtractor(),
		Parser:      resumes.NewParser(),
		Tailor:      tailoring.NewEngine(client),
		CoverLetter: coverletter.NewGenerator(client),
		Renderer:    rendering.NewRenderer(rendering.NewChromePDF()),
		Store:       store,
		Candidate:   candidateInfo(cfg),
		Log:         log,
	}
	handlers.Register(orch)

	return &app{cfg: cfg, log: log, db: database, llm: client, store: store, orch: orch}, nil
}

func (a *app) close() {
	if err := a.llm.Close(); err != nil {
		a.log.WithError(err).Warn("failed to close LLM client")
	}
	a.db.Close()
}

func candidateInfo(cfg config.Config) types.PersonalInfo {
	return types.PersonalInfo{
		Name:  cfg.CandidateName,
		Email: cfg.CandidateEmail,
		Phone: cfg.CandidatePhone,
	}
}
