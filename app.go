package main

import (
	"fmt"

	"cold-email-generator/internal/config"
	configdomain "cold-email-generator/internal/features/config/domain"
	"cold-email-generator/internal/features/outreach/application"
	"cold-email-generator/internal/features/outreach/infrastructure"
	"cold-email-generator/internal/features/outreach/infrastructure/prompts"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// loadConfig resolves the app config and applies its log level.
func loadConfig(opts ...config.Option) (config.AppConfigService, *configdomain.AppConfig, error) {
	svc := config.NewAppConfigService(configPath, opts...)
	cfg, err := svc.LoadAppConfig()
	if err != nil {
		return nil, nil, err
	}

	if cfg.LogLevel != "" {
		level, err := zerolog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse log level: %w", err)
		}
		zerolog.SetGlobalLevel(level)
	}
	return svc, cfg, nil
}

// newOutreachService wires the profile source, templates, generator and workspace store.
// resetWorkspaces clears the workspace root first; only the server owns that root.
func newOutreachService(cfg *configdomain.AppConfig, resetWorkspaces bool) (application.OutreachService, error) {
	source, err := infrastructure.NewApifyClient(infrastructure.ApifyConfig{
		Token:        cfg.Scraper.Token,
		BaseURL:      cfg.Scraper.BaseURL,
		PersonActor:  cfg.Scraper.PersonActor,
		CompanyActor: cfg.Scraper.CompanyActor,
		Timeout:      cfg.Scraper.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Apify client: %w", err)
	}

	aiClient, err := infrastructure.NewOpenAIClient(cfg.ModelParams.APIKey, cfg.ModelParams.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	workspaces, err := infrastructure.NewWorkspaceStore(cfg.Workspace.Dir, cfg.Workspace.Retain)
	if err != nil {
		return nil, err
	}
	if resetWorkspaces {
		if err := workspaces.Reset(); err != nil {
			return nil, err
		}
	}

	generator := application.NewEmailGenerator(aiClient, application.GeneratorSettings{
		Model:           cfg.ModelParams.Model,
		ReasoningEffort: cfg.ModelParams.ReasoningEffort,
		MaxOutputTokens: cfg.ModelParams.MaxTokens,
	}, application.BackoffPolicy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
	})

	log.Info().
		Str("model", cfg.ModelParams.Model).
		Str("reasoning_effort", cfg.ModelParams.ReasoningEffort).
		Str("work_dir", cfg.Workspace.Dir).
		Msg("Outreach service ready")

	return application.NewOutreachService(source, prompts.NewLoader(cfg.Prompts.Dir), generator, workspaces), nil
}
