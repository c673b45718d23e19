package domain

import "time"

// AppConfig represents the application configuration.
type AppConfig struct {
	Server      ServerConfig    `mapstructure:"server" json:"server"`
	ModelParams ModelParams     `mapstructure:"openai" json:"model_params"`
	Scraper     ScraperConfig   `mapstructure:"apify" json:"scraper"`
	Retry       RetryConfig     `mapstructure:"retry" json:"retry"`
	Workspace   WorkspaceConfig `mapstructure:"workspace" json:"workspace"`
	Prompts     PromptsConfig   `mapstructure:"prompts" json:"prompts"`
	LogLevel    string          `mapstructure:"log_level" json:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" json:"port" validate:"min=1,max=65535"`
}

// ModelParams defines the parameters for the AI model.
type ModelParams struct {
	APIKey          string `mapstructure:"api_key" json:"-" validate:"required"`
	BaseURL         string `mapstructure:"base_url" json:"-" validate:"omitempty,url"`
	Model           string `mapstructure:"model" json:"model" validate:"required"`
	ReasoningEffort string `mapstructure:"reasoning_effort" json:"reasoning_effort" validate:"omitempty,oneof=minimal low medium high"`
	MaxTokens       int    `mapstructure:"max_output_tokens" json:"max_output_tokens" validate:"min=1"`
}

// ScraperConfig holds the Apify account and actor settings for profile fetching.
type ScraperConfig struct {
	Token        string        `mapstructure:"token" json:"-" validate:"required"`
	BaseURL      string        `mapstructure:"base_url" json:"-" validate:"required,url"`
	PersonActor  string        `mapstructure:"person_actor" json:"person_actor" validate:"required"`
	CompanyActor string        `mapstructure:"company_actor" json:"company_actor" validate:"required"`
	Timeout      time.Duration `mapstructure:"timeout" json:"timeout"`
}

type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" json:"max_attempts" validate:"min=1"`
	BaseDelay   time.Duration `mapstructure:"base_delay" json:"base_delay"`
}

type WorkspaceConfig struct {
	Dir    string `mapstructure:"dir" json:"-" validate:"required"`
	Retain int    `mapstructure:"retain" json:"retain" validate:"min=1"`
}

// PromptsConfig optionally points at a directory that overrides the embedded templates.
type PromptsConfig struct {
	Dir string `mapstructure:"dir" json:"-"`
}
