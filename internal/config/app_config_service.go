package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"cold-email-generator/internal/features/config/domain"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Defaults mirror the settings the generator was tuned with.
const (
	DefaultPort            = 8080
	DefaultModel           = "o4-mini"
	DefaultReasoningEffort = "medium"
	DefaultMaxTokens       = 4000
	DefaultApifyBaseURL    = "https://api.apify.com/v2"
	DefaultPersonActor     = "VhxlqQXRwhW8H5hNV"
	DefaultCompanyActor    = "ipHw77V2NMJPy8sbS"
	DefaultMaxAttempts     = 6
	DefaultBaseDelay       = 2 * time.Second
	DefaultWorkDir         = "AllFiles"
	DefaultRetain          = 10
)

// AppConfigService defines the interface for application configuration management.
type AppConfigService interface {
	LoadAppConfig() (*domain.AppConfig, error)
}

// Option tweaks how the configuration is resolved.
type Option func(*appConfigService)

// WithOverride pins a key to a value, taking precedence over files and environment.
// Used for CLI flags.
func WithOverride(key string, value any) Option {
	return func(s *appConfigService) {
		s.overrides[key] = value
	}
}

// appConfigService is the implementation of AppConfigService.
type appConfigService struct {
	configPath string
	overrides  map[string]any
	validate   *validator.Validate
}

// NewAppConfigService creates a new instance of appConfigService.
// configPath may point at a JSON or YAML file; a missing file is not an error.
func NewAppConfigService(configPath string, opts ...Option) AppConfigService {
	s := &appConfigService{
		configPath: configPath,
		overrides:  make(map[string]any),
		validate:   validator.New(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// LoadAppConfig resolves defaults, the config file, environment variables and overrides,
// in that order, and validates the result.
func (s *appConfigService) LoadAppConfig() (*domain.AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envMappings := map[string]string{
		"openai.api_key":  "OPENAI_API_KEY",
		"openai.base_url": "OPENAI_BASE_URL",
		"openai.model":    "OPENAI_MODEL",
		"apify.token":     "APIFY_TOKEN",
		"server.port":     "PORT",
		"workspace.dir":   "WORK_DIR",
		"log_level":       "LOG_LEVEL",
	}
	for key, env := range envMappings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	if s.configPath != "" {
		if _, err := os.Stat(s.configPath); err == nil {
			v.SetConfigFile(s.configPath)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read app config file %s: %w", s.configPath, err)
			}
			log.Info().Str("path", v.ConfigFileUsed()).Msg("Using config file")
		} else if errors.Is(err, os.ErrNotExist) {
			log.Debug().Str("path", s.configPath).Msg("Config file not found, using environment variables and defaults")
		} else {
			return nil, fmt.Errorf("failed to stat app config file %s: %w", s.configPath, err)
		}
	}

	for key, value := range s.overrides {
		v.Set(key, value)
	}

	var appConfig domain.AppConfig
	if err := v.Unmarshal(&appConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal app config: %w", err)
	}

	if err := s.validate.Struct(&appConfig); err != nil {
		return nil, fmt.Errorf("invalid app config: %w", err)
	}

	return &appConfig, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("openai.model", DefaultModel)
	v.SetDefault("openai.reasoning_effort", DefaultReasoningEffort)
	v.SetDefault("openai.max_output_tokens", DefaultMaxTokens)
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("apify.token", "")
	v.SetDefault("apify.base_url", DefaultApifyBaseURL)
	v.SetDefault("apify.person_actor", DefaultPersonActor)
	v.SetDefault("apify.company_actor", DefaultCompanyActor)
	v.SetDefault("apify.timeout", 5*time.Minute)
	v.SetDefault("retry.max_attempts", DefaultMaxAttempts)
	v.SetDefault("retry.base_delay", DefaultBaseDelay)
	v.SetDefault("workspace.dir", DefaultWorkDir)
	v.SetDefault("workspace.retain", DefaultRetain)
	v.SetDefault("prompts.dir", "")
	v.SetDefault("log_level", "info")
}
