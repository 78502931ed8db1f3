package config

import "github.com/taipo/kanban-api/internal/domain"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Board    BoardConfig    `mapstructure:"board" validate:"required"`
	GitHub   GitHubConfig   `mapstructure:"github"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is the access token validity window.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// BCryptCost is the bcrypt work factor for password hashing.
	BCryptCost int `mapstructure:"bcrypt_cost" validate:"omitempty,gte=4,lte=31"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name" validate:"required"`

	// MaxRetries bounds how often a transient generation failure is retried.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0,lte=10"`
}

// StageConfig describes one board column.
type StageConfig struct {
	Key          string `mapstructure:"key" validate:"required"`
	DisplayLabel string `mapstructure:"display_label" validate:"required"`

	// WIPLimit caps the number of tasks admitted into the stage.
	// Zero means unlimited.
	WIPLimit int `mapstructure:"wip_limit" validate:"gte=0"`
}

// BoardConfig contains the workflow stage layout and draft length limits.
// When Stages is empty the standard five-column layout is used.
type BoardConfig struct {
	Stages            []StageConfig `mapstructure:"stages" validate:"omitempty,dive"`
	MaxTitleLen       int           `mapstructure:"max_title_len" validate:"required,gt=0"`
	MinDescriptionLen int           `mapstructure:"min_description_len" validate:"required,gt=0"`
}

// GitHubConfig contains the settings for pushing generated code to a
// repository. All fields empty disables the integration.
type GitHubConfig struct {
	Token      string `mapstructure:"token"`
	Owner      string `mapstructure:"owner"`
	Repository string `mapstructure:"repository"`
	Branch     string `mapstructure:"branch"`
}

// Enabled reports whether the GitHub integration is configured.
func (c GitHubConfig) Enabled() bool {
	return c.Token != "" && c.Owner != "" && c.Repository != ""
}

// StageSet builds the domain stage set from the board configuration,
// falling back to the default layout when no stages are configured.
func (c BoardConfig) StageSet() (*domain.StageSet, error) {
	if len(c.Stages) == 0 {
		return domain.DefaultStageSet(), nil
	}

	stages := make([]domain.Stage, 0, len(c.Stages))
	for _, sc := range c.Stages {
		stages = append(stages, domain.Stage{
			Key:          sc.Key,
			DisplayLabel: sc.DisplayLabel,
			WIPLimit:     sc.WIPLimit,
		})
	}
	return domain.NewStageSet(stages)
}
