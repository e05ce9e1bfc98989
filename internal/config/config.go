package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Task     TaskConfig     `mapstructure:"task"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// SRSConfig tunes the spaced repetition scheduler. Zero values fall
// back to the standard SM-2 parameters.
type SRSConfig struct {
	MinEaseFactor       float64 `mapstructure:"min_ease_factor" validate:"gte=0"`
	PassQuality         int     `mapstructure:"pass_quality" validate:"gte=0,lte=5"`
	FailureIntervalDays int     `mapstructure:"failure_interval_days" validate:"gte=0"`
	FirstIntervalDays   int     `mapstructure:"first_interval_days" validate:"gte=0"`
	SecondIntervalDays  int     `mapstructure:"second_interval_days" validate:"gte=0"`
}

// LLMConfig contains all LLM integration related settings. Generation
// is optional: with an empty API key the generate endpoint is disabled.
type LLMConfig struct {
	GeminiAPIKey       string `mapstructure:"gemini_api_key"`
	ModelName          string `mapstructure:"model_name"`
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
	MaxRetries         int    `mapstructure:"max_retries" validate:"gte=0"`
	RetryDelaySeconds  int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
	MaxCardsPerRequest int    `mapstructure:"max_cards_per_request" validate:"gte=0"`
}

// TaskConfig contains settings for the background task runner.
type TaskConfig struct {
	WorkerCount  int `mapstructure:"worker_count" validate:"gte=0"`
	QueueSize    int `mapstructure:"queue_size" validate:"gte=0"`
	StuckTaskAge int `mapstructure:"stuck_task_age" validate:"gte=0"`
}
