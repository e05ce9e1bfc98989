package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// An optional config.yaml in the working directory; absence is fine.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// Environment variables, e.g. RECALL_SERVER_PORT, RECALL_DATABASE_URL.
	v.SetEnvPrefix("RECALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 15)

	// Registered so the env-only override is visible to Unmarshal.
	v.SetDefault("database.url", "")

	v.SetDefault("srs.min_ease_factor", 0.0)
	v.SetDefault("srs.pass_quality", 0)
	v.SetDefault("srs.failure_interval_days", 0)
	v.SetDefault("srs.first_interval_days", 0)
	v.SetDefault("srs.second_interval_days", 0)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.prompt_template_path", "")
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("llm.max_cards_per_request", 20)

	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.queue_size", 100)
}
