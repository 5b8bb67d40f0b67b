package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig `json:"database" envPrefix:"SQLSAGE_"`
	LLM      LLMConfig      `json:"llm"      envPrefix:"SQLSAGE_"`
	HTTP     HTTPConfig     `json:"http"     envPrefix:"SQLSAGE_"`
	Logging  LoggingConfig  `json:"logging"  envPrefix:"SQLSAGE_"`
}

// DatabaseConfig represents data store configuration
type DatabaseConfig struct {
	Dialect         string        `json:"dialect"            env:"DB_DIALECT"            envDefault:"duckdb"`
	Path            string        `json:"path"               env:"DB_PATH"               envDefault:"sqlsage.db"`
	DSN             string        `json:"dsn"                env:"DB_DSN"`
	MaxConnections  int           `json:"max_connections"    env:"DB_MAX_CONNECTIONS"    envDefault:"10"`
	MaxIdleConns    int           `json:"max_idle_conns"     env:"DB_MAX_IDLE_CONNS"     envDefault:"5"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"  env:"DB_CONN_MAX_LIFETIME"  envDefault:"30m"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time" env:"DB_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	QueryTimeout    time.Duration `json:"query_timeout"      env:"DB_QUERY_TIMEOUT"      envDefault:"30s"`
	SampleRows      int           `json:"sample_rows"        env:"DB_SAMPLE_ROWS"        envDefault:"3"`
}

// LLMConfig represents completion service configuration
type LLMConfig struct {
	Provider      string        `json:"provider"       env:"LLM_PROVIDER"       envDefault:"openai"` // openai, ollama
	Model         string        `json:"model"          env:"LLM_MODEL"          envDefault:"gpt-4o-mini"`
	APIKey        string        `json:"api_key"        env:"LLM_API_KEY"`
	BaseURL       string        `json:"base_url"       env:"LLM_BASE_URL"`
	Timeout       time.Duration `json:"timeout"        env:"LLM_TIMEOUT"        envDefault:"30s"` // per attempt
	RetryAttempts int           `json:"retry_attempts" env:"LLM_RETRY_ATTEMPTS" envDefault:"1"`
	RetryDelay    time.Duration `json:"retry_delay"    env:"LLM_RETRY_DELAY"    envDefault:"2s"`
}

// HTTPConfig represents HTTP server configuration
type HTTPConfig struct {
	Addr            string        `json:"addr"             env:"HTTP_ADDR"             envDefault:":8080"`
	ReadTimeout     time.Duration `json:"read_timeout"     env:"HTTP_READ_TIMEOUT"     envDefault:"10s"`
	WriteTimeout    time.Duration `json:"write_timeout"    env:"HTTP_WRITE_TIMEOUT"    envDefault:"2m"`
	IdleTimeout     time.Duration `json:"idle_timeout"     env:"HTTP_IDLE_TIMEOUT"     envDefault:"1m"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `json:"level"  env:"LOG_LEVEL"  envDefault:"info"`   // debug, info, warn, error
	Format string `json:"format" env:"LOG_FORMAT" envDefault:"text"`   // text, json
	Output string `json:"output" env:"LOG_OUTPUT" envDefault:"stdout"` // stdout, stderr, file
	File   string `json:"file"   env:"LOG_FILE"`                       // log file path when output is file
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	return LoadConfigWithOverrides(nil)
}

// LoadConfigWithOverrides loads configuration with optional command-line flag overrides
func LoadConfigWithOverrides(flagOverrides map[string]interface{}) (*Config, error) {
	config := &Config{}

	// env library applies envDefault values for anything not set
	if err := env.ParseWithOptions(config, env.Options{
		Prefix: "SQLSAGE_",
	}); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if flagOverrides != nil {
		applyFlagOverrides(config, flagOverrides)
	}

	config.ExpandAllPaths()

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyFlagOverrides applies command-line flag overrides to configuration
func applyFlagOverrides(config *Config, overrides map[string]interface{}) {
	for key, value := range overrides {
		switch key {
		case "db":
			if str, ok := value.(string); ok && str != "" {
				config.Database.Path = str
			}
		case "dialect":
			if str, ok := value.(string); ok && str != "" {
				config.Database.Dialect = str
			}
		case "dsn":
			if str, ok := value.(string); ok && str != "" {
				config.Database.DSN = str
			}
		case "log-level":
			if str, ok := value.(string); ok && str != "" {
				config.Logging.Level = str
			}
		case "addr":
			if str, ok := value.(string); ok && str != "" {
				config.HTTP.Addr = str
			}
		}
	}
}

// validateConfig validates the configuration for common errors
func validateConfig(config *Config) error {
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf(
			"invalid log level: %s (must be debug, info, warn, or error)",
			config.Logging.Level,
		)
	}

	validLogFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validLogFormats[strings.ToLower(config.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", config.Logging.Format)
	}

	validLogOutputs := map[string]bool{
		"stdout": true, "stderr": true, "file": true,
	}
	if !validLogOutputs[strings.ToLower(config.Logging.Output)] {
		return fmt.Errorf(
			"invalid log output: %s (must be stdout, stderr, or file)",
			config.Logging.Output,
		)
	}

	validDialects := map[string]bool{
		"duckdb": true, "sqlite": true, "postgres": true,
	}
	if !validDialects[strings.ToLower(config.Database.Dialect)] {
		return fmt.Errorf(
			"invalid database dialect: %s (must be duckdb, sqlite, or postgres)",
			config.Database.Dialect,
		)
	}

	validProviders := map[string]bool{
		"openai": true, "ollama": true,
	}
	if !validProviders[strings.ToLower(config.LLM.Provider)] {
		return fmt.Errorf(
			"invalid llm provider: %s (must be openai or ollama)",
			config.LLM.Provider,
		)
	}

	if config.Database.MaxConnections <= 0 {
		return fmt.Errorf(
			"database max connections must be positive: %d",
			config.Database.MaxConnections,
		)
	}

	if config.Database.SampleRows < 0 {
		return fmt.Errorf("database sample rows must not be negative: %d", config.Database.SampleRows)
	}

	if config.LLM.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive: %s", config.LLM.Timeout)
	}

	if config.LLM.RetryAttempts < 0 {
		return fmt.Errorf("llm retry attempts must not be negative: %d", config.LLM.RetryAttempts)
	}

	return nil
}

// expandPath expands ~ to home directory in file paths
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

// ExpandAllPaths expands all paths in the configuration
func (c *Config) ExpandAllPaths() {
	c.Database.Path = expandPath(c.Database.Path)
	c.Logging.File = expandPath(c.Logging.File)
}
