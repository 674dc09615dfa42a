package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yourusername/audio-extract-go/internal/domain"
)

// EnvPrefix prefixes every environment override, e.g. AUDIOEXTRACT_EXTRACT_OUTPUT_DIR
const EnvPrefix = "AUDIOEXTRACT"

// LoadConfig loads configuration from defaults, an optional YAML file, a .env
// file in the working directory and the environment, in increasing priority.
func LoadConfig(configPath string) (*domain.Config, error) {
	config := domain.DefaultConfig()

	// A missing .env is normal
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.audio-extract")
		v.AddConfigPath("/etc/audio-extract")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config = expandPaths(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// bindEnvKeys registers every known key so AutomaticEnv overrides apply to
// Unmarshal even when the key is absent from the file.
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.host", "server.port",
		"extract.output_dir", "extract.tool_path", "extract.logs_dir",
		"extract.default_format", "extract.default_quality",
		"extract.info_timeout", "extract.download_timeout", "extract.version_timeout",
		"history.enabled", "history.database_path",
		"cache.enabled", "cache.addr", "cache.password", "cache.db", "cache.ttl",
		"rate_limit.requests_per_second", "rate_limit.burst",
		"notification.enabled", "notification.method",
		"logging.level", "logging.format", "logging.output_path",
	} {
		_ = v.BindEnv(key)
	}
}

func expandPaths(config *domain.Config) *domain.Config {
	config.Extract.OutputDir = expandPath(config.Extract.OutputDir)
	config.Extract.LogsDir = expandPath(config.Extract.LogsDir)
	config.Extract.ToolPath = expandPath(config.Extract.ToolPath)
	config.History.DatabasePath = expandPath(config.History.DatabasePath)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}

	return config
}

// expandPath expands environment variables and a leading ~ in paths
func expandPath(path string) string {
	if path == "" {
		return path
	}

	home, homeErr := os.UserHomeDir()
	if homeErr == nil {
		path = strings.ReplaceAll(path, "$HOME", home)
		if path == "~" {
			path = home
		} else if strings.HasPrefix(path, "~/") {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}

func validateConfig(config *domain.Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Extract.OutputDir == "" {
		return fmt.Errorf("output directory not configured")
	}

	if !domain.ValidateFormat(domain.AudioFormat(config.Extract.DefaultFormat)) {
		return fmt.Errorf("unsupported default format: %s", config.Extract.DefaultFormat)
	}

	if !domain.ValidateQuality(domain.QualityTier(config.Extract.DefaultQuality)) {
		return fmt.Errorf("unsupported default quality: %s", config.Extract.DefaultQuality)
	}

	if config.Extract.InfoTimeout < 0 || config.Extract.DownloadTimeout < 0 || config.Extract.VersionTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}

	if config.History.Enabled && config.History.DatabasePath == "" {
		return fmt.Errorf("history database path not configured")
	}

	if config.Cache.Enabled && config.Cache.Addr == "" {
		return fmt.Errorf("cache address not configured")
	}

	if config.RateLimit.RequestsPerSecond < 0 || config.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit cannot be negative")
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}

	return nil
}

// SaveConfig writes configuration as YAML, creating parent directories
func SaveConfig(config *domain.Config, path string) error {
	v := viper.New()
	v.SetConfigType("yaml")

	v.Set("server", map[string]interface{}{
		"host": config.Server.Host,
		"port": config.Server.Port,
	})
	v.Set("extract", map[string]interface{}{
		"output_dir":       config.Extract.OutputDir,
		"tool_path":        config.Extract.ToolPath,
		"logs_dir":         config.Extract.LogsDir,
		"default_format":   config.Extract.DefaultFormat,
		"default_quality":  config.Extract.DefaultQuality,
		"info_timeout":     config.Extract.InfoTimeout.String(),
		"download_timeout": config.Extract.DownloadTimeout.String(),
		"version_timeout":  config.Extract.VersionTimeout.String(),
	})
	v.Set("history", map[string]interface{}{
		"enabled":       config.History.Enabled,
		"database_path": config.History.DatabasePath,
	})
	v.Set("cache", map[string]interface{}{
		"enabled":  config.Cache.Enabled,
		"addr":     config.Cache.Addr,
		"password": config.Cache.Password,
		"db":       config.Cache.DB,
		"ttl":      config.Cache.TTL.String(),
	})
	v.Set("rate_limit", map[string]interface{}{
		"requests_per_second": config.RateLimit.RequestsPerSecond,
		"burst":               config.RateLimit.Burst,
	})
	v.Set("notification", map[string]interface{}{
		"enabled": config.Notification.Enabled,
		"method":  config.Notification.Method,
	})
	v.Set("logging", map[string]interface{}{
		"level":       config.Logging.Level,
		"format":      config.Logging.Format,
		"output_path": config.Logging.OutputPath,
	})

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
