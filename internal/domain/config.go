package domain

import "time"

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Extract      ExtractConfig      `mapstructure:"extract"`
	History      HistoryConfig      `mapstructure:"history"`
	Cache        CacheConfig        `mapstructure:"cache"`
	RateLimit    RateLimitConfig    `mapstructure:"rate_limit"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// ExtractConfig controls how the external tool is invoked and where its output lands
type ExtractConfig struct {
	OutputDir       string        `mapstructure:"output_dir"`
	ToolPath        string        `mapstructure:"tool_path"` // empty = auto-locate
	LogsDir         string        `mapstructure:"logs_dir"`
	DefaultFormat   string        `mapstructure:"default_format"`
	DefaultQuality  string        `mapstructure:"default_quality"`
	InfoTimeout     time.Duration `mapstructure:"info_timeout"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
	VersionTimeout  time.Duration `mapstructure:"version_timeout"`
}

// HistoryConfig contains extraction history persistence configuration
type HistoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DatabasePath string `mapstructure:"database_path"`
}

// CacheConfig contains the metadata cache configuration
type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig contains API rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
}

// Default timeouts for the external tool
const (
	DefaultInfoTimeout     = 60 * time.Second
	DefaultDownloadTimeout = 600 * time.Second
	DefaultVersionTimeout  = 10 * time.Second
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Extract: ExtractConfig{
			OutputDir:       "$HOME/Downloads",
			ToolPath:        "",
			LogsDir:         "$HOME/.audio-extract/logs",
			DefaultFormat:   string(FormatMP3),
			DefaultQuality:  string(Quality320),
			InfoTimeout:     DefaultInfoTimeout,
			DownloadTimeout: DefaultDownloadTimeout,
			VersionTimeout:  DefaultVersionTimeout,
		},
		History: HistoryConfig{
			Enabled:      true,
			DatabasePath: "$HOME/.audio-extract/history.db",
		},
		Cache: CacheConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			DB:      0,
			TTL:     24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 5,
			Burst:             10,
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stdout",
		},
	}
}
