package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for BuildSense
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Database DatabaseConfig `mapstructure:"database"`
	Storage  StorageConfig  `mapstructure:"storage"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Drive    DriveConfig    `mapstructure:"drive"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	BaseURL      string   `mapstructure:"base_url"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// AdminConfig holds API authentication configuration
type AdminConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DatabaseConfig holds transcript store configuration.
// The default in-memory path keeps transcripts for the process lifetime only.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// StorageConfig holds upload limits
type StorageConfig struct {
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// LLMConfig holds Gemini configuration
type LLMConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// DriveConfig holds Google Drive configuration
type DriveConfig struct {
	ClientID      string        `mapstructure:"client_id"`
	ClientSecret  string        `mapstructure:"client_secret"`
	RedirectURL   string        `mapstructure:"redirect_url"`
	DemoMode      bool          `mapstructure:"demo_mode"`
	DemoAuthDelay time.Duration `mapstructure:"demo_auth_delay"`
}

// Load loads configuration from .env, file and environment
func Load(configPath string) (*Config, error) {
	// A missing .env is fine
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("BUILDSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("admin.api_key", "")

	v.SetDefault("database.path", ":memory:")

	v.SetDefault("storage.max_upload_bytes", 20<<20)

	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-3-pro-preview")

	v.SetDefault("drive.client_id", "")
	v.SetDefault("drive.client_secret", "")
	v.SetDefault("drive.redirect_url", "http://localhost:8080/api/drive/callback")
	v.SetDefault("drive.demo_mode", true)
	v.SetDefault("drive.demo_auth_delay", time.Second)
}

// Address returns the server address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DriveConfigured reports whether real Drive OAuth credentials are present
func (c *Config) DriveConfigured() bool {
	return c.Drive.ClientID != "" && c.Drive.ClientSecret != ""
}
