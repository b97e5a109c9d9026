package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Site     SiteConfig     `mapstructure:"site"`
	Provider ProviderConfig `mapstructure:"provider"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// CatalogConfig holds metadata catalog (TMDB) configuration.
type CatalogConfig struct {
	APIKey       string `mapstructure:"api_key"`
	BaseURL      string `mapstructure:"base_url"`
	ImageBaseURL string `mapstructure:"image_base_url"`
	Timeout      int    `mapstructure:"timeout"` // seconds
}

// SiteConfig holds configuration for fetching the scraped content site.
type SiteConfig struct {
	// Cookies is a "name=value; name2=value2" string of session cookies
	// required by the site for geo/session gating. Optional.
	Cookies string `mapstructure:"cookies"`
	Timeout int    `mapstructure:"timeout"` // seconds, per page fetch
}

// ProviderConfig holds file-hosting provider probe configuration.
type ProviderConfig struct {
	DriveBaseURL      string `mapstructure:"drive_base_url"`
	PixeldrainBaseURL string `mapstructure:"pixeldrain_base_url"`
	ProbeTimeout      int    `mapstructure:"probe_timeout"` // seconds, per probe
}

// PipelineConfig holds series pipeline tuning.
type PipelineConfig struct {
	BatchSize      int `mapstructure:"batch_size"`
	EpisodeTimeout int `mapstructure:"episode_timeout"` // seconds, per episode resolution
}

// Cookie is a single session cookie injected into site requests.
type Cookie struct {
	Name  string
	Value string
}

// Default returns a Config with default values.
func Default() *Config {
	cfg := &Config{}
	v := viper.New()
	setDefaults(v)
	_ = v.Unmarshal(cfg)
	return cfg
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.showgrab")
	}

	v.SetEnvPrefix("SHOWGRAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults + env vars
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.path", "")

	v.SetDefault("catalog.api_key", "")
	v.SetDefault("catalog.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("catalog.image_base_url", "https://image.tmdb.org/t/p")
	v.SetDefault("catalog.timeout", 10)

	v.SetDefault("site.cookies", "")
	v.SetDefault("site.timeout", 15)

	v.SetDefault("provider.drive_base_url", "")
	v.SetDefault("provider.pixeldrain_base_url", "https://pixeldrain.com")
	v.SetDefault("provider.probe_timeout", 5)

	v.SetDefault("pipeline.batch_size", 4)
	v.SetDefault("pipeline.episode_timeout", 20)
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ParseCookies splits the configured cookie string into name/value pairs.
// Malformed segments are skipped.
func (c *SiteConfig) ParseCookies() []Cookie {
	var cookies []Cookie
	for _, part := range strings.Split(c.Cookies, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		cookies = append(cookies, Cookie{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}
	return cookies
}

// CookieHeader renders the configured cookies as a Cookie header value.
// Returns "" when no cookies are configured.
func (c *SiteConfig) CookieHeader() string {
	cookies := c.ParseCookies()
	if len(cookies) == 0 {
		return ""
	}
	parts := make([]string, len(cookies))
	for i, ck := range cookies {
		parts[i] = ck.Name + "=" + ck.Value
	}
	return strings.Join(parts, "; ")
}
