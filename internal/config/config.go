// Package config provides layered configuration loading.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the resolved configuration.
type Config struct {
	// API settings
	BaseURL string `json:"base_url"`

	// Third-party identity providers
	DiscordAPIURL     string `json:"discord_api_url"`
	DiscordCDNURL     string `json:"discord_cdn_url"`
	MinecraftAPIURL   string `json:"minecraft_api_url"`
	MinecraftFallback string `json:"minecraft_fallback_url"`

	// TagStyle controls Discord tag formatting: "hash" (username#1234)
	// or "plain" (raw discriminator).
	TagStyle string `json:"tag_style"`

	// Output settings
	Format string `json:"format"`

	// Behavior preferences (persisted via config file, overridable by flags)
	Verbose *int `json:"verbose,omitempty"`

	// Sources tracks where each value came from (for debugging).
	Sources map[string]string `json:"-"`
}

// Source indicates where a config value came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceGlobal  Source = "global"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// FlagOverrides holds command-line flag values.
type FlagOverrides struct {
	BaseURL string
	Format  string
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		BaseURL:           "https://api.impactclient.net/v1",
		DiscordAPIURL:     "https://discordapp.com/api/v6",
		DiscordCDNURL:     "https://cdn.discordapp.com",
		MinecraftAPIURL:   "https://api.minetools.eu/uuid/",
		MinecraftFallback: "https://mc-heads.net/minecraft/profile/",
		TagStyle:          "hash",
		Format:            "auto",
		Sources:           make(map[string]string),
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence: flags > env > .env file > global file > defaults
func Load(overrides FlagOverrides) (*Config, error) {
	cfg := Default()

	loadFromFile(cfg, globalConfigPath())

	// A .env in the working directory populates the environment before
	// the env layer is read. Existing variables are not overwritten.
	_ = godotenv.Load()

	LoadFromEnv(cfg)
	ApplyOverrides(cfg, overrides)

	return cfg, nil
}

func loadFromFile(cfg *Config, path string) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is from trusted config locations
	if err != nil {
		return // File doesn't exist, skip
	}

	var fileCfg map[string]any
	if err := json.Unmarshal(data, &fileCfg); err != nil {
		fmt.Fprintf(os.Stderr, "warning: skipping malformed config at %s: %v\n", path, err)
		return
	}

	setString := func(key string, dst *string) {
		if v, ok := fileCfg[key].(string); ok && v != "" {
			*dst = v
			cfg.Sources[key] = string(SourceGlobal)
		}
	}

	setString("base_url", &cfg.BaseURL)
	setString("discord_api_url", &cfg.DiscordAPIURL)
	setString("discord_cdn_url", &cfg.DiscordCDNURL)
	setString("minecraft_api_url", &cfg.MinecraftAPIURL)
	setString("minecraft_fallback_url", &cfg.MinecraftFallback)
	setString("tag_style", &cfg.TagStyle)
	setString("format", &cfg.Format)

	if v, ok := fileCfg["verbose"]; ok {
		if fv, ok := v.(float64); ok {
			iv := int(fv)
			if iv >= 0 && iv <= 2 && fv == float64(iv) {
				cfg.Verbose = &iv
				cfg.Sources["verbose"] = string(SourceGlobal)
			}
		}
	}
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv(cfg *Config) {
	setEnv := func(name, key string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
			cfg.Sources[key] = string(SourceEnv)
		}
	}

	setEnv("IMPACT_BASE_URL", "base_url", &cfg.BaseURL)
	setEnv("IMPACT_DISCORD_API_URL", "discord_api_url", &cfg.DiscordAPIURL)
	setEnv("IMPACT_DISCORD_CDN_URL", "discord_cdn_url", &cfg.DiscordCDNURL)
	setEnv("IMPACT_MINECRAFT_API_URL", "minecraft_api_url", &cfg.MinecraftAPIURL)
	setEnv("IMPACT_MINECRAFT_FALLBACK_URL", "minecraft_fallback_url", &cfg.MinecraftFallback)
	setEnv("IMPACT_TAG_STYLE", "tag_style", &cfg.TagStyle)
	setEnv("IMPACT_FORMAT", "format", &cfg.Format)
}

// ApplyOverrides applies non-empty flag overrides to cfg.
func ApplyOverrides(cfg *Config, o FlagOverrides) {
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
		cfg.Sources["base_url"] = string(SourceFlag)
	}
	if o.Format != "" {
		cfg.Format = o.Format
		cfg.Sources["format"] = string(SourceFlag)
	}
}

// GlobalConfigDir returns the directory holding the global config and
// the credential file fallback.
func GlobalConfigDir() string {
	if dir := os.Getenv("IMPACT_CONFIG_DIR"); dir != "" {
		return dir
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "impact")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "impact")
}

func globalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.json")
}

// NormalizeBaseURL strips the path and trailing slashes from a base URL,
// leaving the scheme and host. Credentials are keyed by this origin so
// the same token is found regardless of API version suffix.
func NormalizeBaseURL(baseURL string) string {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Host == "" {
		return strings.TrimRight(baseURL, "/")
	}
	return u.Scheme + "://" + u.Host
}

// Save writes the given keys to the global config file, creating it if
// needed. Only recognized keys are persisted.
func Save(values map[string]string) error {
	dir := GlobalConfigDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	existing := make(map[string]any)
	if data, err := os.ReadFile(globalConfigPath()); err == nil { //nolint:gosec // G304: trusted path
		_ = json.Unmarshal(data, &existing)
	}

	for k, v := range values {
		existing[k] = v
	}

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(globalConfigPath(), data, 0600)
}
