package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Checker     CheckerConfig     `toml:"checker"`
	Discovery   DiscoveryConfig   `toml:"discovery"`
	HuggingFace HuggingFaceConfig `toml:"huggingface"`
	Feed        FeedConfig        `toml:"feed"`
	AI          AIConfig          `toml:"ai"`
	Log         LogConfig         `toml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// CheckerConfig controls when and how discovery cycles run.
type CheckerConfig struct {
	// PollIntervalMinutes triggers a cycle on a fixed interval. Zero means
	// cycles only run when requested.
	PollIntervalMinutes int `toml:"poll_interval_minutes"`

	// ValidateDelayMS is the pause per discovered record.
	ValidateDelayMS int `toml:"validate_delay_ms"`

	// PollOnStart runs one cycle as soon as the server starts.
	PollOnStart *bool `toml:"poll_on_start"`
}

// DiscoveryConfig selects the discovery source.
type DiscoveryConfig struct {
	Provider string `toml:"provider"` // "huggingface" | "generative" | "feed" | "catalog"
}

// HuggingFaceConfig holds Hub listing settings.
type HuggingFaceConfig struct {
	BaseURL string `toml:"base_url"`
	Limit   int    `toml:"limit"`
	Task    string `toml:"task"`
	Token   string `toml:"token"`
}

// FeedConfig holds announcement feed settings.
type FeedConfig struct {
	URL string `toml:"url"`
}

// AIConfig holds settings for the generative discovery provider.
type AIConfig struct {
	Provider string `toml:"provider"`
	APIKey   string `toml:"api_key"`
	Model    string `toml:"model"`
	Count    int    `toml:"count"`
}

// LogConfig holds process logging settings.
type LogConfig struct {
	Level  string `toml:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `toml:"format"` // "text" | "json"
	File   string `toml:"file"`   // optional extra JSON log file
}

const defaultConfigContent = `[server]
port = 8080
cors_origins = ["*"]

[checker]
poll_interval_minutes = 0         # 0 = only poll when triggered
validate_delay_ms = 300
poll_on_start = true

[discovery]
provider = "huggingface"          # "huggingface", "generative", "feed" or "catalog"

[huggingface]
base_url = "https://huggingface.co"
limit = 20
task = "text-generation"
token = ""                        # optional, or set HF_TOKEN env var

[feed]
url = ""

[ai]
provider = "anthropic"            # "anthropic" or "openai"
api_key = ""                      # or set AI_API_KEY env var
model = "claude-haiku-4-5"
count = 5

[log]
level = "info"
format = "text"
file = ""
`

// Load reads and parses the TOML config from the given path. If the file does
// not exist, it creates a default config file at that path. Environment
// variables override values from the file with highest priority.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := createDefault(path); err != nil {
			return nil, fmt.Errorf("creating default config: %w", err)
		}
		slog.Info("created default config file", "path", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(string(data))
}

// Parse decodes TOML content, then validates it and applies defaults and
// environment overrides.
func Parse(data string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Validate explicitly-set values before applying defaults, so that
	// explicitly writing "port = 0" is an error rather than silently
	// being replaced with the default.
	if err := validateExplicit(&cfg, md); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// PollInterval returns the scheduled poll interval, or zero when disabled.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Checker.PollIntervalMinutes) * time.Minute
}

// ValidateDelay returns the per-record validation pause.
func (c *Config) ValidateDelay() time.Duration {
	return time.Duration(c.Checker.ValidateDelayMS) * time.Millisecond
}

// ShouldPollOnStart reports whether a cycle runs at startup. It defaults to
// true when the key is absent.
func (c *Config) ShouldPollOnStart() bool {
	return c.Checker.PollOnStart == nil || *c.Checker.PollOnStart
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel maps the configured level name onto a slog.Level.
func (l LogConfig) SlogLevel() slog.Level {
	return logLevels[l.Level]
}

// createDefault writes the default config content to the given path,
// creating any parent directories as needed.
func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigContent), 0o644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// validateExplicit checks values that were explicitly set in the TOML file.
// This catches cases like "port = 0" which would otherwise be silently
// replaced by the default value.
func validateExplicit(cfg *Config, md toml.MetaData) error {
	if md.IsDefined("server", "port") {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
		}
	}
	if md.IsDefined("huggingface", "limit") {
		if cfg.HuggingFace.Limit < 1 {
			return fmt.Errorf("invalid huggingface.limit %d: must be >= 1", cfg.HuggingFace.Limit)
		}
	}
	if md.IsDefined("ai", "count") {
		if cfg.AI.Count < 1 {
			return fmt.Errorf("invalid ai.count %d: must be >= 1", cfg.AI.Count)
		}
	}
	return nil
}

// applyDefaults sets default values for any zero-valued fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Discovery.Provider == "" {
		cfg.Discovery.Provider = "huggingface"
	}
	if cfg.HuggingFace.BaseURL == "" {
		cfg.HuggingFace.BaseURL = "https://huggingface.co"
	}
	if cfg.HuggingFace.Limit == 0 {
		cfg.HuggingFace.Limit = 20
	}
	// An empty task is a legitimate "no filter", so only the default file
	// sets text-generation.
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = "anthropic"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "claude-haiku-4-5"
	}
	if cfg.AI.Count == 0 {
		cfg.AI.Count = 5
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// applyEnvOverrides applies environment variable overrides. Environment
// variables take highest priority over config file values.
//
// Priority for ai.api_key:
//  1. AI_API_KEY (generic, highest)
//  2. ANTHROPIC_API_KEY (when provider is "anthropic")
//  3. OPENAI_API_KEY (when provider is "openai")
func applyEnvOverrides(cfg *Config) {
	switch cfg.AI.Provider {
	case "anthropic":
		if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
			cfg.AI.APIKey = v
		}
	case "openai":
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			cfg.AI.APIKey = v
		}
	}
	if v := os.Getenv("AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}

	if v := os.Getenv("HF_TOKEN"); v != "" {
		cfg.HuggingFace.Token = v
	}
	if v := os.Getenv("LLMCHECKER_PROVIDER"); v != "" {
		cfg.Discovery.Provider = v
	}
}

// validate checks that configuration values are within acceptable ranges.
func validate(cfg *Config) error {
	switch cfg.Discovery.Provider {
	case "huggingface", "generative", "feed", "catalog":
		// valid
	default:
		return fmt.Errorf("invalid discovery.provider %q: must be \"huggingface\", \"generative\", \"feed\" or \"catalog\"", cfg.Discovery.Provider)
	}

	switch cfg.AI.Provider {
	case "anthropic", "openai":
		// valid
	default:
		return fmt.Errorf("invalid ai.provider %q: must be \"anthropic\" or \"openai\"", cfg.AI.Provider)
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", cfg.Server.Port)
	}

	if cfg.Checker.PollIntervalMinutes < 0 {
		return fmt.Errorf("invalid checker.poll_interval_minutes %d: must be >= 0", cfg.Checker.PollIntervalMinutes)
	}
	if cfg.Checker.ValidateDelayMS < 0 {
		return fmt.Errorf("invalid checker.validate_delay_ms %d: must be >= 0", cfg.Checker.ValidateDelayMS)
	}

	if cfg.Discovery.Provider == "feed" && cfg.Feed.URL == "" {
		return errors.New("feed.url is required when discovery.provider is \"feed\"")
	}

	if _, ok := logLevels[cfg.Log.Level]; !ok {
		return fmt.Errorf("invalid log.level %q: must be \"debug\", \"info\", \"warn\" or \"error\"", cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q: must be \"text\" or \"json\"", cfg.Log.Format)
	}

	if cfg.Discovery.Provider == "generative" && cfg.AI.APIKey == "" {
		slog.Warn("ai.api_key is empty: set it in the config file or via AI_API_KEY environment variable")
	}

	return nil
}
