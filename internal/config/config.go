package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Config represents the irmend configuration.
type Config struct {
	Backends     []Backend    `json:"backends,omitempty"`
	Format       string       `json:"format"`
	SaveOnRepair bool         `json:"saveOnRepair"`
	LogLevel     string       `json:"logLevel"`
	Cache        CacheConfig  `json:"cache"`
	Server       ServerConfig `json:"server"`
}

// Backend configures one external repair backend. Backends run in the order
// they appear; the first one that produces a valid block wins.
type Backend struct {
	Name      string `json:"name"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	BaseURL   string `json:"baseUrl,omitempty"`
	APIKeyEnv string `json:"apiKeyEnv,omitempty"`
}

// CacheConfig controls repair-result caching.
type CacheConfig struct {
	Enabled bool `json:"enabled"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Addr   string `json:"addr"`
	APIKey string `json:"apiKey,omitempty"`
}

// Default returns a Config with all defaults applied. The default backend
// chain lists the hosted providers in preference order; backends whose API
// key environment variable is empty are skipped at construction time.
func Default() Config {
	return Config{
		Backends: []Backend{
			{Name: "openai", Provider: "openai", Model: "gpt-4o-mini", APIKeyEnv: "OPENAI_API_KEY"},
			{Name: "anthropic", Provider: "anthropic", Model: "claude-sonnet-4-20250514", APIKeyEnv: "ANTHROPIC_API_KEY"},
			{Name: "gemini", Provider: "gemini", Model: "gemini-2.0-flash", APIKeyEnv: "GEMINI_API_KEY"},
		},
		Format:   "text",
		LogLevel: "info",
		Cache: CacheConfig{
			Enabled: true,
		},
		Server: ServerConfig{
			Addr: ":8097",
		},
	}
}

// ConfigDir returns the platform-appropriate config directory for irmend.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "irmend"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "irmend"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "irmend"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "irmend"), nil
	default:
		return filepath.Join(home, ".config", "irmend"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	mergeEnv(&cfg)
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if len(src.Backends) > 0 {
		dst.Backends = src.Backends
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.Server.Addr != "" {
		dst.Server.Addr = src.Server.Addr
	}
	if src.Server.APIKey != "" {
		dst.Server.APIKey = src.Server.APIKey
	}
	// Bool fields from file: JSON zero value is false, so a simple merge
	// cannot distinguish unset from false. Trust the file value when the
	// struct was loaded at all.
	dst.Cache.Enabled = src.Cache.Enabled || dst.Cache.Enabled
	dst.SaveOnRepair = src.SaveOnRepair || dst.SaveOnRepair
}

func mergeEnv(cfg *Config) {
	if v := os.Getenv("IRMEND_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("IRMEND_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("IRMEND_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("IRMEND_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("IRMEND_CACHE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Cache.Enabled = b
		}
	}
	if v := os.Getenv("IRMEND_SAVE_ON_REPAIR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SaveOnRepair = b
		}
	}
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["logLevel"]; ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := overrides["addr"]; ok && v != "" {
		cfg.Server.Addr = v
	}
	if v, ok := overrides["cache"]; ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Cache.Enabled = b
		}
	}
	if v, ok := overrides["saveOnRepair"]; ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SaveOnRepair = b
		}
	}
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "format":
		if value != "text" && value != "json" && value != "markdown" {
			return fmt.Errorf("format must be text, json, or markdown")
		}
		cfg.Format = value
	case "logLevel":
		cfg.LogLevel = value
	case "server.addr":
		cfg.Server.Addr = value
	case "server.apiKey":
		cfg.Server.APIKey = value
	case "cache.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("cache.enabled must be a boolean: %w", err)
		}
		cfg.Cache.Enabled = b
	case "saveOnRepair":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("saveOnRepair must be a boolean: %w", err)
		}
		cfg.SaveOnRepair = b
	case "backends":
		var backends []Backend
		if err := json.Unmarshal([]byte(value), &backends); err != nil {
			return fmt.Errorf("backends must be a JSON array: %w", err)
		}
		cfg.Backends = backends
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// Keys lists the settable config keys for help output.
func Keys() string {
	return strings.Join([]string{
		"format", "logLevel", "server.addr", "server.apiKey",
		"cache.enabled", "saveOnRepair", "backends",
	}, ", ")
}
