package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the recommender.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Weights   WeightsConfig   `yaml:"weights"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Events    EventsConfig    `yaml:"events"`
	Server    ServerConfig    `yaml:"server"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// EngineConfig holds ranking and profile settings.
type EngineConfig struct {
	DefaultK       int     `yaml:"default_k"`
	MaxK           int     `yaml:"max_k"`
	TauDays        float64 `yaml:"tau_days"`
	ProfileEpsilon float64 `yaml:"profile_epsilon"`
}

// WeightsConfig holds the base weight per event kind.
type WeightsConfig struct {
	View      float64 `yaml:"view"`
	AddToCart float64 `yaml:"add_to_cart"`
	Purchase  float64 `yaml:"purchase"`
	Default   float64 `yaml:"default"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider       string `yaml:"provider"`    // "openai", "deepseek", "jina", "ollama", "mock"
	Model          string `yaml:"model"`       // e.g., "text-embedding-3-small"
	APIKeyEnv      string `yaml:"api_key_env"` // Environment variable for API key
	BaseURL        string `yaml:"base_url"`    // Overrides the provider default
	Dimension      int    `yaml:"dimension"`
	BatchSize      int    `yaml:"batch_size"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// CatalogConfig holds catalog source configuration.
type CatalogConfig struct {
	Source         string   `yaml:"source"` // "http" or "files"
	BackendBase    string   `yaml:"backend_base"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	Dir            string   `yaml:"dir"`
	Includes       []string `yaml:"includes"`
	Excludes       []string `yaml:"excludes"`
	MaxFailures    int      `yaml:"max_failures"`
	OpenSeconds    int      `yaml:"open_seconds"`
}

// EventsConfig holds event log configuration.
type EventsConfig struct {
	Backend   string `yaml:"backend"` // "bolt", "redis" or "memory"
	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`
	RedisKey  string `yaml:"redis_key"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr        string   `yaml:"addr"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// CacheConfig holds search cache configuration.
type CacheConfig struct {
	MaxEntries int `yaml:"max_entries"`
	TTLSeconds int `yaml:"ttl_seconds"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "json" or "console"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			DefaultK:       6,
			MaxK:           100,
			TauDays:        14,
			ProfileEpsilon: 1e-9,
		},
		Weights: WeightsConfig{
			View:      0.3,
			AddToCart: 0.7,
			Purchase:  1.5,
			Default:   0.2,
		},
		Embedding: EmbeddingConfig{
			Provider:       "openai",
			Model:          "text-embedding-3-small",
			APIKeyEnv:      "OPENAI_API_KEY",
			Dimension:      1536,
			BatchSize:      100,
			TimeoutSeconds: 60,
		},
		Catalog: CatalogConfig{
			Source:         "http",
			BackendBase:    "http://localhost:8080/api",
			TimeoutSeconds: 10,
			Dir:            "catalog",
			Includes:       []string{"**/*.json", "**/*.yaml", "**/*.yml"},
			Excludes:       []string{"**/.git/**", "**/node_modules/**"},
			MaxFailures:    3,
			OpenSeconds:    30,
		},
		Events: EventsConfig{
			Backend:   "bolt",
			RedisAddr: "localhost:6379",
			RedisKey:  "reco:events",
		},
		Server: ServerConfig{
			Addr:        ":8000",
			CORSOrigins: []string{"*"},
		},
		Cache: CacheConfig{
			MaxEntries: 1000,
			TTLSeconds: 300,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.TauDays <= 0 {
		return fmt.Errorf("engine.tau_days must be positive, got %v", c.Engine.TauDays)
	}
	if c.Engine.DefaultK <= 0 {
		return fmt.Errorf("engine.default_k must be positive, got %d", c.Engine.DefaultK)
	}
	if c.Engine.MaxK < c.Engine.DefaultK {
		return fmt.Errorf("engine.max_k (%d) must be at least default_k (%d)", c.Engine.MaxK, c.Engine.DefaultK)
	}
	w := c.Weights
	if w.View < 0 || w.AddToCart < 0 || w.Purchase < 0 || w.Default < 0 {
		return fmt.Errorf("event weights must not be negative")
	}
	return nil
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for reco.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "reco.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".reco", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DataDir returns the directory holding local state.
func DataDir(dir string) string {
	return filepath.Join(dir, ".reco")
}

// StoreDBPath returns the path to the bbolt database.
func StoreDBPath(dir string) string {
	return filepath.Join(DataDir(dir), "reco.db")
}

// EnsureDataDir ensures the .reco directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(DataDir(dir), 0755)
}
