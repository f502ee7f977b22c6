package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the legalsearch configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	Search    SearchConfig    `yaml:"search"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // redis (default: redis)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	EnsureIndexes    bool     `yaml:"ensure_indexes"`
	HNSWM            int      `yaml:"hnsw_m"`
	HNSWEFConstruct  int      `yaml:"hnsw_ef_construction"`
}

// StorageConfig holds key layout and text analysis settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
	Language  string `yaml:"language"` // FT index LANGUAGE, e.g. chinese
}

// EmbeddingConfig holds embedding client settings.
type EmbeddingConfig struct {
	Provider    string `yaml:"provider"` // inference (default), openai
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	Model       string `yaml:"model"`
	Dimensions  int    `yaml:"dimensions"`
	TimeoutSec  int    `yaml:"timeout_sec"`
	Instruction string `yaml:"query_instruction"`
}

// CacheConfig holds request cache settings.
type CacheConfig struct {
	Driver     string `yaml:"driver"` // redis (default), memory, badger, none
	TTLSec     int    `yaml:"ttl_sec"`
	MaxEntries int    `yaml:"max_entries"` // memory driver
	Dir        string `yaml:"dir"`         // badger driver; empty means in-memory
}

// SearchConfig holds retrieval planning and failure handling settings.
type SearchConfig struct {
	CandidateMultiplier        int    `yaml:"vector_candidate_multiplier"`
	StatuteCandidateMultiplier int    `yaml:"statute_candidate_multiplier"`
	NumCandidates              int    `yaml:"num_candidates"`
	EmbeddingFailure           string `yaml:"embedding_failure"` // empty (default), lexical
	VectorFilterPushdown       bool   `yaml:"vector_filter_pushdown"`
	PostFusionFilter           bool   `yaml:"post_fusion_filter"`
	DefaultPageSize            int    `yaml:"default_page_size"`
	MaxPageSize                int    `yaml:"max_page_size"`
}

// Cache drivers.
const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
	CacheBadger = "badger"
	CacheNone   = "none"
)

// Embedding providers.
const (
	ProviderInference = "inference"
	ProviderOpenAI    = "openai"
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML after env expansion, then applies defaults and validates.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.HNSWM <= 0 {
		c.Database.HNSWM = 32
	}
	if c.Database.HNSWEFConstruct <= 0 {
		c.Database.HNSWEFConstruct = 400
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "legalsearch:"
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = ProviderInference
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 10
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheRedis
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = 10000
	}
	if c.Search.CandidateMultiplier <= 0 {
		c.Search.CandidateMultiplier = 1
	}
	if c.Search.StatuteCandidateMultiplier <= 0 {
		c.Search.StatuteCandidateMultiplier = 5
	}
	if c.Search.NumCandidates <= 0 {
		c.Search.NumCandidates = 150
	}
	if c.Search.EmbeddingFailure == "" {
		c.Search.EmbeddingFailure = "empty"
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 10
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Database.Driver != "redis" {
		return fmt.Errorf("database.driver must be \"redis\", got %q", c.Database.Driver)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Embedding.Provider {
	case ProviderInference, ProviderOpenAI:
	default:
		return fmt.Errorf("embedding.provider must be \"inference\" or \"openai\", got %q", c.Embedding.Provider)
	}
	if c.Embedding.BaseURL == "" {
		return fmt.Errorf("embedding.base_url is required")
	}
	if c.Embedding.Provider == ProviderOpenAI && c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required for provider openai")
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must not be negative, got %d", c.Embedding.Dimensions)
	}
	if c.Database.EnsureIndexes && c.Embedding.Dimensions == 0 {
		return fmt.Errorf("embedding.dimensions is required when database.ensure_indexes is set")
	}
	switch c.Cache.Driver {
	case CacheRedis, CacheMemory, CacheBadger, CacheNone:
	default:
		return fmt.Errorf(
			"cache.driver must be one of redis, memory, badger, none, got %q", c.Cache.Driver,
		)
	}
	switch c.Search.EmbeddingFailure {
	case "empty", "lexical":
	default:
		return fmt.Errorf(
			"search.embedding_failure must be \"empty\" or \"lexical\", got %q", c.Search.EmbeddingFailure,
		)
	}
	if c.Search.DefaultPageSize > c.Search.MaxPageSize {
		return fmt.Errorf(
			"search.default_page_size (%d) exceeds search.max_page_size (%d)",
			c.Search.DefaultPageSize, c.Search.MaxPageSize,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
