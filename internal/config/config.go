package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/akolanti/kbcurator/internal/domain/fileModel"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Config is the runtime configuration handed to every component at construction.
type Config struct {
	Roots       []string          `toml:"roots" yaml:"roots"`
	OutputRoot  string            `toml:"output_root" yaml:"output_root"`
	Classifier  ClassifierConfig  `toml:"classifier" yaml:"classifier"`
	Buckets     map[string]string `toml:"buckets" yaml:"buckets"`
	Validator   ValidatorConfig   `toml:"validator" yaml:"validator"`
	Embedding   EmbeddingConfig   `toml:"embedding" yaml:"embedding"`
	VectorIndex VectorIndexConfig `toml:"vector_index" yaml:"vector_index"`
	Server      ServerConfig      `toml:"server" yaml:"server"`
	Log         LogConfig         `toml:"log" yaml:"log"`
}

type ClassifierConfig struct {
	Coach          string `toml:"coach" yaml:"coach"`
	PrimaryStudent string `toml:"primary_student" yaml:"primary_student"`
	CohortSegment  string `toml:"cohort_segment" yaml:"cohort_segment"`
}

type ValidatorConfig struct {
	Schema           string   `toml:"schema" yaml:"schema"`
	AllowedTypes     []string `toml:"allowed_types" yaml:"allowed_types"`
	MinContentLength int      `toml:"min_content_length" yaml:"min_content_length"`
	Workers          int      `toml:"workers" yaml:"workers"`
}

type EmbeddingConfig struct {
	Provider   string `toml:"provider" yaml:"provider"`
	Model      string `toml:"model" yaml:"model"`
	Dimensions int    `toml:"dimensions" yaml:"dimensions"`
	APIKey     string `toml:"-" yaml:"-"`
}

type VectorIndexConfig struct {
	Host   string `toml:"host" yaml:"host"`
	Port   int    `toml:"port" yaml:"port"`
	UseTLS bool   `toml:"use_tls" yaml:"use_tls"`
	APIKey string `toml:"api_key" yaml:"api_key"`
}

type ServerConfig struct {
	ListenAddr    string `toml:"listen_addr" yaml:"listen_addr"`
	RedisAddr     string `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `toml:"redis_password" yaml:"redis_password"`
	AuthToken     string `toml:"auth_token" yaml:"auth_token"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

const (
	SchemaStrict     = "strict"
	SchemaKBv6Compat = "kbv6-compat"
	SchemaLegacy     = "legacy"

	ProviderOpenAI = "openai"
	ProviderGoogle = "google"
	ProviderDryRun = "dryrun"
)

var (
	ErrUnknownSchema   = errors.New("unknown validator schema")
	ErrUnknownProvider = errors.New("unknown embedding provider")
	ErrMissingBucket   = errors.New("bucket table is missing a bucket")
)

// DefaultBuckets is the canonical v4 layout.
func DefaultBuckets(coach string) map[string]string {
	return map[string]string{
		fileModel.BucketRaw:         "/coaches/" + coach + "/raw/",
		fileModel.BucketKBChips:     "/coaches/" + coach + "/curated/kb_chips/",
		fileModel.BucketEQChips:     "/coaches/" + coach + "/curated/eq_chips/",
		fileModel.BucketFrameworks:  "/coaches/" + coach + "/curated/frameworks/",
		fileModel.BucketNarrative:   "/coaches/" + coach + "/curated/narrative/",
		fileModel.BucketAssessments: "/students/" + coach + "_assessments_v1/",
		fileModel.BucketReports:     "/reports/",
		fileModel.BucketArchive:     "/archive/",
	}
}

func Default() *Config {
	const coach = "jenny"
	return &Config{
		OutputRoot: "v4_organized",
		Classifier: ClassifierConfig{
			Coach:          coach,
			PrimaryStudent: "huda",
			CohortSegment:  "/other-students/",
		},
		Buckets: DefaultBuckets(coach),
		Validator: ValidatorConfig{
			Schema:  SchemaStrict,
			Workers: runtime.NumCPU(),
		},
		Embedding: EmbeddingConfig{
			Provider:   ProviderOpenAI,
			Model:      OpenAIEmbeddingModel,
			Dimensions: OpenAIEmbeddingDimension,
		},
		VectorIndex: VectorIndexConfig{
			Host: QdrantHost,
			Port: QdrantGrpcPort,
		},
		Server: ServerConfig{
			ListenAddr: ServerListenAddr,
			RedisAddr:  RedisAddr,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a TOML or YAML file over the defaults, then applies environment overrides.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	// buckets default from the configured coach in fillDefaults
	cfg.Buckets = nil
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := decode(path, data, cfg); err != nil {
				return nil, err
			}
		}
	}
	cfg.fillDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing yaml config %s: %w", path, err)
		}
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing toml config %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("KBCURATOR_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("QDRANT_HOST"); v != "" {
		c.VectorIndex.Host = v
	}
	if v, err := strconv.Atoi(os.Getenv("QDRANT_PORT")); err == nil && v > 0 {
		c.VectorIndex.Port = v
	}
	if v := os.Getenv("QDRANT_API_KEY"); v != "" {
		c.VectorIndex.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Server.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Server.RedisPassword = v
	}
	if v := os.Getenv("KBCURATOR_AUTH_TOKEN"); v != "" {
		c.Server.AuthToken = v
	}
	c.Embedding.APIKey = providerKey(c.Embedding.Provider)
}

func providerKey(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderGoogle:
		return os.Getenv("GOOGLE_API_KEY")
	}
	return ""
}

// UseProvider switches the embedding provider, resetting model, size and key to its defaults.
func (c *Config) UseProvider(provider string) error {
	if provider == "" || provider == c.Embedding.Provider {
		return nil
	}
	switch provider {
	case ProviderOpenAI, ProviderGoogle, ProviderDryRun:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	c.Embedding.Provider = provider
	c.Embedding.Model, c.Embedding.Dimensions = ProviderDefaults(provider)
	c.Embedding.APIKey = providerKey(provider)
	return nil
}

// fillDefaults patches zero values left by a partial config file.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Classifier.Coach == "" {
		c.Classifier.Coach = def.Classifier.Coach
	}
	if c.Classifier.PrimaryStudent == "" {
		c.Classifier.PrimaryStudent = def.Classifier.PrimaryStudent
	}
	if c.Classifier.CohortSegment == "" {
		c.Classifier.CohortSegment = def.Classifier.CohortSegment
	}
	defaults := DefaultBuckets(c.Classifier.Coach)
	if c.Buckets == nil {
		c.Buckets = map[string]string{}
	}
	for key, prefix := range defaults {
		if c.Buckets[key] == "" {
			c.Buckets[key] = prefix
		}
	}
	if c.Validator.Schema == "" {
		c.Validator.Schema = SchemaStrict
	}
	if c.Validator.Workers <= 0 {
		c.Validator.Workers = def.Validator.Workers
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = def.Embedding.Provider
	}
	if c.Embedding.Model == "" || c.Embedding.Dimensions <= 0 {
		model, dim := ProviderDefaults(c.Embedding.Provider)
		if c.Embedding.Model == "" {
			c.Embedding.Model = model
		}
		if c.Embedding.Dimensions <= 0 {
			c.Embedding.Dimensions = dim
		}
	}
	if c.OutputRoot == "" {
		c.OutputRoot = def.OutputRoot
	}
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = def.Server.ListenAddr
	}
	if c.Server.RedisAddr == "" {
		c.Server.RedisAddr = def.Server.RedisAddr
	}
	if c.VectorIndex.Host == "" {
		c.VectorIndex.Host = def.VectorIndex.Host
	}
	if c.VectorIndex.Port == 0 {
		c.VectorIndex.Port = def.VectorIndex.Port
	}
}

// ProviderDefaults returns the model name and vector size used when the config leaves them out.
func ProviderDefaults(provider string) (string, int) {
	switch provider {
	case ProviderGoogle:
		return GoogleEmbeddingModel, GoogleEmbeddingDimension
	case ProviderDryRun:
		return "sha256-16", DryRunEmbeddingDimension
	default:
		return OpenAIEmbeddingModel, OpenAIEmbeddingDimension
	}
}

func (c *Config) Validate() error {
	switch c.Validator.Schema {
	case SchemaStrict, SchemaKBv6Compat, SchemaLegacy:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSchema, c.Validator.Schema)
	}
	switch c.Embedding.Provider {
	case ProviderOpenAI, ProviderGoogle, ProviderDryRun:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Embedding.Provider)
	}
	for _, key := range fileModel.AllBuckets {
		if c.Buckets[key] == "" {
			return fmt.Errorf("%w: %s", ErrMissingBucket, key)
		}
	}
	return nil
}
