// Package config loads wikipath settings from flags, WIKIPATH_* environment
// variables, and an optional config.yaml, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"wikipath/internal/wiki"
)

// ErrInvalid marks a configuration that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

const (
	EnvPrefix = "WIKIPATH"

	DefaultAPIURL      = wiki.DefaultAPIURL
	DefaultSecretsFile = wiki.DefaultSecretsFile
)

type Config struct {
	APIURL      string        `mapstructure:"apiURL"`
	SecretsFile string        `mapstructure:"secretsFile"`
	Search      SearchConfig  `mapstructure:"search"`
	Log         LogConfig     `mapstructure:"log"`
	Metrics     MetricsConfig `mapstructure:"metrics"`
	Kafka       KafkaConfig   `mapstructure:"kafka"`
	Redis       RedisConfig   `mapstructure:"redis"`
	Neo4j       Neo4jConfig   `mapstructure:"neo4j"`
	HTTP        HTTPConfig    `mapstructure:"http"`
}

// SearchConfig bounds a single search and sizes its worker pool.
type SearchConfig struct {
	MaxDepth       int           `mapstructure:"maxDepth"`
	Workers        int           `mapstructure:"workers"`
	QueueSize      int           `mapstructure:"queueSize"`
	RetryAttempts  int           `mapstructure:"retryAttempts"`
	RetryBaseDelay time.Duration `mapstructure:"retryBaseDelay"`
	RetryMaxDelay  time.Duration `mapstructure:"retryMaxDelay"`
	FetchTimeout   time.Duration `mapstructure:"fetchTimeout"`
	// Timeout bounds the whole search; zero means no bound.
	Timeout time.Duration `mapstructure:"timeout"`
	// RequestsPerSecond is shared by all workers; zero disables limiting.
	RequestsPerSecond float64 `mapstructure:"requestsPerSecond"`
	Burst             int     `mapstructure:"burst"`
}

type LogConfig struct {
	Format string `mapstructure:"format"`
	Level  string `mapstructure:"level"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// KafkaConfig enables edge and failure publishing when Broker is set.
type KafkaConfig struct {
	Broker     string `mapstructure:"broker"`
	EdgesTopic string `mapstructure:"edgesTopic"`
	DLQTopic   string `mapstructure:"dlqTopic"`
	// EdgesGroup is the consumer group of the graph-writer command.
	EdgesGroup string `mapstructure:"edgesGroup"`
}

// RedisConfig enables search status storage when Addr is set.
type RedisConfig struct {
	Addr   string        `mapstructure:"addr"`
	Prefix string        `mapstructure:"prefix"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// Neo4jConfig enables path persistence when URI is set.
type Neo4jConfig struct {
	URI      string `mapstructure:"uri"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

func DefaultConfig() *Config {
	return &Config{
		APIURL:      DefaultAPIURL,
		SecretsFile: DefaultSecretsFile,
		Search: SearchConfig{
			MaxDepth:          6,
			Workers:           8,
			QueueSize:         16,
			RetryAttempts:     3,
			RetryBaseDelay:    200 * time.Millisecond,
			RetryMaxDelay:     2 * time.Second,
			FetchTimeout:      30 * time.Second,
			RequestsPerSecond: 20,
			Burst:             8,
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
		Kafka: KafkaConfig{
			EdgesTopic: "wikipath.edges",
			DLQTopic:   "wikipath.fetch.dlq",
			EdgesGroup: "wikipath-graph-writer",
		},
		Redis: RedisConfig{
			Prefix: "wikipath:search:",
			TTL:    24 * time.Hour,
		},
		Neo4j: Neo4jConfig{
			User: "neo4j",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// Validate reports every problem at once, each wrapped in ErrInvalid.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if u, err := url.Parse(c.APIURL); err != nil || u.Scheme == "" || u.Host == "" {
		add("api url %q is not an absolute url", c.APIURL)
	}
	if strings.TrimSpace(c.SecretsFile) == "" {
		add("secrets file path is empty")
	}
	if c.Search.MaxDepth < 0 {
		add("max depth must not be negative, got %d", c.Search.MaxDepth)
	}
	if c.Search.Workers < 1 {
		add("workers must be at least 1, got %d", c.Search.Workers)
	}
	if c.Search.QueueSize < 0 {
		add("queue size must not be negative, got %d", c.Search.QueueSize)
	}
	if c.Search.RetryAttempts < 1 {
		add("retry attempts must be at least 1, got %d", c.Search.RetryAttempts)
	}
	if c.Search.RetryMaxDelay > 0 && c.Search.RetryBaseDelay > c.Search.RetryMaxDelay {
		add("retry base delay %s exceeds max delay %s", c.Search.RetryBaseDelay, c.Search.RetryMaxDelay)
	}
	if c.Search.RequestsPerSecond < 0 {
		add("requests per second must not be negative")
	}
	if !slices.Contains([]string{"text", "json"}, c.Log.Format) {
		add("log format %q is not one of text, json", c.Log.Format)
	}
	if !slices.Contains([]string{"none", "debug", "info", "warn", "error"}, c.Log.Level) {
		add("log level %q is not one of none, debug, info, warn, error", c.Log.Level)
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		add("metrics are enabled without an address")
	}
	if c.Kafka.Broker != "" && c.Kafka.EdgesTopic == "" {
		add("kafka broker set without an edges topic")
	}

	return errors.Join(errs...)
}

// NewViper returns a viper instance reading WIKIPATH_* variables and an
// optional config.yaml from the working directory, $HOME/.wikipath or
// /etc/wikipath.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	for _, path := range []string{"/etc/wikipath", "$HOME/.wikipath", "."} {
		v.AddConfigPath(path)
	}
	return v
}

// Load reads the config file if one exists, then decodes and validates the
// merged settings.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: read config file: %w", ErrInvalid, err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
