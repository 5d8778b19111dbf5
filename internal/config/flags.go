package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// MustBindPFlag binds key to flag and panics if binding fails.
func MustBindPFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic("failed to bind pflag: " + err.Error())
	}
}

func MustBindEnv(v *viper.Viper, input ...string) {
	if err := v.BindEnv(input...); err != nil {
		panic("failed to bind env key: " + err.Error())
	}
}

// BindFlags registers every setting as a flag on flags, with defaults from
// DefaultConfig, and binds it to its config key and WIKIPATH_* variable.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	d := DefaultConfig()

	flags.String("api-url", d.APIURL, "base address of the MediaWiki action API")
	bind(v, flags, "apiURL", "api-url")

	flags.String("secrets", d.SecretsFile, "file holding the bot username and password on two lines")
	bind(v, flags, "secretsFile", "secrets")

	flags.Int("max-depth", d.Search.MaxDepth, "longest path, in links, the search will look for")
	bind(v, flags, "search.maxDepth", "max-depth")

	flags.Int("workers", d.Search.Workers, "number of concurrent fetch workers")
	bind(v, flags, "search.workers", "workers")

	flags.Int("queue-size", d.Search.QueueSize, "capacity of the fetch job queue (0 means twice the workers)")
	bind(v, flags, "search.queueSize", "queue-size")

	flags.Int("retry-attempts", d.Search.RetryAttempts, "attempts per fetch, including the first, for transient failures")
	bind(v, flags, "search.retryAttempts", "retry-attempts")

	flags.Duration("retry-base-delay", d.Search.RetryBaseDelay, "initial backoff between fetch retries")
	bind(v, flags, "search.retryBaseDelay", "retry-base-delay")

	flags.Duration("retry-max-delay", d.Search.RetryMaxDelay, "upper bound on backoff between fetch retries")
	bind(v, flags, "search.retryMaxDelay", "retry-max-delay")

	flags.Duration("fetch-timeout", d.Search.FetchTimeout, "timeout for a single link fetch attempt")
	bind(v, flags, "search.fetchTimeout", "fetch-timeout")

	flags.Duration("search-timeout", d.Search.Timeout, "timeout for a whole search (0 disables)")
	bind(v, flags, "search.timeout", "search-timeout")

	flags.Float64("rps", d.Search.RequestsPerSecond, "API requests per second shared by all workers (0 disables)")
	bind(v, flags, "search.requestsPerSecond", "rps")

	flags.Int("burst", d.Search.Burst, "API request burst size")
	bind(v, flags, "search.burst", "burst")

	flags.String("log-format", d.Log.Format, "log format: text or json")
	bind(v, flags, "log.format", "log-format")

	flags.String("log-level", d.Log.Level, "log level: none, debug, info, warn or error")
	bind(v, flags, "log.level", "log-level")

	flags.Bool("metrics-enabled", d.Metrics.Enabled, "serve Prometheus metrics")
	bind(v, flags, "metrics.enabled", "metrics-enabled")

	flags.String("metrics-addr", d.Metrics.Addr, "address for the metrics endpoint")
	bind(v, flags, "metrics.addr", "metrics-addr")

	flags.String("kafka-broker", d.Kafka.Broker, "Kafka broker for edge and failure events (empty disables)")
	bind(v, flags, "kafka.broker", "kafka-broker")

	flags.String("kafka-edges-topic", d.Kafka.EdgesTopic, "topic for discovered links")
	bind(v, flags, "kafka.edgesTopic", "kafka-edges-topic")

	flags.String("kafka-dlq-topic", d.Kafka.DLQTopic, "topic for fetches that failed after all retries (empty disables)")
	bind(v, flags, "kafka.dlqTopic", "kafka-dlq-topic")

	flags.String("kafka-edges-group", d.Kafka.EdgesGroup, "consumer group for the graph-writer command")
	bind(v, flags, "kafka.edgesGroup", "kafka-edges-group")

	flags.String("redis-addr", d.Redis.Addr, "Redis address for search status (empty disables)")
	bind(v, flags, "redis.addr", "redis-addr")

	flags.String("redis-prefix", d.Redis.Prefix, "key prefix for search status records")
	bind(v, flags, "redis.prefix", "redis-prefix")

	flags.Duration("redis-ttl", d.Redis.TTL, "lifetime of search status records")
	bind(v, flags, "redis.ttl", "redis-ttl")

	flags.String("neo4j-uri", d.Neo4j.URI, "Neo4j URI for found paths (empty disables)")
	bind(v, flags, "neo4j.uri", "neo4j-uri")

	flags.String("neo4j-user", d.Neo4j.User, "Neo4j user")
	bind(v, flags, "neo4j.user", "neo4j-user")

	flags.String("neo4j-password", d.Neo4j.Password, "Neo4j password")
	bind(v, flags, "neo4j.password", "neo4j-password")

	flags.String("http-addr", d.HTTP.Addr, "listen address for the search API")
	bind(v, flags, "http.addr", "http-addr")
}

func bind(v *viper.Viper, flags *pflag.FlagSet, key, name string) {
	MustBindPFlag(v, key, flags.Lookup(name))
	MustBindEnv(v, key, envName(name))
}

func envName(flag string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}
