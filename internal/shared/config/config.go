package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server     ServerConfig
	TLS        TLSConfig
	Session    SessionConfig
	Docstore   DocstoreConfig
	Aggregator AggregatorConfig
	Cache      CacheConfig
	Scheduler  SchedulerConfig
	Telemetry  TelemetryConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type TLSConfig struct {
	Enabled      bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
}

type SessionConfig struct {
	Secret string
}

type DocstoreConfig struct {
	CredentialsFile string
	UsersCollection string
	BanksCollection string
}

type AggregatorConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
}

type CacheConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type SchedulerConfig struct {
	Enabled       bool
	ScheduleTimes []string
	WorkerCount   int
	JobDelay      time.Duration
	QueueSize     int
	RunOnStartup  bool
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

func Load() (*Config, error) {

	cacheDB, err := strconv.Atoi(getEnv("CACHE_REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_REDIS_DB: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	schedulerTimes := strings.Split(getEnv("SCHEDULER_TIMES", "06:00,12:00,18:00"), ",")
	schedulerWorkers, err := strconv.Atoi(getEnv("SCHEDULER_WORKERS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_WORKERS: %w", err)
	}
	schedulerJobDelay, err := time.ParseDuration(getEnv("SCHEDULER_JOB_DELAY", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_JOB_DELAY: %w", err)
	}
	schedulerQueueSize, err := strconv.Atoi(getEnv("SCHEDULER_QUEUE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_QUEUE_SIZE: %w", err)
	}

	// Parse allowed hosts (comma-separated list)
	allowedHostsStr := getEnv("ALLOWED_HOSTS", "")
	var allowedHosts []string
	if allowedHostsStr != "" {
		for _, host := range strings.Split(allowedHostsStr, ",") {
			host = strings.TrimSpace(host)
			if host != "" {
				allowedHosts = append(allowedHosts, host)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: allowedHosts,
		},
		TLS: TLSConfig{
			Enabled:      getBoolEnv("TLS_ENABLED", false),
			CertPath:     getEnv("TLS_CERT_PATH", ""),
			KeyPath:      getEnv("TLS_KEY_PATH", ""),
			RedirectHTTP: getBoolEnv("TLS_REDIRECT_HTTP", false),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", ""),
		},
		Docstore: DocstoreConfig{
			CredentialsFile: getEnv("DOCSTORE_CREDENTIALS_FILE", ""),
			UsersCollection: getEnv("DOCSTORE_USER_COLLECTION", "user"),
			BanksCollection: getEnv("DOCSTORE_BANK_COLLECTION", "bank"),
		},
		Aggregator: AggregatorConfig{
			ClientID:     getEnv("AGGREGATOR_CLIENT_ID", ""),
			ClientSecret: getEnv("AGGREGATOR_CLIENT_SECRET", ""),
			BaseURL:      getEnv("AGGREGATOR_BASE_URL", ""),
		},
		Cache: CacheConfig{
			Enabled:  getBoolEnv("CACHE_ENABLED", false),
			Addr:     getEnv("CACHE_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("CACHE_REDIS_PASSWORD", ""),
			DB:       cacheDB,
			TTL:      cacheTTL,
		},
		Scheduler: SchedulerConfig{
			Enabled:       getBoolEnv("SCHEDULER_ENABLED", false),
			ScheduleTimes: schedulerTimes,
			WorkerCount:   schedulerWorkers,
			JobDelay:      schedulerJobDelay,
			QueueSize:     schedulerQueueSize,
			RunOnStartup:  getBoolEnv("SCHEDULER_RUN_ON_STARTUP", false),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "horizon-api"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("OTEL_METRICS_PORT", "9090"),
		},
	}

	// Validate required fields
	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}
	if cfg.Aggregator.ClientID == "" || cfg.Aggregator.ClientSecret == "" {
		return nil, fmt.Errorf("AGGREGATOR_CLIENT_ID and AGGREGATOR_CLIENT_SECRET are required")
	}

	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	// The refresh scheduler only makes sense with a cache to re-prime
	if cfg.Scheduler.Enabled && !cfg.Cache.Enabled {
		return nil, fmt.Errorf("SCHEDULER_ENABLED=true requires CACHE_ENABLED=true")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
