package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Graph   GraphConfig
	Logging LoggingConfig
	Dataset DatasetConfig
	Search  SearchConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MetricsEnabled    bool
	AllowedOriginsCSV string
	AdminToken        string
}

// GraphConfig describes connectivity to the Neo4j database holding credits.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
	PageSize       int
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

// DatasetConfig locates the credit files used when no graph database is configured.
type DatasetConfig struct {
	CreditsPath string
	ActorsPath  string
	FilmsPath   string
	BaconActor  int64
}

// SearchConfig tunes frontier expansion.
type SearchConfig struct {
	Workers           int
	ParallelThreshold int
}

// UseGraphDB reports whether credits should be read from Neo4j.
func (c Config) UseGraphDB() bool {
	return c.Graph.URI != ""
}

const (
	defaultHost              = "0.0.0.0"
	defaultPort              = 8080
	defaultReadTimeout       = 10 * time.Second
	defaultWriteTimeout      = 15 * time.Second
	defaultIdleTimeout       = 60 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultLoggingLevel      = "info"
	defaultLoggingFormat     = "text"
	defaultGraphMaxSessions  = 10
	defaultGraphPageSize     = 5000
	defaultBaconActor        = 4724
	defaultParallelThreshold = 32
)

// ErrNoCreditSource is returned when neither a graph URI nor a credits file is set.
var ErrNoCreditSource = errors.New("either GRAPH_URI or DATASET_CREDITS must be set")

// Load reads configuration from environment variables, applying defaults. A .env file in
// the working directory is honoured when present; real environment variables win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		HTTP: HTTPConfig{
			Host:            valueOrDefault("SERVER_HOST", defaultHost),
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       valueOrDefault("GRAPH_DATABASE", ""),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
			PageSize:       parseIntWithDefault("GRAPH_PAGE_SIZE", defaultGraphPageSize),
		},
		Dataset: DatasetConfig{
			CreditsPath: os.Getenv("DATASET_CREDITS"),
			ActorsPath:  os.Getenv("DATASET_ACTORS"),
			FilmsPath:   os.Getenv("DATASET_FILMS"),
		},
		Search: SearchConfig{
			Workers:           parseIntWithDefault("SEARCH_WORKERS", 0),
			ParallelThreshold: parseIntWithDefault("SEARCH_PARALLEL_THRESHOLD", defaultParallelThreshold),
		},
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
	}
	for _, d := range durations {
		if err := parseDuration(d.key, d.dst); err != nil {
			return Config{}, err
		}
	}

	cfg.HTTP.MetricsEnabled = parseBoolWithDefault("SERVER_METRICS_ENABLED", false)
	cfg.HTTP.AllowedOriginsCSV = os.Getenv("SERVER_ALLOWED_ORIGINS")
	cfg.HTTP.AdminToken = os.Getenv("SERVER_ADMIN_TOKEN")

	bacon, err := parseInt64("DATASET_BACON_ACTOR", defaultBaconActor)
	if err != nil {
		return Config{}, err
	}
	cfg.Dataset.BaconActor = bacon

	return cfg, nil
}

// Validate checks that a credit source is configured. Commands that do not serve queries
// skip it.
func (c Config) Validate() error {
	if c.Graph.URI == "" && c.Dataset.CreditsPath == "" {
		return ErrNoCreditSource
	}
	if c.Search.ParallelThreshold < 1 {
		return fmt.Errorf("SEARCH_PARALLEL_THRESHOLD must be positive, got %d", c.Search.ParallelThreshold)
	}
	return nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	val, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return val, nil
}

func parseDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
