package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	Extraction ExtractionConfig
	Ingest     IngestConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	InMemory         bool
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	GRPCAddr    string
	MetricsAddr string
}

// ExtractionConfig tunes the processing pipeline around the extractor.
type ExtractionConfig struct {
	// MinConfidence below which a job is flagged for review.
	MinConfidence float64
	// DefaultTaxRate is a percentage applied to items that carry no tax information.
	DefaultTaxRate float64
	// MaxConcurrent bounds how many documents of a batch run at once.
	MaxConcurrent  int
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
}

// IngestConfig controls the optional directory watcher of the daemon.
type IngestConfig struct {
	WatchDirs   []string
	Debounce    time.Duration
	InitialScan bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			InMemory:         getEnvAsBool("DB_INMEM", false),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			GRPCAddr:    getEnv("GRPC_ADDR", ":8080"),
			MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
		},
		Extraction: ExtractionConfig{
			MinConfidence:  getEnvAsFloat("EXTRACT_MIN_CONFIDENCE", 0.8),
			DefaultTaxRate: getEnvAsFloat("EXTRACT_DEFAULT_TAX_RATE", 10),
			MaxConcurrent:  getEnvAsInt("EXTRACT_MAX_CONCURRENT", 5),
			Workers:        getEnvAsInt("EXTRACT_WORKERS", 4),
			QueueSize:      getEnvAsInt("EXTRACT_QUEUE_SIZE", 256),
			ProcessTimeout: getEnvAsDuration("EXTRACT_PROCESS_TIMEOUT", 30*time.Second),
		},
		Ingest: IngestConfig{
			WatchDirs:   getEnvAsList("INGEST_WATCH_DIRS"),
			Debounce:    getEnvAsDuration("INGEST_WATCH_DEBOUNCE", 500*time.Millisecond),
			InitialScan: getEnvAsBool("INGEST_INITIAL_SCAN", true),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping empty entries.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" && !c.Database.InMemory {
		return NewAppError("CONFIG_ERROR", "DB_URL is required unless DB_INMEM is set", ErrInvalidInput)
	}
	if c.Server.GRPCAddr == "" {
		return NewAppError("CONFIG_ERROR", "GRPC_ADDR is required", ErrInvalidInput)
	}
	if c.Extraction.MinConfidence < 0 || c.Extraction.MinConfidence > 1 {
		return NewAppError("CONFIG_ERROR", "EXTRACT_MIN_CONFIDENCE must be within [0,1]", ErrInvalidInput)
	}
	if c.Extraction.DefaultTaxRate < 0 {
		return NewAppError("CONFIG_ERROR", "EXTRACT_DEFAULT_TAX_RATE must not be negative", ErrInvalidInput)
	}
	if c.Extraction.MaxConcurrent < 1 {
		return NewAppError("CONFIG_ERROR", "EXTRACT_MAX_CONCURRENT must be at least 1", ErrInvalidInput)
	}
	if len(c.Ingest.WatchDirs) > 0 && c.Ingest.Debounce < 0 {
		return NewAppError("CONFIG_ERROR", "INGEST_WATCH_DEBOUNCE must not be negative", ErrInvalidInput)
	}
	return nil
}
