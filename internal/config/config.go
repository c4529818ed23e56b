// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads daemon configuration with precedence ENV > file > defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MEDIABROWSE_"

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheBadger = "badger"
)

// AppConfig is the fully resolved configuration.
type AppConfig struct {
	Version string `yaml:"-"`

	Server    ServerConfig    `yaml:"server"`
	Jellyfin  JellyfinConfig  `yaml:"jellyfin"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	ListenAddr      string        `yaml:"listenAddr"`
	RateLimit       int           `yaml:"rateLimit"` // requests per minute per client IP, 0 disables
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// JellyfinConfig configures the catalog client.
type JellyfinConfig struct {
	BaseURL           string        `yaml:"baseUrl"`
	APIKey            string        `yaml:"apiKey"`
	UserID            string        `yaml:"userId"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxRetries        int           `yaml:"maxRetries"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	Burst             int           `yaml:"burst"`
	BreakerThreshold  int           `yaml:"breakerThreshold"`
	BreakerReset      time.Duration `yaml:"breakerReset"`
}

// CacheConfig configures the catalog item cache.
type CacheConfig struct {
	Backend       string        `yaml:"backend"`
	TTL           time.Duration `yaml:"ttl"`
	RedisAddr     string        `yaml:"redisAddr"`
	RedisPassword string        `yaml:"redisPassword"`
	RedisDB       int           `yaml:"redisDb"`
	BadgerPath    string        `yaml:"badgerPath"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// TelemetryConfig configures tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate"`
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		Server: ServerConfig{
			ListenAddr:      ":8097",
			RateLimit:       600,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Jellyfin: JellyfinConfig{
			Timeout:           10 * time.Second,
			MaxRetries:        2,
			RequestsPerSecond: 20,
			Burst:             40,
			BreakerThreshold:  5,
			BreakerReset:      30 * time.Second,
		},
		Cache: CacheConfig{
			Backend: CacheNone,
			TTL:     5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:   "info",
			Service: "mediabrowse",
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
		},
	}
}

// Loader handles configuration loading with precedence.
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a loader. An empty configPath means ENV-only.
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Load loads configuration with precedence ENV > File > Defaults and validates it.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)
	cfg.Version = l.version
	cfg.Jellyfin.BaseURL = strings.TrimRight(cfg.Jellyfin.BaseURL, "/")
	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes a YAML file over cfg with strict parsing. Unknown fields
// are fatal.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("config file contains multiple documents or trailing content")
	}
	return nil
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.Server.ListenAddr = l.envString("LISTEN_ADDR", cfg.Server.ListenAddr)
	cfg.Server.RateLimit = l.envInt("RATE_LIMIT", cfg.Server.RateLimit)
	cfg.Server.ReadTimeout = l.envDuration("READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = l.envDuration("WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.ShutdownTimeout = l.envDuration("SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.Jellyfin.BaseURL = l.envString("JELLYFIN_URL", cfg.Jellyfin.BaseURL)
	cfg.Jellyfin.APIKey = l.envString("JELLYFIN_API_KEY", cfg.Jellyfin.APIKey)
	cfg.Jellyfin.UserID = l.envString("JELLYFIN_USER_ID", cfg.Jellyfin.UserID)
	cfg.Jellyfin.Timeout = l.envDuration("JELLYFIN_TIMEOUT", cfg.Jellyfin.Timeout)
	cfg.Jellyfin.MaxRetries = l.envInt("JELLYFIN_MAX_RETRIES", cfg.Jellyfin.MaxRetries)
	cfg.Jellyfin.RequestsPerSecond = l.envFloat("JELLYFIN_RPS", cfg.Jellyfin.RequestsPerSecond)
	cfg.Jellyfin.Burst = l.envInt("JELLYFIN_BURST", cfg.Jellyfin.Burst)
	cfg.Jellyfin.BreakerThreshold = l.envInt("JELLYFIN_BREAKER_THRESHOLD", cfg.Jellyfin.BreakerThreshold)
	cfg.Jellyfin.BreakerReset = l.envDuration("JELLYFIN_BREAKER_RESET", cfg.Jellyfin.BreakerReset)

	cfg.Cache.Backend = l.envString("CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.TTL = l.envDuration("CACHE_TTL", cfg.Cache.TTL)
	cfg.Cache.RedisAddr = l.envString("REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.RedisPassword = l.envString("REDIS_PASSWORD", cfg.Cache.RedisPassword)
	cfg.Cache.RedisDB = l.envInt("REDIS_DB", cfg.Cache.RedisDB)
	cfg.Cache.BadgerPath = l.envString("CACHE_BADGER_PATH", cfg.Cache.BadgerPath)

	cfg.Logging.Level = l.envString("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Service = l.envString("LOG_SERVICE", cfg.Logging.Service)

	cfg.Telemetry.Enabled = l.envBool("TELEMETRY_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString("TELEMETRY_EXPORTER", cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString("TELEMETRY_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat("TELEMETRY_SAMPLING", cfg.Telemetry.SamplingRate)
}

func (l *Loader) track(key string) string {
	full := EnvPrefix + key
	l.ConsumedEnvKeys[full] = struct{}{}
	return full
}

func (l *Loader) envString(key, defaultVal string) string {
	return ParseString(l.track(key), defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	return ParseBool(l.track(key), defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	return ParseInt(l.track(key), defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	return ParseFloat(l.track(key), defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	return ParseDuration(l.track(key), defaultVal)
}

// String renders the config with secrets masked.
func (c AppConfig) String() string {
	masked := c
	if masked.Jellyfin.APIKey != "" {
		masked.Jellyfin.APIKey = "***"
	}
	if masked.Cache.RedisPassword != "" {
		masked.Cache.RedisPassword = "***"
	}
	out, err := yaml.Marshal(masked)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(out)
}
