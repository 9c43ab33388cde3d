// Racetrack - Live Race Telemetry Ingestion and Leaderboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/racetrack

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/racetrack/config.yaml",
	"/etc/racetrack/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Transport: TransportConfig{
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: false,
			StoreDir:       "/data/nats/jetstream",
			StreamName:     "RACE_EVENTS",
			Subject:        "race.events",
			PoisonSubject:  "race.poison",
			ReconnectWait:  5 * time.Second,
			StreamMaxAge:   time.Hour,
		},
		Race: RaceConfig{
			TTLMs:             30_000,
			ParticipantTTLMs:  0, // same as TTLMs
			ResultsTTLMs:      600_000,
			ResultsMaxEntries: 50,
			FailoverWindowMs:  10_000,
			AllowedProducers:  []string{},
		},
		Security: SecurityConfig{
			APIToken:          "", // read API is open unless a token is set
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 600,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    3001,
			Timeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Simulator: SimulatorConfig{
			ProducerID:        defaultProducerID(),
			Races:             1,
			Participants:      10,
			Laps:              5,
			PublishIntervalMs: 1000,
			RaceIDOffset:      0,
			RestartDelay:      5 * time.Second,
		},
	}
}

// defaultProducerID identifies a simulator by its host name, which is
// unique per container in typical deployments.
func defaultProducerID() string {
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "simulator"
}

// Load loads configuration with Koanf. It is the entry point used by both
// binaries.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Legacy alias environment variables (TRANSPORT_URL, EXCHANGE_NAME, HTTP_PORT)
//  4. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: aliases load below their primary names so NATS_URL wins
	// over TRANSPORT_URL when both are set.
	if err := k.Load(env.Provider("", ".", envAliasTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment aliases: %w", err)
	}

	// Layer 4: Load environment variables (highest priority)
	// NATS_URL -> transport.url
	// RACE_TTL_MS -> race.ttl_ms
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ConfigFile returns the config file Load would read, or "" when none exists.
func ConfigFile() string {
	return findConfigFile()
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"race.allowed_producers",
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values into string
// slices. Values that are already slices (from YAML) are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names to koanf config paths.
var envMappings = map[string]string{
	// Transport
	"NATS_URL":            "transport.url",
	"NATS_EMBEDDED":       "transport.embedded_server",
	"NATS_STORE_DIR":      "transport.store_dir",
	"NATS_STREAM_NAME":    "transport.stream_name",
	"RACE_EVENTS_SUBJECT": "transport.subject",
	"RACE_POISON_SUBJECT": "transport.poison_subject",
	"NATS_RECONNECT_WAIT": "transport.reconnect_wait",
	"NATS_STREAM_MAX_AGE": "transport.stream_max_age",

	// Race retention and arbitration
	"RACE_TTL_MS":          "race.ttl_ms",
	"PARTICIPANT_TTL_MS":   "race.participant_ttl_ms",
	"RESULTS_TTL_MS":       "race.results_ttl_ms",
	"RESULTS_MAX_ENTRIES":  "race.results_max_entries",
	"PRODUCER_FAILOVER_MS": "race.failover_window_ms",
	"ALLOWED_PRODUCERS":    "race.allowed_producers",

	// Security
	"API_TOKEN":           "security.api_token",
	"CORS_ORIGINS":        "security.cors_origins",
	"RATE_LIMIT_REQUESTS": "security.rate_limit_requests",
	"RATE_LIMIT_WINDOW":   "security.rate_limit_window",
	"DISABLE_RATE_LIMIT":  "security.rate_limit_disabled",

	// Server
	"HTTP_HOST":    "server.host",
	"PORT":         "server.port",
	"HTTP_TIMEOUT": "server.timeout",

	// Logging
	"LOG_LEVEL":  "logging.level",
	"LOG_FORMAT": "logging.format",
	"LOG_CALLER": "logging.caller",

	// Simulator
	"PRODUCER_ID":      "simulator.producer_id",
	"NUM_RACES":        "simulator.races",
	"NUM_PARTICIPANTS": "simulator.participants",
	"NUM_LAPS":         "simulator.laps",
	"PUBLISH_INTERVAL": "simulator.publish_interval_ms",
	"RACE_ID_OFFSET":   "simulator.race_id_offset",
	"RESTART_DELAY":    "simulator.restart_delay",
}

// envAliases maps legacy environment variable names to koanf config paths.
var envAliases = map[string]string{
	"TRANSPORT_URL": "transport.url",
	"EXCHANGE_NAME": "transport.subject",
	"HTTP_PORT":     "server.port",
}

// envTransformFunc transforms environment variable names to koanf paths.
// Returns empty string for unknown variables, which koanf skips.
func envTransformFunc(key string) string {
	return envMappings[key]
}

// envAliasTransformFunc transforms legacy alias names to koanf paths.
func envAliasTransformFunc(key string) string {
	return envAliases[key]
}

// WatchConfigFile sets up a file watcher for hot-reload capability.
// The caller is responsible for synchronizing access to any configuration
// it reloads from the callback.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)
	return provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
