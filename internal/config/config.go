// Package config loads service settings from the environment.
package config

import (
	"errors"
	"time"
)

// Scaler fitting modes.
const (
	ScalerFitAll   = "all"
	ScalerFitTrain = "train"
)

const devJWTSecret = "dev-secret"

// Config holds all service settings, populated from environment variables.
type Config struct {
	AppEnv          string
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	ModelDir         string
	DataPath         string
	ScalerFit        string
	StationsCacheTTL time.Duration

	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration

	// Shoutrrr service URLs. Empty disables alerts.
	AlertURLs    []string
	AlertTimeout time.Duration

	AuthDBPath string
	JWTSecret  string
	JWTTTL     time.Duration
	LoginRate  float64
	LoginBurst int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying defaults where unset.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	shutdownTimeout, err := parsePositiveDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parsePositiveDuration("STATIONS_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	kafkaEnabled, err := parseBool("KAFKA_ENABLED", false)
	if err != nil {
		return nil, err
	}
	batchSize, err := parseIntRange("BATCH_SIZE", 50, 1, 1000)
	if err != nil {
		return nil, err
	}
	flushInterval, err := parsePositiveDuration("BATCH_FLUSH_INTERVAL", "500ms")
	if err != nil {
		return nil, err
	}
	alertTimeout, err := parsePositiveDuration("ALERT_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	jwtTTL, err := parsePositiveDuration("JWT_TTL", "24h")
	if err != nil {
		return nil, err
	}
	loginRate, err := parsePositiveFloat("LOGIN_RATE", 5)
	if err != nil {
		return nil, err
	}
	loginBurst, err := parseIntRange("LOGIN_BURST", 10, 1, 10000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppEnv:          envOrDefault("APP_ENV", "production"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8000"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ModelDir:         envOrDefault("MODEL_DIR", "ml_model"),
		DataPath:         envOrDefault("DATA_PATH", "data/flood_data.csv"),
		ScalerFit:        envOrDefault("SCALER_FIT", ScalerFitAll),
		StationsCacheTTL: cacheTTL,

		KafkaEnabled:       kafkaEnabled,
		KafkaBrokers:       parseList(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   envOrDefault("KAFKA_SOURCE_TOPIC", "flood-observations"),
		KafkaSinkTopic:     envOrDefault("KAFKA_SINK_TOPIC", "flood-risk-assessments"),
		KafkaGroupID:       envOrDefault("KAFKA_GROUP_ID", "flood-risk-scorer"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		AlertURLs:    parseList(envOrDefault("ALERT_URLS", "")),
		AlertTimeout: alertTimeout,

		AuthDBPath: envOrDefault("AUTH_DB_PATH", "users.db"),
		JWTSecret:  envOrDefault("JWT_SECRET", ""),
		JWTTTL:     jwtTTL,
		LoginRate:  loginRate,
		LoginBurst: loginBurst,
	}

	if cfg.JWTSecret == "" && cfg.AppEnv == "development" {
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.ScalerFit != ScalerFitAll && cfg.ScalerFit != ScalerFitTrain {
		return nil, errors.New("invalid SCALER_FIT: must be all or train")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}

	return cfg, nil
}

// ValidateServer checks the settings only the HTTP server needs.
func (c *Config) ValidateServer() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required (set APP_ENV=development for a local default)")
	}
	if c.AuthDBPath == "" {
		return errors.New("AUTH_DB_PATH is required")
	}
	return nil
}
