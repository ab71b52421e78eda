package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "ml_model", cfg.ModelDir)
	assert.Equal(t, "data/flood_data.csv", cfg.DataPath)
	assert.Equal(t, ScalerFitAll, cfg.ScalerFit)
	assert.Equal(t, 5*time.Minute, cfg.StationsCacheTTL)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "flood-observations", cfg.KafkaSourceTopic)
	assert.Equal(t, "flood-risk-assessments", cfg.KafkaSinkTopic)
	assert.Equal(t, "flood-risk-scorer", cfg.KafkaGroupID)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Empty(t, cfg.AlertURLs)
	assert.Equal(t, 10*time.Second, cfg.AlertTimeout)
	assert.Equal(t, "users.db", cfg.AuthDBPath)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.InDelta(t, 5.0, cfg.LoginRate, 0)
	assert.Equal(t, 10, cfg.LoginBurst)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("MODEL_DIR", "/var/lib/flood/model")
	t.Setenv("DATA_PATH", "/data/corpus.csv")
	t.Setenv("SCALER_FIT", "train")
	t.Setenv("STATIONS_CACHE_TTL", "1m")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("ALERT_URLS", "logger://,generic://example.com/hook")
	t.Setenv("ALERT_TIMEOUT", "3s")
	t.Setenv("AUTH_DB_PATH", "/tmp/users.db")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("LOGIN_RATE", "0.5")
	t.Setenv("LOGIN_BURST", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "/var/lib/flood/model", cfg.ModelDir)
	assert.Equal(t, "/data/corpus.csv", cfg.DataPath)
	assert.Equal(t, ScalerFitTrain, cfg.ScalerFit)
	assert.Equal(t, time.Minute, cfg.StationsCacheTTL)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, []string{"logger://", "generic://example.com/hook"}, cfg.AlertURLs)
	assert.Equal(t, 3*time.Second, cfg.AlertTimeout)
	assert.Equal(t, "/tmp/users.db", cfg.AuthDBPath)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.InDelta(t, 0.5, cfg.LoginRate, 0)
	assert.Equal(t, 3, cfg.LoginBurst)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"STATIONS_CACHE_TTL", "0s"},
		{"KAFKA_ENABLED", "maybe"},
		{"BATCH_SIZE", "0"},
		{"BATCH_SIZE", "9999"},
		{"BATCH_FLUSH_INTERVAL", "soon"},
		{"ALERT_TIMEOUT", "bad"},
		{"JWT_TTL", "-5m"},
		{"LOGIN_RATE", "0"},
		{"LOGIN_BURST", "many"},
		{"SCALER_FIT", "test"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_KafkaEnabledWithoutBrokers(t *testing.T) {
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestLoad_DevelopmentJWTSecret(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	require.NoError(t, cfg.ValidateServer())
}

func TestValidateServer_RequiresJWTSecret(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.ValidateServer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.JWTSecret = "x"
	require.NoError(t, cfg.ValidateServer())
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FLOOD_TEST_DOTENV=from-file\nHTTP_ADDR=:1111\n"), 0o600))
	t.Setenv("HTTP_ADDR", ":2222")
	t.Setenv("FLOOD_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("FLOOD_TEST_DOTENV"))

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("FLOOD_TEST_DOTENV"))
	assert.Equal(t, ":2222", os.Getenv("HTTP_ADDR"), "real environment wins")

	require.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
