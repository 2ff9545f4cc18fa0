package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoad(t *testing.T) {
	t.Setenv("LIBRARY_HTTP_PORT", "8085")
	t.Setenv("DB_HOST", "postgres")
	t.Setenv("KAFKA_ADDRS", "kafka-1:9092,kafka-2:9092")

	cfg, err := load(
		WithLogLevel(zapcore.DebugLevel),
		WithWriteTimeout(time.Minute),
		WithStorage(StorageMemory),
	)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, "8085", cfg.Server.Port)
	require.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, time.Minute, cfg.Server.WriteTimeout)
	require.Equal(t, zapcore.DebugLevel, cfg.Log.LogLevel)
	require.True(t, cfg.UseMemory())
	require.Equal(t, "postgres", cfg.Database.Host)
	require.Equal(t, 5432, cfg.Database.Port)
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Addrs)
	require.True(t, cfg.Kafka.Enabled())
	require.Equal(t, "library.loans", cfg.Kafka.Topic)
	require.Equal(t, "https://www.googleapis.com/books/v1", cfg.Catalog.URL)
}

func TestLoad_envOverridesOptions(t *testing.T) {
	t.Setenv("LIBRARY_STORAGE", "postgres")
	t.Setenv("HTTP_WRITE", "30s")

	cfg, err := load(WithStorage(StorageMemory), WithWriteTimeout(time.Minute))
	require.NoError(t, err)
	require.False(t, cfg.UseMemory())
	require.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
}

func TestLoad_unknownStorage(t *testing.T) {
	t.Setenv("LIBRARY_STORAGE", "mongo")

	_, err := load()
	require.EqualError(t, err, `unknown storage "mongo"`)
}

func TestDump_hidesSecrets(t *testing.T) {
	t.Setenv("CATALOG_API_KEY", "s3cr3t-key")
	t.Setenv("DB_PASSWORD", "dbpass")

	cfg, err := load()
	require.NoError(t, err)
	require.Equal(t, "s3cr3t-key", cfg.Catalog.APIKey)
	require.Equal(t, "dbpass", cfg.Database.Password)

	out := dump(cfg)
	require.Contains(t, out, "googleapis")
	require.NotContains(t, out, "s3cr3t-key")
	require.NotContains(t, out, "dbpass")
}
