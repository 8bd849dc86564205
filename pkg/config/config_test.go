package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  env: production
  http_port: "9090"
redis:
  mq_type: kafka
kafka:
  brokers: ["kafka-1:9092", "kafka-2:9092"]
settlement:
  lock_ttl: 45s
  relay_max_attempts: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "9090", cfg.App.HttpPort)
	assert.Equal(t, "50051", cfg.App.GrpcPort)
	assert.Equal(t, "kafka", cfg.Redis.MQType)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 45*time.Second, cfg.Settlement.LockTTL)
	assert.Equal(t, 3, cfg.Settlement.RelayMaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.Settlement.RelayInterval)
	assert.Equal(t, "wozamali_events_collection_settled", cfg.Settlement.SettledTopic)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db:\n  host: db.internal\n"), 0o600))

	t.Setenv("DB_HOST", "db.override")
	t.Setenv("WORKER_CONCURRENCY", "4")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "db.override", cfg.DB.Host)
	assert.Equal(t, 4, cfg.Worker.Concurrency)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDBConfig_ConnectionStrings(t *testing.T) {
	c := DBConfig{Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", TimeZone: "UTC"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", c.DSN())
	assert.Equal(t, "postgres://u:p@h:5432/n?sslmode=disable", c.URL())
}
