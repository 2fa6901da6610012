package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ardiangashi/docsearch/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "localhost", cfg.Postgres.Host)
	require.Equal(t, "document-indexed", cfg.Kafka.Topics.DocumentIndexed)
	require.Equal(t, "search-events", cfg.Kafka.Topics.SearchEvents)
	require.Equal(t, 10, cfg.Search.DefaultLimit)
	require.Equal(t, 100, cfg.Search.MaxResults)
	require.Equal(t, 255, cfg.Indexer.MaxTitleLength)
	require.Equal(t, 60*time.Second, cfg.Redis.CacheTTL)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9000
postgres:
  host: db.internal
  database: search_prod
search:
  defaultLimit: 25
indexer:
  extraStopWords:
    - foo
    - bar
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "db.internal", cfg.Postgres.Host)
	require.Equal(t, "search_prod", cfg.Postgres.Database)
	require.Equal(t, 25, cfg.Search.DefaultLimit)
	require.Equal(t, []string{"foo", "bar"}, cfg.Indexer.ExtraStopWords)
	require.Equal(t, "debug", cfg.Logging.Level)

	// Untouched sections keep their defaults.
	require.Equal(t, 100, cfg.Search.MaxResults)
	require.Equal(t, 5432, cfg.Postgres.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DS_SERVER_PORT", "8181")
	t.Setenv("DS_POSTGRES_HOST", "pg.example.com")
	t.Setenv("DS_POSTGRES_PASSWORD", "secret")
	t.Setenv("DS_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("DS_LOGGING_LEVEL", "warn")

	cfg, err := config.Load("")
	require.NoError(t, err)

	require.Equal(t, 8181, cfg.Server.Port)
	require.Equal(t, "pg.example.com", cfg.Postgres.Host)
	require.Equal(t, "secret", cfg.Postgres.Password)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, "warn", cfg.Logging.Level)
}

func TestPostgresDSN(t *testing.T) {
	cfg := config.PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "docsearch",
		User:     "app",
		Password: "pw",
		SSLMode:  "disable",
	}
	require.Equal(t,
		"host=localhost port=5432 user=app password=pw dbname=docsearch sslmode=disable",
		cfg.DSN(),
	)
}
