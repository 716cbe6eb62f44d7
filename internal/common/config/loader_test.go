package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: tutor-gateway
workers:
  tutor-agent-dispatch:
    enabled: true
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "tutor-gateway", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "llama2", cfg.LLM.LocalModel)
	assert.Equal(t, "gpt-4-turbo-preview", cfg.LLM.HostedModel)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.HostedBaseURL)
	assert.InDelta(t, 0.7, cfg.LLM.Temperature, 1e-9)
	assert.Equal(t, KnowledgeSourceEmbedded, cfg.Knowledge.Source)
	assert.False(t, cfg.Camunda.Enabled)

	worker := cfg.Workers["tutor-agent-dispatch"]
	assert.True(t, worker.Enabled)
	assert.Equal(t, 5, worker.MaxJobsActive)
	assert.Equal(t, 90000, worker.Timeout)
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv("LLM_HOSTED_MODEL", "gpt-4o-mini")
	t.Setenv("KNOWLEDGE_SOURCE", "Redis")
	t.Setenv("DATABASE_REDIS_ADDRESS", "localhost:6379")
	t.Setenv("TUTOR_INDEX", "gseb-class10")

	path := writeConfig(t, `
knowledge:
  index: ${TUTOR_INDEX}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.LLM.HostedModel)
	assert.Equal(t, KnowledgeSourceRedis, cfg.Knowledge.Source)
	assert.Equal(t, "localhost:6379", cfg.Database.Redis.Address)
	assert.Equal(t, "gseb-class10", cfg.Knowledge.Index)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "camunda without broker",
			body:    "camunda:\n  enabled: true\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "postgres source without host",
			body:    "knowledge:\n  source: postgres\n",
			wantErr: "database.postgres.host",
		},
		{
			name:    "elasticsearch source without address",
			body:    "knowledge:\n  source: elasticsearch\n",
			wantErr: "database.elasticsearch",
		},
		{
			name:    "unknown source",
			body:    "knowledge:\n  source: faiss\n",
			wantErr: "not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))

	cfg := &Config{Workers: map[string]WorkerConfig{"x": {Enabled: false}}}
	assert.False(t, GetWorkerConfig(cfg, "x").Enabled)
	assert.True(t, GetWorkerConfig(cfg, "y").Enabled)

	es := ElasticsearchConfig{URL: "http://es:9200"}
	assert.Equal(t, []string{"http://es:9200"}, es.GetAddresses())

	pg := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "kb", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=kb sslmode=disable", pg.GetDSN())
}
