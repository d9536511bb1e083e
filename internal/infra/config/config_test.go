// No t.Parallel(): env vars are process-global.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "llama2", cfg.Ollama.Model)
	assert.Equal(t, 5*time.Second, cfg.Ollama.ProbeTimeout)
	assert.Equal(t, 60*time.Second, cfg.Ollama.GenerateTimeout)
	assert.Equal(t, 4, cfg.Ollama.MaxConcurrent)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.MCP.Enabled)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summarygate.yaml")
	data := []byte(`
server:
  port: 9090
  write_timeout: 120s
ollama:
  base_url: http://ollama.internal:11434
  model: llama3.2:3b
  generate_timeout: 90s
log:
  format: console
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 120*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "http://ollama.internal:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "llama3.2:3b", cfg.Ollama.Model)
	assert.Equal(t, 90*time.Second, cfg.Ollama.GenerateTimeout)
	assert.Equal(t, "console", cfg.Log.Format)
	// untouched keys keep their defaults
	assert.Equal(t, 5*time.Second, cfg.Ollama.ProbeTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summarygate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ollama:\n  model: from-file\n"), 0o600))

	t.Setenv("SUMMARYGATE_OLLAMA_MODEL", "from-env")
	t.Setenv("SUMMARYGATE_SERVER_PORT", "18000")
	t.Setenv("SUMMARYGATE_OLLAMA_PROBE_TIMEOUT", "2s")
	t.Setenv("SUMMARYGATE_METRICS_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Ollama.Model)
	assert.Equal(t, 18000, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Ollama.ProbeTimeout)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	cfg.Ollama.BaseURL = "localhost"
	cfg.Ollama.Model = ""
	cfg.Ollama.ProbeTimeout = 10 * time.Second
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "server.port")
	assert.Contains(t, msg, "ollama.base_url")
	assert.Contains(t, msg, "ollama.model")
	assert.Contains(t, msg, "ollama.probe_timeout")
	assert.Contains(t, msg, "log.format")
}

func TestValidate_WriteTimeoutMustOutliveGenerate(t *testing.T) {
	cfg := Default()
	cfg.Ollama.GenerateTimeout = 90 * time.Second

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.write_timeout")

	cfg.Server.WriteTimeout = cfg.Ollama.GenerateTimeout
	require.Error(t, cfg.Validate(), "equal deadlines still cut the response off")

	cfg.Server.WriteTimeout = 0
	assert.NoError(t, cfg.Validate(), "no write deadline at all is fine")
}

func TestLoad_EnvGenerateTimeoutAboveWriteTimeout(t *testing.T) {
	t.Setenv("SUMMARYGATE_OLLAMA_GENERATE_TIMEOUT", "2m")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must exceed ollama.generate_timeout")
}

func TestValidate_DefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestServerConfig_Addr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8000}
	assert.Equal(t, "127.0.0.1:8000", s.Addr())
}

func TestLoad_ShippedExampleMatchesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "..", "configs", "summarygate.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
