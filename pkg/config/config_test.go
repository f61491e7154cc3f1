package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DOCURECO_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8192, cfg.LLMMaxTokens)
	assert.Equal(t, 5, cfg.MaxConcurrentOperations)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "default", cfg.Source("llm_model"))
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("llm_model: claude-haiku-4-5\nmax_concurrent_operations: 2\nport: 9090\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), content, 0o644))
	t.Setenv("DOCURECO_CONFIG_PATH", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "claude-haiku-4-5", cfg.LLMModel)
	assert.Equal(t, "file", cfg.Source("llm_model"))
	assert.Equal(t, 2, cfg.MaxConcurrentOperations)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "default", cfg.Source("llm_max_tokens"))
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("port: 9090\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), content, 0o644))
	t.Setenv("DOCURECO_CONFIG_PATH", dir)
	t.Setenv("DOCURECO_PORT", "7070")
	t.Setenv("DOCURECO_LLM_TEMPERATURE", "0.5")
	t.Setenv("DOCURECO_SDD_PATTERNS", "design/**/*.md, architecture.md")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, "environment", cfg.Source("port"))
	assert.Equal(t, 0.5, cfg.LLMTemperature)
	assert.Equal(t, []string{"design/**/*.md", "architecture.md"}, cfg.SDDPatterns)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Port = 0 }, wantErr: "invalid port"},
		{name: "zero concurrency", mutate: func(c *Config) { c.MaxConcurrentOperations = 0 }, wantErr: "max_concurrent_operations"},
		{name: "temperature out of range", mutate: func(c *Config) { c.LLMTemperature = 1.5 }, wantErr: "llm_temperature"},
		{name: "no doc patterns", mutate: func(c *Config) { c.SRSPatterns = nil }, wantErr: "srs_patterns"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := newDefault()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
