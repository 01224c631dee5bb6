package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/carte/internal/llm"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"CARTE_DB", "CARTE_USER", "CARTE_LLM_PROVIDER", "CARTE_ALLOWED_DOMAINS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadFiles()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.UserID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".carte", "carte.db"), cfg.DBPath)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, 60000, cfg.LLM.TimeoutMs)
	assert.Equal(t, llm.DefaultTasks(), cfg.LLM.Tasks)
	assert.Empty(t, cfg.AllowedDomains)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CARTE_DB", "/tmp/carte-test.db")
	t.Setenv("CARTE_USER", "u-42")
	t.Setenv("CARTE_ALLOWED_DOMAINS", " example.com, @Corp.example ,")
	t.Setenv("CARTE_LLM_PROVIDER", "openrouter")
	t.Setenv("CARTE_LLM_MODEL", "openai/gpt-4o")
	t.Setenv("CARTE_LLM_TIMEOUT_MS", "1500")
	t.Setenv("CARTE_OPENROUTER_TITLE", "carte")

	cfg, err := LoadFiles()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/carte-test.db", cfg.DBPath)
	assert.Equal(t, "u-42", cfg.UserID)
	assert.Equal(t, []string{"example.com", "corp.example"}, cfg.AllowedDomains)
	assert.Equal(t, llm.ProviderOpenRouter, cfg.LLM.Provider)
	assert.Equal(t, "openai/gpt-4o", cfg.LLM.ModelName())
	assert.Equal(t, 1500, cfg.LLM.TimeoutMs)
	assert.Equal(t, "carte", cfg.LLM.OpenRouterTitle)
}

func TestLoad_DotenvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CARTE_LOG_LEVEL=debug\nCARTE_USER=from-file\n"), 0o600))
	t.Setenv("CARTE_DB", filepath.Join(dir, "carte.db"))
	t.Setenv("CARTE_USER", "from-env")
	t.Setenv("CARTE_LOG_LEVEL", "")
	os.Unsetenv("CARTE_LOG_LEVEL")

	cfg, err := LoadFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "from-env", cfg.UserID)
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("CARTE_DB", "/tmp/x.db")
	t.Setenv("CARTE_LLM_TIMEOUT_MS", "soon")

	_, err := LoadFiles()
	assert.Error(t, err)
}
