package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, "data/leadgen.db", cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "https://api.openai.com/v1", cfg.LLM.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout())
	assert.Equal(t, "leadgen-archive", cfg.Storage.KeyPrefix)
	assert.Equal(t, []string{"*"}, cfg.CORS.Origins)
	assert.Equal(t, "info", cfg.Log.Level)

	require.Error(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("LEADGEN_AUTH_JWTSECRET", "s3cret")
	t.Setenv("LEADGEN_AUTH_TOKENTTLMINUTES", "30")
	t.Setenv("LEADGEN_STORAGE_BUCKET", "archive")
	t.Setenv("LEADGEN_CORS_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL())
	assert.Equal(t, "archive", cfg.Storage.Bucket)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORS.Origins)
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("LEADGEN_LLM_MODEL", "from-env")
	// registered so t restores the variable after the dotenv loader sets it
	t.Setenv("LEADGEN_DATABASE_PATH", "")
	require.NoError(t, os.Unsetenv("LEADGEN_DATABASE_PATH"))

	t.Setenv("LEADGEN_AUTH_JWTSECRET", "")
	require.NoError(t, os.Unsetenv("LEADGEN_AUTH_JWTSECRET"))

	content := "# comment\n" +
		"export LEADGEN_DATABASE_PATH=\"/tmp/x.db\"\n" +
		"LEADGEN_AUTH_JWTSECRET=s3cret # rotate monthly\n" +
		"LEADGEN_LLM_MODEL=from-file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "from-env", cfg.LLM.Model)
}

func TestLoadRejectsMalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BAD-KEY=value\n"), 0o600))

	_, err := Load()
	require.Error(t, err)
}
