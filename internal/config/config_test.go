package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Host: "127.0.0.1", Port: 7300},
		Storage: StorageConfig{Path: "/tmp/dcvault/vault.db"},
		Logger:  LoggerConfig{Level: "info"},
		Gemini: GeminiConfig{
			AnalysisModel: "gemini-3-flash-preview",
			ChatModel:     "gemini-3-pro-preview",
			Timeout:       time.Minute,
		},
		Vault: VaultConfig{MaxUploadBytes: 5 << 20, TotalCapacity: 10 << 30},
		Cache: CacheConfig{Enabled: true, SizeMB: 4, TTL: time.Hour},
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DCVAULT_DIR", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")

	conf, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, AppName, conf.AppName)
	assert.Equal(t, "127.0.0.1", conf.Server.Host)
	assert.Equal(t, 7300, conf.Server.Port)
	assert.Equal(t, int64(5*1024*1024), conf.Vault.MaxUploadBytes)
	assert.Equal(t, int64(10*1024*1024*1024), conf.Vault.TotalCapacity)
	assert.Equal(t, "gemini-3-flash-preview", conf.Gemini.AnalysisModel)
	assert.Equal(t, "gemini-3-pro-preview", conf.Gemini.ChatModel)
	assert.Equal(t, 60*time.Second, conf.Gemini.Timeout)
	assert.Equal(t, "info", conf.Logger.Level)
	assert.True(t, conf.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:7300", conf.Addr())
}

func TestLoad_APIKeyFromEnv(t *testing.T) {
	t.Setenv("DCVAULT_DIR", t.TempDir())
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "secret-key")

	conf, err := Load(&Flags{})
	require.NoError(t, err)
	assert.Equal(t, "secret-key", conf.Gemini.APIKey)
}

func TestLoad_EnvOverridesPort(t *testing.T) {
	t.Setenv("DCVAULT_DIR", t.TempDir())
	t.Setenv("DCVAULT_PORT", "8111")

	conf, err := Load(&Flags{})
	require.NoError(t, err)
	assert.Equal(t, 8111, conf.Server.Port)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DCVAULT_DIR", dir)
	path := filepath.Join(dir, "dcvault.yaml")
	yaml := `
server:
  port: 9001
logger:
  level: warn
gemini:
  chatModel: gemini-custom
  timeout: 5s
vault:
  maxUploadBytes: 1024
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0600))

	conf, err := Load(&Flags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, 9001, conf.Server.Port)
	assert.Equal(t, "warn", conf.Logger.Level)
	assert.Equal(t, "gemini-custom", conf.Gemini.ChatModel)
	assert.Equal(t, 5*time.Second, conf.Gemini.Timeout)
	assert.Equal(t, int64(1024), conf.Vault.MaxUploadBytes)
	assert.Equal(t, path, conf.Path)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("DCVAULT_DIR", t.TempDir())
	_, err := Load(&Flags{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestLoad_DebugForcesDebugLevel(t *testing.T) {
	t.Setenv("DCVAULT_DIR", t.TempDir())
	conf, err := Load(&Flags{Debug: true})
	require.NoError(t, err)
	assert.True(t, conf.Debug)
	assert.Equal(t, "debug", conf.Logger.Level)
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidate_Nil(t *testing.T) {
	assert.Error(t, Validate(nil))
}

func TestValidate_EmptyHost(t *testing.T) {
	c := validConfig()
	c.Server.Host = ""
	assert.Error(t, Validate(c))
}

func TestValidate_ZeroPort(t *testing.T) {
	c := validConfig()
	c.Server.Port = 0
	assert.Error(t, Validate(c))
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	assert.Error(t, Validate(c))
}

func TestValidate_ZeroUploadLimit(t *testing.T) {
	c := validConfig()
	c.Vault.MaxUploadBytes = 0
	assert.Error(t, Validate(c))
}

func TestValidate_MissingChatModel(t *testing.T) {
	c := validConfig()
	c.Gemini.ChatModel = ""
	assert.Error(t, Validate(c))
}
