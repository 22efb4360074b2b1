// Package config loads dcvault settings from an optional YAML file and the
// environment, then validates them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/spf13/viper"
)

const AppName = "DarkCyberVault"

// Flags are the command-line inputs that influence configuration.
type Flags struct {
	ConfigPath string
	Debug      bool
}

type ServerConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"required|int|min:1|max:65535"`
}

type StorageConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Pretty bool   `mapstructure:"pretty"`
}

type GeminiConfig struct {
	APIKey        string        `mapstructure:"apiKey"`
	AnalysisModel string        `mapstructure:"analysisModel" validate:"required"`
	ChatModel     string        `mapstructure:"chatModel" validate:"required"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type VaultConfig struct {
	MaxUploadBytes int64 `mapstructure:"maxUploadBytes" validate:"required|min:1"`
	TotalCapacity  int64 `mapstructure:"totalCapacity" validate:"required|min:1"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	SizeMB  int           `mapstructure:"sizeMB"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Config is the fully resolved configuration.
type Config struct {
	AppName string
	Debug   bool
	Path    string
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Gemini  GeminiConfig  `mapstructure:"gemini"`
	Vault   VaultConfig   `mapstructure:"vault"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DefaultDir is the vault home directory (~/.dcvault unless DCVAULT_DIR is set).
func DefaultDir() string {
	if d := os.Getenv("DCVAULT_DIR"); d != "" {
		return d
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".dcvault")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 7300)
	v.SetDefault("storage.path", filepath.Join(DefaultDir(), "vault.db"))
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.pretty", true)
	v.SetDefault("gemini.analysisModel", "gemini-3-flash-preview")
	v.SetDefault("gemini.chatModel", "gemini-3-pro-preview")
	v.SetDefault("gemini.timeout", 60*time.Second)
	v.SetDefault("vault.maxUploadBytes", 5*1024*1024)
	v.SetDefault("vault.totalCapacity", int64(10)*1024*1024*1024)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.sizeMB", 4)
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("metrics.enabled", true)
}

// Load resolves configuration from defaults, an optional config file and
// DCVAULT_* environment variables. The Gemini key is also read from
// GEMINI_API_KEY or API_KEY.
func Load(flags *Flags) (*Config, error) {
	if flags == nil {
		flags = &Flags{}
	}
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DCVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("gemini.apiKey", "DCVAULT_GEMINI_APIKEY", "GEMINI_API_KEY", "API_KEY")
	v.BindEnv("logger.level", "DCVAULT_LOG_LEVEL")
	v.BindEnv("server.port", "DCVAULT_PORT")

	if flags.ConfigPath != "" {
		v.SetConfigFile(flags.ConfigPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", flags.ConfigPath, err)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if err := Validate(&conf); err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.Debug
	if conf.Debug {
		conf.Logger.Level = "debug"
	}
	return &conf, nil
}

// Validate checks the struct tags on conf.
func Validate(conf *Config) error {
	if conf == nil {
		return errors.New("config is nil")
	}
	for _, section := range []any{&conf.Server, &conf.Storage, &conf.Logger, &conf.Gemini, &conf.Vault} {
		v := validate.Struct(section)
		if !v.Validate() {
			return fmt.Errorf("invalid config: %s", v.Errors.Error())
		}
	}
	if conf.Cache.Enabled && conf.Cache.SizeMB < 0 {
		return errors.New("invalid config: cache.sizeMB must not be negative")
	}
	return nil
}
