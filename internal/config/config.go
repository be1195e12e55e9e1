package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

// StoreConfig selects and configures the catalog/ledger backend.
// Driver is either "rest" (remote table service) or "sqlite" (embedded).
type StoreConfig struct {
	Driver   string        `mapstructure:"driver"`
	Endpoint string        `mapstructure:"endpoint"`
	Key      string        `mapstructure:"key"`
	Path     string        `mapstructure:"path"`
	LogMode  bool          `mapstructure:"log_mode"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	JWT    JWTConfig    `mapstructure:"jwt"`
	Log    LogConfig    `mapstructure:"log"`
}

var (
	appConfig *Config
	loadErr   error
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
// The outcome is latched: repeated calls return the first call's config or
// its error.
func Load(path string) (*Config, error) {
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. RPOS_STORE_KEY=...
		v.SetEnvPrefix("RPOS")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		v.SetDefault("server.address", "0.0.0.0")
		v.SetDefault("server.port", 8080)
		v.SetDefault("store.driver", "rest")
		v.SetDefault("store.path", "data/pos.db")
		v.SetDefault("store.cache_ttl", 5*time.Second)
		v.SetDefault("jwt.expire_hours", 24)
		v.SetDefault("log.level", "info")

		if err := v.ReadInConfig(); err != nil {
			loadErr = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err := v.Unmarshal(&c); err != nil {
			loadErr = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		if err := c.Validate(); err != nil {
			loadErr = err
			return
		}

		appConfig = &c
	})

	if loadErr != nil {
		return nil, loadErr
	}
	return appConfig, nil
}

// Validate checks the required settings. The store credentials are the two
// secrets the whole system hangs off; missing either is fatal at startup.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "rest":
		if c.Store.Endpoint == "" {
			return fmt.Errorf("configuration missing: store.endpoint is required")
		}
		if c.Store.Key == "" {
			return fmt.Errorf("configuration missing: store.key is required")
		}
	case "sqlite":
		if c.Store.Path == "" {
			return fmt.Errorf("configuration missing: store.path is required")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("configuration missing: jwt.secret is required")
	}
	return nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
