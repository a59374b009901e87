package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/evcs-platform/evcs-smoke/internal/api"
	"github.com/evcs-platform/evcs-smoke/internal/api/models"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "EVCS"
	ConfigName = "evcs-smoke"

	DefaultUsername  = "admin"
	DefaultPassword  = "password"
	DefaultTenant    = "SYSTEM"
	DefaultTimeout   = 30 * time.Second
	DefaultMenuLimit = 5
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	BaseURL   string        `mapstructure:"base_url"`
	Username  string        `mapstructure:"username"`
	Password  string        `mapstructure:"password"`
	Tenant    string        `mapstructure:"tenant"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MenuLimit int           `mapstructure:"menu_limit"`
}

func (c *Config) Credentials() models.LoginRequest {
	return models.LoginRequest{
		Username:   c.Username,
		Password:   c.Password,
		TenantCode: c.Tenant,
	}
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("%w: base_url %q: %v", ErrInvalidConfig, c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: base_url %q must be an absolute http(s) url", ErrInvalidConfig, c.BaseURL)
	}
	if strings.TrimSpace(c.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Tenant) == "" {
		return fmt.Errorf("%w: tenant is required", ErrInvalidConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative", ErrInvalidConfig)
	}
	if c.MenuLimit < 0 {
		return fmt.Errorf("%w: menu_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// SetDefaults registers the fixture credentials of the local backend.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", api.DefaultBaseURL)
	v.SetDefault("username", DefaultUsername)
	v.SetDefault("password", DefaultPassword)
	v.SetDefault("tenant", DefaultTenant)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("menu_limit", DefaultMenuLimit)
}

type ConfigParser struct {
	v *viper.Viper
}

func NewConfigParser(v *viper.Viper) *ConfigParser {
	if v == nil {
		v = viper.New()
	}
	return &ConfigParser{v: v}
}

// Parse layers defaults, the optional yaml file, EVCS_* environment
// variables and whatever flags were bound on the viper instance. An explicit
// configPath must exist; the implicit search locations may be empty.
func (c *ConfigParser) Parse(configPath string) (*Config, error) {
	SetDefaults(c.v)

	c.v.SetEnvPrefix(EnvPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	c.v.AutomaticEnv()

	c.v.SetConfigType("yaml")
	if configPath != "" {
		c.v.SetConfigFile(configPath)
		if err := c.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	} else {
		c.v.SetConfigName(ConfigName)
		c.v.AddConfigPath(".")
		c.v.AddConfigPath("$HOME/." + ConfigName)
		if err := c.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	err := c.v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.StringToTimeDurationHookFunc()))
	if err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ConfigFileUsed reports the file Parse read, if any.
func (c *ConfigParser) ConfigFileUsed() string {
	return c.v.ConfigFileUsed()
}
