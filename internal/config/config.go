package config

import (
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
}

type LedgerConfig struct {
	// FallbackPolicy controls what happens when a payment method has no
	// default account and no active account of the derived type exists:
	// "any_active" picks the first active account, "none" rejects.
	FallbackPolicy string `mapstructure:"fallback_policy"`
}

type CORSConfig struct {
	Origin string `mapstructure:"origin"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// Load reads config.yaml if present, then applies environment overrides.
// Environment variables win, so deployments can run without a config file.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "dev")
	v.SetDefault("auth.token_ttl_hours", 72)
	v.SetDefault("ledger.fallback_policy", FallbackAnyActive)
	v.SetDefault("cors.origin", "*")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, err
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("server.env", "ENV")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("redis.url", "REDIS_URL")
	_ = v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("ledger.fallback_policy", "LEDGER_FALLBACK_POLICY")
	_ = v.BindEnv("cors.origin", "CORS_ORIGIN")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Ledger.FallbackPolicy != FallbackAnyActive && cfg.Ledger.FallbackPolicy != FallbackNone {
		cfg.Ledger.FallbackPolicy = FallbackAnyActive
	}
	return &cfg, nil
}

const (
	FallbackAnyActive = "any_active"
	FallbackNone      = "none"
)

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}
