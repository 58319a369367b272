package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE debe resolver aunque la imagen no traiga zoneinfo

	"github.com/spf13/viper"
)

type Config struct {
	Port    string `mapstructure:"PORT"`
	Env     string `mapstructure:"ENV"`
	AppName string `mapstructure:"APP_NAME"`

	DBDSN string `mapstructure:"DB_DSN"` // vacío = repos in-memory

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Timezone define el "hoy" del servidor (límites de día, calendario, estadísticas).
	Timezone string `mapstructure:"TIMEZONE"`

	AuthJWTSecret string `mapstructure:"AUTH_JWT_SECRET"` // vacío = modo dev (X-Debug-User-ID)
	AuthIssuer    string `mapstructure:"AUTH_ISSUER"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	// Cliente (CLI)
	APIURL     string        `mapstructure:"API_URL"`
	APIToken   string        `mapstructure:"API_TOKEN"`
	APIUser    string        `mapstructure:"API_USER"` // sólo contra un server en modo dev
	APITimeout time.Duration `mapstructure:"API_TIMEOUT"`
	CachePath  string        `mapstructure:"CACHE_PATH"`

	location *time.Location
}

var keys = []string{
	"PORT", "ENV", "APP_NAME",
	"DB_DSN",
	"LOG_LEVEL", "LOG_FORMAT",
	"TIMEZONE",
	"AUTH_JWT_SECRET", "AUTH_ISSUER",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"API_URL", "API_TOKEN", "API_USER", "API_TIMEOUT", "CACHE_PATH",
}

// Load lee env (y .env si existe) con defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("APP_NAME", "medremind")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("AUTH_ISSUER", "medremind")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("API_URL", "http://localhost:8080")
	v.SetDefault("API_TIMEOUT", "10s")
	v.SetDefault("CACHE_PATH", defaultCachePath())

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// .env opcional
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	loc, err := time.LoadLocation(strings.TrimSpace(c.Timezone))
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	c.location = loc

	if c.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if c.APITimeout <= 0 {
		c.APITimeout = 10 * time.Second
	}
	if c.IsProduction() && strings.TrimSpace(c.AuthJWTSecret) == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required when ENV=production")
	}
	return nil
}

// Location es la zona horaria configurada; UTC si no se cargó.
func (c *Config) Location() *time.Location {
	if c == nil || c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}

// Addr devuelve ":PORT".
func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
}
