package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	devSecret = "proshop-dev-secret-change-me"
)

var ErrSecretRequired = errors.New("PROSHOP_JWT_SECRET is required in production")

type Config struct {
	Port      string
	Env       string
	DBDSN     string
	JWTSecret string
	TokenTTL  time.Duration
	LogFile   string
	BodyLimit int

	SeedAdminEmail    string
	SeedAdminPassword string
	SeedAdminName     string
}

func (c Config) Production() bool { return c.Env == EnvProduction }

func (c Config) Addr() string { return ":" + c.Port }

// SetDefaults registers every key with its default so env lookups resolve.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("db_dsn", "proshop.db")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", 30*24*time.Hour)
	v.SetDefault("log_file", "")
	v.SetDefault("body_limit", 1<<20)
	v.SetDefault("seed_admin_email", "")
	v.SetDefault("seed_admin_password", "")
	v.SetDefault("seed_admin_name", "Admin")
}

// NewViper returns a viper instance with every default registered and
// PROSHOP_* environment variables bound.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("PROSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges a YAML config file into v. With an empty path it looks for
// ./proshop.yaml and silently skips it when absent.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("proshop")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	log.Printf("[config] using %s", v.ConfigFileUsed())
	return nil
}

func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:              v.GetString("port"),
		Env:               strings.ToLower(v.GetString("env")),
		DBDSN:             v.GetString("db_dsn"),
		JWTSecret:         v.GetString("jwt_secret"),
		TokenTTL:          v.GetDuration("token_ttl"),
		LogFile:           v.GetString("log_file"),
		BodyLimit:         v.GetInt("body_limit"),
		SeedAdminEmail:    v.GetString("seed_admin_email"),
		SeedAdminPassword: v.GetString("seed_admin_password"),
		SeedAdminName:     v.GetString("seed_admin_name"),
	}
	if cfg.JWTSecret == "" {
		if cfg.Production() {
			return Config{}, ErrSecretRequired
		}
		cfg.JWTSecret = devSecret
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 30 * 24 * time.Hour
	}

	log.Printf("[config] PORT=%s ENV=%s DB_DSN=%s TOKEN_TTL=%s LOG_FILE=%s JWT_SECRET=%s",
		cfg.Port, cfg.Env, cfg.DBDSN, cfg.TokenTTL, cfg.LogFile, redact(cfg.JWTSecret))
	return cfg, nil
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
