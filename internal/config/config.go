package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/studyhub/studyhub-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// Config application configuration loaded from YAML with env overrides
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size"`
	} `yaml:"redis"`

	JWT struct {
		Secret    string `yaml:"secret"`
		ExpiresIn int    `yaml:"expires_in"` // minutes
		RefreshIn int    `yaml:"refresh_in"` // minutes
	} `yaml:"jwt"`

	CORS struct {
		AllowOrigins string `yaml:"allow_origins"`
	} `yaml:"cors"`
}

// Load reads configuration from a YAML file, then applies env var overrides
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.Env = "local"
	cfg.Database.Port = 3306
	cfg.Redis.Port = 6379
	cfg.Redis.PoolSize = 10
	cfg.JWT.ExpiresIn = 15
	cfg.JWT.RefreshIn = 1440

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required (set JWT_SECRET or jwt.secret)")
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Server.Env, "APP_ENV")
	overrideInt(&cfg.Server.Port, "SERVER_PORT")

	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideInt(&cfg.Database.Port, "DB_PORT")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.Database.Name, "DB_NAME")

	overrideString(&cfg.Redis.Host, "REDIS_HOST")
	overrideInt(&cfg.Redis.Port, "REDIS_PORT")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")
	overrideInt(&cfg.Redis.DB, "REDIS_DB")

	overrideString(&cfg.JWT.Secret, "JWT_SECRET")
	overrideInt(&cfg.JWT.ExpiresIn, "JWT_EXPIRES_IN")
	overrideInt(&cfg.JWT.RefreshIn, "JWT_REFRESH_IN")

	overrideString(&cfg.CORS.AllowOrigins, "CORS_ALLOW_ORIGINS")
}

func overrideString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func overrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

// IsDevelopment reports whether the server runs in a development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev" || c.Server.Env == "local"
}

// LogResolved logs the resolved configuration without secrets
func LogResolved(cfg *Config) {
	logger.Info("config: env=%s port=%d db=%s@%s:%d/%s redis=%s:%d",
		cfg.Server.Env, cfg.Server.Port,
		cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name,
		cfg.Redis.Host, cfg.Redis.Port)
}
