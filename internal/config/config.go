package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Broker   BrokerConfig   `yaml:"broker"`
	Auth     AuthConfig     `yaml:"auth"`
	Redis    RedisConfig    `yaml:"redis"`
	Server   ServerConfig   `yaml:"server"`
}

type AppConfig struct {
	Name  string `yaml:"name"`
	Env   string `yaml:"env"`
	Port  int    `yaml:"port"`
	Debug bool   `yaml:"debug"`
	Seed  bool   `yaml:"seed"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type BrokerConfig struct {
	Mode       string        `yaml:"mode"`
	TradeDelay time.Duration `yaml:"trade_delay"`
}

type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret"`
	TokenExpiry time.Duration `yaml:"token_expiry"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type ServerConfig struct {
	RateLimit      float64  `yaml:"rate_limit"`
	RateBurst      int      `yaml:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Name: "Hedgie API",
			Env:  "development",
			Port: 8080,
			Seed: true,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			Name:    "hedgie",
			User:    "hedgie",
			SSLMode: "disable",
		},
		Broker: BrokerConfig{
			Mode:       "mock",
			TradeDelay: 500 * time.Millisecond,
		},
		Auth: AuthConfig{
			TokenExpiry: 24 * time.Hour,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			CacheTTL: 5 * time.Minute,
		},
		Server: ServerConfig{
			RateLimit: 100,
			RateBurst: 200,
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://localhost:3000",
			},
		},
	}
}

func (c *Config) loadFromEnv() error {
	if env := os.Getenv("APP_ENV"); env != "" {
		c.App.Env = env
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.App.Port = p
		}
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		dbConfig, err := parseDatabaseURL(url)
		if err != nil {
			return err
		}
		c.Database = *dbConfig
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}

	if mode := os.Getenv("BROKER_MODE"); mode != "" {
		c.Broker.Mode = mode
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Redis.Addr = addr
		c.Redis.Enabled = true
	}

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = strings.Split(origins, ",")
	}

	return nil
}

func (c *Config) validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", c.App.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Broker.Mode != "mock" {
		return fmt.Errorf("unsupported broker mode: %q (only \"mock\" is implemented)", c.Broker.Mode)
	}

	if c.Auth.JWTSecret == "" && c.App.Env != "development" {
		return fmt.Errorf("JWT secret is required outside development")
	}

	return nil
}

func parseDatabaseURL(url string) (*DatabaseConfig, error) {
	cfg := &DatabaseConfig{
		SSLMode: "disable",
	}

	url = strings.TrimPrefix(url, "postgresql://")
	url = strings.TrimPrefix(url, "postgres://")

	parts := strings.Split(url, "@")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid database URL format")
	}

	credentials := strings.Split(parts[0], ":")
	if len(credentials) != 2 {
		return nil, fmt.Errorf("invalid credentials format")
	}
	cfg.User = credentials[0]
	cfg.Password = credentials[1]

	hostInfo := strings.Split(parts[1], "/")
	if len(hostInfo) != 2 {
		return nil, fmt.Errorf("invalid host info format")
	}

	hostPort := strings.Split(hostInfo[0], ":")
	if len(hostPort) != 2 {
		return nil, fmt.Errorf("invalid host/port format")
	}
	cfg.Host = hostPort[0]
	port, err := strconv.Atoi(hostPort[1])
	if err != nil {
		return nil, fmt.Errorf("invalid port number: %v", err)
	}
	cfg.Port = port

	dbNameOpts := strings.Split(hostInfo[1], "?")
	cfg.Name = dbNameOpts[0]

	if len(dbNameOpts) > 1 {
		opts := strings.Split(dbNameOpts[1], "&")
		for _, opt := range opts {
			kv := strings.Split(opt, "=")
			if len(kv) == 2 && kv[0] == "sslmode" {
				cfg.SSLMode = kv[1]
			}
		}
	}

	return cfg, nil
}

func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
