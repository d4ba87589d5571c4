package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	API         APIConfig         `yaml:"api"`
	Database    DatabaseConfig    `yaml:"database"`
	JWT         JWTConfig         `yaml:"jwt"`
	Security    SecurityConfig    `yaml:"security"`
	Log         LogConfig         `yaml:"log"`
	Admin       AdminConfig       `yaml:"admin"`
	DefaultUser DefaultUserConfig `yaml:"default_user"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
}

type APIConfig struct {
	Prefix string `yaml:"prefix"`
}

type DatabaseConfig struct {
	Type   string       `yaml:"type"`
	SQLite SQLiteConfig `yaml:"sqlite"`
	MySQL  MySQLConfig  `yaml:"mysql"`
	Pool   PoolConfig   `yaml:"pool"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	Charset  string `yaml:"charset"`
}

type PoolConfig struct {
	MaxOpen        int `yaml:"max_open"`
	MaxIdle        int `yaml:"max_idle"`
	AcquireTimeout int `yaml:"acquire_timeout"` // seconds
	IdleTimeout    int `yaml:"idle_timeout"`    // seconds
}

type JWTConfig struct {
	Secret    string `yaml:"secret"`
	ExpiresIn string `yaml:"expires_in"`
	Issuer    string `yaml:"issuer"`
}

type SecurityConfig struct {
	BcryptCost    int             `yaml:"bcrypt_cost"`
	CORSOrigins   []string        `yaml:"cors_origins"`
	RateLimit     RateLimitConfig `yaml:"rate_limit"`
	SessionSecret string          `yaml:"session_secret"`
}

type RateLimitConfig struct {
	Enabled  bool `yaml:"enabled"`
	WindowMs int  `yaml:"window_ms"`
	Max      int  `yaml:"max"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Dir        string `yaml:"dir"`
	MaxSize    int    `yaml:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"` // days
	Compress   bool   `yaml:"compress"`
}

type AdminConfig struct {
	EntryPath string `yaml:"entry_path"`
}

type DefaultUserConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

var Global *Config

// Load reads the configuration file, then applies .env and environment
// variable overrides.
func Load(configPath string) (*Config, error) {
	// .env is optional; real environment variables win over it
	godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	// Ensure data directory exists for SQLite
	if cfg.Database.Type == "sqlite" {
		dataDir := filepath.Dir(cfg.Database.SQLite.Path)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	// Validate MySQL configuration if MySQL is selected
	if cfg.Database.Type == "mysql" {
		if cfg.Database.MySQL.Username == "" {
			return nil, fmt.Errorf("MySQL username is required")
		}
		if cfg.Database.MySQL.Database == "" {
			return nil, fmt.Errorf("MySQL database name is required")
		}
	}

	if cfg.Log.Dir != "" {
		if err := os.MkdirAll(cfg.Log.Dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	Global = &cfg
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("ADPANEL_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("ADPANEL_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Server.Port = p
		}
	}
	if mode := os.Getenv("ADPANEL_MODE"); mode != "" {
		cfg.Server.Mode = mode
	}
	if jwtSecret := os.Getenv("ADPANEL_JWT_SECRET"); jwtSecret != "" {
		cfg.JWT.Secret = jwtSecret
	}
	if sessionSecret := os.Getenv("ADPANEL_SESSION_SECRET"); sessionSecret != "" {
		cfg.Security.SessionSecret = sessionSecret
	}
	if origins := os.Getenv("ADPANEL_CORS_ORIGINS"); origins != "" {
		cfg.Security.CORSOrigins = strings.Split(origins, ",")
	}
	if dbType := os.Getenv("ADPANEL_DB_TYPE"); dbType != "" {
		cfg.Database.Type = dbType
	}
	if dbPath := os.Getenv("ADPANEL_DB_PATH"); dbPath != "" {
		cfg.Database.SQLite.Path = dbPath
	}
	if mysqlHost := os.Getenv("ADPANEL_MYSQL_HOST"); mysqlHost != "" {
		cfg.Database.MySQL.Host = mysqlHost
	}
	if mysqlUser := os.Getenv("ADPANEL_MYSQL_USER"); mysqlUser != "" {
		cfg.Database.MySQL.Username = mysqlUser
	}
	if mysqlPass := os.Getenv("ADPANEL_MYSQL_PASSWORD"); mysqlPass != "" {
		cfg.Database.MySQL.Password = mysqlPass
	}
	if mysqlDB := os.Getenv("ADPANEL_MYSQL_DATABASE"); mysqlDB != "" {
		cfg.Database.MySQL.Database = mysqlDB
	}
	if entryPath := os.Getenv("ADMIN_ENTRY_PATH"); entryPath != "" {
		cfg.Admin.EntryPath = entryPath
	}
	if logDir := os.Getenv("ADPANEL_LOG_DIR"); logDir != "" {
		cfg.Log.Dir = logDir
	}
}

func applyDefaults(cfg *Config) {
	if cfg.API.Prefix == "" {
		cfg.API.Prefix = "/api/v1"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 5
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.AcquireTimeout == 0 {
		cfg.Database.Pool.AcquireTimeout = 30
	}
	if cfg.Database.Pool.IdleTimeout == 0 {
		cfg.Database.Pool.IdleTimeout = 10
	}
	if cfg.Security.BcryptCost == 0 {
		cfg.Security.BcryptCost = 10
	}
	if cfg.Security.RateLimit.WindowMs == 0 {
		cfg.Security.RateLimit.WindowMs = 15 * 60 * 1000
	}
	if cfg.Security.RateLimit.Max == 0 {
		cfg.Security.RateLimit.Max = 100
	}
	if cfg.JWT.ExpiresIn == "" {
		cfg.JWT.ExpiresIn = "168h"
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "ad-panel"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}
