package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	Dilution DilutionConfig `yaml:"dilution"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Addr string `yaml:"addr"`
	Mode string `yaml:"mode"` // debug, release, test
}

// DatabaseConfig 数据库连接信息
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Name     string `yaml:"name"`
}

// AuthConfig JWT 配置
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	TokenTTL  string `yaml:"token_ttl"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DilutionConfig 稀释计算配置
type DilutionConfig struct {
	// 为空时使用内置场景表
	ProfilesFile string `yaml:"profiles_file"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
		},
		Database: DatabaseConfig{
			Enabled:  true,
			Username: "root",
			Password: "root",
			Host:     "127.0.0.1:3306",
			Name:     "ionicdose",
		},
		Auth: AuthConfig{
			JWTSecret: "ionicdose_secret_key",
			TokenTTL:  "168h",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load 读取 YAML 配置，文件不存在时使用默认值，最后应用环境变量
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides 用环境变量覆盖配置
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("IONIC_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("IONIC_DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("IONIC_DB_USER"); v != "" {
		c.Database.Username = v
	}
	if v := os.Getenv("IONIC_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("IONIC_DB_NAME"); v != "" {
		c.Database.Name = v
	}
	if v := os.Getenv("IONIC_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("IONIC_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// TokenTTL 返回令牌有效期
func (c *Config) TokenTTL() time.Duration {
	d, err := time.ParseDuration(c.Auth.TokenTTL)
	if err != nil {
		return 0
	}
	return d
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.TokenTTL() <= 0 {
		return fmt.Errorf("auth.token_ttl must be a positive duration, got %q", c.Auth.TokenTTL)
	}
	if c.Database.Enabled && (c.Database.Host == "" || c.Database.Name == "") {
		return errors.New("database.host and database.name are required when database is enabled")
	}
	return nil
}
