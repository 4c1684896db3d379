package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type Server struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // debug | release | test
}

type Database struct {
	Driver       string `yaml:"driver"` // postgres | sqlite
	DSN          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	AutoMigrate  bool   `yaml:"auto_migrate"`
}

type Auth struct {
	JWTSecret  string        `yaml:"jwt_secret"`
	AccessTTL  time.Duration `yaml:"access_ttl"`
	RefreshTTL time.Duration `yaml:"refresh_ttl"`
}

type Email struct {
	Enabled      bool   `yaml:"enabled"`
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
}

type Telegram struct {
	BotToken string `yaml:"bot_token"`
}

type Realtime struct {
	SendBuffer     int      `yaml:"send_buffer"`
	MaxMessageSize int64    `yaml:"max_message_size"`
	RatePerSecond  float64  `yaml:"rate_per_second"`
	RateBurst      int      `yaml:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Files struct {
	FontPath string `yaml:"font_path"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json | console
}

type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Auth     Auth     `yaml:"auth"`
	Email    Email    `yaml:"email"`
	Telegram Telegram `yaml:"telegram"`
	Realtime Realtime `yaml:"realtime"`
	Files    Files    `yaml:"files"`
	Log      Log      `yaml:"log"`
}

// LoadConfig reads the YAML file at path, applies APP_* environment overrides
// and fills defaults. A missing file is not an error when the environment
// supplies everything that Validate requires.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is LoadConfig for process start-up.
func MustLoad(path string) *Config {
	cfg, err := LoadConfig(path)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("APP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("APP_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v, ok := os.LookupEnv("APP_DATABASE_URL"); ok {
		c.Database.DSN = v
	}
	if v, ok := os.LookupEnv("APP_DATABASE_DRIVER"); ok {
		c.Database.Driver = v
	}
	if v, ok := os.LookupEnv("APP_JWT_SECRET"); ok {
		c.Auth.JWTSecret = v
	}
	if v, ok := os.LookupEnv("APP_TELEGRAM_TOKEN"); ok {
		c.Telegram.BotToken = v
	}
	if v, ok := os.LookupEnv("APP_SMTP_PASSWORD"); ok {
		c.Email.SMTPPassword = v
	}
	if v, ok := os.LookupEnv("APP_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 20
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Auth.AccessTTL == 0 {
		c.Auth.AccessTTL = 15 * time.Minute
	}
	if c.Auth.RefreshTTL == 0 {
		c.Auth.RefreshTTL = 30 * 24 * time.Hour
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Realtime.SendBuffer == 0 {
		c.Realtime.SendBuffer = 256
	}
	if c.Realtime.MaxMessageSize == 0 {
		c.Realtime.MaxMessageSize = 64 * 1024
	}
	if c.Realtime.RatePerSecond == 0 {
		c.Realtime.RatePerSecond = 5
	}
	if c.Realtime.RateBurst == 0 {
		c.Realtime.RateBurst = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth.jwt_secret is required")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.url is required")
	}
	if c.Email.Enabled && (c.Email.SMTPHost == "" || c.Email.FromEmail == "") {
		return errors.New("email.smtp_host and email.from_email are required when email is enabled")
	}
	return nil
}
