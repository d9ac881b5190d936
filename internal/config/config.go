package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type ServerConfig struct {
	Port         int             `yaml:"port" env:"PORT"`
	Mode         string          `yaml:"mode" env:"MODE"` // gin mode: debug | release | test
	CORSOrigin   string          `yaml:"cors_origin" env:"CORS_ORIGIN"`
	MaxBodyBytes int64           `yaml:"max_body_bytes" env:"MAX_BODY_BYTES"`
	RateLimit    RateLimitConfig `yaml:"rate_limit" envPrefix:"RATE_LIMIT_"`
}

// RateLimitConfig bounds /api requests per client IP. Zero takes the
// default; a negative Requests disables the limiter.
type RateLimitConfig struct {
	Requests int           `yaml:"requests" env:"REQUESTS"`
	Window   time.Duration `yaml:"window" env:"WINDOW"`
}

type DatabaseConfig struct {
	// Empty DSN selects the in-memory store.
	DSN string `yaml:"url" env:"URL"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host" env:"SMTP_HOST"`
	SMTPPort     int    `yaml:"smtp_port" env:"SMTP_PORT"`
	SMTPUser     string `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
	FromEmail    string `yaml:"from_email" env:"FROM_EMAIL"`
	FromName     string `yaml:"from_name" env:"FROM_NAME"`
	DryRun       bool   `yaml:"dry_run" env:"DRY_RUN"`
}

type JWTConfig struct {
	Secret      string        `yaml:"secret" env:"SECRET"`
	TTL         time.Duration `yaml:"ttl" env:"TTL"`
	ExtendedTTL time.Duration `yaml:"extended_ttl" env:"EXTENDED_TTL"`
}

type OTPConfig struct {
	TTL time.Duration `yaml:"ttl" env:"TTL"`
}

type AuthConfig struct {
	BcryptCost int `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
}

type FilesConfig struct {
	FontPath string `yaml:"font_path" env:"FONT_PATH"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server" envPrefix:"SERVER_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DATABASE_"`
	Email    EmailConfig    `yaml:"email" envPrefix:"EMAIL_"`
	JWT      JWTConfig      `yaml:"jwt" envPrefix:"JWT_"`
	OTP      OTPConfig      `yaml:"otp" envPrefix:"OTP_"`
	Auth     AuthConfig     `yaml:"auth" envPrefix:"AUTH_"`
	Files    FilesConfig    `yaml:"files" envPrefix:"FILES_"`
	Log      LogConfig      `yaml:"log" envPrefix:"LOG_"`
}

// LoadConfig reads the YAML file at path (a missing file is fine), overlays
// environment variables and fills defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// env-only deployment
	default:
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = 10 << 20
	}
	if c.Server.RateLimit.Requests == 0 {
		c.Server.RateLimit.Requests = 100
	}
	if c.Server.RateLimit.Window <= 0 {
		c.Server.RateLimit.Window = 15 * time.Minute
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "HiveDesk"
	}
	if c.JWT.TTL <= 0 {
		c.JWT.TTL = 7 * 24 * time.Hour
	}
	if c.JWT.ExtendedTTL <= 0 {
		c.JWT.ExtendedTTL = 30 * 24 * time.Hour
	}
	if c.OTP.TTL <= 0 {
		c.OTP.TTL = 10 * time.Minute
	}
	if c.Auth.BcryptCost == 0 {
		c.Auth.BcryptCost = 12
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.JWT.Secret == "" && c.Server.Mode != "debug" && c.Server.Mode != "test" {
		return errors.New("jwt.secret must be set outside debug mode")
	}
	return nil
}
