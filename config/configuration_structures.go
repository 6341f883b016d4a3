package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// MinSecretLength : минимальная длина секрета подписи JWT в байтах
const MinSecretLength = 32

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

func (c DatabaseConfig) Validate() error {
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("databaseConfig.dsn is required")
	}
	return nil
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

func (c RedisConfig) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("redisConfig.url is required")
	}
	return nil
}

type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Local     bool   `yaml:"local"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

type JWTConfig struct {
	SecretKey       string `yaml:"secret_key"`
	AccessTokenTTL  string `yaml:"access_token_ttl"`
	RefreshTokenTTL string `yaml:"refresh_token_ttl"`
}

// Validate : секрет не короче MinSecretLength, оба TTL парсятся и положительны
func (c JWTConfig) Validate() error {
	if len(c.SecretKey) < MinSecretLength {
		return fmt.Errorf("jwt.secret_key must be at least %d bytes, got %d", MinSecretLength, len(c.SecretKey))
	}
	if _, err := parsePositiveDuration("jwt.access_token_ttl", c.AccessTokenTTL); err != nil {
		return err
	}
	if _, err := parsePositiveDuration("jwt.refresh_token_ttl", c.RefreshTokenTTL); err != nil {
		return err
	}
	return nil
}

// AccessTTL : имеет смысл только после успешного Validate
func (c JWTConfig) AccessTTL() time.Duration {
	d, _ := time.ParseDuration(c.AccessTokenTTL)
	return d
}

func (c JWTConfig) RefreshTTL() time.Duration {
	d, _ := time.ParseDuration(c.RefreshTokenTTL)
	return d
}

type SessionConfig struct {
	TTL string `yaml:"ttl"`
}

func (c SessionConfig) Validate() error {
	_, err := parsePositiveDuration("session.ttl", c.TTL)
	return err
}

func (c SessionConfig) Duration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

type StorageConfig struct {
	Provider      string `yaml:"provider"`
	LocalDir      string `yaml:"local_dir"`
	PublicBaseURL string `yaml:"public_base_url"`
	SigningKey    string `yaml:"signing_key"`
	UploadURLTTL  string `yaml:"upload_url_ttl"`
}

func (c StorageConfig) Validate() error {
	if _, err := parsePositiveDuration("storage.upload_url_ttl", c.UploadURLTTL); err != nil {
		return err
	}
	switch c.Provider {
	case "s3":
		return nil
	case "local":
		if c.LocalDir == "" {
			return fmt.Errorf("storage.local_dir is required for the local provider")
		}
		if _, err := url.ParseRequestURI(c.PublicBaseURL); err != nil {
			return fmt.Errorf("storage.public_base_url is invalid: %w", err)
		}
		if len(c.SigningKey) < MinSecretLength {
			return fmt.Errorf("storage.signing_key must be at least %d bytes", MinSecretLength)
		}
		return nil
	default:
		return fmt.Errorf("storage.provider must be one of s3, local; got %q", c.Provider)
	}
}

func (c StorageConfig) URLTTL() time.Duration {
	d, _ := time.ParseDuration(c.UploadURLTTL)
	return d
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

func (c KafkaConfig) Validate() error {
	if len(c.Brokers) > 0 && c.Topic == "" {
		return fmt.Errorf("kafka.topic is required when brokers are set")
	}
	return nil
}

type RouteConfig struct {
	Prefix      string `yaml:"prefix"`
	Upstream    string `yaml:"upstream"`
	StripPrefix string `yaml:"strip_prefix"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type GatewayConfig struct {
	PublicPrefixes []string        `yaml:"public_prefixes"`
	Routes         []RouteConfig   `yaml:"routes"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

func (c GatewayConfig) Validate() error {
	if len(c.Routes) == 0 {
		return fmt.Errorf("gateway.routes must not be empty")
	}
	for _, route := range c.Routes {
		if !strings.HasPrefix(route.Prefix, "/") {
			return fmt.Errorf("gateway route prefix %q must start with /", route.Prefix)
		}
		u, err := url.Parse(route.Upstream)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("gateway route %s: invalid upstream %q", route.Prefix, route.Upstream)
		}
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("gateway.rate_limit values must not be negative")
	}
	return nil
}

// CourseServiceConfig : адрес course-сервиса для проверки владельца курса из media
type CourseServiceConfig struct {
	URL string `yaml:"url"`
}

func (c CourseServiceConfig) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("courseService.url is invalid: %q", c.URL)
	}
	return nil
}

type AuthConfig struct {
	SetCookies   bool `yaml:"set_cookies"`
	CookieSecure bool `yaml:"cookie_secure"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

func parsePositiveDuration(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", name, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return d, nil
}
