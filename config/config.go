package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Session    SessionConfig    `yaml:"session"`
	Auth       AuthConfig       `yaml:"auth"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	TextGen    TextGenConfig    `yaml:"textgen"`
}

// WorkerPoolConfig holds the configuration for the web push worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are present.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port             int     `yaml:"port"`
	RateLimitPerSec  float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst   int     `yaml:"rate_limit_burst"`
	LoginLimitPerMin float64 `yaml:"login_limit_per_min"`
	CacheTTLSeconds  int     `yaml:"cache_ttl_seconds"`
	SecureCookies    bool    `yaml:"secure_cookies"`
	Timezone         string  `yaml:"timezone"`

	Location *time.Location `yaml:"-"`
}

// CacheTTL is how long public catalog responses are cached.
func (s ServerConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                    string `yaml:"driver"` // postgres or sqlite
	DSN                       string `yaml:"dsn"`
	MaxOpenConns              int    `yaml:"max_open_conns"`
	MaxIdleConns              int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes    int    `yaml:"conn_max_lifetime_minutes"`
	EnableExclusionConstraint bool   `yaml:"enable_exclusion_constraint"`
	Seed                      bool   `yaml:"seed"`
}

// SessionConfig controls session signing and lifetime.
type SessionConfig struct {
	Secret               string `yaml:"secret"`
	TTLHours             int    `yaml:"ttl_hours"`
	Sliding              bool   `yaml:"sliding"`
	SweepIntervalSeconds int    `yaml:"sweep_interval_seconds"`

	TTL           time.Duration `yaml:"-"`
	SweepInterval time.Duration `yaml:"-"`
}

// AuthConfig holds admin registration and password hashing settings.
type AuthConfig struct {
	// InviteCode is a single shared secret for admin self-registration.
	// Anyone holding it can become an admin; rotate it by redeploying.
	InviteCode string    `yaml:"invite_code"`
	BcryptCost int       `yaml:"bcrypt_cost"`
	SeedAdmin  SeedAdmin `yaml:"seed_admin"`
}

// SeedAdmin is an optional admin account created at startup if missing.
type SeedAdmin struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// TextGenConfig points at the text-generation service.
type TextGenConfig struct {
	URL            string `yaml:"url"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`

	Timeout time.Duration `yaml:"-"`
}

// secrets are read from the environment (optionally via a .env file) and
// override whatever the YAML file says.
type secrets struct {
	DatabaseDSN     string `envconfig:"DATABASE_DSN"`
	SessionSecret   string `envconfig:"SESSION_SECRET"`
	AdminInviteCode string `envconfig:"ADMIN_INVITE_CODE"`
	TextGenAPIKey   string `envconfig:"TEXTGEN_API_KEY"`
	VAPIDPublicKey  string `envconfig:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `envconfig:"VAPID_PRIVATE_KEY"`
}

// EnvPrefix prefixes every environment override, e.g. HOTEL_SESSION_SECRET.
const EnvPrefix = "HOTEL"

// Load reads the configuration from the given path, then applies
// environment overrides.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env file: %v", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	var env secrets
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	if env.DatabaseDSN != "" {
		cfg.Database.DSN = env.DatabaseDSN
	}
	if env.SessionSecret != "" {
		cfg.Session.Secret = env.SessionSecret
	}
	if env.AdminInviteCode != "" {
		cfg.Auth.InviteCode = env.AdminInviteCode
	}
	if env.TextGenAPIKey != "" {
		cfg.TextGen.APIKey = env.TextGenAPIKey
	}
	if env.VAPIDPublicKey != "" {
		cfg.Push.PublicKey = env.VAPIDPublicKey
	}
	if env.VAPIDPrivateKey != "" {
		cfg.Push.PrivateKey = env.VAPIDPrivateKey
	}
	return nil
}

// ApplyDefaults fills unset fields and derives durations and the timezone.
func (cfg *Config) ApplyDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.LoginLimitPerMin <= 0 {
		cfg.Server.LoginLimitPerMin = 10
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}
	if cfg.Server.Timezone == "" {
		cfg.Server.Timezone = "UTC"
	}
	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", cfg.Server.Timezone, err)
	}
	cfg.Server.Location = loc

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}

	if cfg.Session.TTLHours <= 0 {
		cfg.Session.TTLHours = 24
	}
	cfg.Session.TTL = time.Duration(cfg.Session.TTLHours) * time.Hour
	if cfg.Session.SweepIntervalSeconds <= 0 {
		cfg.Session.SweepIntervalSeconds = 600
	}
	cfg.Session.SweepInterval = time.Duration(cfg.Session.SweepIntervalSeconds) * time.Second

	if cfg.Auth.BcryptCost <= 0 {
		cfg.Auth.BcryptCost = 10
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.TextGen.TimeoutSeconds <= 0 {
		cfg.TextGen.TimeoutSeconds = 30
	}
	cfg.TextGen.Timeout = time.Duration(cfg.TextGen.TimeoutSeconds) * time.Second

	return nil
}
