package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"3000"`
	AppName     string `envconfig:"APP_NAME" default:"Jewelry Store API v1.0"`
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"*"`
	AutoMigrate bool   `envconfig:"AUTO_MIGRATE" default:"true"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"text"`

	Database Database
	JWT      JWT
	Argon2   Argon2
	Captcha  Captcha
	Orders   Orders
	Limits   Limits
	Seed     Seed
}

type Database struct {
	URL      string `envconfig:"DATABASE_URL"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD"`
	Name     string `envconfig:"DB_NAME" default:"jewelry_store"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Kolkata"`
}

// DSN prefers DATABASE_URL and otherwise assembles a keyword/value string.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
}

type JWT struct {
	Secret string        `envconfig:"JWT_SECRET" required:"true"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
	Issuer string        `envconfig:"JWT_ISSUER" default:"go-jewelry-store"`
}

type Argon2 struct {
	MemoryKiB   uint32 `envconfig:"ARGON2_MEMORY_KIB" default:"65536"`
	Iterations  uint32 `envconfig:"ARGON2_ITERATIONS" default:"3"`
	Parallelism uint8  `envconfig:"ARGON2_PARALLELISM" default:"2"`
}

// Captcha controls human verification on public checkout. Enabled is consulted
// on every request, so disabling it is a configuration decision.
type Captcha struct {
	Enabled   bool          `envconfig:"CAPTCHA_ENABLED" default:"true"`
	Secret    string        `envconfig:"CAPTCHA_SECRET"`
	VerifyURL string        `envconfig:"CAPTCHA_VERIFY_URL" default:"https://www.google.com/recaptcha/api/siteverify"`
	MinScore  float64       `envconfig:"CAPTCHA_MIN_SCORE" default:"0.5"`
	Timeout   time.Duration `envconfig:"CAPTCHA_TIMEOUT" default:"5s"`
}

type Orders struct {
	CodeFallback       bool   `envconfig:"ORDER_CODE_FALLBACK" default:"true"`
	AllocationAttempts int    `envconfig:"CODE_ALLOCATION_ATTEMPTS" default:"5"`
	WhatsAppNumber     string `envconfig:"WHATSAPP_NUMBER"`
	DeliveryMinDays    int    `envconfig:"DELIVERY_MIN_DAYS" default:"5"`
	DeliveryMaxDays    int    `envconfig:"DELIVERY_MAX_DAYS" default:"7"`
}

type Limits struct {
	LoginMax    int           `envconfig:"LOGIN_RATE_LIMIT" default:"5"`
	LoginWindow time.Duration `envconfig:"LOGIN_RATE_WINDOW" default:"15m"`
	OrderMax    int           `envconfig:"ORDER_RATE_LIMIT" default:"10"`
	OrderWindow time.Duration `envconfig:"ORDER_RATE_WINDOW" default:"15m"`
}

type Seed struct {
	AdminEmail    string `envconfig:"SEED_ADMIN_EMAIL"`
	AdminPassword string `envconfig:"SEED_ADMIN_PASSWORD"`
	AdminName     string `envconfig:"SEED_ADMIN_NAME" default:"Store Owner"`
}

// Load reads .env when present and decodes the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug(".env file not found, relying on process environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET must not be empty")
	}
	return &cfg, nil
}
