package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Identity provider names accepted in AUTH_PROVIDER
const (
	AuthProviderJWT      = "jwt"
	AuthProviderFirebase = "firebase"
)

// Database drivers accepted in DATABASE_DRIVER
const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

// Config holds every setting the server reads at startup
type Config struct {
	Port        string
	GinMode     string
	AdminEmail  string
	ClientURL   string
	CorsOrigins []string
	Database    DatabaseConfig
	Redis       RedisConfig
	Auth        AuthConfig
	Payment     PaymentConfig
	Mail        MailConfig
	RateLimit   RateLimitConfig
}

type DatabaseConfig struct {
	Driver     string
	DSN        string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SqlitePath string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
	RoleTTL  time.Duration
}

type AuthConfig struct {
	Provider            string
	JWTSecret           string
	FirebaseCredentials string
}

type PaymentConfig struct {
	StripeSecretKey string
	Currency        string
}

type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

// Enabled reports whether winner notifications can be sent
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.Username != ""
}

// PostgresDSN returns DATABASE_DSN if set, otherwise builds one from the POSTGRES_* settings
func (d DatabaseConfig) PostgresDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=disable TimeZone=UTC",
		d.Host, d.Port, d.User, d.Name, d.Password)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("CLIENT_URL", "http://localhost:5173")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_DB", "contesthub")
	v.SetDefault("SQLITE_PATH", "contesthub.db")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("ROLE_CACHE_TTL", "5m")
	v.SetDefault("AUTH_PROVIDER", AuthProviderFirebase)
	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("MAIL_PORT", "587")
	v.SetDefault("RATE_LIMIT_RATE", DefaultRateLimitConfig.Rate)
	v.SetDefault("RATE_LIMIT_BURST", DefaultRateLimitConfig.Burst)
}

// Load reads an optional .env file, then the environment, and returns the resulting Config.
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:        v.GetString("PORT"),
		GinMode:     v.GetString("GIN_MODE"),
		AdminEmail:  strings.ToLower(strings.TrimSpace(v.GetString("ADMIN_EMAIL"))),
		ClientURL:   strings.TrimRight(v.GetString("CLIENT_URL"), "/"),
		CorsOrigins: splitList(v.GetString("CORS_ORIGINS")),
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("DATABASE_DRIVER")),
			DSN:        v.GetString("DATABASE_DSN"),
			Host:       v.GetString("POSTGRES_HOST"),
			Port:       v.GetString("POSTGRES_PORT"),
			User:       v.GetString("POSTGRES_USER"),
			Password:   v.GetString("POSTGRES_PASSWORD"),
			Name:       v.GetString("POSTGRES_DB"),
			SqlitePath: v.GetString("SQLITE_PATH"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			RoleTTL:  v.GetDuration("ROLE_CACHE_TTL"),
		},
		Auth: AuthConfig{
			Provider:            strings.ToLower(v.GetString("AUTH_PROVIDER")),
			JWTSecret:           v.GetString("JWT_SECRET"),
			FirebaseCredentials: v.GetString("FIREBASE_CREDENTIALS"),
		},
		Payment: PaymentConfig{
			StripeSecretKey: v.GetString("STRIPE_SECRET_KEY"),
			Currency:        strings.ToLower(v.GetString("PAYMENT_CURRENCY")),
		},
		Mail: MailConfig{
			Host:     v.GetString("MAIL_HOST"),
			Port:     v.GetString("MAIL_PORT"),
			Username: v.GetString("MAIL_USERNAME"),
			Password: v.GetString("MAIL_PASSWORD"),
		},
		RateLimit: RateLimitConfig{
			Rate:     v.GetInt("RATE_LIMIT_RATE"),
			Burst:    v.GetInt("RATE_LIMIT_BURST"),
			Interval: DefaultRateLimitConfig.Interval,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no usable default
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSqlite:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver)
	}
	switch c.Auth.Provider {
	case AuthProviderJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_PROVIDER=%s", AuthProviderJWT)
		}
	case AuthProviderFirebase:
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER %q", c.Auth.Provider)
	}
	if c.RateLimit.Rate <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit rate and burst must be positive")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
