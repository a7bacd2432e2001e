package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/mailer"
	"github.com/aussiebroadwan/accounts/pkg/jwtx"
)

// Store and mail drivers.
const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"

	MailSMTP = "smtp"
	MailLog  = "log"
)

type Config struct {
	Env                  string        // dev, staging, prod (default: dev)
	LogLevel             string        // debug, info, warn, error (default: info)
	LogFormat            string        // json, text (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // expired session sweep interval (default: 1h)

	StoreDriver   string // sqlite or mongo (default: sqlite)
	DatabaseFile  string // SQLite database path (default: ./accounts.db)
	MongoURI      string // (default: mongodb://localhost:27017)
	MongoDatabase string // (default: accounts)

	PepperFile string        // password pepper, created on first start (default: ./pepper)
	Issuer     string        // token issuer (default: accounts)
	Algorithm  string        // HS256 or EdDSA (default: HS256)
	JWTSecret  string        // HS256 secret, at least 32 bytes
	SessionTTL time.Duration // session lifetime (default: 720h)

	ClientURL string // prefix of the links in emails (default: http://localhost:3000/)

	MailDriver string // smtp or log (default: smtp)
	SMTP       mailer.SMTPConfig
}

func LoadConfig() Config {
	return Config{
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),

		StoreDriver:   strings.ToLower(getEnvOrDefault("STORE_DRIVER", StoreSQLite)),
		DatabaseFile:  getEnvOrDefault("DATABASE_FILE", "accounts.db"),
		MongoURI:      getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGO_DATABASE", "accounts"),

		PepperFile: getEnvOrDefault("PEPPER_FILE", "pepper"),
		Issuer:     getEnvOrDefault("AUTH_ISSUER", "accounts"),
		Algorithm:  getEnvOrDefault("AUTH_ALGORITHM", jwtx.AlgorithmHS256),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		SessionTTL: getEnvDurationOrDefault("SESSION_TTL", jwtx.DefaultSessionTTL),

		ClientURL: getEnvOrDefault("CLIENT_URL", "http://localhost:3000/"),

		MailDriver: strings.ToLower(getEnvOrDefault("MAIL_DRIVER", MailSMTP)),
		SMTP: mailer.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvIntOrDefault("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
			TLS:      getEnvOrDefault("SMTP_TLS", mailer.TLSOpportunistic),
			Timeout:  getEnvDurationOrDefault("SMTP_TIMEOUT", 15*time.Second),
		},
	}
}

// Validate rejects combinations New cannot start with.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreSQLite, StoreMongo:
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q (supported: sqlite, mongo)", c.StoreDriver)
	}

	switch c.MailDriver {
	case MailSMTP:
		if c.SMTP.Host == "" || c.SMTP.From == "" {
			return fmt.Errorf("MAIL_DRIVER=smtp requires SMTP_HOST and SMTP_FROM")
		}
	case MailLog:
	default:
		return fmt.Errorf("unsupported MAIL_DRIVER %q (supported: smtp, log)", c.MailDriver)
	}

	if c.Algorithm == jwtx.AlgorithmHS256 && c.JWTSecret == "" && c.Env != "dev" {
		return fmt.Errorf("JWT_SECRET is required for HS256 outside dev")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
