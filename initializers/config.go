package initializers

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultAdminEmail = "admin@admin.com"

type Config struct {
	Port     string
	Env      string
	LogLevel string

	DBDriver string
	DBDSN    string

	RedisAddr     string
	RedisUsername string
	RedisPassword string
	RedisDB       int
	CartTTL       time.Duration

	JWTSecret  string
	TokenTTL   time.Duration
	AdminEmail string

	AllowedOrigins []string

	S3Bucket      string
	UploadDir     string
	PublicBaseURL string

	ReceiptSink string
	SMTP        SMTPConfig

	PaymentGatewayURL string
	PaymentGatewayKey string
}

type SMTPConfig struct {
	From     string
	Password string
	Host     string
	Address  string
}

// LoadEnv reads a .env file into the process environment when one exists.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file loaded, using process environment", "error", err)
	}
}

func LoadConfig() (Config, error) {
	LoadEnv()

	cfg := Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DBDSN:    os.Getenv("DB_DSN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		AdminEmail: strings.ToLower(getEnv("ADMIN_EMAIL", defaultAdminEmail)),

		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),

		S3Bucket:      os.Getenv("S3_BUCKET"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL: strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),

		ReceiptSink: strings.ToLower(getEnv("RECEIPT_SINK", "storage")),
		SMTP: SMTPConfig{
			From:     os.Getenv("FROM_EMAIL"),
			Password: os.Getenv("FROM_EMAIL_PASSWORD"),
			Host:     os.Getenv("FROM_EMAIL_SMTP"),
			Address:  os.Getenv("SMTP_ADDRESS"),
		},

		PaymentGatewayURL: strings.TrimRight(os.Getenv("PAYMENT_GATEWAY_URL"), "/"),
		PaymentGatewayKey: os.Getenv("PAYMENT_GATEWAY_KEY"),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.CartTTL, err = getDuration("CART_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 720*time.Hour); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.ReceiptSink {
	case "storage", "email", "none":
	default:
		return fmt.Errorf("unsupported RECEIPT_SINK %q", c.ReceiptSink)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
