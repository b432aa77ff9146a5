package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// MinSessionSecretLength is the shortest SESSION_SECRET accepted for signing
// the admin session cookie.
const MinSessionSecretLength = 32

// placeholderSessionSecret is the value older .env.example files shipped.
const placeholderSessionSecret = "change-me-session-secret"

// ErrInsecureSessionSecret is returned when SESSION_SECRET is unset, too short
// or still the published placeholder.
var ErrInsecureSessionSecret = errors.New("SESSION_SECRET must be set to a private random value of at least 32 bytes")

// Config holds all configuration for the application
type Config struct {
	Port    string
	Env     string
	SiteURL string

	DatabaseURL string

	BillplzAPIKey       string
	BillplzCollectionID string
	BillplzSandbox      bool
	BillplzSignatureKey string
	PromoCode           string

	StripeSecretKey     string
	StripeWebhookSecret string

	GeminiAPIKey string
	GeminiModel  string

	ResendAPIKey string
	MailFrom     string
	ContactInbox string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	SupabaseJWTSecret string
	SessionSecret     string
	AdminEmail        string
	AdminPasswordHash string
	AdminJWTSecret    string

	SitemapPolicyPath string
	LogDir            string
}

// LoadConfig loads configuration from the environment. A .env file is read
// when present; its absence is not an error since production injects the
// variables directly.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %v", err)
	}

	smtpPort := 587
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %v", raw, err)
		}
		smtpPort = p
	}

	config := &Config{
		Port:    getEnv("PORT", "8080"),
		Env:     getEnv("ENV", "development"),
		SiteURL: strings.TrimRight(os.Getenv("NEXT_PUBLIC_SITE_URL"), "/"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		BillplzAPIKey:       os.Getenv("BILLPLZ_API_SECRET_KEY"),
		BillplzCollectionID: os.Getenv("BILLPLZ_COLLECTION_ID"),
		BillplzSandbox:      parseBool(os.Getenv("BILLPLZ_SANDBOX")),
		BillplzSignatureKey: os.Getenv("BILLPLZ_X_SIGNATURE_KEY"),
		PromoCode:           getEnv("PROMO_CODE", "LAUNCH50"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		MailFrom:     getEnv("MAIL_FROM", "hello@nusadigital.my"),
		ContactInbox: getEnv("CONTACT_INBOX", "hello@nusadigital.my"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     smtpPort,
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),

		SupabaseJWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		AdminEmail:        os.Getenv("ADMIN_EMAIL"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminJWTSecret:    os.Getenv("ADMIN_JWT_SECRET"),

		SitemapPolicyPath: getEnv("SITEMAP_POLICY", "sitemap.yaml"),
		LogDir:            getEnv("LOG_DIR", "logs"),
	}

	if config.SiteURL == "" {
		config.SiteURL = "http://localhost:3000"
	}

	return config, nil
}

// ValidateSessionSecret rejects secrets anyone could use to sign an admin
// session cookie.
func (c *Config) ValidateSessionSecret() error {
	secret := strings.TrimSpace(c.SessionSecret)
	if secret == "" || secret == placeholderSessionSecret || len(secret) < MinSessionSecretLength {
		return ErrInsecureSessionSecret
	}
	return nil
}

// IsProduction reports whether the app runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func parseBool(v string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	return err == nil && b
}
