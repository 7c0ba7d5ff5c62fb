package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AdminPhonesEnv names the comma-separated admin allow-list. It is read on
// every admin check rather than captured in Config, so membership changes take
// effect without a restart.
const AdminPhonesEnv = "ADMIN_PHONE_NUMBERS"

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	JWTSecret         string
	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration

	VerificationStore string // "memory" | "dynamo" | "redis"
	RedisAddr         string
	RedisPassword     string

	MessagingProvider    string // "whatsapp" | "sms" | "log"
	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string
	SNSRegion            string

	RateLimitRPS   float64
	RateLimitBurst int

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users             string
	UserPhones        string
	EstateRequests    string
	Notifications     string
	VerificationCodes string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "5001"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:             getEnv("DYNAMO_TABLE_USERS", "users"),
			UserPhones:        getEnv("DYNAMO_TABLE_USER_PHONES", "user_phones"),
			EstateRequests:    getEnv("DYNAMO_TABLE_ESTATE_REQUESTS", "estate_requests"),
			Notifications:     getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			VerificationCodes: getEnv("DYNAMO_TABLE_VERIFICATION_CODES", "verification_codes"),
		},
		JWTSecret:            getEnv("JWT_SECRET", "change-me-in-production"),
		JWTPrivateKeyPath:    getEnv("JWT_PRIVATE_KEY_PATH", ""),
		JWTPublicKeyPath:     getEnv("JWT_PUBLIC_KEY_PATH", ""),
		JWTExpiry:            time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,
		VerificationStore:    getEnv("VERIFICATION_STORE", "memory"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		MessagingProvider:    getEnv("MESSAGING_PROVIDER", "whatsapp"),
		TwilioAccountSID:     getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppNumber: getEnv("TWILIO_WHATSAPP_NUMBER", "whatsapp:+14155238886"),
		SNSRegion:            getEnv("SNS_REGION", "us-east-1"),
		RateLimitRPS:         getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst:       getEnvInt("RATE_LIMIT_BURST", 10),
		AllowedOrigins:       strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// IsProduction reports whether verification codes must stay out of responses.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// AdminPhones returns the current admin allow-list.
func AdminPhones() []string {
	return ParsePhoneList(os.Getenv(AdminPhonesEnv))
}

// ParsePhoneList splits a comma-separated list, trimming blanks.
func ParsePhoneList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
