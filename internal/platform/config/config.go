package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	DatabaseURL string
	LogLevel    string
	LogFormat   string
	TxTimeout   time.Duration

	Redis      RedisConfig
	Kafka      KafkaConfig
	Auth       AuthConfig
	SMTP       SMTPConfig
	FaceMatch  ClientConfig
	Registry   ClientConfig
	Finstat    FinstatConfig
	Links      LinksConfig
	Admin      AdminConfig
	Notify     NotifyConfig
	Enrichment EnrichmentConfig
	RateLimit  RateLimitConfig
	Breaker    BreakerConfig
}

// RedisConfig configures the optional Redis connection. An empty URL disables it.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the audit event sink. No brokers means log-only audit.
type KafkaConfig struct {
	Brokers    []string
	AuditTopic string
}

type AuthConfig struct {
	JWTSigningKey string
	JWTIssuer     string
	TokenTTL      time.Duration
	ResetTokenTTL time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ClientConfig is the shared shape of outbound collaborator clients.
type ClientConfig struct {
	URL     string
	Timeout time.Duration
}

type FinstatConfig struct {
	URL        string
	APIKey     string
	PrivateKey string
	Timeout    time.Duration
}

// LinksConfig holds the front-end URLs embedded in emails.
type LinksConfig struct {
	VerificationBase string
	ResetBase        string
}

type AdminConfig struct {
	Email    string
	Password string
}

type NotifyConfig struct {
	Workers   int
	QueueSize int
}

type EnrichmentConfig struct {
	CacheTTL time.Duration
}

// RateLimitConfig sets per-IP limits for the unauthenticated routes. Counters
// live in Redis when it is configured.
type RateLimitConfig struct {
	Disabled       bool
	PublicRequests int
	AuthRequests   int
	Window         time.Duration
}

// BreakerConfig is shared by every outbound collaborator.
type BreakerConfig struct {
	FailureThreshold int
	Cooldown         time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:        getString("KYC_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		LogLevel:    getString("LOG_LEVEL", "info"),
		LogFormat:   getString("LOG_FORMAT", "json"),
		TxTimeout:   getDuration("TX_TIMEOUT", 5*time.Second),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(os.Getenv("KAFKA_BROKERS")),
			AuditTopic: getString("KAFKA_AUDIT_TOPIC", "kyc.audit"),
		},
		Auth: AuthConfig{
			// Use a default for development - should be overridden in production
			JWTSigningKey: getString("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			JWTIssuer:     getString("JWT_ISSUER", "kyc"),
			TokenTTL:      getDuration("JWT_TTL", 12*time.Hour),
			ResetTokenTTL: getDuration("RESET_TOKEN_TTL", time.Hour),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getString("SMTP_FROM", "kyc@localhost"),
		},
		FaceMatch: ClientConfig{
			URL:     getString("FACEMATCH_URL", "http://localhost:5000"),
			Timeout: getDuration("FACEMATCH_TIMEOUT", 30*time.Second),
		},
		Registry: ClientConfig{
			URL:     getString("REGISTRY_URL", "https://www.orsr.sk"),
			Timeout: getDuration("REGISTRY_TIMEOUT", 15*time.Second),
		},
		Finstat: FinstatConfig{
			URL:        getString("FINSTAT_URL", "https://www.finstat.sk/api/detail.json"),
			APIKey:     os.Getenv("FINSTAT_API_KEY"),
			PrivateKey: os.Getenv("FINSTAT_PRIVATE_KEY"),
			Timeout:    getDuration("FINSTAT_TIMEOUT", 10*time.Second),
		},
		Links: LinksConfig{
			VerificationBase: getString("VERIFICATION_LINK_BASE", "http://localhost:3000/login"),
			ResetBase:        getString("RESET_LINK_BASE", "http://localhost:3000/reset-password"),
		},
		Admin: AdminConfig{
			Email:    os.Getenv("ADMIN_MAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		Notify: NotifyConfig{
			Workers:   getInt("NOTIFY_WORKERS", 4),
			QueueSize: getInt("NOTIFY_QUEUE_SIZE", 256),
		},
		Enrichment: EnrichmentConfig{
			CacheTTL: getDuration("ENRICHMENT_CACHE_TTL", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Disabled:       getBool("RATE_LIMIT_DISABLED", false),
			PublicRequests: getInt("RATE_LIMIT_PUBLIC", 30),
			AuthRequests:   getInt("RATE_LIMIT_AUTH", 10),
			Window:         getDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Breaker: BreakerConfig{
			FailureThreshold: getInt("BREAKER_FAILURES", 5),
			Cooldown:         getDuration("BREAKER_COOLDOWN", 30*time.Second),
		},
	}
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
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
