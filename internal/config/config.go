package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	JWTSecret       string
	LogLevel        string
	ShutdownTimeout time.Duration

	Autopay AutopayConfig
	Med24   Med24Config
	Visits  VisitConfig
	S3      S3Config
	SMTP    SMTPConfig
}

// AutopayConfig describes the payment gateway registration.
type AutopayConfig struct {
	ServiceID  string
	SharedKey  string
	GatewayURL string
	Price      string
	Currency   string
}

// Med24Config points at the telemedicine visit booking API.
type Med24Config struct {
	BaseURL       string
	APIToken      string
	ServiceID     string
	ChannelKind   string
	BookingIntent string
	Timeout       time.Duration
}

// VisitConfig tunes the background visit booking worker.
type VisitConfig struct {
	PollInterval time.Duration
	WorkerPool   int
	BatchSize    int
	Lease        time.Duration
	RetryBase    time.Duration
	MaxAttempts  int
}

// S3Config enables the summary archive when Endpoint is set.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// SMTPConfig enables patient e-mails when Host is set.
type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	TLS      bool
}

const (
	defaultRunAddress        = ":8080"
	defaultJWTSecret         = "change-me-in-production"
	defaultLogLevel          = "info"
	defaultShutdownTimeout   = 10 * time.Second
	defaultGatewayURL        = "https://pay.autopay.eu/payment"
	defaultPrice             = "79.00"
	defaultCurrency          = "PLN"
	defaultChannelKind       = "ezla_web"
	defaultBookingIntent     = "sick_leave"
	defaultMed24Timeout      = 10 * time.Second
	defaultVisitPollInterval = 30 * time.Second
	defaultVisitWorkerPool   = 2
	defaultVisitBatchSize    = 16
	defaultVisitLease        = 5 * time.Minute
	defaultVisitRetryBase    = time.Minute
	defaultVisitMaxAttempts  = 10
	defaultS3Bucket          = "ezla-summaries"
	defaultS3Region          = "us-east-1"
	defaultSMTPPort          = "587"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		JWTSecret:       getString(lookup, "JWT_SECRET", defaultJWTSecret),
		LogLevel:        getString(lookup, "LOG_LEVEL", defaultLogLevel),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		Autopay: AutopayConfig{
			ServiceID:  getString(lookup, "AUTOPAY_SERVICE_ID", ""),
			SharedKey:  getString(lookup, "AUTOPAY_SHARED_KEY", ""),
			GatewayURL: getString(lookup, "AUTOPAY_GATEWAY_URL", defaultGatewayURL),
			Price:      getString(lookup, "CASE_PRICE", defaultPrice),
			Currency:   getString(lookup, "CASE_CURRENCY", defaultCurrency),
		},
		Med24: Med24Config{
			BaseURL:       getString(lookup, "MED24_BASE_URL", ""),
			APIToken:      getString(lookup, "MED24_API_TOKEN", ""),
			ServiceID:     getString(lookup, "MED24_SERVICE_ID", ""),
			ChannelKind:   getString(lookup, "MED24_CHANNEL_KIND", defaultChannelKind),
			BookingIntent: getString(lookup, "MED24_BOOKING_INTENT", defaultBookingIntent),
			Timeout:       getDuration(lookup, "MED24_TIMEOUT", defaultMed24Timeout),
		},
		Visits: VisitConfig{
			PollInterval: getDuration(lookup, "VISIT_POLL_INTERVAL", defaultVisitPollInterval),
			WorkerPool:   getInt(lookup, "VISIT_WORKER_POOL_SIZE", defaultVisitWorkerPool),
			BatchSize:    getInt(lookup, "VISIT_BATCH_SIZE", defaultVisitBatchSize),
			Lease:        getDuration(lookup, "VISIT_LEASE", defaultVisitLease),
			RetryBase:    getDuration(lookup, "VISIT_RETRY_BASE", defaultVisitRetryBase),
			MaxAttempts:  getInt(lookup, "VISIT_MAX_ATTEMPTS", defaultVisitMaxAttempts),
		},
		S3: S3Config{
			Endpoint:  getString(lookup, "S3_ENDPOINT", ""),
			AccessKey: getString(lookup, "S3_ACCESS_KEY", ""),
			SecretKey: getString(lookup, "S3_SECRET_KEY", ""),
			Bucket:    getString(lookup, "S3_BUCKET", defaultS3Bucket),
			Region:    getString(lookup, "S3_REGION", defaultS3Region),
			UseSSL:    getBool(lookup, "S3_USE_SSL", true),
		},
		SMTP: SMTPConfig{
			Host:     getString(lookup, "SMTP_HOST", ""),
			Port:     getString(lookup, "SMTP_PORT", defaultSMTPPort),
			User:     getString(lookup, "SMTP_USER", ""),
			Password: getString(lookup, "SMTP_PASSWORD", ""),
			From:     getString(lookup, "SMTP_FROM", ""),
			TLS:      getBool(lookup, "SMTP_TLS", false),
		},
	}

	fs := flag.NewFlagSet("portal", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		pollIntervalStr    = cfg.Visits.PollInterval.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.Med24.BaseURL, "m", cfg.Med24.BaseURL, "Med24 API base URL")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.Autopay.ServiceID, "autopay-service-id", cfg.Autopay.ServiceID, "Autopay service identifier")
	fs.StringVar(&cfg.Autopay.GatewayURL, "autopay-gateway", cfg.Autopay.GatewayURL, "Autopay payment page URL")
	fs.IntVar(&cfg.Visits.WorkerPool, "visit-workers", cfg.Visits.WorkerPool, "Number of concurrent visit booking workers")
	fs.IntVar(&cfg.Visits.BatchSize, "visit-batch", cfg.Visits.BatchSize, "Maximum cases per visit polling batch")
	fs.StringVar(&pollIntervalStr, "visit-poll-interval", pollIntervalStr, "Interval between visit booking polls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.Visits.PollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid visit poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	secretFiles := []struct {
		env    string
		target *string
	}{
		{"JWT_SECRET_FILE", &cfg.JWTSecret},
		{"AUTOPAY_SHARED_KEY_FILE", &cfg.Autopay.SharedKey},
		{"MED24_API_TOKEN_FILE", &cfg.Med24.APIToken},
		{"S3_SECRET_KEY_FILE", &cfg.S3.SecretKey},
		{"SMTP_PASSWORD_FILE", &cfg.SMTP.Password},
	}
	for _, sf := range secretFiles {
		path, ok := lookup(sf.env)
		if !ok || path == "" {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", strings.ToLower(sf.env), err)
		}
		*sf.target = strings.TrimSpace(string(content))
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.Med24.Timeout <= 0 {
		cfg.Med24.Timeout = defaultMed24Timeout
	}
	if cfg.Visits.PollInterval <= 0 {
		cfg.Visits.PollInterval = defaultVisitPollInterval
	}
	if cfg.Visits.WorkerPool <= 0 {
		cfg.Visits.WorkerPool = defaultVisitWorkerPool
	}
	if cfg.Visits.BatchSize <= 0 {
		cfg.Visits.BatchSize = defaultVisitBatchSize
	}
	if cfg.Visits.Lease <= 0 {
		cfg.Visits.Lease = defaultVisitLease
	}
	if cfg.Visits.RetryBase <= 0 {
		cfg.Visits.RetryBase = defaultVisitRetryBase
	}
	if cfg.Visits.MaxAttempts <= 0 {
		cfg.Visits.MaxAttempts = defaultVisitMaxAttempts
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}
	if cfg.Autopay.ServiceID == "" {
		return nil, fmt.Errorf("autopay service id must be provided")
	}
	if cfg.Autopay.SharedKey == "" {
		return nil, fmt.Errorf("autopay shared key must be provided")
	}
	if cfg.Med24.BaseURL == "" {
		return nil, fmt.Errorf("med24 base url must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
