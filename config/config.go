package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultServerAddress     = ":8080"
	defaultDatabaseDSN       = ""
	defaultLogLevel          = "debug"
	defaultPlaidBaseURL      = "https://sandbox.plaid.com"
	defaultRedisAddr         = ""
	defaultPromoCacheTTL     = time.Minute
	defaultSMTPAddr          = ""
	defaultMailFrom          = "orders@localhost"
	defaultRateLimitRequests = 60
	defaultRateLimitWindow   = time.Minute
)

type Config struct {
	ServerAddr        string
	DatabaseDSN       string
	LogLevel          string
	AuthSecretKey     string
	VaultMasterKey    string
	PlaidBaseURL      string
	PlaidClientID     string
	PlaidSecret       string
	RedisAddr         string
	PromoCacheTTL     time.Duration
	SMTPAddr          string
	SMTPUsername      string
	SMTPPassword      string
	MailFrom          string
	OpsEmail          string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

var (
	once      sync.Once
	singleton *Config
	loadErr   error
)

// New returns new Config. It parses .env file, command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		// .env is optional
		_ = godotenv.Load()

		singleton, loadErr = load(flag.CommandLine, os.Args[1:], os.LookupEnv)
	})

	return singleton, loadErr
}

func load(fs *flag.FlagSet, args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := Config{}

	// initialize flags
	fs.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "server address")
	fs.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "database DSN")
	fs.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
	fs.StringVar(&cfg.AuthSecretKey, "k", "", "hex encoded auth token key")
	fs.StringVar(&cfg.VaultMasterKey, "v", "", "hex encoded vault master key")
	fs.StringVar(&cfg.PlaidBaseURL, "p", defaultPlaidBaseURL, "plaid API base URL")
	fs.StringVar(&cfg.RedisAddr, "redis", defaultRedisAddr, "redis address for promo cache")
	fs.DurationVar(&cfg.PromoCacheTTL, "promo-cache-ttl", defaultPromoCacheTTL, "promo cache TTL")
	fs.StringVar(&cfg.SMTPAddr, "smtp", defaultSMTPAddr, "smtp server address")
	fs.StringVar(&cfg.MailFrom, "mail-from", defaultMailFrom, "notification sender")
	fs.StringVar(&cfg.OpsEmail, "ops-email", "", "operator address for fraud alerts")
	fs.IntVar(&cfg.RateLimitRequests, "rate-limit", defaultRateLimitRequests, "requests per window per caller")
	fs.DurationVar(&cfg.RateLimitWindow, "rate-window", defaultRateLimitWindow, "rate limit window")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// if environment variable is set, then using it
	strEnv := map[string]*string{
		"RUN_ADDRESS":      &cfg.ServerAddr,
		"DATABASE_URI":     &cfg.DatabaseDSN,
		"LOG_LEVEL":        &cfg.LogLevel,
		"AUTH_SECRET_KEY":  &cfg.AuthSecretKey,
		"VAULT_MASTER_KEY": &cfg.VaultMasterKey,
		"PLAID_BASE_URL":   &cfg.PlaidBaseURL,
		"PLAID_CLIENT_ID":  &cfg.PlaidClientID,
		"PLAID_SECRET":     &cfg.PlaidSecret,
		"REDIS_ADDR":       &cfg.RedisAddr,
		"SMTP_ADDR":        &cfg.SMTPAddr,
		"SMTP_USERNAME":    &cfg.SMTPUsername,
		"SMTP_PASSWORD":    &cfg.SMTPPassword,
		"MAIL_FROM":        &cfg.MailFrom,
		"OPS_EMAIL":        &cfg.OpsEmail,
	}
	for key, dst := range strEnv {
		if val, ok := lookupEnv(key); ok && val != "" {
			*dst = val
		}
	}

	durEnv := map[string]*time.Duration{
		"PROMO_CACHE_TTL":   &cfg.PromoCacheTTL,
		"RATE_LIMIT_WINDOW": &cfg.RateLimitWindow,
	}
	for key, dst := range durEnv {
		if val, ok := lookupEnv(key); ok && val != "" {
			d, err := time.ParseDuration(val)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", key, err)
			}
			*dst = d
		}
	}

	if val, ok := lookupEnv("RATE_LIMIT_REQUESTS"); ok && val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("parse RATE_LIMIT_REQUESTS: %w", err)
		}
		cfg.RateLimitRequests = n
	}

	return &cfg, nil
}
