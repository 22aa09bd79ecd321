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
	RunAddress       string
	DatabaseURI      string
	TransportAddress string
	TransportToken   string
	AdminPassword    string
	BotHandle        string
	SessionTTL       time.Duration
	SweepInterval    time.Duration
	ShutdownTimeout  time.Duration
	PageSize         int
	HistoryLimit     int
}

const (
	defaultRunAddress      = ":8080"
	defaultBotHandle       = "stampcardbot"
	defaultSessionTTL      = 5 * time.Minute
	defaultSweepInterval   = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultPageSize        = 5
	defaultHistoryLimit    = 10
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:       getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:      getString(lookup, "DATABASE_URI", ""),
		TransportAddress: getString(lookup, "TRANSPORT_ADDRESS", ""),
		TransportToken:   getString(lookup, "TRANSPORT_TOKEN", ""),
		AdminPassword:    getString(lookup, "ADMIN_PASSWORD", ""),
		BotHandle:        getString(lookup, "BOT_HANDLE", defaultBotHandle),
		SessionTTL:       getDuration(lookup, "SESSION_TTL", defaultSessionTTL),
		SweepInterval:    getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		ShutdownTimeout:  getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		PageSize:         getInt(lookup, "PAGE_SIZE", defaultPageSize),
		HistoryLimit:     getInt(lookup, "HISTORY_LIMIT", defaultHistoryLimit),
	}

	fs := flag.NewFlagSet("stampcard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		sessionTTLStr      = cfg.SessionTTL.String()
		sweepIntervalStr   = cfg.SweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.TransportAddress, "t", cfg.TransportAddress, "Messaging transport base URL")
	fs.StringVar(&cfg.BotHandle, "bot-handle", cfg.BotHandle, "Public bot handle used in deep links")
	fs.StringVar(&sessionTTLStr, "session-ttl", sessionTTLStr, "Password prompt expiry (0 disables)")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between session expiry sweeps")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.PageSize, "page-size", cfg.PageSize, "Members per console list page")
	fs.IntVar(&cfg.HistoryLimit, "history-limit", cfg.HistoryLimit, "Maximum history entries per view")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SessionTTL, err = time.ParseDuration(sessionTTLStr); err != nil {
		return nil, fmt.Errorf("invalid session ttl: %w", err)
	}

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if passwordFile, ok := lookup("ADMIN_PASSWORD_FILE"); ok && passwordFile != "" {
		content, err := os.ReadFile(passwordFile)
		if err != nil {
			return nil, fmt.Errorf("read admin password file: %w", err)
		}
		cfg.AdminPassword = strings.TrimSpace(string(content))
	}

	if cfg.SessionTTL < 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}

	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("admin password must be provided")
	}

	if cfg.TransportAddress == "" {
		return nil, fmt.Errorf("transport address must be provided")
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

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
