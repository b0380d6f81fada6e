package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port          int
	DatabaseURL   string
	AdminPassword string
	UploadDir     string
	ListenNotify  bool
}

// ParseFlags validates flags, falling back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("crownvote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminPassword, "admin-password", "", "Admin console passcode (prefer env)")

	fs.StringVar(&cfg.UploadDir, "upload-dir", "", "Directory for uploaded candidate photos")
	fs.BoolVar(&cfg.ListenNotify, "listen-notify", true, "Subscribe to Postgres LISTEN/NOTIFY change feed")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3321 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	// Passcode MUST be provided
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	}
	if cfg.AdminPassword == "" {
		return Config{}, errors.New("ADMIN_PASSWORD required")
	}

	if cfg.UploadDir == "" {
		cfg.UploadDir = os.Getenv("UPLOAD_DIR")
		if cfg.UploadDir == "" {
			cfg.UploadDir = "uploads"
		}
	}

	// The env var only applies when the flag was left at its default.
	listenSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "listen-notify" {
			listenSet = true
		}
	})
	if !listenSet {
		if v := os.Getenv("LISTEN_NOTIFY"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid LISTEN_NOTIFY env variable")
			}
			cfg.ListenNotify = b
		}
	}

	return cfg, nil
}
