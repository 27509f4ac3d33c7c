// Package config loads application configuration from environment
// variables.
package config

import (
	"log"
	"os"
	"strconv"
)

// Blob storage strategies selectable per owner kind. Inline keeps image
// bytes in the owner's row; file writes them under the uploads root and
// stores only the relative path.
const (
	StrategyInline = "inline"
	StrategyFile   = "file"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable; strings for identifiers and secrets, ints
// for durations and costs.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBDriver string // "mysql" or "sqlite"
	DBUser   string // database username (mysql)
	DBPass   string // database password (mysql, optional)
	DBHost   string // database host address (mysql)
	DBPort   string // database port number (mysql)
	DBName   string // database name (mysql)
	DBPath   string // database file path (sqlite)

	UploadsDir          string // root directory for referenced image blobs
	ViewerImageStrategy string // blob strategy for viewer avatars
	SellerImageStrategy string // blob strategy for seller avatars

	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
}

// Load reads configuration from the environment. JWT_SECRET is always
// required; the MySQL connection variables are required only when
// DB_DRIVER selects mysql. Everything else has a default suited to local
// development on SQLite.
func Load() Config {
	cfg := Config{
		Env:                 getenv("APP_ENV", "dev"),
		Port:                getenv("APP_PORT", "8080"),
		DBDriver:            getenv("DB_DRIVER", "sqlite"),
		DBPath:              getenv("DB_PATH", "cinema.db"),
		UploadsDir:          getenv("UPLOADS_DIR", "uploads"),
		ViewerImageStrategy: strategy("VIEWER_IMAGE_STRATEGY", StrategyInline),
		SellerImageStrategy: strategy("SELLER_IMAGE_STRATEGY", StrategyFile),
		JWTSecret:           must("JWT_SECRET"),
		AccessTTLMin:        getenvInt("ACCESS_TOKEN_TTL_MIN", 15),
		RefreshTTLDays:      getenvInt("REFRESH_TOKEN_TTL_DAYS", 7),
		BcryptCost:          getenvInt("BCRYPT_COST", 10),
	}
	if cfg.DBDriver == "mysql" {
		cfg.DBUser = must("DB_USER")
		cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
		cfg.DBName = must("DB_NAME")
	}
	return cfg
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func strategy(key, def string) string {
	v := getenv(key, def)
	if v != StrategyInline && v != StrategyFile {
		log.Fatalf("invalid %s: %q (want %q or %q)", key, v, StrategyInline, StrategyFile)
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
