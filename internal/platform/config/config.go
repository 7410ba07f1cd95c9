package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string
	Database        Database
	Auth            Auth
	// LicenceSeedFile is an optional YAML fixture of licences loaded at startup.
	LicenceSeedFile string
}

// Database configures the Postgres connection. An empty URL selects in-memory stores.
type Database struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	ConnMaxLife  time.Duration
}

// Auth holds the role-marker keys and the optional bearer token settings.
type Auth struct {
	DriverKey     string
	OfficerKey    string
	JWTSigningKey string
	JWTIssuer     string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:            getEnv("RENEWAL_GATEWAY_ADDR", ":8080"),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "json"),
		Database: Database{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: getInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLife:  getDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Auth: Auth{
			DriverKey:     getEnv("DRIVER_KEY", "DRIVER@#$"),
			OfficerKey:    getEnv("OFFICER_KEY", "OFFICER@#$"),
			JWTSigningKey: os.Getenv("JWT_SIGNING_KEY"),
			JWTIssuer:     getEnv("JWT_ISSUER", "renewal-gateway"),
		},
		LicenceSeedFile: os.Getenv("LICENCE_SEED_FILE"),
	}
}

// InMemory reports whether no database is configured.
func (s Server) InMemory() bool {
	return s.Database.URL == ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
