// Package config loads process settings from flags, the environment and
// an optional .env file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (p Postgres) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.Name)
}

type Config struct {
	Addr            string
	Store           string
	Postgres        Postgres
	JWTSecret       string
	GoogleClientID  string
	RedirectURL     string
	CookieDomain    string
	CookieSameSite  http.SameSite
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	// BootstrapAdmins are granted the admin role at startup. Only the
	// memory store honors it; use cmd/roles against postgres.
	BootstrapAdmins []string
}

// LoadEnv reads .env into the process environment. A missing file is not
// an error.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not read .env: %v\n", err)
	}
}

// DatabaseFlags registers the postgres connection flags on fs.
func DatabaseFlags(fs *pflag.FlagSet, p *Postgres) {
	fs.StringVar(&p.Host, "db-host", env("POSTGRES_HOST", "localhost"), "Database host")
	fs.StringVar(&p.Port, "db-port", env("POSTGRES_PORT", "5432"), "Database port")
	fs.StringVar(&p.User, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	fs.StringVar(&p.Password, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	fs.StringVar(&p.Name, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
}

// Load parses the server configuration from args. Call LoadEnv first so
// .env values become flag defaults.
func Load(args []string) (Config, error) {
	var (
		cfg      Config
		sameSite string
		origins  string
		admins   string
	)

	fs := pflag.NewFlagSet("pollhub", pflag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", env("HTTP_ADDR", "0.0.0.0:8080"), "HTTP listen address")
	fs.StringVar(&cfg.Store, "store", env("STORE", StorePostgres), "Storage backend (postgres or memory)")
	DatabaseFlags(fs, &cfg.Postgres)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", os.Getenv("JWT_SECRET"), "Access token signing secret (prefer env)")
	fs.StringVar(&cfg.GoogleClientID, "google-client-id", os.Getenv("GOOGLE_CLIENT_ID"), "Google Sign-In client id")
	fs.StringVar(&cfg.RedirectURL, "login-redirect-url", env("LOGIN_REDIRECT_URL", "/"), "Where to send the browser after login")
	fs.StringVar(&cfg.CookieDomain, "cookie-domain", os.Getenv("COOKIE_DOMAIN"), "Domain attribute of auth cookies")
	fs.StringVar(&sameSite, "cookie-samesite", env("COOKIE_SAMESITE", "lax"), "SameSite attribute of auth cookies (lax, strict or none)")
	fs.StringVar(&origins, "allowed-origins", os.Getenv("ALLOWED_ORIGINS"), "Comma separated CORS origins")
	fs.StringVar(&admins, "bootstrap-admins", os.Getenv("BOOTSTRAP_ADMINS"), "Comma separated emails made admin at startup (memory store only)")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	switch cfg.Store {
	case StorePostgres, StoreMemory:
	default:
		return Config{}, fmt.Errorf("unknown store %q", cfg.Store)
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	ss, err := parseSameSite(sameSite)
	if err != nil {
		return Config{}, err
	}
	cfg.CookieSameSite = ss
	cfg.AllowedOrigins = splitList(origins)
	cfg.BootstrapAdmins = splitList(admins)

	return cfg, nil
}

func parseSameSite(v string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	}
	return 0, fmt.Errorf("invalid cookie samesite %q", v)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
