package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath       string
	SupplierDir  string
	InputDir     string
	OutputDir    string
	RawMailDir   string

	BackendBaseURL        string
	BackendToken          string
	BackendEmail          string
	BackendPassword       string
	BackendLoginEndpoint  string
	BackendSearchEndpoint string
	BackendItemEndpoint   string
	BackendTimeoutMs      int
	BackendRateLimitRPS   int

	GmailClientID     string
	GmailClientSecret string
	GmailRedirectURI  string
	GmailRefreshToken string

	IMAPHost     string
	IMAPPort     int
	IMAPSecure   bool
	IMAPUser     string
	IMAPPassword string
	IMAPMarkSeen bool

	MailListenerProvider     string
	MailListenerLabel        string
	MailListenerSupplier     string
	MailListenerIntervalSec  int
	MailListenerFetchMax     int
	MailListenerProcessBatch int
	MailListenerAutoExport   bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:      getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		SupplierDir: getEnv("SUPPLIER_CONFIG_DIR", filepath.Join(cwd, "configs", "suppliers")),
		InputDir:    getEnv("INPUT_DIR", filepath.Join(cwd, "input")),
		OutputDir:   getEnv("OUTPUT_DIR", filepath.Join(cwd, "output")),
		RawMailDir:  getEnv("MAIL_RAW_DIR", filepath.Join(cwd, "data", "raw")),

		BackendBaseURL:        getEnv("BACKEND_API_BASE_URL", "http://localhost:8080"),
		BackendToken:          getEnv("BACKEND_API_TOKEN", ""),
		BackendEmail:          getEnv("BACKEND_EMAIL", ""),
		BackendPassword:       getEnv("BACKEND_PASSWORD", ""),
		BackendLoginEndpoint:  getEnv("BACKEND_LOGIN_ENDPOINT", "/api/auth/login"),
		BackendSearchEndpoint: getEnv("BACKEND_SEARCH_ENDPOINT", "/api/products/search/best-match"),
		BackendItemEndpoint:   getEnv("BACKEND_ITEM_ENDPOINT", "/api/item"),
		BackendTimeoutMs:      getEnvInt("BACKEND_TIMEOUT_MS", 10000),
		BackendRateLimitRPS:   getEnvInt("BACKEND_RATE_LIMIT_RPS", 5),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRedirectURI:  getEnv("GMAIL_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),

		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPPort:     getEnvInt("IMAP_PORT", 993),
		IMAPSecure:   getEnvBool("IMAP_SECURE", true),
		IMAPUser:     getEnv("IMAP_USER", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		IMAPMarkSeen: getEnvBool("IMAP_MARK_SEEN", false),

		MailListenerProvider:     getEnv("MAIL_LISTENER_PROVIDER", "imap"),
		MailListenerLabel:        getEnv("MAIL_LISTENER_LABEL", "INBOX"),
		MailListenerSupplier:     getEnv("MAIL_LISTENER_SUPPLIER", ""),
		MailListenerIntervalSec:  getEnvInt("MAIL_LISTENER_INTERVAL_SEC", 60),
		MailListenerFetchMax:     getEnvInt("MAIL_LISTENER_FETCH_MAX", 20),
		MailListenerProcessBatch: getEnvInt("MAIL_LISTENER_PROCESS_BATCH", 20),
		MailListenerAutoExport:   getEnvBool("MAIL_LISTENER_AUTO_EXPORT", true),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
