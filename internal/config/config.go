package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	QuotaBackendMemory = "memory"
	QuotaBackendRedis  = "redis"
	QuotaBackendMySQL  = "mysql"
)

var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"https://kind-lending-retail.vercel.app",
}

type Config struct {
	Port           string
	Env            string
	AllowedOrigins []string
	TrustXFF       bool

	IdeogramAPIKey  string
	IdeogramBaseURL string
	IdeogramModel   string
	ProviderTimeout time.Duration
	HTTPTimeout     time.Duration
	PreferIPv4      bool
	Parallel        bool

	QuotaLimit    int
	QuotaWindow   time.Duration
	QuotaBackend  string
	QuotaKeySalt  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	DatabaseDSN   string

	DownloadRPS          float64
	DownloadBurst        int
	DownloadTicketSecret string
	DownloadTicketTTL    time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads the configuration from the environment. Only presence of the
// settings each backend needs is checked here.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "3000"),
		Env:            getEnv("ENV", "development"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", defaultAllowedOrigins),
		TrustXFF:       getEnvBool("TRUST_X_FORWARDED_FOR", false),

		IdeogramAPIKey:  strings.TrimSpace(os.Getenv("IDEOGRAM_API_KEY")),
		IdeogramBaseURL: getEnv("IDEOGRAM_BASE_URL", "https://api.ideogram.ai"),
		IdeogramModel:   getEnv("IDEOGRAM_MODEL", "V_2"),
		ProviderTimeout: time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 90)) * time.Second,
		HTTPTimeout:     time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
		PreferIPv4:      getEnvBool("PREFER_IPV4", true),
		Parallel:        getEnvBool("GENERATION_PARALLEL", false),

		QuotaLimit:    getEnvInt("QUOTA_LIMIT", 3),
		QuotaWindow:   getEnvDuration("QUOTA_WINDOW", time.Hour),
		QuotaBackend:  strings.ToLower(getEnv("QUOTA_BACKEND", QuotaBackendMemory)),
		QuotaKeySalt:  os.Getenv("QUOTA_KEY_SALT"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPrefix:   getEnv("REDIS_PREFIX", "brandgen:quota"),
		DatabaseDSN:   getEnv("DATABASE_DSN", ""),

		DownloadRPS:          getEnvFloat("DOWNLOAD_RPS", 2),
		DownloadBurst:        getEnvInt("DOWNLOAD_BURST", 10),
		DownloadTicketSecret: os.Getenv("DOWNLOAD_TICKET_SECRET"),
		DownloadTicketTTL:    getEnvDuration("DOWNLOAD_TICKET_TTL", 24*time.Hour),

		LogLevel:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "json")),
		LogFile:   getEnv("LOG_FILE", ""),
	}

	if cfg.IdeogramAPIKey == "" {
		return Config{}, errors.New("IDEOGRAM_API_KEY is required")
	}

	switch cfg.QuotaBackend {
	case QuotaBackendMemory:
	case QuotaBackendRedis:
		if cfg.RedisAddr == "" {
			return Config{}, errors.New("REDIS_ADDR is required for the redis quota backend")
		}
	case QuotaBackendMySQL:
		if cfg.DatabaseDSN == "" {
			return Config{}, errors.New("DATABASE_DSN is required for the mysql quota backend")
		}
	default:
		return Config{}, fmt.Errorf("unknown QUOTA_BACKEND %q", cfg.QuotaBackend)
	}

	if cfg.QuotaLimit < 1 {
		cfg.QuotaLimit = 3
	}
	if cfg.QuotaWindow <= 0 {
		cfg.QuotaWindow = time.Hour
	}
	if cfg.ProviderTimeout <= 0 {
		cfg.ProviderTimeout = 90 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}
	if cfg.DownloadRPS <= 0 {
		cfg.DownloadRPS = 2
	}
	if cfg.DownloadBurst < 1 {
		cfg.DownloadBurst = 1
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	var out []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
