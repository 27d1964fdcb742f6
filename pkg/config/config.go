package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Quota backends.
const (
	QuotaBackendMemory = "memory"
	QuotaBackendRedis  = "redis"
)

type Config struct {
	Env             string
	Port            int
	APIPrefix       string
	ShutdownTimeout time.Duration

	Classifier ClassifierConfig
	Sessions   SessionConfig
	Uploads    UploadConfig
	Quota      QuotaConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Metrics    MetricsConfig
}

// ClassifierConfig points the classifier client at the external AI service.
type ClassifierConfig struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	StrictDepartments bool
}

// SessionConfig controls in-memory session lifetime.
type SessionConfig struct {
	IdleTTL       time.Duration
	SweepInterval time.Duration
}

// UploadConfig bounds complaint image attachments.
type UploadConfig struct {
	MaxImageBytes int64
}

// QuotaConfig limits how often a single client may request a classification.
type QuotaConfig struct {
	Enabled   bool
	Backend   string
	PerMinute int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.ShutdownTimeout = parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second)

	cfg.Classifier = ClassifierConfig{
		APIKey:            v.GetString("CLASSIFIER_API_KEY"),
		BaseURL:           strings.TrimRight(v.GetString("CLASSIFIER_BASE_URL"), "/"),
		Model:             v.GetString("CLASSIFIER_MODEL"),
		Timeout:           parseDuration(v.GetString("CLASSIFIER_TIMEOUT"), 60*time.Second),
		StrictDepartments: v.GetBool("CLASSIFIER_STRICT_DEPARTMENTS"),
	}

	cfg.Sessions = SessionConfig{
		IdleTTL:       parseDuration(v.GetString("SESSION_IDLE_TTL"), 2*time.Hour),
		SweepInterval: parseDuration(v.GetString("SESSION_SWEEP_INTERVAL"), 5*time.Minute),
	}

	maxImage := v.GetInt64("IMAGE_MAX_BYTES")
	if maxImage <= 0 {
		maxImage = 10 * 1024 * 1024
	}
	cfg.Uploads = UploadConfig{MaxImageBytes: maxImage}

	backend := strings.ToLower(strings.TrimSpace(v.GetString("QUOTA_BACKEND")))
	if backend != QuotaBackendRedis {
		backend = QuotaBackendMemory
	}
	perMinute := v.GetInt("QUOTA_PER_MINUTE")
	if perMinute <= 0 {
		perMinute = 10
	}
	cfg.Quota = QuotaConfig{
		Enabled:   v.GetBool("QUOTA_ENABLED"),
		Backend:   backend,
		PerMinute: perMinute,
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("CLASSIFIER_API_KEY", "")
	v.SetDefault("CLASSIFIER_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("CLASSIFIER_MODEL", "gemini-3-flash-preview")
	v.SetDefault("CLASSIFIER_TIMEOUT", "60s")
	v.SetDefault("CLASSIFIER_STRICT_DEPARTMENTS", false)

	v.SetDefault("SESSION_IDLE_TTL", "2h")
	v.SetDefault("SESSION_SWEEP_INTERVAL", "5m")
	v.SetDefault("IMAGE_MAX_BYTES", 10*1024*1024)

	v.SetDefault("QUOTA_ENABLED", true)
	v.SetDefault("QUOTA_BACKEND", QuotaBackendMemory)
	v.SetDefault("QUOTA_PER_MINUTE", 10)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ENABLE_METRICS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
