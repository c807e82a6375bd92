package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// insecureSessionSecret is only accepted when APP_ENV=development.
	insecureSessionSecret = "fallback-secret-for-development"
)

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok && val != "" {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return asInt
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asBool, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}

	return asBool
}

// GetList splits a comma separated value, dropping blank entries.
func GetList(config map[string]string, key string) []string {
	raw := GetString(config, key, "")
	if raw == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

type Config struct {
	Env      string
	LogLevel string

	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Admin    AdminConfig
	Images   ImagesConfig
	Limits   LimitsConfig
	Mail     MailConfig

	SiteURL        string
	RedisURL       string
	MetricsEnabled bool
}

type ServerConfig struct {
	Port            string
	ReadTimeout     int
	WriteTimeout    int
	IdleTimeout     int
	AcceptedOrigins []string
	AdminDir        string
}

type DatabaseConfig struct {
	Type        string
	URL         string
	ReplicaURLs []string
}

type SessionConfig struct {
	Secret      string
	MaxAgeHours int
}

type AdminConfig struct {
	Email    string
	Password string
}

type ImagesConfig struct {
	Store string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	S3Bucket    string
	S3Endpoint  string
	S3PublicURL string
}

type LimitsConfig struct {
	ContactRate string
	LoginRate   string
}

type MailConfig struct {
	ResendAPIKey string
	FromEmail    string
}

// Load builds the typed configuration from an environment map such as the one returned by New.
func Load(c map[string]string) Config {
	cfg := Config{
		Env:      GetString(c, "APP_ENV", EnvProduction),
		LogLevel: GetString(c, "LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:            GetString(c, "PORT", "8080"),
			ReadTimeout:     GetInt(c, "READ_TIMEOUT_SECONDS", 180),
			WriteTimeout:    GetInt(c, "WRITE_TIMEOUT_SECONDS", 180),
			IdleTimeout:     GetInt(c, "IDLE_TIMEOUT_SECONDS", 180),
			AcceptedOrigins: GetList(c, "ACCEPTED_ORIGINS"),
			AdminDir:        GetString(c, "ADMIN_DIR", ""),
		},
		Database: DatabaseConfig{
			Type:        GetString(c, "DB_TYPE", "postgres"),
			URL:         databaseURL(c),
			ReplicaURLs: GetList(c, "DATABASE_REPLICA_URLS"),
		},
		Session: SessionConfig{
			Secret:      GetString(c, "SESSION_SECRET", GetString(c, "NEXTAUTH_SECRET", "")),
			MaxAgeHours: GetInt(c, "SESSION_MAX_AGE_HOURS", 24),
		},
		Admin: AdminConfig{
			Email:    GetString(c, "ADMIN_EMAIL", "admin@portfolio.com"),
			Password: GetString(c, "ADMIN_PASSWORD", "admin123"),
		},
		Images: ImagesConfig{
			Store:               GetString(c, "IMAGE_STORE", "cloudinary"),
			CloudinaryCloudName: GetString(c, "CLOUDINARY_CLOUD_NAME", ""),
			CloudinaryAPIKey:    GetString(c, "CLOUDINARY_API_KEY", ""),
			CloudinaryAPISecret: GetString(c, "CLOUDINARY_API_SECRET", ""),
			S3Bucket:            GetString(c, "S3_BUCKET", ""),
			S3Endpoint:          GetString(c, "S3_ENDPOINT", ""),
			S3PublicURL:         GetString(c, "S3_PUBLIC_URL", ""),
		},
		Limits: LimitsConfig{
			ContactRate: GetString(c, "CONTACT_RATE_LIMIT", "5-M"),
			LoginRate:   GetString(c, "LOGIN_RATE_LIMIT", "10-M"),
		},
		Mail: MailConfig{
			ResendAPIKey: GetString(c, "RESEND_API_KEY", ""),
			FromEmail:    GetString(c, "RESEND_FROM_EMAIL", ""),
		},
		SiteURL:        strings.TrimSuffix(GetString(c, "SITE_URL", "http://localhost:3000"), "/"),
		RedisURL:       GetString(c, "REDIS_URL", ""),
		MetricsEnabled: GetBool(c, "METRICS_ENABLED", true),
	}

	if cfg.Session.Secret == "" && cfg.IsDevelopment() {
		cfg.Session.Secret = insecureSessionSecret
	}

	return cfg
}

func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, EnvDevelopment)
}

// databaseURL resolves the DSN for the configured DB_TYPE.
func databaseURL(c map[string]string) string {
	switch GetString(c, "DB_TYPE", "postgres") {
	case "supa":
		return "host=" + GetString(c, "SUPABASE_DB_HOST", "") +
			" user=" + GetString(c, "SUPABASE_DB_USER", "") +
			" password=" + GetString(c, "SUPABASE_DB_PASSWORD", "") +
			" dbname=" + GetString(c, "SUPABASE_DB_NAME", "") +
			" port=" + GetString(c, "SUPABASE_DB_PORT", "5432") +
			" sslmode=require"
	default:
		return GetString(c, "DATABASE_URL", "")
	}
}
