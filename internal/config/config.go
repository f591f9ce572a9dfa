package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Log    LogConfig
	CORS   CORSConfig
	S3     S3Config
	Export ExportConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// IsProduction reports whether the server runs in release mode.
func (s *ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// S3Config holds AWS S3 settings for published exports.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// ExportConfig holds invoice export settings.
type ExportConfig struct {
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Load reads configuration from environment variables with the INVOICEHUB_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("INVOICEHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":5000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "invoicehub")
	v.SetDefault("db.password", "invoicehub_secret")
	v.SetDefault("db.name", "invoicehub_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (front end dev servers)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	v.SetDefault("export.key_prefix", "exports")

	envBindings := map[string]string{
		"server.port":          "INVOICEHUB_SERVER_PORT",
		"server.read_timeout":  "INVOICEHUB_SERVER_READ_TIMEOUT",
		"server.write_timeout": "INVOICEHUB_SERVER_WRITE_TIMEOUT",
		"server.environment":   "INVOICEHUB_SERVER_ENVIRONMENT",
		"db.host":              "INVOICEHUB_DB_HOST",
		"db.port":              "INVOICEHUB_DB_PORT",
		"db.user":              "INVOICEHUB_DB_USER",
		"db.password":          "INVOICEHUB_DB_PASSWORD",
		"db.name":              "INVOICEHUB_DB_NAME",
		"db.sslmode":           "INVOICEHUB_DB_SSLMODE",
		"db.max_open":          "INVOICEHUB_DB_MAX_OPEN",
		"db.max_idle":          "INVOICEHUB_DB_MAX_IDLE",
		"log.level":            "INVOICEHUB_LOG_LEVEL",
		"log.format":           "INVOICEHUB_LOG_FORMAT",
		"cors.allowed_origins": "INVOICEHUB_CORS_ALLOWED_ORIGINS",
		"s3.region":            "INVOICEHUB_S3_REGION",
		"s3.bucket":            "INVOICEHUB_S3_BUCKET",
		"s3.endpoint":          "INVOICEHUB_S3_ENDPOINT",
		"s3.access_key":        "INVOICEHUB_S3_ACCESS_KEY",
		"s3.secret_key":        "INVOICEHUB_S3_SECRET_KEY",
		"s3.presign_expiry":    "INVOICEHUB_S3_PRESIGN_EXPIRY",
		"export.key_prefix":    "INVOICEHUB_EXPORT_KEY_PREFIX",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if INVOICEHUB_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("INVOICEHUB_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  strings.ToLower(v.GetString("log.level")),
		Format: strings.ToLower(v.GetString("log.format")),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Export = ExportConfig{
		KeyPrefix: strings.Trim(v.GetString("export.key_prefix"), "/"),
	}

	if cfg.DB.Port <= 0 {
		return nil, fmt.Errorf("invalid db port %d", cfg.DB.Port)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q", cfg.Log.Level)
	}
	if cfg.Log.Format != "console" && cfg.Log.Format != "json" {
		return nil, fmt.Errorf("invalid log format %q", cfg.Log.Format)
	}

	return cfg, nil
}
