package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	DBConnectionString string
	DBMaxOpenConns     int
	DBMaxIdleConns     int
	DBConnMaxLifetime  time.Duration
	MigrateOnStart     bool

	// Auth
	JWTSecret string
	JWTTTL    time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Backend selection
	DataBackend string
}

// SetDefaults registers every key with its default on v and makes v read
// the matching environment variables.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_CONNECTION_STRING", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 50)
	v.SetDefault("DB_MAX_IDLE_CONNS", 25)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	v.SetDefault("MIGRATE_ON_START", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("DATA_BACKEND", BackendPostgres)
	v.AutomaticEnv()
}

// LoadDotEnv copies a .env file into the process environment when present.
func LoadDotEnv(log logrus.FieldLogger, files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Debug("no .env file loaded, continuing with system environment variables")
	}
}

func Load(v *viper.Viper) *Config {
	return &Config{
		Port:               v.GetString("PORT"),
		DBConnectionString: v.GetString("DB_CONNECTION_STRING"),
		DBMaxOpenConns:     v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:     v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime:  v.GetDuration("DB_CONN_MAX_LIFETIME"),
		MigrateOnStart:     v.GetBool("MIGRATE_ON_START"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTTTL:             v.GetDuration("JWT_TTL"),
		LogLevel:           strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:          strings.ToLower(v.GetString("LOG_FORMAT")),
		DataBackend:        strings.ToLower(v.GetString("DATA_BACKEND")),
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataBackend {
	case BackendPostgres:
		if c.DBConnectionString == "" {
			errors = append(errors, "DB_CONNECTION_STRING is required when using postgres backend")
		}
		if c.DBMaxOpenConns < 1 {
			errors = append(errors, fmt.Sprintf("invalid DB_MAX_OPEN_CONNS %d: must be at least 1", c.DBMaxOpenConns))
		}
		if c.DBMaxIdleConns < 0 || c.DBMaxIdleConns > c.DBMaxOpenConns {
			errors = append(errors, fmt.Sprintf("invalid DB_MAX_IDLE_CONNS %d: must be between 0 and DB_MAX_OPEN_CONNS", c.DBMaxIdleConns))
		}
	case BackendMemory:
	default:
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of [%s %s]", c.DataBackend, BackendPostgres, BackendMemory))
	}

	if c.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		errors = append(errors, fmt.Sprintf("invalid JWT_TTL %v: must be positive", c.JWTTTL))
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}
