package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	ReleaseMode     bool          `mapstructure:"release_mode"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CalendarConfig controls how schedules are projected onto calendar days.
type CalendarConfig struct {
	// Timezone is the IANA name every date key is computed in.
	Timezone string `mapstructure:"timezone"`
	// MatchMode is "any" (any completed session marks a scheduled day done)
	// or "assigned_workout" (only sessions of a workout scheduled that day).
	MatchMode string `mapstructure:"match_mode"`
}

// Location resolves the configured timezone.
func (c CalendarConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

type CacheConfig struct {
	SizeMB int           `mapstructure:"size_mb"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (Config, error) {
	var config Config

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, calendar.timezone -> CALENDAR_TIMEZONE
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.release_mode", false)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "kinevo")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket_name", "kinevo-reports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("log.level", "info")
	v.SetDefault("calendar.timezone", "America/Sao_Paulo")
	v.SetDefault("calendar.match_mode", "any")
	v.SetDefault("cache.size_mb", 32)
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("metrics.namespace", "kinevo")
	v.SetDefault("metrics.subsystem", "api")

	if err := v.ReadInConfig(); err != nil {
		// a missing file is fine, env vars and defaults still apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := config.Calendar.Location(); err != nil {
		return config, err
	}
	if m := config.Calendar.MatchMode; m != "any" && m != "assigned_workout" {
		return config, fmt.Errorf("unknown calendar match mode %q", m)
	}

	return config, nil
}
