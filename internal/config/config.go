package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Clinic   ClinicConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port" envconfig:"SERVER_PORT"`
	TimeoutSeconds int `mapstructure:"timeout_seconds" envconfig:"SERVER_TIMEOUT_SECONDS"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host" envconfig:"DB_HOST"`
	Port         int    `mapstructure:"port" envconfig:"DB_PORT"`
	User         string `mapstructure:"user" envconfig:"DB_USER"`
	Password     string `mapstructure:"password" envconfig:"DB_PASSWORD"`
	Name         string `mapstructure:"name" envconfig:"DB_NAME"`
	SSLMode      string `mapstructure:"sslmode" envconfig:"DB_SSLMODE"`
	MaxOpenConns int    `mapstructure:"max_open_conns" envconfig:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" envconfig:"DB_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" envconfig:"REDIS_ADDR"`
	Password string `mapstructure:"password" envconfig:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"db" envconfig:"REDIS_DB"`
}

type JWTConfig struct {
	Secret             string `mapstructure:"secret" envconfig:"JWT_SECRET"`
	RefreshSecret      string `mapstructure:"refresh_secret" envconfig:"JWT_REFRESH_SECRET"`
	ExpiryHours        int    `mapstructure:"expiry_hours" envconfig:"JWT_EXPIRY_HOURS"`
	RefreshExpiryHours int    `mapstructure:"refresh_expiry_hours" envconfig:"JWT_REFRESH_EXPIRY_HOURS"`
}

// ClinicConfig carries the scheduling policy: the daily working window, the
// default slot size offered to callers, and the timezone slots are computed
// in. Defaults match the clinic's established 08:00-18:00 / 30-minute policy.
type ClinicConfig struct {
	OpenTime           string `mapstructure:"open_time" envconfig:"CLINIC_OPEN_TIME"`
	CloseTime          string `mapstructure:"close_time" envconfig:"CLINIC_CLOSE_TIME"`
	DefaultSlotMinutes int    `mapstructure:"default_slot_minutes" envconfig:"CLINIC_DEFAULT_SLOT_MINUTES"`
	Timezone           string `mapstructure:"timezone" envconfig:"CLINIC_TIMEZONE"`
	LockTTLSeconds     int    `mapstructure:"lock_ttl_seconds" envconfig:"CLINIC_LOCK_TTL_SECONDS"`
}

// WorkingHours parses the configured open/close times into offsets from
// local midnight.
func (c ClinicConfig) WorkingHours() (open, close time.Duration, err error) {
	open, err = parseClock(c.OpenTime)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid open_time: %w", err)
	}
	close, err = parseClock(c.CloseTime)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid close_time: %w", err)
	}
	if close <= open {
		return 0, 0, fmt.Errorf("close_time %s is not after open_time %s", c.CloseTime, c.OpenTime)
	}
	return open, close, nil
}

func (c ClinicConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// LoadConfig reads the YAML config file and then applies environment
// overrides, so secrets never have to live in the file.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeout_seconds", 30)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("jwt.expiry_hours", 24)
	viper.SetDefault("jwt.refresh_expiry_hours", 168)
	viper.SetDefault("clinic.open_time", "08:00")
	viper.SetDefault("clinic.close_time", "18:00")
	viper.SetDefault("clinic.default_slot_minutes", 30)
	viper.SetDefault("clinic.lock_ttl_seconds", 10)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	return &config, nil
}
