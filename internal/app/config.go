package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vladislavdragonenkov/ordering/internal/storage/gormstore"
)

// Поддерживаемые драйверы хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
	StorageDriverGorm     = "gorm"
)

// EnvPrefix: префикс переменных окружения (ORDERING_STORAGE_DRIVER и т.д.).
const EnvPrefix = "ORDERING"

var ErrInvalidConfig = errors.New("invalid config")

// Config описывает настройки запуска приложения.
type Config struct {
	MetricsAddr         string        `mapstructure:"metrics_addr"`
	StorageDriver       string        `mapstructure:"storage_driver"`
	PostgresDSN         string        `mapstructure:"postgres_dsn"`
	PostgresAutoMigrate bool          `mapstructure:"postgres_auto_migrate"`
	GormDialect         string        `mapstructure:"gorm_dialect"`
	GormDSN             string        `mapstructure:"gorm_dsn"`
	LogLevel            string        `mapstructure:"log_level"`
	LogFormat           string        `mapstructure:"log_format"`
	ShutdownTimeout     time.Duration `mapstructure:"shutdown_timeout"`
	// Demo заполняет хранилище демонстрационным сценарием при старте.
	Demo bool `mapstructure:"demo"`
}

// DefaultConfig возвращает конфигурацию для локального запуска в памяти.
func DefaultConfig() Config {
	return Config{
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		GormDialect:         gormstore.DialectSQLite,
		GormDSN:             "file:ordering?mode=memory&cache=shared",
		LogLevel:            "info",
		LogFormat:           "text",
		ShutdownTimeout:     5 * time.Second,
	}
}

// LoadConfig собирает конфигурацию: значения по умолчанию, затем файл
// (если path не пуст), затем переменные окружения ORDERING_*.
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("metrics_addr", defaults.MetricsAddr)
	v.SetDefault("storage_driver", defaults.StorageDriver)
	v.SetDefault("postgres_dsn", defaults.PostgresDSN)
	v.SetDefault("postgres_auto_migrate", defaults.PostgresAutoMigrate)
	v.SetDefault("gorm_dialect", defaults.GormDialect)
	v.SetDefault("gorm_dsn", defaults.GormDSN)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("log_format", defaults.LogFormat)
	v.SetDefault("shutdown_timeout", defaults.ShutdownTimeout)
	v.SetDefault("demo", defaults.Demo)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	cfg.GormDialect = strings.ToLower(strings.TrimSpace(cfg.GormDialect))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	var errs []error

	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			errs = append(errs, errors.New("postgres_dsn is required for postgres storage"))
		}
	case StorageDriverGorm:
		switch c.GormDialect {
		case gormstore.DialectSQLite, gormstore.DialectPostgres, gormstore.DialectMySQL:
		default:
			errs = append(errs, fmt.Errorf("unsupported gorm dialect %q", c.GormDialect))
		}
		if strings.TrimSpace(c.GormDSN) == "" {
			errs = append(errs, errors.New("gorm_dsn is required for gorm storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage driver %q", c.StorageDriver))
	}

	if strings.TrimSpace(c.MetricsAddr) == "" {
		errs = append(errs, errors.New("metrics_addr is required"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unsupported log_format %q", c.LogFormat))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown_timeout must be positive"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// ConfigureLogger применяет уровень и формат к стандартному логгеру logrus.
func ConfigureLogger(cfg Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
