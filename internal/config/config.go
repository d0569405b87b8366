package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
)

// EnvPrefix префикс переменных окружения, переопределяющих файл конфигурации
const EnvPrefix = "PETCARE"

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла валидацию
var ErrInvalidConfig = fmt.Errorf("%w: invalid configuration", domain.ErrFatalConfig)

// Config конфигурация сервиса
type Config struct {
	Logs          LogsConfig          `toml:"logs" envconfig:"LOGS"`
	Server        ServerConfig        `toml:"server" envconfig:"SERVER"`
	Database      DatabaseConfig      `toml:"database" envconfig:"DATABASE"`
	Storage       StorageConfig       `toml:"storage" envconfig:"STORAGE"`
	Metrics       MetricsConfig       `toml:"metrics" envconfig:"METRICS"`
	Redis         RedisConfig         `toml:"redis" envconfig:"REDIS"`
	Cache         CacheConfig         `toml:"cache" envconfig:"CACHE"`
	RabbitMQ      RabbitMQConfig      `toml:"rabbitmq" envconfig:"RABBITMQ"`
	RatingService RatingServiceConfig `toml:"rating_service" envconfig:"RATING_SERVICE"`
	Scheduling    SchedulingConfig    `toml:"scheduling" envconfig:"SCHEDULING"`
	Sweeper       SweeperConfig       `toml:"sweeper" envconfig:"SWEEPER"`
	Reload        ReloadConfig        `toml:"reload" envconfig:"RELOAD"`
}

type LogsConfig struct {
	File  string `toml:"file" split_words:"true"`
	Level string `toml:"level" split_words:"true"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// StorageConfig выбор хранилища: postgres или memory (для локального запуска и демо)
type StorageConfig struct {
	Driver string `toml:"driver" split_words:"true"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

// RedisConfig кэш конфигурационных сущностей; при Enabled = false используется кэш в памяти процесса
type RedisConfig struct {
	Enabled  bool   `toml:"enabled" split_words:"true"`
	Addr     string `toml:"addr" split_words:"true"`
	Password string `toml:"password" split_words:"true"`
	DB       int    `toml:"db" split_words:"true"`
	Prefix   string `toml:"prefix" split_words:"true"`
}

type CacheConfig struct {
	TTLSeconds int `toml:"ttl_seconds" split_words:"true"`
}

// TTL время жизни записей кэша
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// RabbitMQConfig брокер уведомлений; при Enabled = false уведомления только пишутся в лог
type RabbitMQConfig struct {
	Enabled  bool   `toml:"enabled" split_words:"true"`
	URL      string `toml:"url" split_words:"true"`
	Exchange string `toml:"exchange" split_words:"true"`
}

type RatingServiceConfig struct {
	Enabled bool   `toml:"enabled" split_words:"true"`
	URL     string `toml:"url" split_words:"true"`
	Timeout int    `toml:"timeout" split_words:"true"`
}

// SchedulingConfig параметры движка бронирований; перечитываются без рестарта
type SchedulingConfig struct {
	Timezone                   string `toml:"timezone" split_words:"true"`
	RequireConfirmation        bool   `toml:"require_confirmation" split_words:"true"`
	CodeAttempts               int    `toml:"code_attempts" split_words:"true"`
	NotificationTimeoutSeconds int    `toml:"notification_timeout_seconds" split_words:"true"`
	SelectorConcurrency        int    `toml:"selector_concurrency" split_words:"true"`
}

// Location часовой пояс рабочих графиков
func (s SchedulingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// SweeperConfig автозавершение; все поля кроме Schedule перечитываются без рестарта
type SweeperConfig struct {
	Enabled       bool    `toml:"enabled" split_words:"true"`
	Schedule      string  `toml:"schedule" split_words:"true"`
	LookbackDays  int     `toml:"lookback_days" split_words:"true"`
	TargetOutcome string  `toml:"target_outcome" split_words:"true"`
	MaxPerSecond  float64 `toml:"max_per_second" split_words:"true"`
}

type ReloadConfig struct {
	IntervalSeconds int `toml:"interval_seconds" split_words:"true"`
}

// Interval период опроса файла конфигурации; 0 отключает перечитывание
func (r ReloadConfig) Interval() time.Duration {
	return time.Duration(r.IntervalSeconds) * time.Second
}

// LoadDotEnv загружает переменные из .env файла, если он есть
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// Load читает конфигурацию из TOML файла, накладывает переменные окружения PETCARE_*,
// заполняет значения по умолчанию и валидирует результат
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverPostgres
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "scheduling-service"
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "petcare:scheduling:"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 30
	}
	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "petcare.notifications"
	}
	if c.RatingService.Timeout == 0 {
		c.RatingService.Timeout = 2
	}
	if c.Scheduling.Timezone == "" {
		c.Scheduling.Timezone = "UTC"
	}
	if c.Scheduling.CodeAttempts == 0 {
		c.Scheduling.CodeAttempts = 10
	}
	if c.Scheduling.NotificationTimeoutSeconds == 0 {
		c.Scheduling.NotificationTimeoutSeconds = 5
	}
	if c.Scheduling.SelectorConcurrency == 0 {
		c.Scheduling.SelectorConcurrency = 8
	}
	if c.Sweeper.Schedule == "" {
		c.Sweeper.Schedule = "0 3 * * *"
	}
	if c.Sweeper.LookbackDays == 0 {
		c.Sweeper.LookbackDays = 7
	}
	if c.Sweeper.TargetOutcome == "" {
		c.Sweeper.TargetOutcome = string(domain.OutcomeCompleted)
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be between 1 and 65535, got %d", ErrInvalidConfig, c.Server.HTTPPort)
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres storage", ErrInvalidConfig)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("%w: cache.ttl_seconds must not be negative", ErrInvalidConfig)
	}
	if c.RabbitMQ.Enabled && c.RabbitMQ.URL == "" {
		return fmt.Errorf("%w: rabbitmq.url is required when rabbitmq is enabled", ErrInvalidConfig)
	}
	if c.RatingService.Enabled && c.RatingService.URL == "" {
		return fmt.Errorf("%w: rating_service.url is required when rating service is enabled", ErrInvalidConfig)
	}

	if _, err := c.Scheduling.Location(); err != nil {
		return fmt.Errorf("%w: scheduling.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Scheduling.CodeAttempts < 1 {
		return fmt.Errorf("%w: scheduling.code_attempts must be positive", ErrInvalidConfig)
	}
	if c.Scheduling.SelectorConcurrency < 1 {
		return fmt.Errorf("%w: scheduling.selector_concurrency must be positive", ErrInvalidConfig)
	}

	if _, err := cron.ParseStandard(c.Sweeper.Schedule); err != nil {
		return fmt.Errorf("%w: sweeper.schedule: %v", ErrInvalidConfig, err)
	}
	if c.Sweeper.LookbackDays < 1 {
		return fmt.Errorf("%w: sweeper.lookback_days must be positive", ErrInvalidConfig)
	}
	if _, err := domain.CompletionOutcome(c.Sweeper.TargetOutcome).Status(); err != nil {
		return fmt.Errorf("%w: sweeper.target_outcome: %v", ErrInvalidConfig, err)
	}
	if c.Sweeper.MaxPerSecond < 0 {
		return fmt.Errorf("%w: sweeper.max_per_second must not be negative", ErrInvalidConfig)
	}
	if c.Reload.IntervalSeconds < 0 {
		return fmt.Errorf("%w: reload.interval_seconds must not be negative", ErrInvalidConfig)
	}

	return nil
}
