package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig      `toml:"server"`
	Database       DatabaseConfig    `toml:"database"`
	Logs           LogsConfig        `toml:"logs"`
	Metrics        MetricsConfig     `toml:"metrics"`
	Booking        BookingConfig     `toml:"booking"`
	Reminder       ReminderConfig    `toml:"reminder"`
	UserService    IntegrationConfig `toml:"user_service"`
	BillingService IntegrationConfig `toml:"billing_service"`
	NotifyService  IntegrationConfig `toml:"notify_service"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к PostgreSQL
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig бизнес-настройки бронирования
type BookingConfig struct {
	// CapacityCeiling потолок вместимости слота для ручной корректировки провайдером
	// Путь отмены бронирования потолок не проверяет - возврат вместимости возможен всегда
	CapacityCeiling int `toml:"capacity_ceiling"`
	// Timezone локация для вычисления календарных суток (окно напоминаний, "сегодня")
	Timezone string `toml:"timezone"`
}

// ReminderConfig настройки фонового сканирования напоминаний
type ReminderConfig struct {
	Enabled              bool `toml:"enabled"`
	CheckIntervalMinutes int  `toml:"check_interval_minutes"`
	// MaxConcurrentNotifications ограничение параллельных отправок уведомлений
	MaxConcurrentNotifications int `toml:"max_concurrent_notifications"`
}

// IntegrationConfig настройки клиента внешнего сервиса
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Load загружает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Booking.CapacityCeiling == 0 {
		cfg.Booking.CapacityCeiling = 2
	}
	if cfg.Reminder.CheckIntervalMinutes == 0 {
		cfg.Reminder.CheckIntervalMinutes = 60
	}
	if cfg.Reminder.MaxConcurrentNotifications == 0 {
		cfg.Reminder.MaxConcurrentNotifications = 10
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "salon-service"
	}
}
