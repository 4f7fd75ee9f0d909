package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

// Config конфигурация сервиса, загружается из TOML файла
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        DatabaseConfig    `toml:"database"`
	Logs            LogsConfig        `toml:"logs"`
	Metrics         MetricsConfig     `toml:"metrics"`
	RegistryService IntegrationConfig `toml:"registry_service"`
	NotifyService   IntegrationConfig `toml:"notify_service"`
	Reminders       RemindersConfig   `toml:"reminders"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к postgres
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

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// IntegrationConfig настройки внешнего HTTP сервиса
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// RemindersConfig настройки фоновой рассылки напоминаний
type RemindersConfig struct {
	Enabled            bool `toml:"enabled"`
	IntervalMinutes    int  `toml:"interval_minutes"`
	LocalHour          int  `toml:"local_hour"`
	MaxConcurrentSends int  `toml:"max_concurrent_sends"`
}

// Load читает конфигурацию из TOML файла и валидирует её
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DSN собирает строку подключения к postgres
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Reminders.IntervalMinutes == 0 {
		c.Reminders.IntervalMinutes = 60
	}
	if c.Reminders.LocalHour == 0 {
		c.Reminders.LocalHour = domain.DefaultReminderLocalHour
	}
	if c.Reminders.MaxConcurrentSends == 0 {
		c.Reminders.MaxConcurrentSends = 10
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Logs.File == "" {
		return fmt.Errorf("config: logs.file is required")
	}
	if c.RegistryService.URL == "" {
		return fmt.Errorf("config: registry_service.url is required")
	}
	if c.NotifyService.URL == "" {
		return fmt.Errorf("config: notify_service.url is required")
	}
	if c.Reminders.LocalHour < 0 || c.Reminders.LocalHour > 23 {
		return fmt.Errorf("config: reminders.local_hour must be in [0,23]")
	}
	return nil
}
