package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих значения из файла
const EnvPrefix = "CONSULT"

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server        ServerConfig        `toml:"server" split_words:"true"`
	Database      DatabaseConfig      `toml:"database" split_words:"true"`
	Logs          LogsConfig          `toml:"logs" split_words:"true"`
	Metrics       MetricsConfig       `toml:"metrics" split_words:"true"`
	Slots         SlotsConfig         `toml:"slots" split_words:"true"`
	Booking       BookingConfig       `toml:"booking" split_words:"true"`
	Meeting       MeetingConfig       `toml:"meeting" split_words:"true"`
	Notifications NotificationsConfig `toml:"notifications" split_words:"true"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`         // секунды
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`       // секунды
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`         // секунды
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"` // секунды
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"` // секунды
	MigrationsPath  string `toml:"migrations_path" split_words:"true"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL строка подключения в формате postgres:// (для golang-migrate)
func (d DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

type LogsConfig struct {
	File  string `toml:"file" split_words:"true"`
	Level string `toml:"level" split_words:"true"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

// SlotsConfig параметры генерации слотов
type SlotsConfig struct {
	// Timezone часовой пояс эксперта, в котором интерпретируются HH:MM
	Timezone string `toml:"timezone" split_words:"true"`
	// DefaultExpertID эксперт, если он не указан в запросе или не назначен на обращение
	DefaultExpertID int64 `toml:"default_expert_id" split_words:"true"`
	// MaxDays максимальная длина окна запроса слотов
	MaxDays int `toml:"max_days" split_words:"true"`
	// HidePastSlotsToday скрывать уже начавшиеся слоты текущего дня
	HidePastSlotsToday bool `toml:"hide_past_slots_today" split_words:"true"`
	// MinBookingNoticeMinutes минимальный запас до начала слота (учитывается вместе с HidePastSlotsToday)
	MinBookingNoticeMinutes int `toml:"min_booking_notice_minutes" split_words:"true"`
}

// Location возвращает часовой пояс эксперта
func (s SlotsConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

type BookingConfig struct {
	// MaxConflictRetries сколько раз повторять транзакцию после конфликта записи
	MaxConflictRetries int `toml:"max_conflict_retries" split_words:"true"`
}

type MeetingConfig struct {
	// Provider builtin (ссылка генерируется локально) или http (внешний сервис)
	Provider   string `toml:"provider" split_words:"true"`
	BaseURL    string `toml:"base_url" split_words:"true"`
	ServiceURL string `toml:"service_url" split_words:"true"`
	Timeout    int    `toml:"timeout" split_words:"true"` // секунды
}

type NotificationsConfig struct {
	Enabled  bool   `toml:"enabled" split_words:"true"`
	SMTPHost string `toml:"smtp_host" split_words:"true"`
	SMTPPort int    `toml:"smtp_port" split_words:"true"`
	SMTPUser string `toml:"smtp_user" split_words:"true"`
	SMTPPass string `toml:"smtp_password" split_words:"true"`
	From     string `toml:"from" split_words:"true"`
}

const (
	MeetingProviderBuiltin = "builtin"
	MeetingProviderHTTP    = "http"
)

// Load читает конфигурацию из TOML-файла и применяет переопределения из окружения
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: env overrides: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
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
	if c.Database.Port == 0 {
		c.Database.Port = 5432
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
	if c.Database.MigrationsPath == "" {
		c.Database.MigrationsPath = "migrations"
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "consultation_service"
	}
	if c.Slots.MaxDays == 0 {
		c.Slots.MaxDays = 31
	}
	if c.Booking.MaxConflictRetries == 0 {
		c.Booking.MaxConflictRetries = 2
	}
	if c.Meeting.Provider == "" {
		c.Meeting.Provider = MeetingProviderBuiltin
	}
	if c.Meeting.BaseURL == "" {
		c.Meeting.BaseURL = "https://meet.jit.si"
	}
	if c.Meeting.Timeout == 0 {
		c.Meeting.Timeout = 5
	}
	if c.Notifications.SMTPPort == 0 {
		c.Notifications.SMTPPort = 587
	}
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Slots.MaxDays < 1 || c.Slots.MaxDays > 366 {
		return fmt.Errorf("%w: slots.max_days must be in 1..366", ErrInvalidConfig)
	}
	if c.Slots.MinBookingNoticeMinutes < 0 {
		return fmt.Errorf("%w: slots.min_booking_notice_minutes must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Slots.Location(); err != nil {
		return fmt.Errorf("%w: slots.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Booking.MaxConflictRetries < 0 || c.Booking.MaxConflictRetries > 5 {
		return fmt.Errorf("%w: booking.max_conflict_retries must be in 0..5", ErrInvalidConfig)
	}
	switch c.Meeting.Provider {
	case MeetingProviderBuiltin:
	case MeetingProviderHTTP:
		if c.Meeting.ServiceURL == "" {
			return fmt.Errorf("%w: meeting.service_url is required for http provider", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown meeting.provider %q", ErrInvalidConfig, c.Meeting.Provider)
	}
	if c.Notifications.Enabled && (c.Notifications.SMTPHost == "" || c.Notifications.From == "") {
		return fmt.Errorf("%w: notifications.smtp_host and notifications.from are required", ErrInvalidConfig)
	}
	return nil
}
