package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/facumancuso/alessi-sub000/internal/domain"
)

// ErrInvalidConfig конфигурация не прошла валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Auth      AuthConfig      `toml:"auth"`
	Booking   BookingConfig   `toml:"booking"`
	Agenda    AgendaConfig    `toml:"agenda"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	WhatsApp  WhatsAppConfig  `toml:"whatsapp"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	MigrationsFile  string `toml:"migrations_file"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
	TokenTTL  int    `toml:"token_ttl"` // минуты
	Issuer    string `toml:"issuer"`
	// Первый superadmin создается при старте, если таблица сотрудников пуста
	BootstrapName     string `toml:"bootstrap_name"`
	BootstrapEmail    string `toml:"bootstrap_email"`
	BootstrapPassword string `toml:"bootstrap_password"`
}

// TokenTTLDuration время жизни токена сессии
func (a AuthConfig) TokenTTLDuration() time.Duration {
	return time.Duration(a.TokenTTL) * time.Minute
}

type BookingConfig struct {
	// Timezone часовой пояс салона: границы дня для биллинга и агенды
	Timezone string `toml:"timezone"`
	// RejectOverlaps отклонять пересечения позиций одного сотрудника (по умолчанию только отчет)
	RejectOverlaps      bool `toml:"reject_overlaps"`
	WaitingWindowBefore int  `toml:"waiting_window_before"` // минуты
	WaitingWindowAfter  int  `toml:"waiting_window_after"`  // минуты
	EventsWaitTimeout   int  `toml:"events_wait_timeout"`   // секунды, long poll
}

// Location часовой пояс салона
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(b.Timezone)
}

// EventsWait длительность long poll событий сотрудника
func (b BookingConfig) EventsWait() time.Duration {
	return time.Duration(b.EventsWaitTimeout) * time.Second
}

// WaitingWindow окно отображения "waiting"
func (b BookingConfig) WaitingWindow() domain.WaitingWindow {
	return domain.WaitingWindow{
		Before: time.Duration(b.WaitingWindowBefore) * time.Minute,
		After:  time.Duration(b.WaitingWindowAfter) * time.Minute,
	}
}

type AgendaConfig struct {
	IntervalMinutes int     `toml:"interval_minutes"`
	StartHour       int     `toml:"start_hour"`
	EndHour         int     `toml:"end_hour"`
	PixelsPerMinute float64 `toml:"pixels_per_minute"`
}

// Options параметры сетки агенды по умолчанию
func (a AgendaConfig) Options() domain.AgendaOptions {
	return domain.AgendaOptions{
		IntervalMinutes: a.IntervalMinutes,
		StartHour:       a.StartHour,
		EndHour:         a.EndHour,
		PixelsPerMinute: a.PixelsPerMinute,
	}
}

type RateLimitConfig struct {
	RPS   float64 `toml:"rps"`
	Burst int     `toml:"burst"`
	// TrustedProxies IP или CIDR прокси, от которых принимается X-Forwarded-For
	TrustedProxies []string `toml:"trusted_proxies"`
}

// WhatsAppConfig шлюз подтверждений онлайн-записи. Пустой url отключает отправку
type WhatsAppConfig struct {
	URL     string `toml:"url"`
	Token   string `toml:"token"`
	Timeout int    `toml:"timeout"` // секунды
}

// Enabled задан ли шлюз
func (w WhatsAppConfig) Enabled() bool {
	return w.URL != ""
}

// TimeoutDuration таймаут запроса к шлюзу
func (w WhatsAppConfig) TimeoutDuration() time.Duration {
	return time.Duration(w.Timeout) * time.Second
}

// Default конфигурация по умолчанию, поверх нее читается файл
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    60,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "alessi",
			DBName:          "alessi",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "alessi",
		},
		Auth: AuthConfig{
			TokenTTL:      12 * 60,
			Issuer:        "alessi",
			BootstrapName: "Administrador",
		},
		Booking: BookingConfig{
			Timezone:            "America/Argentina/Buenos_Aires",
			WaitingWindowBefore: int(domain.DefaultWaitingWindowBefore / time.Minute),
			WaitingWindowAfter:  int(domain.DefaultWaitingWindowAfter / time.Minute),
			EventsWaitTimeout:   25,
		},
		Agenda: AgendaConfig{
			IntervalMinutes: domain.DefaultAgendaIntervalMinutes,
			StartHour:       domain.DefaultAgendaStartHour,
			EndHour:         domain.DefaultAgendaEndHour,
			PixelsPerMinute: domain.DefaultAgendaPixelsPerMinute,
		},
		RateLimit: RateLimitConfig{RPS: 1, Burst: 5},
		WhatsApp:  WhatsAppConfig{Timeout: 5},
	}
}

// Load читает .env (если есть), TOML-файл и переопределения из окружения
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse разбирает TOML из строки (используется в тестах и утилитах)
func Parse(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("DB_PASSWORD"); ok {
		cfg.Database.Password = v
	}
	if v, ok := os.LookupEnv("DB_HOST"); ok && v != "" {
		cfg.Database.Host = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok && v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v, ok := os.LookupEnv("BOOTSTRAP_EMAIL"); ok && v != "" {
		cfg.Auth.BootstrapEmail = v
	}
	if v, ok := os.LookupEnv("BOOTSTRAP_PASSWORD"); ok && v != "" {
		cfg.Auth.BootstrapPassword = v
	}
	if v, ok := os.LookupEnv("WHATSAPP_TOKEN"); ok && v != "" {
		cfg.WhatsApp.Token = v
	}
	if v, ok := os.LookupEnv("HTTP_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.HTTPPort = port
		}
	}
}

// Validate проверяет согласованность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("%w: auth.jwt_secret (or JWT_SECRET) is required", ErrInvalidConfig)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("%w: auth.token_ttl must be positive", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Booking.WaitingWindowBefore < 0 || c.Booking.WaitingWindowAfter < 0 {
		return fmt.Errorf("%w: booking waiting window must not be negative", ErrInvalidConfig)
	}
	if c.Booking.EventsWaitTimeout <= 0 || c.Booking.EventsWaitTimeout >= c.Server.WriteTimeout {
		return fmt.Errorf("%w: booking.events_wait_timeout must be positive and below server.write_timeout", ErrInvalidConfig)
	}
	if err := c.Agenda.Options().Validate(); err != nil {
		return fmt.Errorf("%w: agenda: %v", ErrInvalidConfig, err)
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("%w: rate_limit.rps and rate_limit.burst must be positive", ErrInvalidConfig)
	}
	for _, proxy := range c.RateLimit.TrustedProxies {
		if !validProxy(proxy) {
			return fmt.Errorf("%w: rate_limit.trusted_proxies: invalid address %q", ErrInvalidConfig, proxy)
		}
	}
	if c.WhatsApp.Enabled() && c.WhatsApp.Timeout <= 0 {
		return fmt.Errorf("%w: whatsapp.timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

func validProxy(s string) bool {
	if _, _, err := net.ParseCIDR(s); err == nil {
		return true
	}
	return net.ParseIP(s) != nil
}
