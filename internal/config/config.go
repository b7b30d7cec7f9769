// config предоставляет структуру конфигурации сервиса регистрации и функции
// загрузки из файла/переменных окружения с предсказуемым приоритетом.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"golang.org/x/crypto/bcrypt"
)

// Config: корневая конфигурация сервиса.
// Источники значений (по убыванию приоритета):
//  1. явный путь через флаг --config;
//  2. путь в переменной окружения CONFIG_PATH;
//  3. файл local.yaml из рабочей директории;
//  4. переменные окружения (cleanenv).
type Config struct {
	Env       string          `yaml:"env" env:"ENV" env-default:"local"`
	HTTP      HTTPConfig      `yaml:"http"`
	DB        DBConfig        `yaml:"db"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Password  PasswordConfig  `yaml:"password"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	Timeouts  TimeoutConfig   `yaml:"timeouts"`
}

// HTTPConfig: сетевые настройки HTTP-сервера.
// TrustProxy включает разбор X-Real-IP/X-Forwarded-For: только за доверенным прокси,
// иначе клиент сам выбирает себе ключ лимитера.
type HTTPConfig struct {
	Host              string        `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port              string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	TrustProxy        bool          `yaml:"trust_proxy" env:"HTTP_TRUST_PROXY" env-default:"false"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" env:"HTTP_READ_HEADER_TIMEOUT" env-default:"5s"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, h.Port)
}

// DBConfig: настройки пула соединений PostgreSQL.
type DBConfig struct {
	DatabaseURL     string        `yaml:"db_url" env:"DATABASE_URL" env-required:"true"`
	MaxConns        int32         `yaml:"max_conns" env:"DB_MAX_CONNS"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DB_MAX_CONN_IDLE_TIME" env-default:"30s"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT" env-default:"2s"`
	AutoMigrate     bool          `yaml:"auto_migrate" env:"DB_AUTO_MIGRATE"`
}

// RateLimitConfig: политика ограничения попыток регистрации с одного адреса.
type RateLimitConfig struct {
	MaxAttempts   int           `yaml:"max_attempts" env:"RATE_LIMIT_MAX_ATTEMPTS"`
	Window        time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"RATE_LIMIT_SWEEP_INTERVAL"`
}

// PasswordConfig: параметры bcrypt.
type PasswordConfig struct {
	BcryptCost int `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
}

// SessionsConfig: обслуживание таблицы sessions.
type SessionsConfig struct {
	JanitorPeriod time.Duration `yaml:"janitor_period" env:"SESSIONS_JANITOR_PERIOD"`
}

// TimeoutConfig: таймауты сервиса. 0 отключает общий дедлайн запроса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"0s"`
}

// Validate проверяет значения, которые cleanenv пропускает без ошибок.
func (c *Config) Validate() error {
	const op = "config.Validate"

	var errs []error

	if c.DB.MaxConns <= 0 {
		errs = append(errs, fmt.Errorf("db.max_conns must be positive, got %d", c.DB.MaxConns))
	}
	if c.DB.ConnectTimeout < 0 || c.DB.MaxConnIdleTime < 0 {
		errs = append(errs, errors.New("db timeouts must not be negative"))
	}
	if c.RateLimit.MaxAttempts <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.max_attempts must be positive, got %d", c.RateLimit.MaxAttempts))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, fmt.Errorf("rate_limit.window must be positive, got %s", c.RateLimit.Window))
	}
	if c.Password.BcryptCost < bcrypt.MinCost || c.Password.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("password.bcrypt_cost must be in [%d, %d], got %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.Password.BcryptCost))
	}
	if c.Timeouts.Service < 0 {
		errs = append(errs, fmt.Errorf("timeouts.service must not be negative, got %s", c.Timeouts.Service))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Defaults возвращает конфигурацию со значениями по умолчанию для полей,
// у которых нулевое значение осмысленно (false, 0 отключает janitor) или
// должно отсеиваться в Validate. cleanenv подставляет env-default в любое
// нулевое поле, поэтому эти значения задаются до чтения YAML.
func Defaults() Config {
	return Config{
		DB: DBConfig{
			MaxConns:    20,
			AutoMigrate: true,
		},
		RateLimit: RateLimitConfig{
			MaxAttempts:   5,
			Window:        time.Hour,
			SweepInterval: 10 * time.Minute,
		},
		Password: PasswordConfig{BcryptCost: bcrypt.DefaultCost},
		Sessions: SessionsConfig{JanitorPeriod: 30 * time.Minute},
	}
}

// MustLoad: обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
// После чтения файла ENV-переменные накладываются поверх значений из YAML.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	readFile := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	var (
		out *Config
		err error
	)

	switch {
	case path != "":
		out, err = readFile(path)
	case os.Getenv("CONFIG_PATH") != "":
		out, err = readFile(os.Getenv("CONFIG_PATH"))
	default:
		if _, statErr := os.Stat("local.yaml"); statErr == nil {
			out, err = readFile("local.yaml")
			break
		}

		if envErr := cleanenv.ReadEnv(&cfg); envErr != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", envErr)
		}
		out = &cfg
	}

	if err != nil {
		return nil, err
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}

	return out, nil
}
