package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration required by the simulator processes.
// All values come from env (or an env-file loaded by the process runner).
// No business logic should depend on raw environment variables.
type Config struct {
	App     AppConfig
	Storage StorageConfig
	DB      DBConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Calls   CallsConfig
}

type AppConfig struct {
	Env  string
	Port int
}

// StorageConfig selects where the call log is persisted.
type StorageConfig struct {
	// Driver accepts: file, sqlite, postgres, redis, memory
	Driver       string
	Path         string
	Key          string
	WriteTimeout time.Duration
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string

	// Accepts: disable, require, verify-ca, verify-full
	SSLMode string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	Prefix   string
}

type AuthConfig struct {
	JWTSecret       string
	JWTIssuer       string
	JWTAudience     string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type CallsConfig struct {
	RingTimeout     time.Duration
	ConnectDelay    time.Duration
	SwipeTrackWidth float64
	SwipeButtonSize float64
	ContactsCount   int
	ContactsPage    int
}

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

func Load() (*Config, error) {
	c := &Config{}
	var parseErrs []error

	c.App.Env = strings.TrimSpace(os.Getenv("APP_ENV"))
	c.App.Port, parseErrs = collect(parseErrs, requiredInt("APP_PORT"))

	c.Storage.Driver = strings.TrimSpace(os.Getenv("STORAGE_DRIVER"))
	c.Storage.Path = strings.TrimSpace(os.Getenv("STORAGE_PATH"))
	c.Storage.Key = strings.TrimSpace(os.Getenv("STORAGE_KEY"))
	c.Storage.WriteTimeout, parseErrs = collect(parseErrs, optionalDuration("STORAGE_WRITE_TIMEOUT"))

	c.DB.Host = strings.TrimSpace(os.Getenv("DB_HOST"))
	c.DB.Port, parseErrs = collect(parseErrs, optionalInt("DB_PORT"))
	c.DB.User = strings.TrimSpace(os.Getenv("DB_USER"))
	c.DB.Password = os.Getenv("DB_PASSWORD")
	c.DB.Name = strings.TrimSpace(os.Getenv("DB_NAME"))
	c.DB.SSLMode = strings.TrimSpace(os.Getenv("DB_SSLMODE"))

	c.Redis.Host = strings.TrimSpace(os.Getenv("REDIS_HOST"))
	c.Redis.Port, parseErrs = collect(parseErrs, optionalInt("REDIS_PORT"))
	c.Redis.Password = os.Getenv("REDIS_PASSWORD")
	c.Redis.Prefix = strings.TrimSpace(os.Getenv("REDIS_PREFIX"))

	c.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	c.Auth.JWTIssuer = strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	c.Auth.JWTAudience = strings.TrimSpace(os.Getenv("JWT_AUDIENCE"))
	c.Auth.AccessTokenTTL, parseErrs = collect(parseErrs, optionalDuration("JWT_ACCESS_TTL"))
	c.Auth.RefreshTokenTTL, parseErrs = collect(parseErrs, optionalDuration("JWT_REFRESH_TTL"))

	var ringSet bool
	c.Calls.RingTimeout, ringSet, parseErrs = collectSet(parseErrs, "RING_TIMEOUT")
	if !ringSet {
		c.Calls.RingTimeout = -1
	}
	c.Calls.ConnectDelay, parseErrs = collect(parseErrs, optionalDuration("CONNECT_DELAY"))
	c.Calls.SwipeTrackWidth, parseErrs = collect(parseErrs, optionalFloat("SWIPE_TRACK_WIDTH"))
	c.Calls.SwipeButtonSize, parseErrs = collect(parseErrs, optionalFloat("SWIPE_BUTTON_SIZE"))
	c.Calls.ContactsCount, parseErrs = collect(parseErrs, optionalInt("CONTACTS_COUNT"))
	c.Calls.ContactsPage, parseErrs = collect(parseErrs, optionalInt("CONTACTS_PAGE_SIZE"))

	if err := joinErrors(parseErrs); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the config and fills defaults in place.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Env == "" {
		errs = append(errs, errors.New("APP_ENV is required"))
	} else if !isValidEnv(c.App.Env) {
		errs = append(errs, fmt.Errorf("APP_ENV must be one of local, dev, staging, production, got %q", c.App.Env))
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be a valid port, got %d", c.App.Port))
	}

	errs = append(errs, c.validateStorage()...)

	if c.IsProduction() && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		c.Auth.AccessTokenTTL = 15 * time.Minute
	}
	if c.Auth.RefreshTokenTTL <= 0 {
		c.Auth.RefreshTokenTTL = 30 * 24 * time.Hour
	}
	if c.Auth.RefreshTokenTTL <= c.Auth.AccessTokenTTL {
		errs = append(errs, errors.New("JWT_REFRESH_TTL must be greater than JWT_ACCESS_TTL"))
	}

	errs = append(errs, c.validateCalls()...)
	return joinErrors(errs)
}

func (c *Config) validateStorage() []error {
	var errs []error
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverFile
	}
	if c.Storage.Key == "" {
		c.Storage.Key = "@call_logs"
	}
	if c.Storage.WriteTimeout <= 0 {
		c.Storage.WriteTimeout = 5 * time.Second
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverFile:
		if c.Storage.Path == "" {
			c.Storage.Path = "./data"
		}
	case DriverSQLite:
		if c.Storage.Path == "" {
			c.Storage.Path = "./data/calls.db"
		}
	case DriverPostgres:
		if c.DB.Host == "" {
			errs = append(errs, errors.New("DB_HOST is required for the postgres driver"))
		}
		if c.DB.Port <= 0 || c.DB.Port > 65535 {
			errs = append(errs, fmt.Errorf("DB_PORT must be a valid port, got %d", c.DB.Port))
		}
		if c.DB.User == "" {
			errs = append(errs, errors.New("DB_USER is required for the postgres driver"))
		}
		if c.DB.Name == "" {
			errs = append(errs, errors.New("DB_NAME is required for the postgres driver"))
		}
		if c.DB.SSLMode == "" {
			if c.IsProduction() {
				errs = append(errs, errors.New("DB_SSLMODE is required in production"))
			} else {
				c.DB.SSLMode = "disable"
			}
		}
		if c.DB.SSLMode != "" && !isValidSSLMode(c.DB.SSLMode) {
			errs = append(errs, fmt.Errorf("DB_SSLMODE must be one of disable, require, verify-ca, verify-full, got %q", c.DB.SSLMode))
		}
	case DriverRedis:
		if c.Redis.Host == "" {
			errs = append(errs, errors.New("REDIS_HOST is required for the redis driver"))
		}
		if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
			errs = append(errs, fmt.Errorf("REDIS_PORT must be a valid port, got %d", c.Redis.Port))
		}
		if c.Redis.Prefix == "" {
			c.Redis.Prefix = "callsim:"
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be one of file, sqlite, postgres, redis, memory, got %q", c.Storage.Driver))
	}
	return errs
}

func (c *Config) validateCalls() []error {
	var errs []error
	// Negative means unset; an explicit 0 disables the ring timeout.
	if c.Calls.RingTimeout < 0 {
		c.Calls.RingTimeout = 30 * time.Second
	}
	if c.Calls.ConnectDelay <= 0 {
		c.Calls.ConnectDelay = 1500 * time.Millisecond
	}
	if c.Calls.SwipeTrackWidth == 0 {
		c.Calls.SwipeTrackWidth = 335
	}
	if c.Calls.SwipeButtonSize == 0 {
		c.Calls.SwipeButtonSize = 70
	}
	if c.Calls.SwipeTrackWidth <= c.Calls.SwipeButtonSize {
		errs = append(errs, fmt.Errorf("SWIPE_TRACK_WIDTH (%v) must exceed SWIPE_BUTTON_SIZE (%v)", c.Calls.SwipeTrackWidth, c.Calls.SwipeButtonSize))
	}
	if c.Calls.ContactsCount <= 0 {
		c.Calls.ContactsCount = 100
	}
	if c.Calls.ContactsPage <= 0 {
		c.Calls.ContactsPage = 12
	}
	return errs
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != ""
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

func (c *Config) PostgresDSN() string {
	// Avoid logging this string; it contains secrets.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DB.Host,
		c.DB.Port,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.SSLMode,
	)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

type parsed[T any] struct {
	v   T
	err error
}

func collect[T any](errs []error, p parsed[T]) (T, []error) {
	if p.err != nil {
		errs = append(errs, p.err)
	}
	return p.v, errs
}

func collectSet(errs []error, key string) (time.Duration, bool, []error) {
	set := strings.TrimSpace(os.Getenv(key)) != ""
	d, errs := collect(errs, optionalDuration(key))
	return d, set, errs
}

func requiredInt(key string) parsed[int] {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return parsed[int]{err: fmt.Errorf("%s is required", key)}
	}
	return optionalInt(key)
}

func optionalInt(key string) parsed[int] {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return parsed[int]{}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return parsed[int]{err: fmt.Errorf("%s must be an integer, got %q", key, v)}
	}
	return parsed[int]{v: n}
}

func optionalFloat(key string) parsed[float64] {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return parsed[float64]{}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return parsed[float64]{err: fmt.Errorf("%s must be a number, got %q", key, v)}
	}
	return parsed[float64]{v: f}
}

func optionalDuration(key string) parsed[time.Duration] {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return parsed[time.Duration]{}
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return parsed[time.Duration]{err: fmt.Errorf("%s must be a duration, got %q", key, v)}
	}
	return parsed[time.Duration]{v: d}
}

func isValidEnv(v string) bool {
	switch v {
	case "local", "dev", "staging", "production":
		return true
	default:
		return false
	}
}

func isValidSSLMode(v string) bool {
	switch v {
	case "disable", "require", "verify-ca", "verify-full":
		return true
	default:
		return false
	}
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}
	var b strings.Builder
	b.WriteString("config errors:\n")
	for _, e := range errs {
		b.WriteString("- ")
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return errors.New(strings.TrimSpace(b.String()))
}
