package config

import (
	"fmt"
	"github.com/mufasadev/velocity-ledger/pkg/money"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

var cfg *Config
var once sync.Once

// Config is the configuration for the application
type Config struct {
	Server
	PostgreSQL
	Process
	Ledger
	Auth
	Events
	Log
	CORS
}

// Process configures the periodic ledger reconciliation.
type Process struct {
	Interval string `env:"PROCESS_INTERVAL" envDefault:"10"`
}

// IntervalDuration returns the reconciliation period; the env value is in minutes.
func (p Process) IntervalDuration() time.Duration {
	return time.Duration(atoi(p.Interval, 10)) * time.Minute
}

// Server is the configuration for the server
type Server struct {
	Port string `env:"PORT" envDefault:"8000"`
}

// Addr returns the address for the server
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%s", "0.0.0.0", s.Port)
}

// PostgreSQL is the configuration for the audit journal database
type PostgreSQL struct {
	Enabled         string `env:"DB_ENABLED" envDefault:"false"`
	Driver          string `env:"DB_DRIVER" envDefault:"postgres"`
	Host            string `env:"DB_HOST" envDefault:"localhost"`
	Port            string `env:"DB_PORT" envDefault:"5432"`
	Database        string `env:"DB_DATABASE" envDefault:"velocity_ledger"`
	Username        string `env:"DB_USERNAME" envDefault:"velocity_ledger"`
	Password        string `env:"DB_PASSWORD" envDefault:"velocity_ledger"`
	SSLMode         string `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConnAttempts string `env:"DB_MAX_CONN_ATTEMPTS" envDefault:"5"`
}

// DSN returns the DSN for the database
func (c PostgreSQL) DSN() string {
	return fmt.Sprintf("%s://%s:%s@%s:%s/%s?sslmode=%s",
		c.Driver,
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
		c.SSLMode,
	)
}

func (c PostgreSQL) IsEnabled() bool {
	return parseBool(c.Enabled)
}

// Ledger tunes the in-memory ledger core.
type Ledger struct {
	WelcomeBonus     string `env:"LEDGER_WELCOME_BONUS" envDefault:"1000.00"`
	LockAttempts     string `env:"LEDGER_LOCK_ATTEMPTS" envDefault:"100"`
	LockRetryDelay   string `env:"LEDGER_LOCK_RETRY_DELAY_MS" envDefault:"1"`
	DashboardLimit   string `env:"LEDGER_DASHBOARD_LIMIT" envDefault:"5"`
	TransferAttempts string `env:"TRANSFER_MAX_ATTEMPTS" envDefault:"3"`
}

// WelcomeBonusAmount is the seed credit of every new user's first account.
func (l Ledger) WelcomeBonusAmount() money.Amount {
	a, err := money.Parse(l.WelcomeBonus)
	if err != nil || a < 0 {
		return money.MustParse("1000.00")
	}
	return a
}

func (l Ledger) LockAttemptsCount() int {
	return atoi(l.LockAttempts, 100)
}

func (l Ledger) LockRetryDelayDuration() time.Duration {
	return time.Duration(atoi(l.LockRetryDelay, 1)) * time.Millisecond
}

func (l Ledger) DashboardLimitCount() int {
	return atoi(l.DashboardLimit, 5)
}

func (l Ledger) TransferAttemptsCount() int {
	return atoi(l.TransferAttempts, 3)
}

// Auth configures token issuance.
type Auth struct {
	JWTSecret string `env:"JWT_SECRET" envDefault:"change-me"`
	TokenTTL  string `env:"JWT_TTL_HOURS" envDefault:"24"`
}

func (a Auth) TokenTTLDuration() time.Duration {
	return time.Duration(atoi(a.TokenTTL, 24)) * time.Hour
}

// Events selects where ledger events are published: none, redis or nats.
type Events struct {
	Driver        string `env:"EVENTS_DRIVER" envDefault:"none"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       string `env:"REDIS_DB" envDefault:"0"`
	NATSURL       string `env:"NATS_URL" envDefault:"nats://localhost:4222"`
}

func (e Events) RedisDBIndex() int {
	return atoi(e.RedisDB, 0)
}

type Log struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	File  string `env:"LOG_FILE" envDefault:""`
}

type CORS struct {
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
}

// Origins splits the comma separated origin list.
func (c CORS) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load loads the configuration from environment variables
func Load() *Config {
	once.Do(func() {
		cfg = Parse()
	})

	return cfg
}

// Parse reads a fresh configuration from the environment.
func Parse() *Config {
	c := &Config{}
	cfgType := reflect.TypeOf(*c)
	cfgValue := reflect.ValueOf(c).Elem()

	for i := 0; i < cfgType.NumField(); i++ {
		field := cfgType.Field(i)
		fieldValue := cfgValue.Field(i)
		for j := 0; j < field.Type.NumField(); j++ {
			subField := field.Type.Field(j)
			envVar := subField.Tag.Get("env")
			envDefault := subField.Tag.Get("envDefault")
			value := getEnv(envVar, envDefault)

			fieldValue.Field(j).SetString(value)
		}
	}

	return c
}

// getEnv retrieves the value of the environment variable named by the key or returns the defaultValue if not set
func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = defaultValue
	}
	return value
}

func atoi(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func parseBool(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
}
