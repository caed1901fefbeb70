package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port        string        `env:"PORT,         default=8080"`
	Env         string        `env:"ENV,          default=development"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	BasePath    string        `env:"BASE_PATH,    default=/api"`
	JWTSecret   string        `env:"JWT_SECRET"`
	JWTTTL      time.Duration `env:"JWT_TTL,      default=24h"`
	BcryptCost  int           `env:"BCRYPT_COST,  default=10"`
	CORSOrigins []string      `env:"CORS_ORIGINS, default=*"`

	DB       DBConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
	SMTP     SMTPConfig
	Notifier NotifierConfig
}

type DBConfig struct {
	Driver      string `env:"DB_DRIVER,    default=sqlite"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH,  default=./data/money.db"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=money_manager"`
}

// RedisConfig leaves the dashboard cache disabled when Addr is empty.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,            default=0"`
	CacheTTL time.Duration `env:"DASHBOARD_CACHE_TTL, default=5m"`
}

// AMQPConfig leaves event publishing disabled when URL is empty.
type AMQPConfig struct {
	URL      string `env:"AMQP_URL"`
	Exchange string `env:"AMQP_EXCHANGE, default=moneymanager.events"`
	Queue    string `env:"AMQP_QUEUE,    default=moneymanager.notifications"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     string `env:"SMTP_PORT,     default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM,     default=no-reply@moneymanager.local"`
}

type NotifierConfig struct {
	Workers int `env:"NOTIFIER_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.BasePath = normalizeBasePath(cfg.BasePath)
	return &cfg, nil
}

// Validate checks settings the API server cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DB.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.DB.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for DB_DRIVER=%s", DriverPostgres)
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required for DB_DRIVER=%s", DriverMongo)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func normalizeBasePath(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
