package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "furnimart"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App         AppConfig
	DB          DBConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Password    PasswordConfig
	Razorpay    RazorpayConfig
	Idempotency IdempotencyConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FURNIMART_APP_ENV" required:"true"`
	Port         string `envconfig:"FURNIMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FURNIMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FURNIMART_LOG_WARN_STACK" default:"false"`
	FrontendURL  string `envconfig:"FURNIMART_FRONTEND_URL" default:"http://localhost:5174"`
	AutoMigrate  bool   `envconfig:"FURNIMART_APP_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"FURNIMART_DB_DSN"`

	Host     string `envconfig:"FURNIMART_DB_HOST"`
	Port     int    `envconfig:"FURNIMART_DB_PORT" default:"5432"`
	User     string `envconfig:"FURNIMART_DB_USER"`
	Password string `envconfig:"FURNIMART_DB_PASSWORD"`
	Name     string `envconfig:"FURNIMART_DB_NAME"`
	SSLMode  string `envconfig:"FURNIMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FURNIMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FURNIMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FURNIMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FURNIMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	if db.Host == "" {
		missing = append(missing, "FURNIMART_DB_HOST")
	}
	if db.User == "" {
		missing = append(missing, "FURNIMART_DB_USER")
	}
	if db.Name == "" {
		missing = append(missing, "FURNIMART_DB_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("database config incomplete, set FURNIMART_DB_DSN or %s", strings.Join(missing, ", "))
	}

	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(db.User, db.Password),
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	query := dsn.Query()
	query.Set("sslmode", db.SSLMode)
	dsn.RawQuery = query.Encode()

	db.DSN = dsn.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"FURNIMART_REDIS_URL" required:"true"`
	Password     string        `envconfig:"FURNIMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"FURNIMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FURNIMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FURNIMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FURNIMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FURNIMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FURNIMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FURNIMART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FURNIMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FURNIMART_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the access token TTL.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FURNIMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FURNIMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FURNIMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FURNIMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FURNIMART_ARGON_KEY_LEN" default:"32"`
}

type RazorpayConfig struct {
	KeyID    string `envconfig:"FURNIMART_RAZORPAY_KEY_ID" required:"true"`
	Secret   string `envconfig:"FURNIMART_RAZORPAY_SECRET" required:"true"`
	BaseURL  string `envconfig:"FURNIMART_RAZORPAY_BASE_URL" default:"https://api.razorpay.com"`
	Currency string `envconfig:"FURNIMART_RAZORPAY_CURRENCY" default:"INR"`
}

type IdempotencyConfig struct {
	TTL time.Duration `envconfig:"FURNIMART_IDEMPOTENCY_TTL" default:"24h"`
}
