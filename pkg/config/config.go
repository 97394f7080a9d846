package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Redis    RedisConfig
	DB       DBConfig
	SignIn   SignInConfig
	Identity IdentityConfig
	Admin    AdminConfig
	Password PasswordConfig
	Session  SessionConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
	// CORSOrigins is a comma separated allow list for browser clients.
	CORSOrigins []string `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool `envconfig:"STOREFRONT_TRUST_PROXY_HEADERS" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StorageConfig selects the backend behind the session key-value port.
type StorageConfig struct {
	Driver string        `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"memory"`
	KeyTTL time.Duration `envconfig:"STOREFRONT_STORAGE_KEY_TTL" default:"0s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type DBConfig struct {
	DSN    string `envconfig:"STOREFRONT_DB_DSN"`
	Driver string `envconfig:"STOREFRONT_DB_DRIVER" default:"sqlite"`
	// AutoMigrate applies the embedded migrations when the api boots.
	AutoMigrate bool `envconfig:"STOREFRONT_DB_AUTO_MIGRATE" default:"true"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOREFRONT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type SignInConfig struct {
	DispatchDelay    time.Duration `envconfig:"STOREFRONT_SIGNIN_DISPATCH_DELAY" default:"900ms"`
	MessagingBaseURL string        `envconfig:"STOREFRONT_SIGNIN_MESSAGING_BASE_URL" default:"https://wa.me"`
	CountryCode      string        `envconfig:"STOREFRONT_SIGNIN_COUNTRY_CODE" default:"91"`
	RateLimitWindow  time.Duration `envconfig:"STOREFRONT_SIGNIN_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimit        int           `envconfig:"STOREFRONT_SIGNIN_RATE_LIMIT" default:"5"`
}

type IdentityConfig struct {
	GoogleClientID string `envconfig:"STOREFRONT_GOOGLE_CLIENT_ID"`
}

// Enabled reports whether federated sign-in can be offered.
func (i IdentityConfig) Enabled() bool {
	return strings.TrimSpace(i.GoogleClientID) != ""
}

type AdminConfig struct {
	PasswordHash string `envconfig:"STOREFRONT_ADMIN_PASSWORD_HASH"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"STOREFRONT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"STOREFRONT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"STOREFRONT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"STOREFRONT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"STOREFRONT_ARGON_KEY_LEN" default:"32"`
}

type SessionConfig struct {
	IdleTTL       time.Duration `envconfig:"STOREFRONT_SESSION_IDLE_TTL" default:"30m"`
	SweepInterval time.Duration `envconfig:"STOREFRONT_SESSION_SWEEP_INTERVAL" default:"1m"`
	FeedSize      int           `envconfig:"STOREFRONT_SESSION_FEED_SIZE" default:"20"`
}

func (c *Config) validate() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case StorageDriverMemory:
	case StorageDriverRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("either %s or %s is required for the redis storage driver", EnvRedisURL, EnvRedisAddr)
		}
	case StorageDriverDB:
		if err := c.DB.validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%s must be one of memory, redis, db (got %q)", EnvStorageDriver, c.Storage.Driver)
	}

	if !isDigits(c.SignIn.CountryCode) {
		return fmt.Errorf("%s must contain digits only", EnvSignInCountryCode)
	}
	if c.SignIn.DispatchDelay < 0 {
		return fmt.Errorf("%s cannot be negative", EnvSignInDispatchDelay)
	}
	if c.Session.IdleTTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvSessionIdleTTL)
	}
	if c.Session.FeedSize <= 0 {
		return fmt.Errorf("%s must be positive", EnvSessionFeedSize)
	}
	return nil
}

func (db *DBConfig) validate() error {
	db.Driver = strings.ToLower(strings.TrimSpace(db.Driver))
	switch db.Driver {
	case DBDriverPostgres, DBDriverSQLite:
	default:
		return fmt.Errorf("%s must be postgres or sqlite (got %q)", EnvDBDriver, db.Driver)
	}
	if db.DSN == "" {
		return fmt.Errorf("%s is required for the db storage driver", EnvDBDSN)
	}
	return nil
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
