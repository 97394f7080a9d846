package config

const EnvPrefix = "STOREFRONT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"
	StorageDriverDB     = "db"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	EnvAppEnv                = "STOREFRONT_APP_ENV"
	EnvPort                  = "STOREFRONT_APP_PORT"
	EnvLogLevel              = "STOREFRONT_LOG_LEVEL"
	EnvCORSOrigins           = "STOREFRONT_CORS_ORIGINS"
	EnvTrustProxyHeaders     = "STOREFRONT_TRUST_PROXY_HEADERS"
	EnvStorageDriver         = "STOREFRONT_STORAGE_DRIVER"
	EnvRedisURL              = "STOREFRONT_REDIS_URL"
	EnvRedisAddr             = "STOREFRONT_REDIS_ADDR"
	EnvDBDSN                 = "STOREFRONT_DB_DSN"
	EnvDBDriver              = "STOREFRONT_DB_DRIVER"
	EnvDBAutoMigrate         = "STOREFRONT_DB_AUTO_MIGRATE"
	EnvSignInDispatchDelay   = "STOREFRONT_SIGNIN_DISPATCH_DELAY"
	EnvSignInMessagingURL    = "STOREFRONT_SIGNIN_MESSAGING_BASE_URL"
	EnvSignInCountryCode     = "STOREFRONT_SIGNIN_COUNTRY_CODE"
	EnvSignInRateLimitWindow = "STOREFRONT_SIGNIN_RATE_LIMIT_WINDOW"
	EnvSignInRateLimit       = "STOREFRONT_SIGNIN_RATE_LIMIT"
	EnvGoogleClientID        = "STOREFRONT_GOOGLE_CLIENT_ID"
	EnvAdminPasswordHash     = "STOREFRONT_ADMIN_PASSWORD_HASH"
	EnvSessionIdleTTL        = "STOREFRONT_SESSION_IDLE_TTL"
	EnvSessionSweepInterval  = "STOREFRONT_SESSION_SWEEP_INTERVAL"
	EnvSessionFeedSize       = "STOREFRONT_SESSION_FEED_SIZE"
)
