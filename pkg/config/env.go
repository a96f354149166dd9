package config

const EnvPrefix = "STOCKROOM"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "STOCKROOM_APP_ENV"
	EnvPort       = "STOCKROOM_APP_PORT"
	EnvLogLevel   = "STOCKROOM_LOG_LEVEL"
	EnvDBDSN      = "STOCKROOM_DB_DSN"
	EnvDBHost     = "STOCKROOM_DB_HOST"
	EnvDBUser     = "STOCKROOM_DB_USER"
	EnvDBName     = "STOCKROOM_DB_NAME"
	EnvRedisURL   = "STOCKROOM_REDIS_URL"
	EnvJWTSecret  = "STOCKROOM_JWT_SECRET"
	EnvJWTIssuer  = "STOCKROOM_JWT_ISSUER"
	EnvJWTExpMins = "STOCKROOM_JWT_EXPIRATION_MINUTES"

	EnvRefreshTokenTTLMinutes = "STOCKROOM_REFRESH_TOKEN_TTL_MINUTES"
	EnvSeedDemoData           = "STOCKROOM_SEED_DEMO_DATA"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
