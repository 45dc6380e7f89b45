package config

// EnvPrefix namespaces every storefront environment variable.
const EnvPrefix = "ESHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvSQLitePath = "ESHOP_SQLITE_PATH"
	EnvRedisURL   = "ESHOP_REDIS_URL"
	EnvRedisAddr  = "ESHOP_REDIS_ADDR"
)
