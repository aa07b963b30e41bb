package config

const EnvPrefix = "CLIPSCRIPT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	SessionBackendLocal = "local"
	SessionBackendRedis = "redis"
)

const (
	EnvAppEnv               = "CLIPSCRIPT_APP_ENV"
	EnvLogLevel             = "CLIPSCRIPT_LOG_LEVEL"
	EnvStoreDriver          = "CLIPSCRIPT_STORE_DRIVER"
	EnvStoreDSN             = "CLIPSCRIPT_STORE_DSN"
	EnvStoreBusyTimeout     = "CLIPSCRIPT_STORE_BUSY_TIMEOUT"
	EnvSessionBackend       = "CLIPSCRIPT_SESSION_BACKEND"
	EnvSessionKey           = "CLIPSCRIPT_SESSION_KEY"
	EnvSessionLocalDSN      = "CLIPSCRIPT_SESSION_LOCAL_DSN"
	EnvRedisURL             = "CLIPSCRIPT_REDIS_URL"
	EnvLedgerStartingCredit = "CLIPSCRIPT_LEDGER_STARTING_CREDITS"
	EnvAudioSampleRate      = "CLIPSCRIPT_AUDIO_SAMPLE_RATE"
	EnvGoogleClientID       = "CLIPSCRIPT_GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret   = "CLIPSCRIPT_GOOGLE_CLIENT_SECRET"
)
