package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	Session  SessionConfig
	Redis    RedisConfig
	Password PasswordConfig
	Ledger   LedgerConfig
	Audio    AudioConfig
	Google   GoogleConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Store.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Session.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CLIPSCRIPT_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"CLIPSCRIPT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CLIPSCRIPT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// StoreConfig describes the structured local store engine.
type StoreConfig struct {
	Driver       string        `envconfig:"CLIPSCRIPT_STORE_DRIVER" default:"sqlite"`
	DSN          string        `envconfig:"CLIPSCRIPT_STORE_DSN" default:"clipscript.db"`
	BusyTimeout  time.Duration `envconfig:"CLIPSCRIPT_STORE_BUSY_TIMEOUT" default:"5s"`
	MaxOpenConns int           `envconfig:"CLIPSCRIPT_STORE_MAX_OPEN_CONNS" default:"1"`
}

// IsSQLite reports whether the store runs on the embedded SQLite engine.
func (s StoreConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(s.Driver), DriverSQLite)
}

func (s *StoreConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	switch s.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("%s must be one of %s|%s, got %q", EnvStoreDriver, DriverSQLite, DriverPostgres, s.Driver)
	}
	if strings.TrimSpace(s.DSN) == "" {
		return fmt.Errorf("%s is required", EnvStoreDSN)
	}
	return nil
}

// SessionConfig selects where the current-session profile is cached.
type SessionConfig struct {
	Backend  string `envconfig:"CLIPSCRIPT_SESSION_BACKEND" default:"local"`
	Key      string `envconfig:"CLIPSCRIPT_SESSION_KEY" default:"clipscript_session"`
	LocalDSN string `envconfig:"CLIPSCRIPT_SESSION_LOCAL_DSN" default:"clipscript_session.db"`
}

func (s *SessionConfig) validate() error {
	s.Backend = strings.ToLower(strings.TrimSpace(s.Backend))
	switch s.Backend {
	case SessionBackendLocal, SessionBackendRedis:
	default:
		return fmt.Errorf("%s must be one of %s|%s, got %q", EnvSessionBackend, SessionBackendLocal, SessionBackendRedis, s.Backend)
	}
	if strings.TrimSpace(s.Key) == "" {
		return fmt.Errorf("%s is required", EnvSessionKey)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"CLIPSCRIPT_REDIS_URL"`
	Address      string        `envconfig:"CLIPSCRIPT_REDIS_ADDR"`
	Password     string        `envconfig:"CLIPSCRIPT_REDIS_PASSWORD"`
	DB           int           `envconfig:"CLIPSCRIPT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CLIPSCRIPT_REDIS_POOL_SIZE" default:"4"`
	MinIdleConns int           `envconfig:"CLIPSCRIPT_REDIS_MIN_IDLE_CONNS" default:"1"`
	DialTimeout  time.Duration `envconfig:"CLIPSCRIPT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CLIPSCRIPT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CLIPSCRIPT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CLIPSCRIPT_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CLIPSCRIPT_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CLIPSCRIPT_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CLIPSCRIPT_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CLIPSCRIPT_ARGON_KEY_LEN" default:"32"`
}

type LedgerConfig struct {
	StartingCredits int `envconfig:"CLIPSCRIPT_LEDGER_STARTING_CREDITS" default:"10"`
	GenerationCost  int `envconfig:"CLIPSCRIPT_LEDGER_GENERATION_COST" default:"1"`
}

type AudioConfig struct {
	SampleRate   int    `envconfig:"CLIPSCRIPT_AUDIO_SAMPLE_RATE" default:"24000"`
	DefaultVoice string `envconfig:"CLIPSCRIPT_AUDIO_DEFAULT_VOICE" default:"Kore"`
}

type GoogleConfig struct {
	ClientID     string `envconfig:"CLIPSCRIPT_GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"CLIPSCRIPT_GOOGLE_CLIENT_SECRET"`
	RedirectURL  string `envconfig:"CLIPSCRIPT_GOOGLE_REDIRECT_URL" default:"http://localhost:8080/auth/google/callback"`
}

// Enabled reports whether Google sign-in credentials were supplied.
func (g GoogleConfig) Enabled() bool {
	return strings.TrimSpace(g.ClientID) != "" && strings.TrimSpace(g.ClientSecret) != ""
}
