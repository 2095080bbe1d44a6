package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv = "SHOOTFLOW_APP_ENV"
	EnvPort   = "SHOOTFLOW_APP_PORT"
	EnvDBDSN  = "SHOOTFLOW_DB_DSN"
	EnvDBHost = "SHOOTFLOW_DB_HOST"
	EnvDBUser = "SHOOTFLOW_DB_USER"
	EnvDBName = "SHOOTFLOW_DB_NAME"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"SHOOTFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOOTFLOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SHOOTFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOOTFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"SHOOTFLOW_DB_DSN"`

	LegacyHost     string `envconfig:"SHOOTFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"SHOOTFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SHOOTFLOW_DB_USER"`
	LegacyPassword string `envconfig:"SHOOTFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"SHOOTFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"SHOOTFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SHOOTFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SHOOTFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SHOOTFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SHOOTFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SHOOTFLOW_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range []string{EnvDBHost, EnvDBUser, EnvDBName} {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("database config incomplete: set %s or %s", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:     db.LegacyName,
		RawQuery: "sslmode=" + db.LegacySSLMode,
	}
	db.DSN = u.String()
	return nil
}
