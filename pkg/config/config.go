package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"
)

const (
	EnvPrefix = "SUPPLYCHAIN"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv                 = "SUPPLYCHAIN_APP_ENV"
	EnvPort                   = "SUPPLYCHAIN_APP_PORT"
	EnvDBDSN                  = "SUPPLYCHAIN_DB_DSN"
	EnvDBHost                 = "SUPPLYCHAIN_DB_HOST"
	EnvDBUser                 = "SUPPLYCHAIN_DB_USER"
	EnvDBName                 = "SUPPLYCHAIN_DB_NAME"
	EnvRedisURL               = "SUPPLYCHAIN_REDIS_URL"
	EnvJWTSecret              = "SUPPLYCHAIN_JWT_SECRET"
	EnvJWTIssuer              = "SUPPLYCHAIN_JWT_ISSUER"
	EnvJWTExpMins             = "SUPPLYCHAIN_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "SUPPLYCHAIN_REFRESH_TOKEN_TTL_MINUTES"
	EnvUseSQLite              = "SUPPLYCHAIN_USE_SQLITE"
	EnvStrictTransitions      = "SUPPLYCHAIN_STRICT_ORDER_TRANSITIONS"
	EnvCORSOrigins            = "SUPPLYCHAIN_CORS_ALLOWED_ORIGINS"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
	Metrics       MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseSQLite {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every semantic problem with the loaded values at once.
func (c *Config) Validate() error {
	var errs error
	if c.JWT.ExpirationMinutes <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s must be positive", EnvJWTExpMins))
	}
	if ttl := c.JWT.RefreshTokenTTL(); ttl > 0 && ttl <= time.Duration(c.JWT.ExpirationMinutes)*time.Minute {
		errs = multierr.Append(errs, fmt.Errorf("%s must exceed the access token lifetime", EnvRefreshTokenTTLMinutes))
	}
	if c.FeatureFlags.UseSQLite && c.App.IsProd() {
		errs = multierr.Append(errs, fmt.Errorf("%s is not allowed in production", EnvUseSQLite))
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = multierr.Append(errs, fmt.Errorf("metrics path %q must start with /", c.Metrics.Path))
	}
	return errs
}

type AppConfig struct {
	Env             string        `envconfig:"SUPPLYCHAIN_APP_ENV" required:"true"`
	Port            string        `envconfig:"SUPPLYCHAIN_APP_PORT" required:"true"`
	LogLevel        string        `envconfig:"SUPPLYCHAIN_LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"SUPPLYCHAIN_LOG_FORMAT" default:"json"`
	LogWarnStack    bool          `envconfig:"SUPPLYCHAIN_LOG_WARN_STACK" default:"false"`
	ReadTimeout     time.Duration `envconfig:"SUPPLYCHAIN_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SUPPLYCHAIN_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SUPPLYCHAIN_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN        string `envconfig:"SUPPLYCHAIN_DB_DSN"`
	Driver     string `envconfig:"SUPPLYCHAIN_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"SUPPLYCHAIN_SQLITE_PATH" default:"supplychain.db"`

	LegacyHost     string `envconfig:"SUPPLYCHAIN_DB_HOST"`
	LegacyPort     int    `envconfig:"SUPPLYCHAIN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SUPPLYCHAIN_DB_USER"`
	LegacyPassword string `envconfig:"SUPPLYCHAIN_DB_PASSWORD"`
	LegacyName     string `envconfig:"SUPPLYCHAIN_DB_NAME"`
	LegacySSLMode  string `envconfig:"SUPPLYCHAIN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SUPPLYCHAIN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SUPPLYCHAIN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SUPPLYCHAIN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SUPPLYCHAIN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SUPPLYCHAIN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SUPPLYCHAIN_REDIS_ADDR"`
	Password     string        `envconfig:"SUPPLYCHAIN_REDIS_PASSWORD"`
	DB           int           `envconfig:"SUPPLYCHAIN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SUPPLYCHAIN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SUPPLYCHAIN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SUPPLYCHAIN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SUPPLYCHAIN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SUPPLYCHAIN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SUPPLYCHAIN_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SUPPLYCHAIN_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SUPPLYCHAIN_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SUPPLYCHAIN_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SUPPLYCHAIN_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SUPPLYCHAIN_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SUPPLYCHAIN_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SUPPLYCHAIN_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SUPPLYCHAIN_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SUPPLYCHAIN_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"SUPPLYCHAIN_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SUPPLYCHAIN_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite              bool `envconfig:"SUPPLYCHAIN_USE_SQLITE" default:"false"`
	AutoMigrate            bool `envconfig:"SUPPLYCHAIN_AUTO_MIGRATE" default:"false"`
	StrictOrderTransitions bool `envconfig:"SUPPLYCHAIN_STRICT_ORDER_TRANSITIONS" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SUPPLYCHAIN_CORS_ALLOWED_ORIGINS" default:"http://localhost:8080,http://localhost:3000"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"SUPPLYCHAIN_METRICS_ENABLED" default:"true"`
	Path    string `envconfig:"SUPPLYCHAIN_METRICS_PATH" default:"/metrics"`
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
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
