package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "FURNORA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Catalog       CatalogConfig
	Analytics     AnalyticsConfig
	Square        SquareConfig
	Client        ClientConfig
	Static        StaticConfig
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
	Env          string `envconfig:"FURNORA_APP_ENV" required:"true"`
	Port         string `envconfig:"FURNORA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FURNORA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FURNORA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FURNORA_DB_DSN"`
	Driver string `envconfig:"FURNORA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"FURNORA_DB_HOST"`
	Port     int    `envconfig:"FURNORA_DB_PORT" default:"5432"`
	User     string `envconfig:"FURNORA_DB_USER"`
	Password string `envconfig:"FURNORA_DB_PASSWORD"`
	Name     string `envconfig:"FURNORA_DB_NAME"`
	SSLMode  string `envconfig:"FURNORA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FURNORA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FURNORA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FURNORA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FURNORA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FURNORA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FURNORA_REDIS_ADDR"`
	Password     string        `envconfig:"FURNORA_REDIS_PASSWORD"`
	DB           int           `envconfig:"FURNORA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FURNORA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FURNORA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FURNORA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FURNORA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FURNORA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"FURNORA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FURNORA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"FURNORA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"FURNORA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int           `envconfig:"FURNORA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int           `envconfig:"FURNORA_ARGON_TIME" default:"3"`
	ArgonParallelism int           `envconfig:"FURNORA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int           `envconfig:"FURNORA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int           `envconfig:"FURNORA_ARGON_KEY_LEN" default:"32"`
	ResetTokenTTL    time.Duration `envconfig:"FURNORA_PASSWORD_RESET_TOKEN_TTL" default:"30m"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"FURNORA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"FURNORA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"FURNORA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"FURNORA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"FURNORA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"FURNORA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FURNORA_AUTO_MIGRATE" default:"false"`
}

type CatalogConfig struct {
	ProductCacheTTL time.Duration `envconfig:"FURNORA_CATALOG_PRODUCT_CACHE_TTL" default:"5m"`
}

type AnalyticsConfig struct {
	AbandonedAfter time.Duration `envconfig:"FURNORA_ANALYTICS_ABANDONED_AFTER" default:"24h"`
	WindowDays     int           `envconfig:"FURNORA_ANALYTICS_WINDOW_DAYS" default:"30"`
}

type SquareConfig struct {
	AccessToken string `envconfig:"FURNORA_SQUARE_ACCESS_TOKEN"`
	LocationID  string `envconfig:"FURNORA_SQUARE_LOCATION_ID"`
	Env         string `envconfig:"FURNORA_SQUARE_ENV" default:"sandbox"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

type ClientConfig struct {
	BaseURL string `envconfig:"FURNORA_CLIENT_BASE_URL" default:"http://localhost:3000"`
}

type StaticConfig struct {
	Dir string `envconfig:"FURNORA_STATIC_DIR" default:"./uploads"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := []struct {
		env   string
		value string
	}{
		{"FURNORA_DB_HOST", db.Host},
		{"FURNORA_DB_USER", db.User},
		{"FURNORA_DB_NAME", db.Name},
	}
	for _, entry := range required {
		if entry.value == "" {
			missing = append(missing, entry.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either FURNORA_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
