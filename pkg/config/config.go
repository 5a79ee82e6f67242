package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Eventing      EventingConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Digest        DigestConfig
	Mail          MailConfig
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
	Env          string `envconfig:"ARTORDERS_APP_ENV" required:"true"`
	Port         string `envconfig:"ARTORDERS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ARTORDERS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ARTORDERS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ARTORDERS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ARTORDERS_DB_DSN"`
	Driver string `envconfig:"ARTORDERS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ARTORDERS_DB_HOST"`
	LegacyPort     int    `envconfig:"ARTORDERS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ARTORDERS_DB_USER"`
	LegacyPassword string `envconfig:"ARTORDERS_DB_PASSWORD"`
	LegacyName     string `envconfig:"ARTORDERS_DB_NAME"`
	LegacySSLMode  string `envconfig:"ARTORDERS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ARTORDERS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ARTORDERS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ARTORDERS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ARTORDERS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ARTORDERS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ARTORDERS_REDIS_ADDR"`
	Password     string        `envconfig:"ARTORDERS_REDIS_PASSWORD"`
	DB           int           `envconfig:"ARTORDERS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ARTORDERS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ARTORDERS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ARTORDERS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ARTORDERS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ARTORDERS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ARTORDERS_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ARTORDERS_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ARTORDERS_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"ARTORDERS_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ARTORDERS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ARTORDERS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ARTORDERS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ARTORDERS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ARTORDERS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ARTORDERS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"ARTORDERS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"ARTORDERS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"ARTORDERS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"ARTORDERS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"ARTORDERS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ARTORDERS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ARTORDERS_AUTO_MIGRATE" default:"false"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"ARTORDERS_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ARTORDERS_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"ARTORDERS_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ARTORDERS_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic              string `envconfig:"ARTORDERS_PUBSUB_DOMAIN_TOPIC" required:"true"`
	NotificationSubscription string `envconfig:"ARTORDERS_PUBSUB_NOTIFICATION_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"ARTORDERS_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"ARTORDERS_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"ARTORDERS_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type DigestConfig struct {
	TopOrdersLimit int           `envconfig:"ARTORDERS_DIGEST_TOP_ORDERS_LIMIT" default:"10"`
	Interval       time.Duration `envconfig:"ARTORDERS_DIGEST_INTERVAL" default:"24h"`
}

type MailConfig struct {
	FromEmail string `envconfig:"ARTORDERS_MAIL_FROM_EMAIL" default:"no-reply@artorders.dev"`
	FromName  string `envconfig:"ARTORDERS_MAIL_FROM_NAME" default:"ArtOrders"`
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
