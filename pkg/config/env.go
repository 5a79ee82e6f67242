package config

// EnvPrefix is passed to envconfig; individual fields carry fully
// qualified keys so the prefix only matters for unannotated fields.
const EnvPrefix = "ARTORDERS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv   = "ARTORDERS_APP_ENV"
	EnvPort     = "ARTORDERS_APP_PORT"
	EnvLogLevel = "ARTORDERS_LOG_LEVEL"

	EnvDBDSN      = "ARTORDERS_DB_DSN"
	EnvDBHost     = "ARTORDERS_DB_HOST"
	EnvDBUser     = "ARTORDERS_DB_USER"
	EnvDBName     = "ARTORDERS_DB_NAME"
	EnvDBPassword = "ARTORDERS_DB_PASSWORD"

	EnvRedisURL = "ARTORDERS_REDIS_URL"

	EnvJWTSecret              = "ARTORDERS_JWT_SECRET"
	EnvJWTIssuer              = "ARTORDERS_JWT_ISSUER"
	EnvJWTExpMins             = "ARTORDERS_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "ARTORDERS_REFRESH_TOKEN_TTL_MINUTES"

	EnvGCPProjectID = "ARTORDERS_GCP_PROJECT_ID"

	EnvPubSubDomainTopic     = "ARTORDERS_PUBSUB_DOMAIN_TOPIC"
	EnvPubSubNotificationSub = "ARTORDERS_PUBSUB_NOTIFICATION_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
