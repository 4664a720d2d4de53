package config

import "time"

// APIConfig holds runtime configuration for the API service.
type APIConfig struct {
	Environment        string
	Addr               string
	DatabaseURL        string
	MigrationsDir      string
	JWTSecret          string
	EnvEncryptionKey   string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	DemoMode           bool
	MockLatencyMin     time.Duration
	MockLatencyMax     time.Duration
	ActivityFeedLimit  int
	RateLimitRedisAddr string
	RateLimitRedisPass string
	RateLimitRedisDB   int
}

// LoadAPIConfig constructs an APIConfig from environment variables.
func LoadAPIConfig() APIConfig {
	return APIConfig{
		Environment:        GetString("APP_ENV", "development"),
		Addr:               GetString("API_ADDR", ":4000"),
		DatabaseURL:        GetString("DATABASE_URL", "postgres://omniinfra:omniinfra@db:5432/omniinfra?sslmode=disable"),
		MigrationsDir:      GetString("DB_MIGRATIONS_DIR", "db/migrations"),
		JWTSecret:          GetString("JWT_SECRET", "supersecuresecret"),
		EnvEncryptionKey:   GetString("ENV_ENCRYPTION_KEY", "supersecuresecret"),
		AccessTokenTTL:     time.Duration(GetInt("ACCESS_TOKEN_TTL_MIN", 15)) * time.Minute,
		RefreshTokenTTL:    time.Duration(GetInt("REFRESH_TOKEN_TTL_HOURS", 24)) * time.Hour,
		DemoMode:           GetBool("DEMO_MODE", true),
		MockLatencyMin:     time.Duration(GetInt("MOCK_LATENCY_MIN_MS", 300)) * time.Millisecond,
		MockLatencyMax:     time.Duration(GetInt("MOCK_LATENCY_MAX_MS", 600)) * time.Millisecond,
		ActivityFeedLimit:  GetInt("ACTIVITY_FEED_LIMIT", 5),
		RateLimitRedisAddr: GetString("RATE_LIMIT_REDIS_ADDR", ""),
		RateLimitRedisPass: GetString("RATE_LIMIT_REDIS_PASSWORD", ""),
		RateLimitRedisDB:   GetInt("RATE_LIMIT_REDIS_DB", 0),
	}
}
