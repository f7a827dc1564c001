package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	pstrings "aura/pkg/platform/strings"
)

// Server captures the gateway's top-level configuration.
type Server struct {
	Addr string

	// BackendBaseURL is the application backend that owns the identity
	// endpoints (/api/auth/user, /api/login, /api/auth/mobile-verify, ...).
	BackendBaseURL string

	// SessionCheckTimeout bounds a single session-check round-trip. A check
	// that exceeds it resolves to "not authenticated", never an error.
	SessionCheckTimeout time.Duration

	// SessionTTL is the staleness window for cached session snapshots.
	SessionTTL time.Duration

	// EmbeddedHostnames lists hostnames served to the embedded mobile
	// wrapper. Requests from these hosts take the mobile login path.
	EmbeddedHostnames []string

	// EmbeddedUAMarkers are user-agent substrings planted by the embedding
	// runtime.
	EmbeddedUAMarkers []string

	// CallbackSettleDelay is how long the callback page waits before
	// redirecting an embedded client, so the token write settles.
	CallbackSettleDelay time.Duration

	// AdminTokenHash is the bcrypt hash of the admin API token. Empty
	// disables the admin surface.
	AdminTokenHash string

	// JWTSigningKey, when set, lets the gateway validate callback tokens
	// locally before the backend round-trip. Empty means inspect-only.
	JWTSigningKey string

	// DatabaseURL, when set, persists the audit trail in Postgres. Empty
	// keeps the trail in memory.
	DatabaseURL string

	Redis RedisConfig
}

// RedisConfig captures Redis connection settings. An empty URL means Redis
// is not configured and in-memory stores are used instead.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:                getEnv("AURA_ADDR", ":8080"),
		BackendBaseURL:      getEnv("AURA_BACKEND_URL", "http://localhost:5000"),
		SessionCheckTimeout: getDuration("AURA_SESSION_CHECK_TIMEOUT", 10*time.Second),
		SessionTTL:          getDuration("AURA_SESSION_TTL", 30*time.Second),
		EmbeddedHostnames:   getList("AURA_EMBEDDED_HOSTNAMES", []string{"app.aura.social", "aura.median.dev"}),
		EmbeddedUAMarkers:   getList("AURA_EMBEDDED_UA_MARKERS", []string{"median", "gonative"}),
		CallbackSettleDelay: getDuration("AURA_CALLBACK_SETTLE_DELAY", 500*time.Millisecond),
		AdminTokenHash:      os.Getenv("AURA_ADMIN_TOKEN_HASH"),
		JWTSigningKey:       os.Getenv("AURA_JWT_SIGNING_KEY"),
		DatabaseURL:         os.Getenv("AURA_DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("AURA_REDIS_URL"),
			PoolSize:     getInt("AURA_REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("AURA_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("AURA_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("AURA_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("AURA_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	out := pstrings.DedupeAndTrim(strings.Split(v, ","))
	if len(out) == 0 {
		return fallback
	}
	return out
}
