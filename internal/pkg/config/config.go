package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendLog    = "log"
	BackendMongo  = "mongo"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	SeedData  bool          `env:"SEED_DATA, default=true"`

	SessionBackend string `env:"SESSION_BACKEND, default=memory"`
	AuditBackend   string `env:"AUDIT_BACKEND,   default=log"`
	AuditWorkers   int    `env:"AUDIT_WORKERS,   default=4"`
	UploadLimit    string `env:"UPLOAD_LIMIT,    default=10M"`

	Latency   LatencyConfig
	LoginRate RateConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	S3        S3Config
}

// LatencyConfig is the simulated delay of each store operation.
type LatencyConfig struct {
	List   time.Duration `env:"LATENCY_LIST,   default=500ms"`
	Get    time.Duration `env:"LATENCY_GET,    default=300ms"`
	Create time.Duration `env:"LATENCY_CREATE, default=1s"`
	Attach time.Duration `env:"LATENCY_ATTACH, default=1s"`
	Upload time.Duration `env:"LATENCY_UPLOAD, default=1500ms"`
	Auth   time.Duration `env:"LATENCY_AUTH,   default=1s"`
}

type RateConfig struct {
	Limit  int           `env:"LOGIN_RATE_LIMIT,  default=5"`
	Window time.Duration `env:"LOGIN_RATE_WINDOW, default=15m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=woundashare"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// S3Config enables the S3 image uploader when Bucket is set.
type S3Config struct {
	Bucket        string `env:"S3_BUCKET"`
	Prefix        string `env:"S3_PREFIX, default=wounds"`
	PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
	Endpoint      string `env:"S3_ENDPOINT"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through l and checks the backend selections.
func LoadFrom(l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.SessionBackend != BackendMemory && c.SessionBackend != BackendRedis {
		return fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedis, c.SessionBackend)
	}
	if c.AuditBackend != BackendLog && c.AuditBackend != BackendMongo {
		return fmt.Errorf("AUDIT_BACKEND must be %q or %q, got %q", BackendLog, BackendMongo, c.AuditBackend)
	}
	if c.Env == "production" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
