package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string `env:"PORT,        default=8080"`
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	CORSOrigin string `env:"CORS_ORIGIN, default=*"`

	Auth   AuthConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	S3     S3Config
	Upload UploadConfig
	Leave  LeaveConfig

	// ReleaseWorkers sizes the background pool that releases orphaned blobs.
	ReleaseWorkers int `env:"RELEASE_WORKERS, default=4"`
	// ConnectRetries bounds the startup pings to Mongo and Redis.
	ConnectRetries uint64 `env:"CONNECT_RETRIES, default=5"`
	// AuthRateLimit is the sustained requests per second a client may make to
	// login and register.
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT, default=5"`
}

type AuthConfig struct {
	AccessSecret  string        `env:"ACCESS_TOKEN_SECRET,  required"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL,     default=15m"`
	RefreshSecret string        `env:"REFRESH_TOKEN_SECRET, required"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL,    default=168h"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=hr_service"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// S3Config points at any S3-compatible object store. Endpoint is empty for
// AWS itself and set for MinIO and similar.
type S3Config struct {
	Endpoint   string        `env:"S3_ENDPOINT"`
	Region     string        `env:"S3_REGION,      default=us-east-1"`
	Bucket     string        `env:"S3_BUCKET,      default=hr-documents"`
	AccessKey  string        `env:"S3_ACCESS_KEY"`
	SecretKey  string        `env:"S3_SECRET_KEY"`
	PathStyle  bool          `env:"S3_PATH_STYLE,  default=false"`
	PresignTTL time.Duration `env:"S3_PRESIGN_TTL, default=15m"`
}

type UploadConfig struct {
	Dir      string `env:"UPLOAD_DIR,       default=./public/temp"`
	MaxBytes int64  `env:"UPLOAD_MAX_BYTES, default=5242880"`
}

type LeaveConfig struct {
	RequireApproverRole bool `env:"LEAVE_REQUIRE_APPROVER_ROLE, default=true"`
	LockDecided         bool `env:"LEAVE_LOCK_DECIDED,          default=false"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Auth.AccessSecret == c.Auth.RefreshSecret {
		errs = append(errs, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ"))
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token TTLs must be positive"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	if c.AuthRateLimit <= 0 {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT must be positive"))
	}
	if (c.S3.AccessKey == "") != (c.S3.SecretKey == "") {
		errs = append(errs, errors.New("S3_ACCESS_KEY and S3_SECRET_KEY must be set together"))
	}
	return errors.Join(errs...)
}
