package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type HTTP struct {
	Addr         string        `envconfig:"SERVER_PORT" default:":8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout  time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
	TLSCert      string        `envconfig:"TLS_CERT_FILE"`
	TLSKey       string        `envconfig:"TLS_KEY_FILE"`
	MaxBodyBytes int64         `envconfig:"HTTP_MAX_BODY_BYTES" default:"1048576"`
	CORSOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://127.0.0.1:5173"`

	// StrictSecurity adds COOP/COEP/CORP headers.
	StrictSecurity bool `envconfig:"STRICT_SECURITY" default:"false"`
}

type Database struct {
	DSN             string        `envconfig:"DATABASE_URL" required:"true"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxIdleTime time.Duration `envconfig:"DB_CONN_MAX_IDLE_TIME" default:"5m"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
	PingTimeout     time.Duration `envconfig:"DB_PING_TIMEOUT" default:"3s"`
	AutoMigrate     bool          `envconfig:"DB_AUTO_MIGRATE" default:"true"`
}

type Redis struct {
	URL      string `envconfig:"UPSTASH_REDIS_URL"`
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	User     string `envconfig:"REDIS_USER"`
	Password string `envconfig:"REDIS_PASSWORD"`
}

type Auth struct {
	JWTSecret  string        `envconfig:"AUTH_JWT_SECRET" required:"true"`
	AccessTTL  time.Duration `envconfig:"AUTH_ACCESS_TTL" default:"15m"`
	RefreshTTL time.Duration `envconfig:"AUTH_REFRESH_TTL" default:"720h"`
	ClockSkew  time.Duration `envconfig:"AUTH_CLOCK_SKEW" default:"30s"`
	Issuer     string        `envconfig:"AUTH_ISSUER" default:"library-api"`
}

type Argon2 struct {
	Memory      uint32 `envconfig:"ARGON2_MEMORY" default:"65536"`
	Iterations  uint32 `envconfig:"ARGON2_ITER" default:"3"`
	Parallelism uint8  `envconfig:"ARGON2_PAR" default:"2"`
	SaltLength  uint32 `envconfig:"ARGON2_SALT_LEN" default:"16"`
	KeyLength   uint32 `envconfig:"ARGON2_KEY_LEN" default:"32"`
}

type GoogleBooks struct {
	BaseURL    string        `envconfig:"GOOGLE_BOOKS_BASE_URL" default:"https://www.googleapis.com/books/v1/volumes"`
	APIKey     string        `envconfig:"GOOGLE_BOOKS_API_KEY"`
	Timeout    time.Duration `envconfig:"GOOGLE_BOOKS_TIMEOUT" default:"10s"`
	MaxResults int           `envconfig:"GOOGLE_BOOKS_MAX_RESULTS" default:"40"`
	RPS        float64       `envconfig:"GOOGLE_BOOKS_RPS" default:"5"`
	Burst      int           `envconfig:"GOOGLE_BOOKS_BURST" default:"10"`
}

// S3 is optional; covers are disabled when Bucket is empty.
type S3 struct {
	Endpoint   string        `envconfig:"S3_ENDPOINT"`
	Region     string        `envconfig:"S3_REGION" default:"auto"`
	Bucket     string        `envconfig:"S3_BUCKET"`
	AccessKey  string        `envconfig:"S3_ACCESS_KEY_ID"`
	SecretKey  string        `envconfig:"S3_SECRET_ACCESS_KEY"`
	PresignTTL time.Duration `envconfig:"S3_PRESIGN_TTL" default:"15m"`
}

func (s S3) Enabled() bool { return s.Bucket != "" }

type Log struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

type RateLimit struct {
	Enabled       bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	Rate          float64       `envconfig:"RATE_LIMIT_RPS" default:"10"`
	Burst         int           `envconfig:"RATE_LIMIT_BURST" default:"20"`
	LoginAttempts int           `envconfig:"LOGIN_MAX_ATTEMPTS" default:"5"`
	LoginWindow   time.Duration `envconfig:"LOGIN_WINDOW" default:"15m"`
}

type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	HTTP        HTTP
	Database    Database
	Redis       Redis
	Auth        Auth
	Argon2      Argon2
	GoogleBooks GoogleBooks
	S3          S3
	Log         Log
	RateLimit   RateLimit
}

// Load reads an optional .env file and then decodes the environment.
func Load(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, errors.Wrap(err, "config: process env")
	}
	return cfg, nil
}
