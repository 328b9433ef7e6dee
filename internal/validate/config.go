package validate

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/5w1tchy/library-api/internal/config"
)

// Config fails fast on settings the server cannot safely run with.
func Config(cfg config.Config) error {
	if len(cfg.Auth.JWTSecret) < 32 {
		return errors.New("AUTH_JWT_SECRET must be at least 32 characters")
	}
	if cfg.Auth.AccessTTL <= 0 {
		return errors.New("AUTH_ACCESS_TTL must be positive")
	}
	if cfg.Auth.RefreshTTL <= cfg.Auth.AccessTTL {
		return errors.New("AUTH_REFRESH_TTL must be longer than AUTH_ACCESS_TTL")
	}
	if cfg.Argon2.Memory < 19*1024 {
		return errors.New("ARGON2_MEMORY must be >= 19456 KiB")
	}
	if cfg.Argon2.Iterations < 1 || cfg.Argon2.Parallelism < 1 {
		return errors.New("ARGON2_ITER and ARGON2_PAR must be >= 1")
	}
	if cfg.GoogleBooks.BaseURL == "" {
		return errors.New("GOOGLE_BOOKS_BASE_URL must not be empty")
	}
	if (cfg.HTTP.TLSCert == "") != (cfg.HTTP.TLSKey == "") {
		return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if cfg.S3.Enabled() && cfg.S3.PresignTTL <= 0 {
		return errors.New("S3_PRESIGN_TTL must be positive")
	}
	return nil
}

// HardeningWarnings returns non-fatal findings worth logging at startup.
func HardeningWarnings(cfg config.Config) []string {
	var warns []string

	if cfg.Auth.AccessTTL > time.Hour {
		warns = append(warns, fmt.Sprintf("AUTH_ACCESS_TTL=%s is > 1h; consider shorter access tokens", cfg.Auth.AccessTTL))
	}
	if cfg.Auth.RefreshTTL < 24*time.Hour {
		warns = append(warns, fmt.Sprintf("AUTH_REFRESH_TTL=%s is < 24h; users may be logged out too often", cfg.Auth.RefreshTTL))
	}
	if cfg.GoogleBooks.APIKey == "" {
		warns = append(warns, "GOOGLE_BOOKS_API_KEY not set; provider quota is shared per IP")
	}

	if strings.EqualFold(cfg.AppEnv, "production") {
		if cfg.Argon2.Memory < 64*1024 {
			warns = append(warns, "ARGON2_MEMORY below 64 MiB in production")
		}
		if strings.HasPrefix(cfg.Redis.URL, "redis://") {
			warns = append(warns, "UPSTASH_REDIS_URL uses redis:// (no TLS). Prefer rediss:// for TLS")
		}
		if cfg.Redis.URL == "" && (cfg.Redis.User == "" || cfg.Redis.Password == "") {
			warns = append(warns, "REDIS_ADDR provided without REDIS_USER/REDIS_PASSWORD; require auth in production")
		}
		if cfg.HTTP.TLSCert == "" {
			warns = append(warns, "serving plain HTTP in production; terminate TLS upstream")
		}
		if !cfg.RateLimit.Enabled {
			warns = append(warns, "rate limiting disabled in production")
		}
	}
	return warns
}
