package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/library")
	t.Setenv("AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.Equal(t, 10*time.Second, cfg.GoogleBooks.Timeout)
	require.Equal(t, 40, cfg.GoogleBooks.MaxResults)
	require.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
	require.False(t, cfg.S3.Enabled())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	require.NoError(t, os.Unsetenv("DATABASE_URL"))
	t.Setenv("AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")

	_, err := Load("testdata/does-not-exist.env")
	require.Error(t, err)
}
