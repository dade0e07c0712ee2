package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresAuthSecret(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("ADMIN_EMAILS", "a@example.com,b@example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, "local", cfg.MediaBackend)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.AdminEmails)
	assert.Equal(t, 10*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, time.UTC, cfg.ReportLocation())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsGCSWithoutBucket(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("MEDIA_BACKEND", "gcs")
	t.Setenv("GCS_BUCKET", "")
	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfigReportTimezone(t *testing.T) {
	t.Setenv("AUTH_SECRET", "s3cret")
	t.Setenv("REPORT_TIMEZONE", "Europe/Berlin")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", cfg.ReportLocation().String())

	t.Setenv("REPORT_TIMEZONE", "Mars/Olympus")
	_, err = LoadConfig()
	require.Error(t, err)
}
