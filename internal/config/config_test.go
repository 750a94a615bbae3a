package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/b-learning-api/internal/grading"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BLEARN_DATABASE_URL", "sqlite:file::memory:")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "B-Learning API", cfg.AppName)
	require.Equal(t, ":8000", cfg.HTTPAddress())
	require.Equal(t, grading.LatePolicyReject, cfg.LatePolicy)
	require.Equal(t, time.Minute, cfg.StatsCacheTTL)
	require.Equal(t, "blearning", cfg.NATSSubjectPrefix)
	require.Equal(t, 30, cfg.SubmissionRatePerMinute)
	require.True(t, cfg.AutoMigrate)
	require.False(t, cfg.AcceptSubmittedAt)
	require.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BLEARN_DATABASE_URL", "postgres://localhost/blearning")
	t.Setenv("BLEARN_APP_PORT", ":9090")
	t.Setenv("BLEARN_SUBMISSIONS_LATE_POLICY", "flag")
	t.Setenv("BLEARN_STATS_CACHE_TTL", "30s")
	t.Setenv("BLEARN_NATS_SUBJECT_PREFIX", "lms.")
	t.Setenv("BLEARN_SUBMISSIONS_ACCEPT_SUBMITTED_AT", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, grading.LatePolicyFlag, cfg.LatePolicy)
	require.Equal(t, 30*time.Second, cfg.StatsCacheTTL)
	require.Equal(t, "lms", cfg.NATSSubjectPrefix)
	require.True(t, cfg.AcceptSubmittedAt)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("BLEARN_DATABASE_URL", "sqlite:file::memory:")
	t.Setenv("BLEARN_SUBMISSIONS_LATE_POLICY", "ignore")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("BLEARN_SUBMISSIONS_LATE_POLICY", "reject")
	t.Setenv("BLEARN_STATS_CACHE_TTL", "soon")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("BLEARN_DATABASE_URL", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoadSeedRequiresToken(t *testing.T) {
	t.Setenv("BLEARN_DATABASE_URL", "sqlite:file::memory:")
	t.Setenv("BLEARN_SEED_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("BLEARN_SEED_TOKEN", " demo-token ")
	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.SeedEnabled)
	require.Equal(t, "demo-token", cfg.SeedToken)
}
