package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/PetCare-SchedulingService/internal/domain"
	"github.com/m04kA/PetCare-SchedulingService/pkg/logger"
)

const minimal = `
[storage]
driver = "memory"

[scheduling]
timezone = "Europe/Moscow"
require_confirmation = true

[sweeper]
enabled = true
lookback_days = 3
`

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, t.TempDir(), minimal))
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL())
	assert.Equal(t, "0 3 * * *", cfg.Sweeper.Schedule)
	assert.Equal(t, 3, cfg.Sweeper.LookbackDays)
	assert.Equal(t, string(domain.OutcomeCompleted), cfg.Sweeper.TargetOutcome)
	assert.Equal(t, 10, cfg.Scheduling.CodeAttempts)
	assert.True(t, cfg.Scheduling.RequireConfirmation)

	loc, err := cfg.Scheduling.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PETCARE_SERVER_HTTP_PORT", "9090")
	t.Setenv("PETCARE_SWEEPER_MAX_PER_SECOND", "2.5")
	t.Setenv("PETCARE_RATING_SERVICE_ENABLED", "true")
	t.Setenv("PETCARE_RATING_SERVICE_URL", "http://ratings:8080")

	cfg, err := Load(writeConfig(t, t.TempDir(), minimal))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 2.5, cfg.Sweeper.MaxPerSecond)
	assert.True(t, cfg.RatingService.Enabled)
	assert.Equal(t, "http://ratings:8080", cfg.RatingService.URL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown driver", "[storage]\ndriver = \"sqlite\"\n"},
		{"postgres without host", "[storage]\ndriver = \"postgres\"\n"},
		{"bad timezone", "[storage]\ndriver = \"memory\"\n[scheduling]\ntimezone = \"Mars/Olympus\"\n"},
		{"bad schedule", "[storage]\ndriver = \"memory\"\n[sweeper]\nschedule = \"every day\"\n"},
		{"bad outcome", "[storage]\ndriver = \"memory\"\n[sweeper]\ntarget_outcome = \"lost\"\n"},
		{"redis without addr", "[storage]\ndriver = \"memory\"\n[redis]\nenabled = true\n"},
		{"rabbit without url", "[storage]\ndriver = \"memory\"\n[rabbitmq]\nenabled = true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, t.TempDir(), tt.body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorIs(t, err, domain.ErrFatalConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadDotEnv(filepath.Join(dir, ".env")))

	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PETCARE_LOGS_LEVEL=debug\n"), 0o644))
	t.Setenv("PETCARE_LOGS_LEVEL", "")
	require.NoError(t, os.Unsetenv("PETCARE_LOGS_LEVEL"))
	require.NoError(t, LoadDotEnv(path))

	cfg, err := Load(writeConfig(t, dir, minimal))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logs.Level)
}

func TestWatcher_ReloadSwapsAndKeepsPreviousOnError(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, minimal)
	initial, err := Load(path)
	require.NoError(t, err)

	w := NewWatcher(path, initial, logger.NewNop())
	assert.True(t, w.BookingSettings().RequireConfirmation)
	assert.Equal(t, 3, w.SweeperSettings().LookbackDays)

	swapped, err := w.Reload()
	require.NoError(t, err)
	assert.False(t, swapped, "file did not change")

	updated := "[storage]\ndriver = \"memory\"\n[scheduling]\nrequire_confirmation = false\n[sweeper]\nlookback_days = 5\ntarget_outcome = \"no_show\"\n"
	writeConfig(t, dir, updated)
	touch(t, path, time.Now().Add(time.Minute))

	swapped, err = w.Reload()
	require.NoError(t, err)
	assert.True(t, swapped)
	assert.False(t, w.BookingSettings().RequireConfirmation)
	assert.Equal(t, 5, w.SweeperSettings().LookbackDays)
	assert.Equal(t, domain.OutcomeNoShow, w.SweeperSettings().TargetOutcome)

	writeConfig(t, dir, "[storage]\ndriver = \"sqlite\"\n")
	touch(t, path, time.Now().Add(2*time.Minute))

	swapped, err = w.Reload()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.False(t, swapped)
	assert.Equal(t, 5, w.SweeperSettings().LookbackDays)
}

func touch(t *testing.T, path string, at time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, at, at))
}
