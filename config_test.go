package mailmenu

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.ini"))
	require.NoError(t, err)

	assert.Equal(t, DefaultPollInterval, cfg.Interval)
	assert.Equal(t, defaultFetchTimeout, cfg.FetchTimeout)
	assert.Equal(t, VendorChrome, cfg.Browser)
	assert.Empty(t, cfg.UserDataDir)
	assert.False(t, cfg.SeedFirstPoll)
	assert.Empty(t, cfg.SafeStoragePassword)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(`
interval = 2m
fetch_timeout = 10s
browser = brave
user_data_dir = /opt/brave-profiles
seed_first_poll = true
safe_storage_password = hunter2
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.Interval)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, VendorBrave, cfg.Browser)
	assert.Equal(t, "/opt/brave-profiles", cfg.UserDataDir)
	assert.True(t, cfg.SeedFirstPoll)
	assert.Equal(t, "hunter2", cfg.SafeStoragePassword)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte("interval = 2m\nbrowser = chrome\n"), 0o600))

	t.Setenv("MAILMENU_INTERVAL", "30s")
	t.Setenv("MAILMENU_BROWSER", "edge")
	t.Setenv("MAILMENU_USER_DATA_DIR", "/tmp/edge")
	t.Setenv("MAILMENU_SEED_FIRST_POLL", "1")
	t.Setenv("MAILMENU_SAFE_STORAGE_PASSWORD", "pw")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.Equal(t, VendorEdge, cfg.Browser)
	assert.Equal(t, "/tmp/edge", cfg.UserDataDir)
	assert.True(t, cfg.SeedFirstPoll)
	assert.Equal(t, "pw", cfg.SafeStoragePassword)
}

func TestLoadConfig_InvalidEnvValues(t *testing.T) {
	t.Run("duration", func(t *testing.T) {
		t.Setenv("MAILMENU_INTERVAL", "soon")
		_, err := LoadConfig(filepath.Join(t.TempDir(), "config.ini"))
		assert.ErrorContains(t, err, "MAILMENU_INTERVAL")
	})
	t.Run("bool", func(t *testing.T) {
		t.Setenv("MAILMENU_SEED_FIRST_POLL", "maybe")
		_, err := LoadConfig(filepath.Join(t.TempDir(), "config.ini"))
		assert.ErrorContains(t, err, "MAILMENU_SEED_FIRST_POLL")
	})
}

func TestLoadConfig_RejectsNonPositiveDurations(t *testing.T) {
	t.Setenv("MAILMENU_INTERVAL", "-1m")
	_, err := LoadConfig(filepath.Join(t.TempDir(), "config.ini"))
	assert.ErrorContains(t, err, "poll interval")

	t.Setenv("MAILMENU_INTERVAL", "1m")
	t.Setenv("MAILMENU_FETCH_TIMEOUT", "0s")
	_, err = LoadConfig(filepath.Join(t.TempDir(), "config.ini"))
	assert.ErrorContains(t, err, "fetch timeout")
}

func TestConfig_ResolveUserDataDir(t *testing.T) {
	t.Run("explicit override wins", func(t *testing.T) {
		dir := t.TempDir()
		cfg := &Config{Browser: VendorChrome, UserDataDir: dir}
		got, err := cfg.ResolveUserDataDir()
		require.NoError(t, err)
		assert.Equal(t, dir, got)
	})
	t.Run("unknown vendor has no candidates", func(t *testing.T) {
		cfg := &Config{Browser: Vendor("netscape")}
		_, err := cfg.ResolveUserDataDir()
		assert.Error(t, err)
	})
}

func TestConfig_SecretSource(t *testing.T) {
	cfg := &Config{SafeStoragePassword: "hunter2"}
	assert.Equal(t, StaticSecretSource("hunter2"), cfg.SecretSource())

	cfg = &Config{}
	assert.IsType(t, KeyringSecretSource{}, cfg.SecretSource())
}
