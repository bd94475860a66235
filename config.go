package mailmenu

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-ini/ini"
)

// Config holds the runtime settings for the polling daemon. Values come
// from an INI file with MAILMENU_* environment overrides on top; every
// field has a default, so a missing file is fine.
type Config struct {
	// Interval between check-all passes.
	Interval time.Duration

	// FetchTimeout bounds one feed request.
	FetchTimeout time.Duration

	// Browser selects which Chromium-family vendor's profiles to scan.
	Browser Vendor

	// UserDataDir overrides the vendor's conventional user-data directory.
	UserDataDir string

	// SeedFirstPoll suppresses the first-poll notification burst; see
	// PollerOptions.SeedFirstPoll.
	SeedFirstPoll bool

	// SafeStoragePassword bypasses the platform secret store when set.
	// Intended for deterministic tooling and CI, not normal use.
	SafeStoragePassword string
}

// DefaultConfigPath returns the conventional config location
// (~/.config/mailmenu/config.ini or the OS equivalent).
func DefaultConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "mailmenu", "config.ini"), nil
}

// LoadConfig reads path (which may not exist), applies environment
// overrides, and returns a validated Config.
func LoadConfig(path string) (*Config, error) {
	file, err := ini.LooseLoad(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	sec := file.Section("")

	cfg := &Config{
		Interval:            sec.Key("interval").MustDuration(DefaultPollInterval),
		FetchTimeout:        sec.Key("fetch_timeout").MustDuration(defaultFetchTimeout),
		Browser:             Vendor(sec.Key("browser").MustString(string(VendorChrome))),
		UserDataDir:         sec.Key("user_data_dir").String(),
		SeedFirstPoll:       sec.Key("seed_first_poll").MustBool(false),
		SafeStoragePassword: sec.Key("safe_storage_password").String(),
	}

	if v, ok := os.LookupEnv("MAILMENU_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("MAILMENU_INTERVAL has invalid duration %q: %w", v, err)
		}
		cfg.Interval = d
	}
	if v, ok := os.LookupEnv("MAILMENU_FETCH_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("MAILMENU_FETCH_TIMEOUT has invalid duration %q: %w", v, err)
		}
		cfg.FetchTimeout = d
	}
	if v, ok := os.LookupEnv("MAILMENU_BROWSER"); ok {
		cfg.Browser = Vendor(v)
	}
	if v, ok := os.LookupEnv("MAILMENU_USER_DATA_DIR"); ok {
		cfg.UserDataDir = v
	}
	if v, ok := os.LookupEnv("MAILMENU_SEED_FIRST_POLL"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("MAILMENU_SEED_FIRST_POLL has invalid bool %q: %w", v, err)
		}
		cfg.SeedFirstPoll = b
	}
	if v, ok := os.LookupEnv("MAILMENU_SAFE_STORAGE_PASSWORD"); ok {
		cfg.SafeStoragePassword = v
	}

	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", cfg.Interval)
	}
	if cfg.FetchTimeout <= 0 {
		return nil, fmt.Errorf("fetch timeout must be positive, got %s", cfg.FetchTimeout)
	}
	return cfg, nil
}

// ResolveUserDataDir picks the user-data directory for the configured
// vendor: the explicit override if set, otherwise the first conventional
// location that exists on disk.
func (c *Config) ResolveUserDataDir() (string, error) {
	if c.UserDataDir != "" {
		return c.UserDataDir, nil
	}
	for _, dir := range vendorUserDataDirs(c.Browser) {
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("no %s user data directory found", vendorInfoFor(c.Browser).label)
}

// SecretSource returns the secret source the config implies: the static
// override when set, otherwise the platform keyring.
func (c *Config) SecretSource() SecretSource {
	if c.SafeStoragePassword != "" {
		return StaticSecretSource(c.SafeStoragePassword)
	}
	return KeyringSecretSource{}
}
