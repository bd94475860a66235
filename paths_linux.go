//go:build linux && !android

package mailmenu

import (
	"os"
	"path/filepath"
)

func vendorUserDataDirs(v Vendor) []string {
	base := xdgConfigHome()
	if base == "" {
		return nil
	}

	switch v {
	case VendorChrome:
		return []string{
			filepath.Join(base, "google-chrome"),
			filepath.Join(base, "google-chrome-beta"),
			filepath.Join(base, "google-chrome-unstable"),
		}
	case VendorChromium:
		return []string{filepath.Join(base, "chromium")}
	case VendorEdge:
		return []string{
			filepath.Join(base, "microsoft-edge"),
			filepath.Join(base, "microsoft-edge-beta"),
			filepath.Join(base, "microsoft-edge-dev"),
		}
	case VendorBrave:
		return []string{
			filepath.Join(base, "BraveSoftware", "Brave-Browser"),
			filepath.Join(base, "brave-browser"),
		}
	case VendorVivaldi:
		return []string{filepath.Join(base, "vivaldi")}
	case VendorOpera:
		return []string{filepath.Join(base, "opera")}
	default:
		return nil
	}
}

func xdgConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}
