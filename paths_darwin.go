//go:build darwin && !ios

package mailmenu

import (
	"os"
	"path/filepath"
)

func vendorUserDataDirs(v Vendor) []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	base := filepath.Join(home, "Library", "Application Support")

	switch v {
	case VendorChrome:
		return []string{filepath.Join(base, "Google", "Chrome")}
	case VendorChromium:
		return []string{filepath.Join(base, "Chromium")}
	case VendorEdge:
		return []string{filepath.Join(base, "Microsoft Edge")}
	case VendorBrave:
		return []string{filepath.Join(base, "BraveSoftware", "Brave-Browser")}
	case VendorVivaldi:
		return []string{filepath.Join(base, "Vivaldi")}
	case VendorOpera:
		// Opera uses an app bundle identifier directory.
		return []string{filepath.Join(base, "com.operasoftware.Opera")}
	default:
		return nil
	}
}
