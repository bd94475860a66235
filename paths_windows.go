//go:build windows

package mailmenu

import (
	"os"
	"path/filepath"
)

func vendorUserDataDirs(v Vendor) []string {
	var roots []string
	if local := os.Getenv("LOCALAPPDATA"); local != "" {
		switch v {
		case VendorChrome:
			roots = append(roots, filepath.Join(local, "Google", "Chrome", "User Data"))
		case VendorChromium:
			roots = append(roots, filepath.Join(local, "Chromium", "User Data"))
		case VendorEdge:
			roots = append(roots, filepath.Join(local, "Microsoft", "Edge", "User Data"))
		case VendorBrave:
			roots = append(roots, filepath.Join(local, "BraveSoftware", "Brave-Browser", "User Data"))
		case VendorVivaldi:
			roots = append(roots, filepath.Join(local, "Vivaldi", "User Data"))
		case VendorOpera:
			// handled below; Opera lives in roaming AppData
		}
	}

	if roam := os.Getenv("APPDATA"); roam != "" && v == VendorOpera {
		roots = append(roots,
			filepath.Join(roam, "Opera Software", "Opera Stable"),
			filepath.Join(roam, "Opera Software", "Opera GX Stable"),
		)
	}
	return roots
}
