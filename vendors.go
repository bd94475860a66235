package mailmenu

import "fmt"

// Vendor identifies a Chromium-family browser whose profiles are scanned.
type Vendor string

const (
	// VendorChrome is Google Chrome.
	VendorChrome Vendor = "chrome"
	// VendorChromium is Chromium.
	VendorChromium Vendor = "chromium"
	// VendorEdge is Microsoft Edge.
	VendorEdge Vendor = "edge"
	// VendorBrave is Brave Browser.
	VendorBrave Vendor = "brave"
	// VendorVivaldi is Vivaldi.
	VendorVivaldi Vendor = "vivaldi"
	// VendorOpera is Opera.
	VendorOpera Vendor = "opera"
)

type vendorInfo struct {
	vendor Vendor

	// user-visible
	label string

	// "Safe Storage" secret identifier in the platform secret store.
	safeStorageService string
	safeStorageAccount string
}

func vendorInfoFor(v Vendor) vendorInfo {
	switch v {
	case VendorChrome:
		return vendorInfo{vendor: v, label: "Chrome", safeStorageService: "Chrome Safe Storage", safeStorageAccount: "Chrome"}
	case VendorChromium:
		return vendorInfo{vendor: v, label: "Chromium", safeStorageService: "Chromium Safe Storage", safeStorageAccount: "Chromium"}
	case VendorEdge:
		return vendorInfo{vendor: v, label: "Microsoft Edge", safeStorageService: "Microsoft Edge Safe Storage", safeStorageAccount: "Microsoft Edge"}
	case VendorBrave:
		return vendorInfo{vendor: v, label: "Brave", safeStorageService: "Brave Safe Storage", safeStorageAccount: "Brave"}
	case VendorVivaldi:
		return vendorInfo{vendor: v, label: "Vivaldi", safeStorageService: "Vivaldi Safe Storage", safeStorageAccount: "Vivaldi"}
	case VendorOpera:
		return vendorInfo{vendor: v, label: "Opera", safeStorageService: "Opera Safe Storage", safeStorageAccount: "Opera"}
	default:
		return vendorInfo{vendor: v, label: string(v), safeStorageService: fmt.Sprintf("%s Safe Storage", v), safeStorageAccount: string(v)}
	}
}
