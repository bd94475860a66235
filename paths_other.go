//go:build !darwin && !linux && !windows

package mailmenu

func vendorUserDataDirs(_ Vendor) []string { return nil }
