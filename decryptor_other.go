//go:build !darwin && !linux && !windows

package mailmenu

import (
	"fmt"
	"log/slog"
)

func newRecordDecryptor(vendor vendorInfo, _ SecretSource, _ string, _ *slog.Logger) (recordDecryptor, error) {
	return nil, fmt.Errorf("%w: %s cookie decryption unsupported on this OS", ErrSecretUnavailable, vendor.label)
}
