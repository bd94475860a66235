//go:build linux && !android

package mailmenu

import (
	"errors"
	"log/slog"
)

// newRecordDecryptor builds the Linux key set. v10 envelopes use the fixed
// fallback secret; v11 envelopes need the keyring-held secret. A missing
// keyring entry only disables v11 — v10 stores still extract.
func newRecordDecryptor(vendor vendorInfo, secrets SecretSource, _ string, log *slog.Logger) (recordDecryptor, error) {
	keys := cipherKeys{
		v10: deriveKey("peanuts", kdfIterationsLinux, aesCBCKeyLen),
	}

	secret, err := secrets.Retrieve(vendor.safeStorageService, vendor.safeStorageAccount)
	switch {
	case err == nil:
		keys.v11 = deriveKey(secret, kdfIterationsLinux, aesCBCKeyLen)
	case errors.Is(err, ErrSecretUnavailable):
		log.Warn("safe storage secret unavailable, v11 cookies will not decrypt",
			"vendor", vendor.label, "error", err)
	default:
		return nil, err
	}

	return func(encrypted []byte, metaVersion int64) ([]byte, error) {
		return decryptEnvelope(encrypted, keys, metaVersion)
	}, nil
}
