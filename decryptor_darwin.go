//go:build darwin && !ios

package mailmenu

import "log/slog"

// newRecordDecryptor derives the extraction pass's key material from the
// vendor's Safe Storage keychain entry. macOS stores use the v10 AES-CBC
// envelope only; newer tags fail loudly in decryptEnvelope.
func newRecordDecryptor(vendor vendorInfo, secrets SecretSource, _ string, _ *slog.Logger) (recordDecryptor, error) {
	secret, err := secrets.Retrieve(vendor.safeStorageService, vendor.safeStorageAccount)
	if err != nil {
		return nil, err
	}

	keys := cipherKeys{
		v10: deriveKey(secret, kdfIterationsMacOS, aesCBCKeyLen),
	}
	return func(encrypted []byte, metaVersion int64) ([]byte, error) {
		return decryptEnvelope(encrypted, keys, metaVersion)
	}, nil
}
