package mailmenu

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// recordDecryptor recovers one encrypted cookie value. metaVersion is the
// store's schema version stamp.
type recordDecryptor func(encrypted []byte, metaVersion int64) ([]byte, error)

// feedHosts are the domains whose cookies authenticate the Gmail feed
// endpoint. Parent-domain rows (google.com) are matched as well.
var feedHosts = []string{"mail.google.com"}

// requiredCookieNames must all decrypt for a profile to count as
// authenticated. A partial set yields a confusing downstream 401 instead of
// a clear "no credentials" signal, so it is treated as none.
var requiredCookieNames = []string{"SID", "HSID"}

// Extractor turns a browser profile's encrypted cookie store into a Cookie
// header value for the Gmail feed endpoint.
type Extractor struct {
	vendor      vendorInfo
	secrets     SecretSource
	userDataDir string
	log         *slog.Logger
}

// NewExtractor returns an Extractor for one browser vendor. userDataDir is
// the vendor's user-data root (needed on Windows for Local State); secrets
// supplies the safe-storage password.
func NewExtractor(v Vendor, secrets SecretSource, userDataDir string, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{vendor: vendorInfoFor(v), secrets: secrets, userDataDir: userDataDir, log: log}
}

// CookieHeader extracts the Gmail session cookies from the profile directory
// and joins them into a single "name=value; name=value" header string.
//
// The store is snapshot-copied and opened read-only for the duration of the
// call; key material lives only on this call's stack. Individual rows that
// fail to decrypt are logged and skipped. If any required cookie is missing
// the result is empty ("", nil): the profile is simply not authenticated.
func (e *Extractor) CookieHeader(ctx context.Context, profileDir string) (string, error) {
	storePath := cookieStorePath(profileDir)
	if storePath == "" {
		return "", fmt.Errorf("%w: no cookie store under %s", ErrStoreUnreadable, profileDir)
	}

	decrypt, err := newRecordDecryptor(e.vendor, e.secrets, e.userDataDir, e.log)
	if err != nil {
		return "", err
	}

	snapshot, cleanup, err := openStoreSnapshot(storePath)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrStoreUnreadable, storePath, err)
	}
	defer cleanup()

	db, err := openStoreDB(ctx, snapshot)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrStoreUnreadable, storePath, err)
	}
	defer func() { _ = db.Close() }()

	metaVersion := storeMetaVersion(ctx, db)
	rows, err := readCookieRows(ctx, db, feedHosts)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrStoreUnreadable, storePath, err)
	}

	var pairs []string
	found := make(map[string]bool, len(rows))
	for _, row := range rows {
		value := row.value
		if len(row.encryptedValue) > 0 {
			plain, err := decrypt(row.encryptedValue, metaVersion)
			if err != nil {
				e.log.Warn("skipping undecryptable cookie",
					"profile", filepath.Base(profileDir), "cookie", row.name, "error", err)
				continue
			}
			decoded, ok := decodeCookieValue(plain)
			if !ok {
				e.log.Warn("skipping non-text cookie value",
					"profile", filepath.Base(profileDir), "cookie", row.name)
				continue
			}
			value = decoded
		}
		if row.name == "" || value == "" {
			continue
		}
		found[row.name] = true
		pairs = append(pairs, row.name+"="+value)
	}

	for _, name := range requiredCookieNames {
		if !found[name] {
			e.log.Debug("profile lacks required session cookie",
				"profile", filepath.Base(profileDir), "cookie", name)
			return "", nil
		}
	}
	return strings.Join(pairs, "; "), nil
}

// cookieStorePath returns the profile's cookie DB. Newer Chromium keeps it
// under Network/, older layouts at the profile root.
func cookieStorePath(profileDir string) string {
	candidates := []string{
		filepath.Join(profileDir, "Network", "Cookies"),
		filepath.Join(profileDir, "Cookies"),
	}
	for _, p := range candidates {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func decodeCookieValue(b []byte) (string, bool) {
	b = stripLeadingControlBytes(b)
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

func stripLeadingControlBytes(b []byte) []byte {
	i := 0
	for i < len(b) && b[i] < 0x20 {
		i++
	}
	return bytes.Clone(b[i:])
}
