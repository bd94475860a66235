package mailmenu

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// profileSlots is the fixed, ordered list of profile directories probed on
// every discovery pass. Most slots are usually empty; absence is expected.
var profileSlots = []string{
	"Default",
	"Profile 1",
	"Profile 2",
	"Profile 3",
	"Profile 4",
	"Profile 5",
}

// CredentialSource yields an authentication header for one profile
// directory. *Extractor is the production implementation.
type CredentialSource interface {
	CookieHeader(ctx context.Context, profileDir string) (string, error)
}

// Discoverer produces the Account set for a run by scanning browser
// profiles for a signed-in identity and usable session cookies.
type Discoverer struct {
	userDataDir string
	creds       CredentialSource
	log         *slog.Logger
}

// NewDiscoverer scans profiles under userDataDir using creds for session
// cookies.
func NewDiscoverer(userDataDir string, creds CredentialSource, log *slog.Logger) *Discoverer {
	if log == nil {
		log = slog.Default()
	}
	return &Discoverer{userDataDir: userDataDir, creds: creds, log: log}
}

// Accounts walks the profile slots in order and returns every profile that
// has both an identity and a complete cookie set, in discovery order. The
// result replaces any prior set wholesale; prev is consulted only to carry
// an account's high-water mark forward when the same identity reappears, so
// re-discovery does not re-notify already-seen mail.
func (d *Discoverer) Accounts(ctx context.Context, prev []Account) []Account {
	prior := make(map[string]time.Time, len(prev))
	for _, a := range prev {
		prior[a.ID] = a.LatestSeen
	}

	var out []Account
	for _, slot := range profileSlots {
		profileDir := filepath.Join(d.userDataDir, slot)
		if fi, err := os.Stat(profileDir); err != nil || !fi.IsDir() {
			continue
		}

		email, ok := identityFromPreferences(profileDir)
		if !ok {
			d.log.Debug("profile has no signed-in identity", "profile", slot)
			continue
		}

		header, err := d.creds.CookieHeader(ctx, profileDir)
		if err != nil {
			if errors.Is(err, ErrStoreUnreadable) {
				d.log.Warn("skipping profile with unreadable cookie store", "profile", slot, "error", err)
			} else {
				d.log.Warn("cookie extraction failed", "profile", slot, "error", err)
			}
			continue
		}
		if header == "" {
			d.log.Debug("profile has incomplete session cookies", "profile", slot, "email", email)
			continue
		}

		out = append(out, Account{
			ID:           email,
			Index:        len(out),
			Profile:      slot,
			CookieHeader: header,
			LatestSeen:   prior[email],
		})
	}
	return out
}

// identityFromPreferences pulls the first signed-in email out of the
// profile's Preferences file.
func identityFromPreferences(profileDir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(profileDir, "Preferences"))
	if err != nil {
		return "", false
	}

	var prefs struct {
		AccountInfo []struct {
			Email string `json:"email"`
		} `json:"account_info"`
	}
	if err := json.Unmarshal(data, &prefs); err != nil {
		return "", false
	}
	if len(prefs.AccountInfo) == 0 || prefs.AccountInfo[0].Email == "" {
		return "", false
	}
	return prefs.AccountInfo[0].Email, true
}
