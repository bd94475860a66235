package mailmenu

import "errors"

// Sentinel errors returned by the extraction and polling pipelines.
// Callers classify failures with errors.Is; wrapped messages carry the
// profile, cookie, or account context.
var (
	// ErrSecretUnavailable means the browser's safe-storage secret could not
	// be read from the platform secret store.
	ErrSecretUnavailable = errors.New("mailmenu: safe storage secret unavailable")

	// ErrStoreUnreadable means a profile's cookie store could not be opened.
	ErrStoreUnreadable = errors.New("mailmenu: cookie store unreadable")

	// ErrDecrypt means a single encrypted cookie value failed to decrypt.
	ErrDecrypt = errors.New("mailmenu: cookie decrypt failed")

	// ErrFetch means a feed request failed at the network or HTTP level.
	ErrFetch = errors.New("mailmenu: feed fetch failed")

	// ErrAuthExpired means the feed endpoint answered with a login page
	// instead of feed data.
	ErrAuthExpired = errors.New("mailmenu: feed authentication expired")

	// ErrMalformedFeed means the response was neither a feed nor a login page.
	ErrMalformedFeed = errors.New("mailmenu: malformed feed document")
)
