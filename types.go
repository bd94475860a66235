package mailmenu

import "time"

// Account is one Gmail identity discovered in a browser profile.
//
// LatestSeen and Unread are owned by the Poller's run loop; other goroutines
// only ever observe copies handed out through Listener callbacks or
// Poller.Accounts.
type Account struct {
	// ID is the account's email address, unique within a discovery pass.
	ID string

	// Index is the account's position in discovery order. Gmail addresses
	// feeds by session slot (/mail/u/<index>/), not by email.
	Index int

	// Profile is the browser profile directory name the account came from
	// (e.g. "Default", "Profile 2").
	Profile string

	// CookieHeader is the ready-to-send Cookie header value for the Gmail
	// feed endpoint. Empty means the profile had no usable session.
	CookieHeader string

	// LatestSeen is the newest message timestamp already processed for this
	// account. The zero time means no poll has completed yet.
	LatestSeen time.Time

	// Unread is the last fullcount the feed reported.
	Unread int
}

// Authenticated reports whether the account carries session cookies.
func (a Account) Authenticated() bool { return a.CookieHeader != "" }

// Message is one entry from an account's inbox feed.
type Message struct {
	Title     string
	From      string
	Summary   string
	Timestamp time.Time

	// Link is a canonical URL that reopens the message regardless of which
	// session slot the feed was fetched through.
	Link string

	// AccountID is the owning Account's ID.
	AccountID string
}

// CheckResult describes one completed poll cycle for one account.
type CheckResult struct {
	// CheckID correlates listener callbacks and log lines for this cycle.
	CheckID string

	AccountID string
	FullCount int

	// NewMessages are the entries newer than the account's previous
	// high-water mark, in feed order.
	NewMessages []Message
}

// Listener receives poll results. Callbacks are invoked from the Poller's
// run loop, one at a time, and must not block for long.
type Listener interface {
	// AccountsUpdated reports the full account set after a discovery pass.
	AccountsUpdated(accounts []Account)

	// AccountChecked reports a successful poll cycle. NewMessages may be
	// empty; FullCount is always current.
	AccountChecked(result CheckResult)

	// AuthExpired reports that an account's session cookies no longer
	// authenticate. The account is not polled again until rediscovery.
	AuthExpired(accountID string)
}
