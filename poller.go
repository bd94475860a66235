package mailmenu

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPollInterval is the fixed check interval (7.5 minutes).
const DefaultPollInterval = 450 * time.Second

// DiscoverFunc produces the account set for a run. prev is the outgoing set,
// consulted to carry high-water marks across re-discovery.
type DiscoverFunc func(ctx context.Context, prev []Account) []Account

// FetchFunc performs one authenticated feed request for an account.
type FetchFunc func(ctx context.Context, acct Account) (string, error)

// PollerOptions tunes a Poller. The zero value uses defaults.
type PollerOptions struct {
	// Interval between check-all passes; DefaultPollInterval if zero.
	Interval time.Duration

	// SeedFirstPoll records the high-water mark on an account's first
	// successful poll without reporting its backlog as new, so a restart
	// does not re-notify existing unread mail.
	SeedFirstPoll bool

	Logger *slog.Logger
}

// Poller drives the recurring fetch/parse/dedup cycle across all accounts.
//
// A single run loop owns the account set; fetches run in per-account
// goroutines and deliver their outcomes back to the loop over a channel, so
// all state mutation and every Listener callback is single-writer. At most
// one cycle per account is in flight at a time — triggers arriving while a
// cycle is outstanding are deferred and coalesced into one follow-up check.
type Poller struct {
	discover DiscoverFunc
	fetch    FetchFunc
	listener Listener

	interval      time.Duration
	seedFirstPoll bool
	log           *slog.Logger

	commands chan pollCommand
	results  chan checkOutcome

	// mu guards accounts for snapshot readers; only the run loop writes.
	mu       sync.Mutex
	accounts []Account

	// run-loop state, never touched outside Start's goroutine
	inFlight map[string]bool
	deferred map[string]bool
}

type cmdKind int

const (
	cmdWake cmdKind = iota
	cmdCheck
	cmdRediscover
)

type pollCommand struct {
	kind      cmdKind
	accountID string
}

type checkOutcome struct {
	accountID string
	doc       feedDocument
	err       error
}

// NewPoller wires a Poller from its collaborators. listener must not be nil.
func NewPoller(discover DiscoverFunc, fetch FetchFunc, listener Listener, opts PollerOptions) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Poller{
		discover:      discover,
		fetch:         fetch,
		listener:      listener,
		interval:      interval,
		seedFirstPoll: opts.SeedFirstPoll,
		log:           log,
		commands:      make(chan pollCommand, 16),
		results:       make(chan checkOutcome),
		inFlight:      make(map[string]bool),
		deferred:      make(map[string]bool),
	}
}

// Start runs discovery, checks all accounts, then polls on the configured
// interval until ctx is canceled. It blocks; run it in its own goroutine.
func (p *Poller) Start(ctx context.Context) {
	p.runDiscovery(ctx)
	p.checkAll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("poller stopped")
			return
		case <-ticker.C:
			p.checkAll(ctx)
		case cmd := <-p.commands:
			switch cmd.kind {
			case cmdWake:
				// Replaces the pending tick rather than stacking timers.
				ticker.Reset(p.interval)
				p.checkAll(ctx)
			case cmdCheck:
				p.checkAccount(ctx, cmd.accountID)
			case cmdRediscover:
				p.runDiscovery(ctx)
				p.checkAll(ctx)
			}
		case out := <-p.results:
			p.handleOutcome(ctx, out)
		}
	}
}

// Wake triggers an immediate check-all pass and restarts the interval
// timer. Call it on resume-from-sleep.
func (p *Poller) Wake() { p.send(pollCommand{kind: cmdWake}) }

// Check triggers a poll cycle for a single account without affecting the
// other accounts' schedules.
func (p *Poller) Check(accountID string) {
	p.send(pollCommand{kind: cmdCheck, accountID: accountID})
}

// Rediscover rebuilds the account set from browser profiles, then checks
// all accounts.
func (p *Poller) Rediscover() { p.send(pollCommand{kind: cmdRediscover}) }

// send never blocks: triggers are edge events and coalescing them is fine.
func (p *Poller) send(cmd pollCommand) {
	select {
	case p.commands <- cmd:
	default:
		p.log.Debug("dropping poll trigger, command queue full", "kind", int(cmd.kind))
	}
}

// Accounts returns a snapshot of the current account set.
func (p *Poller) Accounts() []Account {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Account, len(p.accounts))
	copy(out, p.accounts)
	return out
}

// TotalUnread sums the last known unread counts across accounts, for a
// status-bar badge.
func (p *Poller) TotalUnread() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, a := range p.accounts {
		total += a.Unread
	}
	return total
}

func (p *Poller) runDiscovery(ctx context.Context) {
	prev := p.Accounts()
	next := p.discover(ctx, prev)

	p.mu.Lock()
	p.accounts = next
	p.mu.Unlock()

	p.log.Info("account discovery complete", "accounts", len(next))
	p.listener.AccountsUpdated(p.Accounts())
}

func (p *Poller) checkAll(ctx context.Context) {
	for _, a := range p.Accounts() {
		p.checkAccount(ctx, a.ID)
	}
}

func (p *Poller) checkAccount(ctx context.Context, accountID string) {
	acct, ok := p.lookup(accountID)
	if !ok {
		p.log.Debug("check requested for unknown account", "account", accountID)
		return
	}
	if p.inFlight[accountID] {
		p.deferred[accountID] = true
		return
	}
	p.inFlight[accountID] = true

	go func() {
		out := checkOutcome{accountID: accountID}
		body, err := p.fetch(ctx, acct)
		if err != nil {
			out.err = err
		} else {
			out.doc, out.err = parseFeed(body, accountID, p.log)
		}
		select {
		case p.results <- out:
		case <-ctx.Done():
		}
	}()
}

func (p *Poller) handleOutcome(ctx context.Context, out checkOutcome) {
	delete(p.inFlight, out.accountID)
	if p.deferred[out.accountID] {
		delete(p.deferred, out.accountID)
		defer p.checkAccount(ctx, out.accountID)
	}

	switch {
	case errors.Is(out.err, ErrAuthExpired):
		// Not retried automatically; the high-water mark stays put so a
		// re-authenticated account neither misses nor re-notifies the gap.
		p.log.Info("account authentication expired", "account", out.accountID)
		p.listener.AuthExpired(out.accountID)
		return
	case out.err != nil:
		// Transient; the next scheduled pass retries.
		p.log.Warn("poll cycle failed", "account", out.accountID, "error", out.err)
		return
	}

	idx, ok := p.lookupIndex(out.accountID)
	if !ok {
		// Account vanished in a rediscovery while the fetch was in flight.
		p.log.Debug("discarding result for removed account", "account", out.accountID)
		return
	}

	if len(out.doc.messages) == 0 {
		// Empty batch: high-water mark and unread count stay untouched.
		p.log.Debug("feed returned no entries", "account", out.accountID)
		return
	}

	p.mu.Lock()
	acct := p.accounts[idx]
	firstPoll := acct.LatestSeen.IsZero()
	fresh, newest := selectNew(acct.LatestSeen, out.doc.messages)
	if p.seedFirstPoll && firstPoll {
		// Record the mark without notifying the existing backlog.
		fresh = nil
	}
	if len(fresh) > 0 || (p.seedFirstPoll && firstPoll) {
		acct.LatestSeen = newest
	}
	acct.Unread = out.doc.fullCount
	p.accounts[idx] = acct
	p.mu.Unlock()

	p.listener.AccountChecked(CheckResult{
		CheckID:     uuid.NewString(),
		AccountID:   out.accountID,
		FullCount:   out.doc.fullCount,
		NewMessages: fresh,
	})
}

func (p *Poller) lookup(accountID string) (Account, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, a := range p.accounts {
		if a.ID == accountID {
			return a, true
		}
	}
	return Account{}, false
}

func (p *Poller) lookupIndex(accountID string) (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, a := range p.accounts {
		if a.ID == accountID {
			return i, true
		}
	}
	return -1, false
}
