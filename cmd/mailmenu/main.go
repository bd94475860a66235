package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/steipete/mailmenu"
)

// consoleListener is a stand-in presentation layer: it logs the events a
// menu-bar frontend would render.
type consoleListener struct {
	poller *mailmenu.Poller
}

func (l *consoleListener) AccountsUpdated(accounts []mailmenu.Account) {
	for _, a := range accounts {
		slog.Info("account discovered", "email", a.ID, "profile", a.Profile, "index", a.Index)
	}
	if len(accounts) == 0 {
		slog.Info("no authenticated accounts found")
	}
}

func (l *consoleListener) AccountChecked(res mailmenu.CheckResult) {
	slog.Info("account checked",
		"check_id", res.CheckID,
		"account", res.AccountID,
		"unread", res.FullCount,
		"new_messages", len(res.NewMessages),
	)
	for _, m := range res.NewMessages {
		slog.Info("new message",
			"check_id", res.CheckID,
			"account", m.AccountID,
			"from", m.From,
			"title", m.Title,
			"link", m.Link,
		)
	}
	if l.poller != nil {
		slog.Info("unread total", "count", l.poller.TotalUnread())
	}
}

func (l *consoleListener) AuthExpired(accountID string) {
	slog.Warn("account needs re-authentication, open Gmail in the browser", "account", accountID)
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath, err := mailmenu.DefaultConfigPath()
	if err != nil {
		return err
	}
	cfg, err := mailmenu.LoadConfig(configPath)
	if err != nil {
		return err
	}

	userDataDir, err := cfg.ResolveUserDataDir()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"browser", string(cfg.Browser),
		"user_data_dir", userDataDir,
		"interval", cfg.Interval,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractor := mailmenu.NewExtractor(cfg.Browser, cfg.SecretSource(), userDataDir, slog.Default())
	discoverer := mailmenu.NewDiscoverer(userDataDir, extractor, slog.Default())
	fetcher := mailmenu.NewFetcher(cfg.FetchTimeout, "")

	listener := &consoleListener{}
	poller := mailmenu.NewPoller(discoverer.Accounts, fetcher.Fetch, listener, mailmenu.PollerOptions{
		Interval:      cfg.Interval,
		SeedFirstPoll: cfg.SeedFirstPoll,
	})
	listener.poller = poller

	// SIGHUP re-runs profile discovery, e.g. after signing in to a new
	// account in the browser.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				slog.Info("rediscovery requested")
				poller.Rediscover()
			}
		}
	}()

	poller.Start(ctx)
	return nil
}
