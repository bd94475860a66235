package mailmenu

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// feedTimeLayout is the timestamp format Gmail uses for entry modification
// times (RFC 3339, no fractional seconds).
const feedTimeLayout = time.RFC3339

// feedDocument is the structured result of one parsed feed response.
type feedDocument struct {
	fullCount int
	messages  []Message
}

type atomFeedXML struct {
	XMLName   xml.Name       `xml:"feed"`
	FullCount int            `xml:"fullcount"`
	Entries   []atomEntryXML `xml:"entry"`
}

type atomEntryXML struct {
	Title    string `xml:"title"`
	Summary  string `xml:"summary"`
	Author   struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Modified string `xml:"modified"`
	Link     struct {
		Href string `xml:"href,attr"`
	} `xml:"link"`
}

// parseFeed turns a fetched body into messages plus the declared unread
// total. An HTML document in place of the feed envelope means the session
// no longer authenticates (Gmail serves a login interstitial), reported as
// ErrAuthExpired. Entries with unparseable timestamps are skipped, never
// fatal; feed order is preserved.
func parseFeed(body string, accountID string, log *slog.Logger) (feedDocument, error) {
	if log == nil {
		log = slog.Default()
	}
	if strings.TrimSpace(body) == "" {
		return feedDocument{}, fmt.Errorf("%w: empty response", ErrMalformedFeed)
	}
	if isHTMLDocument(body) {
		return feedDocument{}, ErrAuthExpired
	}

	var feed atomFeedXML
	if err := xml.Unmarshal([]byte(body), &feed); err != nil {
		return feedDocument{}, fmt.Errorf("%w: %v", ErrMalformedFeed, err)
	}

	doc := feedDocument{fullCount: feed.FullCount}
	for _, entry := range feed.Entries {
		ts, err := time.Parse(feedTimeLayout, strings.TrimSpace(entry.Modified))
		if err != nil {
			log.Warn("skipping feed entry with malformed timestamp",
				"account", accountID, "title", entry.Title, "modified", entry.Modified)
			continue
		}
		doc.messages = append(doc.messages, Message{
			Title:     entry.Title,
			From:      entry.Author.Name,
			Summary:   entry.Summary,
			Timestamp: ts,
			Link:      normalizeMessageLink(entry.Link.Href),
			AccountID: accountID,
		})
	}
	return doc, nil
}

// isHTMLDocument reports whether the body is a generic markup page rather
// than a feed envelope. Login interstitials are rarely well-formed XML, so
// the sniff uses an HTML tokenizer instead of the XML decoder.
func isHTMLDocument(body string) bool {
	z := html.NewTokenizer(strings.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			return tok.DataAtom == atom.Html
		}
	}
}

// normalizeMessageLink strips the session-slot path segment (/mail/u/<n>)
// from an entry link so the reference stays valid after account indexes
// shift; the account_id query parameter already pins the identity.
func normalizeMessageLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}

	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segs) >= 3 && segs[0] == "mail" && segs[1] == "u" && isAllDigits(segs[2]) {
		rest := segs[3:]
		u.Path = "/mail/"
		if len(rest) > 0 {
			u.Path += strings.Join(rest, "/")
		}
	}
	return u.String()
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}
