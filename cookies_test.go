package mailmenu

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func newTestExtractor(dir string) *Extractor {
	return NewExtractor(VendorChrome, StaticSecretSource(testSecret), dir, nil)
}

func TestCookieHeader_FullSession(t *testing.T) {
	key := platformCBCKeyForTest(t)
	dir := t.TempDir()
	profile := writeProfile(t, dir, "Default", "", sessionCookiesFor(t, key))

	header, err := newTestExtractor(dir).CookieHeader(context.Background(), profile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(header, "SID=sid-value") || !strings.Contains(header, "HSID=hsid-value") {
		t.Fatalf("header missing session cookies: %q", header)
	}
	if !strings.Contains(header, "; ") {
		t.Fatalf("header must join pairs with '; ': %q", header)
	}
}

func TestCookieHeader_MissingRequiredCookie(t *testing.T) {
	key := platformCBCKeyForTest(t)
	dir := t.TempDir()
	cookies := sessionCookiesFor(t, key)[:1] // SID only, no HSID
	profile := writeProfile(t, dir, "Default", "", cookies)

	header, err := newTestExtractor(dir).CookieHeader(context.Background(), profile)
	if err != nil {
		t.Fatal(err)
	}
	if header != "" {
		t.Fatalf("partial session must yield empty header, got %q", header)
	}
}

func TestCookieHeader_SkipsUndecryptableRow(t *testing.T) {
	key := platformCBCKeyForTest(t)
	dir := t.TempDir()
	cookies := sessionCookiesFor(t, key)
	cookies = append(cookies, testCookie{
		host: ".google.com", name: "BROKEN", encrypted: []byte("v10-too-short-and-not-blocks"),
	})
	profile := writeProfile(t, dir, "Default", "", cookies)

	header, err := newTestExtractor(dir).CookieHeader(context.Background(), profile)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(header, "BROKEN") {
		t.Fatalf("undecryptable row leaked into header: %q", header)
	}
	if !strings.Contains(header, "SID=sid-value") {
		t.Fatalf("good rows must survive a bad sibling: %q", header)
	}
}

func TestCookieHeader_PlaintextRows(t *testing.T) {
	key := platformCBCKeyForTest(t)
	dir := t.TempDir()
	cookies := sessionCookiesFor(t, key)
	cookies = append(cookies, testCookie{host: "mail.google.com", name: "GMAIL_AT", plain: "token"})
	profile := writeProfile(t, dir, "Default", "", cookies)

	header, err := newTestExtractor(dir).CookieHeader(context.Background(), profile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(header, "GMAIL_AT=token") {
		t.Fatalf("unencrypted row missing from header: %q", header)
	}
}

func TestCookieHeader_NoStore(t *testing.T) {
	dir := t.TempDir()
	profile := writeProfile(t, dir, "Default", "", nil)

	_, err := newTestExtractor(dir).CookieHeader(context.Background(), profile)
	if !errors.Is(err, ErrStoreUnreadable) {
		t.Fatalf("want ErrStoreUnreadable, got %v", err)
	}
}

func TestCookieStorePath_PrefersNetworkSubdir(t *testing.T) {
	dir := t.TempDir()
	profile := filepath.Join(dir, "Default")
	writeCookieStore(t, filepath.Join(profile, "Network", "Cookies"), "30", nil)
	writeCookieStore(t, filepath.Join(profile, "Cookies"), "30", nil)

	got := cookieStorePath(profile)
	if got != filepath.Join(profile, "Network", "Cookies") {
		t.Fatalf("want Network/Cookies preferred, got %q", got)
	}
}
