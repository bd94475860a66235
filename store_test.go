package mailmenu

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func TestExpandHostCandidates(t *testing.T) {
	got := expandHostCandidates("mail.google.com")
	want := []string{"mail.google.com", "google.com"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v got %v", want, got)
	}

	if got := expandHostCandidates("localhost"); !reflect.DeepEqual(got, []string{"localhost"}) {
		t.Fatalf("single-label host should pass through, got %v", got)
	}
}

func TestHostWhereClause_NoHosts(t *testing.T) {
	where, args := hostWhereClause(nil)
	if where != "1=0" || args != nil {
		t.Fatalf("empty host list must match nothing, got %q %v", where, args)
	}
}

func TestReadCookieRows_HostScoping(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "Cookies")
	writeCookieStore(t, dbPath, "30", []testCookie{
		{host: ".google.com", name: "SID", plain: "a"},
		{host: "mail.google.com", name: "HSID", plain: "b"},
		{host: ".example.com", name: "OTHER", plain: "c"},
	})

	ctx := context.Background()
	db, err := openStoreDB(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	rows, err := readCookieRows(ctx, db, feedHosts)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("want 2 scoped rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.name == "OTHER" {
			t.Fatal("row outside the target domain set must not be read")
		}
	}
}

func TestStoreMetaVersion(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "Cookies")
	writeCookieStore(t, dbPath, "24", nil)

	ctx := context.Background()
	db, err := openStoreDB(ctx, dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	if v := storeMetaVersion(ctx, db); v != 24 {
		t.Fatalf("want meta version 24, got %d", v)
	}
}

func TestOpenStoreSnapshot_CopiesDB(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "Cookies")
	writeCookieStore(t, dbPath, "30", []testCookie{{host: ".google.com", name: "SID", plain: "a"}})

	snap, cleanup, err := openStoreSnapshot(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()

	if snap == dbPath {
		t.Fatal("snapshot must not be the original file")
	}
	if !fileExists(snap) {
		t.Fatal("snapshot file missing")
	}
}

func TestOpenStoreSnapshot_MissingSource(t *testing.T) {
	_, _, err := openStoreSnapshot(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("want error for missing source DB")
	}
}
