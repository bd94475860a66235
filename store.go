package mailmenu

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver (pure Go).
)

// cookieRow is one encrypted credential record from a profile's cookie store.
type cookieRow struct {
	hostKey        string
	name           string
	encryptedValue []byte
	value          string
}

// openStoreSnapshot copies the cookie DB (and WAL sidecars, which may hold
// recent writes) to a temp dir so the browser's own lock is never contended,
// then returns the snapshot path.
func openStoreSnapshot(dbPath string) (snapshotPath string, cleanup func(), err error) {
	dir, err := os.MkdirTemp("", "mailmenu-cookies-")
	if err != nil {
		return "", nil, err
	}
	cleanup = func() { _ = os.RemoveAll(dir) }

	target := filepath.Join(dir, "Cookies")
	if err := copyFile(dbPath, target); err != nil {
		cleanup()
		return "", nil, err
	}
	_ = copyFileIfExists(dbPath+"-wal", target+"-wal")
	_ = copyFileIfExists(dbPath+"-shm", target+"-shm")

	return target, cleanup, nil
}

func openStoreDB(ctx context.Context, snapshotPath string) (*sql.DB, error) {
	dsn := "file:" + filepath.ToSlash(snapshotPath) + "?mode=ro"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// storeMetaVersion reads the schema version the browser stamped into the
// store. It decides whether decrypted plaintexts carry a host-hash prefix.
// Absence is not an error; version 0 means "no prefix handling".
func storeMetaVersion(ctx context.Context, db *sql.DB) int64 {
	if db == nil {
		return 0
	}
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'version'`).Scan(&value)
	if err != nil {
		return 0
	}
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func readCookieRows(ctx context.Context, db *sql.DB, hosts []string) ([]cookieRow, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}

	where, args := hostWhereClause(hosts)
	query := strings.Join([]string{
		`SELECT host_key, name, value, encrypted_value`,
		`FROM cookies`,
		`WHERE (` + where + `)`,
		`ORDER BY creation_utc ASC`,
	}, " ")

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []cookieRow
	for rows.Next() {
		var r cookieRow
		var encrypted []byte
		if err := rows.Scan(&r.hostKey, &r.name, &r.value, &encrypted); err != nil {
			return nil, err
		}
		r.encryptedValue = encrypted
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// hostWhereClause scopes the query to the target domains. Only rows for the
// service being polled are ever decrypted.
func hostWhereClause(hosts []string) (string, []any) {
	var clauses []string
	var args []any
	for _, host := range hosts {
		host = normalizeHost(host)
		if host == "" {
			continue
		}
		for _, candidate := range expandHostCandidates(host) {
			clauses = append(clauses, "host_key = ?", "host_key = ?")
			args = append(args, candidate, "."+candidate)
		}
	}
	if len(clauses) == 0 {
		return "1=0", nil
	}
	return strings.Join(clauses, " OR "), args
}

// expandHostCandidates returns the host plus its parent domains, minus the
// public suffix (e.g. mail.google.com -> [mail.google.com google.com]).
func expandHostCandidates(host string) []string {
	parts := strings.Split(host, ".")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		cleaned = append(cleaned, p)
	}
	if len(cleaned) <= 1 {
		return []string{host}
	}

	seen := make(map[string]struct{}, len(cleaned))
	var out []string
	add := func(h string) {
		if h == "" {
			return
		}
		if _, ok := seen[h]; ok {
			return
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}

	add(host)
	for i := 1; i <= len(cleaned)-2; i++ {
		add(strings.Join(cleaned[i:], "."))
	}
	return out
}

func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, ".")
	return strings.ToLower(host)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

func copyFileIfExists(src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return copyFile(src, dst)
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
