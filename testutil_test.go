package mailmenu

import (
	"crypto/aes"
	"crypto/cipher"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// testSecret is the safe-storage password tests feed through a
// StaticSecretSource.
const testSecret = "pw"

func pkcs7Pad(t *testing.T, b []byte) []byte {
	t.Helper()
	paddingLen := aes.BlockSize - (len(b) % aes.BlockSize)
	if paddingLen == 0 {
		paddingLen = aes.BlockSize
	}
	out := make([]byte, 0, len(b)+paddingLen)
	out = append(out, b...)
	for i := 0; i < paddingLen; i++ {
		out = append(out, byte(paddingLen))
	}
	return out
}

func encryptAESCBCForTest(t *testing.T, prefix string, key []byte, plaintext []byte) []byte {
	t.Helper()
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatal(err)
	}
	iv := []byte(aesCBCIV)
	padded := pkcs7Pad(t, plaintext)
	ciphertext := make([]byte, len(padded))
	cbc := cipher.NewCBCEncrypter(block, iv)
	cbc.CryptBlocks(ciphertext, padded)
	return append([]byte(prefix), ciphertext...)
}

func encryptAESGCMForTest(t *testing.T, prefix string, key []byte, nonce []byte, plaintext []byte) []byte {
	t.Helper()
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatal(err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		t.Fatal(err)
	}
	ciphertextAndTag := aesgcm.Seal(nil, nonce, plaintext, nil)
	out := make([]byte, 0, len(prefix)+len(nonce)+len(ciphertextAndTag))
	out = append(out, []byte(prefix)...)
	out = append(out, nonce...)
	out = append(out, ciphertextAndTag...)
	return out
}

// platformCBCKeyForTest returns the v10 key the platform decryptor will
// derive when the secret source hands it testSecret. Windows keys come from
// DPAPI and cannot be fabricated in a test; those platforms skip.
func platformCBCKeyForTest(t *testing.T) []byte {
	t.Helper()
	switch runtime.GOOS {
	case "darwin":
		return deriveKey(testSecret, kdfIterationsMacOS, aesCBCKeyLen)
	case "linux":
		return deriveKey("peanuts", kdfIterationsLinux, aesCBCKeyLen)
	default:
		t.Skipf("no fabricatable cookie store key on %s", runtime.GOOS)
		return nil
	}
}

func openTestSQLite(t *testing.T, path string) *sql.DB {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	db, err := sql.Open("sqlite", "file:"+filepath.ToSlash(path)+"?mode=rwc")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type testCookie struct {
	host      string
	name      string
	encrypted []byte
	plain     string
}

// writeCookieStore creates a Chromium-shaped cookie DB at path.
func writeCookieStore(t *testing.T, path string, metaVersion string, cookies []testCookie) {
	t.Helper()
	db := openTestSQLite(t, path)
	if _, err := db.Exec(`CREATE TABLE meta(key TEXT PRIMARY KEY, value TEXT)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO meta(key,value) VALUES('version',?)`, metaVersion); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE cookies(creation_utc INTEGER, host_key TEXT, name TEXT, value TEXT, encrypted_value BLOB)`); err != nil {
		t.Fatal(err)
	}
	for i, c := range cookies {
		if _, err := db.Exec(
			`INSERT INTO cookies(creation_utc,host_key,name,value,encrypted_value) VALUES(?,?,?,?,?)`,
			i, c.host, c.name, c.plain, c.encrypted,
		); err != nil {
			t.Fatal(err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}
}

// writeProfile lays out a browser profile directory with a Preferences file
// and, when cookies is non-nil, a cookie store.
func writeProfile(t *testing.T, userDataDir, slot, email string, cookies []testCookie) string {
	t.Helper()
	profileDir := filepath.Join(userDataDir, slot)
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if email != "" {
		prefs := map[string]any{
			"account_info": []map[string]any{{"email": email}},
		}
		data, err := json.Marshal(prefs)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(profileDir, "Preferences"), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if cookies != nil {
		writeCookieStore(t, filepath.Join(profileDir, "Cookies"), "30", cookies)
	}
	return profileDir
}

// sessionCookiesFor builds an encrypted SID/HSID pair for the platform key.
func sessionCookiesFor(t *testing.T, key []byte) []testCookie {
	t.Helper()
	hashPrefix := make([]byte, plaintextHashPrefix)
	return []testCookie{
		{host: ".google.com", name: "SID", encrypted: encryptAESCBCForTest(t, "v10", key, append(hashPrefix, []byte("sid-value")...))},
		{host: ".google.com", name: "HSID", encrypted: encryptAESCBCForTest(t, "v10", key, append(hashPrefix, []byte("hsid-value")...))},
	}
}
