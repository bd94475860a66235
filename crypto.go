package mailmenu

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha1" //nolint:gosec // Chromium PBKDF2 uses SHA1 ("saltysalt", sha1) for cookie encryption.
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	safeStorageSalt     = "saltysalt"
	aesCBCIV            = "                " // 16 spaces
	kdfIterationsLinux  = 1
	kdfIterationsMacOS  = 1003
	aesCBCKeyLen        = 16
	aesGCMKeyLen        = 32
	gcmNonceLen         = 12
	gcmTagLen           = 16
	envelopeVersionLen  = 3
	plaintextHashPrefix = 32 // SHA256(host_key), prepended at meta version >= 24
	hashPrefixMetaFloor = 24
)

// deriveKey stretches a safe-storage secret into fixed-length AES key
// material. The iteration count must match the one the browser used when it
// encrypted the store; a mismatch yields garbage keys, not an error, and is
// only caught downstream when decrypted values fail validation.
func deriveKey(secret string, iterations, keyLen int) []byte {
	return pbkdf2.Key([]byte(secret), []byte(safeStorageSalt), iterations, keyLen, sha1.New)
}

// cipherKeys holds the per-envelope-version key material for one extraction
// pass. A nil slot means that version cannot be decrypted on this setup and
// blobs carrying its tag fail with ErrDecrypt instead of being decoded with
// the wrong mode.
type cipherKeys struct {
	v10 []byte // AES-128-CBC, OS-independent fallback secret
	v11 []byte // AES-128-CBC, keyring-provided secret (Linux)
	v20 []byte // AES-256-GCM master key
}

// decryptEnvelope dispatches on a blob's version tag and recovers the cookie
// plaintext. Unknown or truncated envelopes are an explicit error; the engine
// never guesses a mode.
func decryptEnvelope(encrypted []byte, keys cipherKeys, metaVersion int64) ([]byte, error) {
	if len(encrypted) == 0 {
		return nil, fmt.Errorf("%w: empty value", ErrDecrypt)
	}
	if len(encrypted) <= envelopeVersionLen {
		return nil, fmt.Errorf("%w: value too short (%d bytes)", ErrDecrypt, len(encrypted))
	}
	if !hasEnvelopeVersion(encrypted) {
		return nil, fmt.Errorf("%w: missing v## envelope tag", ErrDecrypt)
	}

	version := string(encrypted[:envelopeVersionLen])
	payload := encrypted[envelopeVersionLen:]

	var plain []byte
	var err error
	switch version {
	case "v10":
		plain, err = decryptAESCBC(payload, keys.v10)
	case "v11":
		plain, err = decryptAESCBC(payload, keys.v11)
	case "v20":
		plain, err = decryptAESGCM(payload, keys.v20)
	default:
		return nil, fmt.Errorf("%w: unsupported envelope version %q", ErrDecrypt, version)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: envelope %s: %v", ErrDecrypt, version, err)
	}
	return stripHashPrefix(plain, metaVersion), nil
}

func decryptAESCBC(ciphertext, key []byte) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("no key for this version")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("cipher input not full blocks")
	}

	out := make([]byte, len(ciphertext))
	cbc := cipher.NewCBCDecrypter(block, []byte(aesCBCIV))
	cbc.CryptBlocks(out, ciphertext)
	return removePKCS7Padding(out)
}

func decryptAESGCM(payload, key []byte) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("no key for this version")
	}
	if len(payload) < gcmNonceLen+gcmTagLen {
		return nil, fmt.Errorf("payload too short for nonce and tag")
	}
	nonce := payload[:gcmNonceLen]
	ciphertextAndTag := payload[gcmNonceLen:]

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return aesgcm.Open(nil, nonce, ciphertextAndTag, nil)
}

// stripHashPrefix removes the SHA256(host_key) prefix newer store versions
// prepend to the plaintext.
func stripHashPrefix(plain []byte, metaVersion int64) []byte {
	if metaVersion >= hashPrefixMetaFloor && len(plain) >= plaintextHashPrefix {
		return plain[plaintextHashPrefix:]
	}
	return plain
}

func hasEnvelopeVersion(b []byte) bool {
	if len(b) < envelopeVersionLen {
		return false
	}
	return b[0] == 'v' && isDigit(b[1]) && isDigit(b[2])
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func removePKCS7Padding(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return b, nil
	}
	paddingLen := int(b[len(b)-1])
	if paddingLen <= 0 || paddingLen > aes.BlockSize || paddingLen > len(b) {
		return nil, fmt.Errorf("invalid padding length: %d", paddingLen)
	}
	for _, p := range b[len(b)-paddingLen:] {
		if int(p) != paddingLen {
			return nil, fmt.Errorf("invalid padding bytes")
		}
	}
	return b[:len(b)-paddingLen], nil
}
