//go:build windows

package mailmenu

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

var dpapiBlobPrefix = [...]byte{
	1, 0, 0, 0, 208, 140, 157, 223, 1, 21, 209, 17, 140, 122, 0, 192, 79, 194, 151, 235,
} // 0x01000000D08C9DDF0115D1118C7A00C04FC297EB

// newRecordDecryptor reads the vendor's DPAPI-wrapped master key from Local
// State and decrypts v10 GCM envelopes with it. Legacy rows are raw DPAPI
// blobs and bypass the envelope dispatch entirely.
func newRecordDecryptor(vendor vendorInfo, _ SecretSource, userDataDir string, _ *slog.Logger) (recordDecryptor, error) {
	if userDataDir == "" {
		return nil, fmt.Errorf("%w: %s Local State path unavailable", ErrSecretUnavailable, vendor.label)
	}

	masterKey, err := windowsMasterKey(userDataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s master key: %v", ErrSecretUnavailable, vendor.label, err)
	}

	// On Windows the v10 tag marks the GCM scheme keyed by the Local State
	// master key; there is no CBC fallback.
	keys := cipherKeys{v10: nil, v20: masterKey}
	return func(encrypted []byte, metaVersion int64) ([]byte, error) {
		if bytes.HasPrefix(encrypted, dpapiBlobPrefix[:]) {
			plain, err := dpapiUnprotect(encrypted)
			if err != nil {
				return nil, fmt.Errorf("%w: dpapi: %v", ErrDecrypt, err)
			}
			return stripHashPrefix(plain, metaVersion), nil
		}
		if hasEnvelopeVersion(encrypted) && string(encrypted[:envelopeVersionLen]) == "v10" {
			rewritten := append([]byte("v20"), encrypted[envelopeVersionLen:]...)
			return decryptEnvelope(rewritten, keys, metaVersion)
		}
		return decryptEnvelope(encrypted, keys, metaVersion)
	}, nil
}

func windowsMasterKey(userDataDir string) ([]byte, error) {
	statePath := filepath.Join(userDataDir, "Local State")
	stateBytes, err := os.ReadFile(statePath)
	if err != nil {
		return nil, err
	}

	var localState struct {
		OSCrypt struct {
			EncryptedKey string `json:"encrypted_key"`
		} `json:"os_crypt"`
	}
	if err := json.Unmarshal(stateBytes, &localState); err != nil {
		return nil, err
	}
	encB64 := strings.TrimSpace(localState.OSCrypt.EncryptedKey)
	if encB64 == "" {
		return nil, errors.New("local state missing os_crypt.encrypted_key")
	}
	enc, err := base64.StdEncoding.DecodeString(encB64)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(enc, []byte("DPAPI")) {
		return nil, errors.New("encrypted_key missing DPAPI prefix")
	}
	enc = enc[len("DPAPI"):]
	key, err := dpapiUnprotect(enc)
	if err != nil {
		return nil, err
	}
	if len(key) != aesGCMKeyLen {
		return nil, fmt.Errorf("master key not %d bytes (got %d)", aesGCMKeyLen, len(key))
	}
	return key, nil
}

func dpapiUnprotect(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty dpapi input")
	}

	var outBlob dataBlob
	if err := cryptUnprotectData(newBlob(data), &outBlob); err != nil {
		return nil, err
	}
	defer func() {
		_, _ = windows.LocalFree(windows.Handle(unsafe.Pointer(outBlob.pbData))) //nolint:gosec // Windows API requires this.
	}()
	return outBlob.bytes(), nil
}

type dataBlob struct {
	cbData uint32
	pbData *byte
}

func newBlob(d []byte) *dataBlob {
	if len(d) == 0 {
		return &dataBlob{}
	}
	return &dataBlob{pbData: &d[0], cbData: uint32(len(d))}
}

func (b *dataBlob) bytes() []byte {
	if b == nil || b.cbData == 0 || b.pbData == nil {
		return nil
	}
	out := make([]byte, b.cbData)
	copy(out, (*[1 << 30]byte)(unsafe.Pointer(b.pbData))[:b.cbData:b.cbData])
	return out
}

func cryptUnprotectData(in *dataBlob, out *dataBlob) error {
	// windows.CryptUnprotectData in x/sys is awkward for raw blobs; call the proc directly.
	dll := windows.NewLazySystemDLL("Crypt32.dll")
	proc := dll.NewProc("CryptUnprotectData")
	const cryptprotectUIForbidden = 0x1
	r, _, e := proc.Call(
		uintptr(unsafe.Pointer(in)),
		0,
		0,
		0,
		0,
		cryptprotectUIForbidden,
		uintptr(unsafe.Pointer(out)),
	)
	if r == 0 {
		return e
	}
	return nil
}
