package mailmenu

import (
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// SecretSource retrieves a browser's safe-storage secret by its logical
// service/account name.
type SecretSource interface {
	Retrieve(service, account string) (string, error)
}

// KeyringSecretSource reads secrets through the OS-native secret store
// (macOS Keychain, freedesktop Secret Service, Windows Credential Manager).
type KeyringSecretSource struct{}

// Retrieve implements SecretSource.
func (KeyringSecretSource) Retrieve(service, account string) (string, error) {
	secret, err := keyring.Get(service, account)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrSecretUnavailable, service, err)
	}
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return "", fmt.Errorf("%w: %s returned an empty secret", ErrSecretUnavailable, service)
	}
	return secret, nil
}

// StaticSecretSource returns a fixed secret regardless of the requested
// name. It backs the config-file password override and deterministic tests.
type StaticSecretSource string

// Retrieve implements SecretSource.
func (s StaticSecretSource) Retrieve(_, _ string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty static secret", ErrSecretUnavailable)
	}
	return string(s), nil
}
