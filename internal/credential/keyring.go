// Package credential resolves the assistant API secret. The
// environment wins; otherwise the system keyring is consulted, so
// the key never has to live in the config file.
package credential

import (
	"fmt"
	"os"

	"github.com/99designs/keyring"

	"github.com/ymatsuda/taskpad/internal/model"
)

const (
	serviceName = "taskpad"
	keyName     = "assistant_api_key"
)

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/taskpad/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("taskpad-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// APIKey returns the assistant secret. TASKPAD_ASSISTANT_KEY takes
// precedence; with it unset, the key stored in the system keyring is
// used.
func APIKey() (string, error) {
	if key := os.Getenv(model.EnvAssistantKey); key != "" {
		return key, nil
	}

	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(keyName)
	if err != nil {
		return "", fmt.Errorf("getting assistant API key: %w", err)
	}

	return string(item.Data), nil
}

// StoreAPIKey saves the assistant secret in the system keyring.
func StoreAPIKey(value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  keyName,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("storing assistant API key: %w", err)
	}

	return nil
}

// ForgetAPIKey removes the assistant secret from the system keyring.
func ForgetAPIKey() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	if err := ring.Remove(keyName); err != nil {
		return fmt.Errorf("removing assistant API key: %w", err)
	}

	return nil
}
