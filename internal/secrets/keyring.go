// Package secrets stores the LinkedIn password in the OS keyring so it does
// not have to live in .env files.
package secrets

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const KeyringService = "linkedin-scraper"

// LookupPassword returns "" without error when no password is stored for email.
func LookupPassword(email string) (string, error) {
	if email == "" {
		return "", nil
	}
	password, err := keyring.Get(KeyringService, email)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read keyring: %w", err)
	}
	return password, nil
}

func SetPassword(email, password string) error {
	if email == "" || password == "" {
		return errors.New("email and password are required")
	}
	if err := keyring.Set(KeyringService, email, password); err != nil {
		return fmt.Errorf("write keyring: %w", err)
	}
	return nil
}
