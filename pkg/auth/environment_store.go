package auth

import (
	"os"
)

// Environment variables read by EnvironmentStore
const (
	UsernameEnv = "GINDL_USERNAME"
	PasswordEnv = "GINDL_PASSWORD"
)

// EnvironmentStore exposes GINDL_USERNAME and GINDL_PASSWORD as a read-only
// account
type EnvironmentStore struct{}

func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment account when username is empty or matches
func (e *EnvironmentStore) Retrieve(username string) (*Account, error) {
	user, pass := os.Getenv(UsernameEnv), os.Getenv(PasswordEnv)
	if user == "" || pass == "" {
		return nil, ErrCredentialsNotFound
	}
	if username != "" && username != user {
		return nil, ErrCredentialsNotFound
	}
	return &Account{Username: user, Password: pass}, nil
}

func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

func (e *EnvironmentStore) Delete(username string) error {
	return ErrStoreUnavailable
}

func (e *EnvironmentStore) Exists(username string) bool {
	_, err := e.Retrieve(username)
	return err == nil
}
