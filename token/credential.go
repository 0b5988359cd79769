// Package token holds the persisted credential record and the rules for
// reading, expiring and normalizing it.
package token

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jrsteele09/go-session-client/internal/errors"
	"github.com/jrsteele09/go-session-client/storage"
	"github.com/jrsteele09/go-session-client/users"
)

const (
	// CredentialKey holds the JSON encoded Credential
	CredentialKey = "tokenData"
	// UserKey holds the JSON encoded users.Record
	UserKey = "user"
)

// Credential is the bearer token and its absolute expiry in epoch milliseconds
type Credential struct {
	Token        string `json:"token"`
	ExpiresAt    int64  `json:"expiresAt"`
	RefreshToken string `json:"refreshToken,omitempty"` // only set when the backend issues one
}

// Validate checks the fields every stored credential must carry
func (c *Credential) Validate() error {
	if c == nil || c.Token == "" {
		return errors.Wrapf(errors.ErrMalformedCredential, "missing token")
	}
	if c.ExpiresAt <= 0 {
		return errors.Wrapf(errors.ErrMalformedCredential, "missing expiresAt")
	}
	return nil
}

// Expiry returns ExpiresAt as a time.Time
func (c *Credential) Expiry() time.Time {
	return time.UnixMilli(c.ExpiresAt)
}

// Expired reports whether now is at or past the expiry instant
func (c *Credential) Expired(now time.Time) bool {
	return now.UnixMilli() >= c.ExpiresAt
}

// TimeLeft returns the remaining lifetime, never negative
func (c *Credential) TimeLeft(now time.Time) time.Duration {
	left := time.Duration(c.ExpiresAt-now.UnixMilli()) * time.Millisecond
	if left < 0 {
		return 0
	}
	return left
}

// Load reads the credential record. A missing record returns
// storage.ErrNotFound; an unreadable one returns ErrMalformedCredential.
func Load(store storage.Store) (*Credential, error) {
	b, err := store.Get(CredentialKey)
	if err != nil {
		return nil, err
	}
	var c Credential
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("[token Load] %w: %v", errors.ErrMalformedCredential, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("[token Load] %w", err)
	}
	return &c, nil
}

// Save writes the credential record
func Save(store storage.Store, c *Credential) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("[token Save] %w", err)
	}
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("[token Save] marshal: %w", err)
	}
	return store.Set(CredentialKey, b)
}

// LoadUser reads the persisted user record
func LoadUser(store storage.Store) (*users.Record, error) {
	b, err := store.Get(UserKey)
	if err != nil {
		return nil, err
	}
	var u users.Record
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, fmt.Errorf("[token LoadUser] %w: %v", errors.ErrMalformedCredential, err)
	}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("[token LoadUser] %w: %v", errors.ErrMalformedCredential, err)
	}
	return &u, nil
}

// SaveUser writes the user record
func SaveUser(store storage.Store, u *users.Record) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("[token SaveUser] marshal: %w", err)
	}
	return store.Set(UserKey, b)
}

// Clear removes both the credential and the user record. Both removals
// are attempted even when the first fails.
func Clear(store storage.Store) error {
	return errors.Join(store.Remove(CredentialKey), store.Remove(UserKey))
}
