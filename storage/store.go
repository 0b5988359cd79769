// Package storage defines the durable key/value port the session is
// persisted through. It plays the role browser local storage plays for a
// web front-end: small JSON values under well-known keys.
package storage

import "errors"

// ErrNotFound is returned by Get when the key holds no value
var ErrNotFound = errors.New("storage: key not found")

// Store is a durable key/value store. Remove of an absent key is not an error.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}
