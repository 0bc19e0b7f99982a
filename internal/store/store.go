// Package store provides the key-value persistence backends the prompt
// repository writes its collection to.
package store

import (
	"context"
	"fmt"
	"regexp"
)

// Store is a durable key-value byte store.
//
// Get returns (nil, nil) when the key is absent; a present value is never
// nil. Set replaces the whole value. Backends report failures as plain errors;
// the repository classifies them.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Backend names accepted in config.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// validKey restricts keys to characters safe for every backend, including
// use as a file name.
var validKey = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateKey rejects keys that some backend could not store verbatim.
func ValidateKey(key string) error {
	if !validKey.MatchString(key) || len(key) > 128 {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}
