// Package store provides the key/value persistence medium behind the
// encounter log, with SQLite and in-memory implementations.
package store

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

var (
	// ErrQuotaExceeded is returned by Set when the value is larger than the
	// medium's configured quota.
	ErrQuotaExceeded = goerr.New("storage quota exceeded")
	ErrClosed        = goerr.New("medium is closed")
)

// Medium stores opaque values under string keys. Set overwrites the whole
// value in one step; readers never observe a partially written value.
type Medium interface {
	// Get returns the value stored at key. ok is false if the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the medium.
	Close() error
}

// Options configures a medium.
type Options struct {
	// MaxValueBytes rejects larger values with ErrQuotaExceeded. Zero means
	// no limit.
	MaxValueBytes int
}

func checkQuota(opts Options, key string, value []byte) error {
	if opts.MaxValueBytes > 0 && len(value) > opts.MaxValueBytes {
		return goerr.Wrap(ErrQuotaExceeded, "value too large",
			goerr.V("key", key),
			goerr.V("size", len(value)),
			goerr.V("limit", opts.MaxValueBytes))
	}
	return nil
}
