package repository

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for store failures. Storage failures are surfaced to the
// caller unchanged in kind and never retried here; devices retry on their
// next report cadence.
var (
	ErrNotFound     = errors.New("not found")
	ErrInsertFailed = errors.New("insert operation failed")
	ErrSelectFailed = errors.New("select operation failed")
	ErrTimeout      = errors.New("storage deadline exceeded")
)

func wrapStorage(fn string, kind, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		kind = ErrTimeout
	}
	return fmt.Errorf("%s:%w:%w", fn, kind, err)
}
