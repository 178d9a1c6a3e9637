package engine

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned when the caller stops a run between files. It is
// a distinct terminal outcome, not a transfer failure: files completed
// before the stop are left in place.
var ErrCancelled = errors.New("transfer cancelled")

// TransferError reports the entry whose copy failed and aborted the rest of
// the plan.
type TransferError struct {
	Path string // source path of the failed entry
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer %s: %v", e.Path, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
