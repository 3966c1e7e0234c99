package models

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Base errors for the log gateway, grouped by how callers are expected to
// react to them.
var (
	// TransportError covers network failures and non-2xx responses without a
	// structured payload.
	TransportError = errors.New("transport error")

	// ValidationError carries a server-supplied message from a structured
	// error payload.
	ValidationError = errors.New("validation error")

	// NotFoundError is returned for 404 responses on single-record lookups.
	NotFoundError = errors.New("not found")
)

var ErrUploadRejected = errors.Wrap(ValidationError, "upload rejected")

// PartialDeleteError reports how many deletions of a bulk delete failed. It
// deliberately does not say which: the server-side per-record outcome is not
// reported back, so callers should re-list to resync.
type PartialDeleteError struct {
	Failed int
}

func (e PartialDeleteError) Error() string {
	return fmt.Sprintf("%d deletion(s) failed", e.Failed)
}

func IsPartialDelete(err error) (PartialDeleteError, bool) {
	var partial PartialDeleteError
	if errors.As(err, &partial) {
		return partial, true
	}
	return PartialDeleteError{}, false
}
