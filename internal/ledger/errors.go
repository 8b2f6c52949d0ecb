package ledger

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for transport-level failures. Implementations wrap these
// with %w so callers can classify with errors.Is.
var (
	// ErrConnectionFailure means the store could not be reached at all.
	ErrConnectionFailure = errors.New("ledger: cannot connect to store")

	// ErrTimeout means the store did not answer within the fixed request
	// timeout. The operation is not resumable; the engine treats it as a
	// whole-operation failure.
	ErrTimeout = errors.New("ledger: store request timed out")
)

// RemoteError reports that the store answered but rejected the request.
type RemoteError struct {
	// Status is the HTTP-shaped status code of the rejection.
	Status int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("ledger: store rejected request (status %d)", e.Status)
}

// Reject returns a RemoteError with the given status.
func Reject(status int) error {
	return &RemoteError{Status: status}
}

// IsNotFound reports whether err is a RemoteError with a not-found status.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == http.StatusNotFound
}

// IsConflict reports whether err is a RemoteError with a conflict status,
// the store's signal for duplicate names and unsettled-person deletions.
func IsConflict(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == http.StatusConflict
}
