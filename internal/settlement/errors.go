package settlement

import "errors"

var (
	// ErrMaterialNotFound is returned by a MaterialLookup for an unknown ID.
	// Settle turns it into a skipped line item.
	ErrMaterialNotFound = errors.New("material not found")

	// ErrCatalogUnavailable marks a failure of the lookup store itself.
	// It aborts the whole settlement and is safe to retry.
	ErrCatalogUnavailable = errors.New("material catalog unavailable")
)

// IsRetryable reports whether a Settle error is worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrCatalogUnavailable)
}
