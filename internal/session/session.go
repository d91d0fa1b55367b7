package session

import "github.com/google/uuid"

// New returns an opaque per-client session identifier. Uniqueness is
// the only requirement; it is not a credential. The identifier is
// always passed explicitly into component operations so that tests can
// run isolated sessions side by side.
func New() string {
	return "shopper-" + uuid.NewString()
}
