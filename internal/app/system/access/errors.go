// internal/app/system/access/errors.go
package access

import (
	"errors"
	"fmt"

	"github.com/dalemusser/lexhub/internal/domain/models"
)

// The authorization failure taxonomy. The three categories drive distinct
// user-facing behavior: Unauthenticated → login, NotFound → generic
// not-found, Forbidden → access-denied view with a request-access action.
// All three are final decisions; callers never retry them.
//
// Policy note: a direct-by-id lookup of a case the user cannot see fails
// Forbidden, not NotFound. The request-access view has to be reachable for
// exactly that situation; existence hiding applies to list contexts, which
// filter with Guard.Check instead of failing.

// ErrUnauthenticated means no verified identity was presented.
var ErrUnauthenticated = errors.New("authentication required")

// NotFoundError means the referenced resource does not exist.
type NotFoundError struct {
	Resource string // "case", "team", …
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ForbiddenError means the identity is verified but access is
// insufficient. The fields identify the shortfall so the HTTP layer and
// tests can report "have basic, need advanced" instead of a generic deny.
type ForbiddenError struct {
	Reason     string
	Have       models.AccessLevel // level held, "" when no access at all
	Need       models.AccessLevel // minimum level required, if level-gated
	Capability Capability         // missing capability, if capability-gated
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

func noAccess() *ForbiddenError {
	return &ForbiddenError{Reason: "no access to case"}
}

func insufficientLevel(have, need models.AccessLevel) *ForbiddenError {
	return &ForbiddenError{
		Reason: fmt.Sprintf("insufficient level: have %s, need %s", have, need),
		Have:   have,
		Need:   need,
	}
}

func missingCapability(have models.AccessLevel, c Capability) *ForbiddenError {
	return &ForbiddenError{
		Reason:     fmt.Sprintf("missing capability %s", c),
		Have:       have,
		Capability: c,
	}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsForbidden reports whether err is a ForbiddenError.
func IsForbidden(err error) bool {
	var fb *ForbiddenError
	return errors.As(err, &fb)
}

// AsForbidden extracts the ForbiddenError from err, if any.
func AsForbidden(err error) (*ForbiddenError, bool) {
	var fb *ForbiddenError
	if errors.As(err, &fb) {
		return fb, true
	}
	return nil, false
}
