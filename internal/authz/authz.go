// AngelaMos | 2026
// authz.go

package authz

import (
	"fmt"

	"github.com/carterperez-dev/bookcatalog/internal/core"
)

// Owned is any resource with a single owning user.
type Owned interface {
	OwnerID() string
}

// CanMutate is the one ownership predicate every mutating operation
// consults: anonymous actors are unauthorized, non-owners are forbidden,
// owners pass. Reads never call it.
func CanMutate(actorID string, resource Owned) error {
	if actorID == "" {
		return fmt.Errorf("mutate: %w", core.ErrUnauthorized)
	}

	if actorID != resource.OwnerID() {
		return fmt.Errorf("mutate: %w", core.ErrForbidden)
	}

	return nil
}
