// AngelaMos | 2026
// authz_test.go

package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carterperez-dev/bookcatalog/internal/core"
)

type ownedThing struct {
	owner string
}

func (o ownedThing) OwnerID() string {
	return o.owner
}

func TestCanMutate(t *testing.T) {
	resource := ownedThing{owner: "user-1"}

	t.Run("owner passes", func(t *testing.T) {
		assert.NoError(t, CanMutate("user-1", resource))
	})

	t.Run("anonymous actor is unauthorized", func(t *testing.T) {
		assert.ErrorIs(t, CanMutate("", resource), core.ErrUnauthorized)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		assert.ErrorIs(t, CanMutate("user-2", resource), core.ErrForbidden)
	})
}
