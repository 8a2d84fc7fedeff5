package limits

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CounterFunc returns the current usage of a resource for an account.
type CounterFunc func(ctx context.Context, accountID uuid.UUID) (int64, error)

// CounterRegistry maps a Resource to its CounterFunc. Register counters at
// startup only; the map is not guarded.
type CounterRegistry map[Resource]CounterFunc

func NewRegistry() CounterRegistry {
	return make(CounterRegistry)
}

// Register sets the counter for res. It panics on a nil fn.
func (r CounterRegistry) Register(res Resource, fn CounterFunc) {
	if fn == nil {
		panic(fmt.Sprintf("limits: CounterFunc for resource %q cannot be nil", res))
	}
	r[res] = fn
}
