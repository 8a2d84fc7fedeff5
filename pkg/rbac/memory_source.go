package rbac

import (
	"context"
	"slices"
)

// RoleSource provides role definitions.
type RoleSource interface {
	Load(ctx context.Context) (map[string]Role, error)
}

type inMemRoleSource map[string]Role

// NewInMemRoleSource returns a RoleSource over a deep copy of roles.
func NewInMemRoleSource(roles map[string]Role) RoleSource {
	cp := make(inMemRoleSource, len(roles))
	for name, r := range roles {
		cp[name] = Role{
			Permissions: slices.Clone(r.Permissions),
			Inherits:    slices.Clone(r.Inherits),
		}
	}
	return cp
}

func (s inMemRoleSource) Load(context.Context) (map[string]Role, error) {
	return s, nil
}
