package rbac

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Authorizer answers permission checks for member roles.
type Authorizer interface {
	// Can reports ErrInsufficientPermissions unless the role holds permission,
	// directly or through inheritance.
	Can(role, permission string) error
	// CanAny succeeds when the role holds at least one of permissions.
	CanAny(role string, permissions ...string) error
	// CanAll succeeds only when the role holds every one of permissions.
	CanAll(role string, permissions ...string) error
	// CanFromContext checks the role stored by SetRoleToContext.
	CanFromContext(ctx context.Context, permission string) error
	// VerifyRole returns ErrInvalidRole for unknown roles.
	VerifyRole(role string) error
	// Roles lists role names, least privileged first.
	Roles() []string
}

type authorizer struct {
	// Effective permissions per role. Read-only after NewAuthorizer.
	grants map[string][]string
	order  []string
}

// NewAuthorizer loads roles from source and flattens inheritance up front.
func NewAuthorizer(ctx context.Context, source RoleSource) (Authorizer, error) {
	roles, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	r := &resolver{
		roles:  roles,
		state:  make(map[string]int, len(roles)),
		depth:  make(map[string]int, len(roles)),
		grants: make(map[string][]string, len(roles)),
	}
	for name := range roles {
		if err := r.visit(name, nil); err != nil {
			return nil, err
		}
	}

	order := make([]string, 0, len(roles))
	for name := range roles {
		order = append(order, name)
	}
	slices.SortFunc(order, func(a, b string) int {
		if d := r.depth[a] - r.depth[b]; d != 0 {
			return d
		}
		return strings.Compare(a, b)
	})

	grants := make(map[string][]string, len(roles))
	for name := range roles {
		grants[name] = normalizeScopes(r.grants[name])
	}
	return &authorizer{grants: grants, order: order}, nil
}

func (a *authorizer) Can(role, permission string) error {
	granted, ok := a.grants[role]
	if !ok {
		return ErrInvalidRole
	}
	if !hasScope(granted, permission) {
		return ErrInsufficientPermissions
	}
	return nil
}

func (a *authorizer) CanAny(role string, permissions ...string) error {
	if len(permissions) == 0 {
		return nil
	}
	granted, ok := a.grants[role]
	if !ok {
		return ErrInvalidRole
	}
	if slices.ContainsFunc(permissions, func(p string) bool { return hasScope(granted, p) }) {
		return nil
	}
	return ErrInsufficientPermissions
}

func (a *authorizer) CanAll(role string, permissions ...string) error {
	granted, ok := a.grants[role]
	if !ok {
		if len(permissions) == 0 {
			return nil
		}
		return ErrInvalidRole
	}
	for _, p := range permissions {
		if !hasScope(granted, p) {
			return errors.Join(ErrInsufficientPermissions, fmt.Errorf("missing %s", p))
		}
	}
	return nil
}

func (a *authorizer) CanFromContext(ctx context.Context, permission string) error {
	role, ok := GetRoleFromContext(ctx)
	if !ok {
		return errors.Join(ErrRoleNotInContext, ErrInsufficientPermissions)
	}
	return a.Can(role, permission)
}

func (a *authorizer) VerifyRole(role string) error {
	if _, ok := a.grants[role]; !ok {
		return ErrInvalidRole
	}
	return nil
}

func (a *authorizer) Roles() []string {
	return slices.Clone(a.order)
}

const (
	unvisited = iota
	visiting
	done
)

// resolver walks the inheritance graph once, depth first, collecting
// permissions and rejecting cycles or chains deeper than MaxInheritanceDepth.
type resolver struct {
	roles  map[string]Role
	state  map[string]int
	depth  map[string]int
	grants map[string][]string
}

func (r *resolver) visit(name string, path []string) error {
	switch r.state[name] {
	case done:
		return nil
	case visiting:
		return errors.Join(ErrCircularInheritance,
			fmt.Errorf("circular inheritance: %s", strings.Join(append(path, name), " -> ")))
	}

	role, ok := r.roles[name]
	if !ok {
		// Unknown parents contribute nothing.
		r.state[name] = done
		return nil
	}

	r.state[name] = visiting
	path = append(path, name)
	perms := slices.Clone(role.Permissions)
	depth := 0
	for _, parent := range role.Inherits {
		if err := r.visit(parent, path); err != nil {
			return err
		}
		perms = append(perms, r.grants[parent]...)
		depth = max(depth, r.depth[parent]+1)
	}
	if depth > MaxInheritanceDepth {
		return errors.Join(ErrCircularInheritance,
			fmt.Errorf("role %s exceeds inheritance depth %d", name, MaxInheritanceDepth))
	}

	r.grants[name] = perms
	r.depth[name] = depth
	r.state[name] = done
	return nil
}
