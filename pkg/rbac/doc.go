// Package rbac maps account member roles to permissions.
//
// Permissions are dot-separated scopes ("links.write"). A granted scope may end
// in ".*" to cover every scope below it, and "*" grants everything. Roles
// inherit the permissions of the roles they list in Inherits.
//
// DefaultRoles describes the built-in hierarchy
// owner ⊃ admin ⊃ editor ⊃ viewer:
//
//	auth, err := rbac.NewAuthorizer(ctx, rbac.NewInMemRoleSource(rbac.DefaultRoles()))
//	if err := auth.Can(member.Role, rbac.PermLinksWrite); err != nil {
//		// errors.Is(err, rbac.ErrInsufficientPermissions)
//	}
package rbac
