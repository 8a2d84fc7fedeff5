package rbac

// MaxInheritanceDepth bounds role inheritance chains.
const MaxInheritanceDepth = 10

// Built-in member roles, most privileged first.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// Permissions checked by the account-scoped API.
const (
	PermCampaignsRead  = "campaigns.read"
	PermCampaignsWrite = "campaigns.write"
	PermLinksRead      = "links.read"
	PermLinksWrite     = "links.write"
	PermMembersRead    = "members.read"
	PermMembersWrite   = "members.write"
	PermAccountManage  = "account.manage"
)

// Role is a set of permissions plus the roles it inherits from.
type Role struct {
	Permissions []string `yaml:"permissions" json:"permissions"`
	Inherits    []string `yaml:"inherits" json:"inherits"`
}

// Can checks the role's direct permissions only.
func (r *Role) Can(permission string) bool {
	return hasScope(r.Permissions, permission)
}

// DefaultRoles returns the built-in role hierarchy.
func DefaultRoles() map[string]Role {
	return map[string]Role{
		RoleViewer: {
			Permissions: []string{PermCampaignsRead, PermLinksRead, PermMembersRead},
		},
		RoleEditor: {
			Permissions: []string{PermCampaignsWrite, PermLinksWrite},
			Inherits:    []string{RoleViewer},
		},
		RoleAdmin: {
			Permissions: []string{"members.*", "campaigns.*", "links.*"},
			Inherits:    []string{RoleEditor},
		},
		RoleOwner: {
			Permissions: []string{"*"},
			Inherits:    []string{RoleAdmin},
		},
	}
}

var ranks = map[string]int{RoleViewer: 1, RoleEditor: 2, RoleAdmin: 3, RoleOwner: 4}

// Rank orders the built-in roles; unknown roles rank 0.
func Rank(role string) int {
	return ranks[role]
}

// Outranks reports whether role a is at least as privileged as role b.
func Outranks(a, b string) bool {
	return Rank(a) >= Rank(b) && Rank(a) > 0
}
