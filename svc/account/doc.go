// Package account manages customer accounts and their members.
//
// Identity is external: a trusted proxy sets the X-User-ID header, and
// Middleware turns it into the caller's membership of the account resolved by
// tenant.Middleware. Handlers of every account-scoped service receive a
// Context carrying both:
//
//	r.Use(tenant.Middleware(resolver, accounts))
//	r.Use(account.Middleware(accounts))
//	r.Get("/members", account.Wrap(svc.members, authz, eh, rbac.PermMembersRead))
//
// The Service also owns the account lifecycle used by the vendor console
// (create with owner, plan changes guarded by limits.CanDowngrade,
// activation) and enforces that every account keeps at least one owner.
package account
