// Package tenant resolves the account a request operates on.
//
// A Resolver extracts an identifier (account UUID or slug) from the request,
// a Provider loads the Account, and Middleware stores it in the request
// context, consulting a Cache first:
//
//	r.Use(tenant.Middleware(
//		tenant.NewCompositeResolver(
//			tenant.NewHeaderResolver(tenant.DefaultHeader),
//			tenant.NewSubdomainResolver(".utmcrafter.app"),
//		),
//		accountStore,
//		tenant.WithCache(tenant.NewRedisCache(rdb, "utm:account:", 5*time.Minute)),
//	))
//
// Handlers read it back with FromContext. Requests without an identifier pass
// through without an account; mount RequireAccount on routes that need one.
// Inactive accounts are rejected with ErrInactiveAccount unless
// WithRequireActive(false) is set.
package tenant
