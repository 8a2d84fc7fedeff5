// Package feature implements platform feature flags evaluated per account.
//
// A Flag is a global switch plus optional Targeting: explicit account allow
// and deny lists, plan ids, and a percentage rollout hashed on the account id.
// Flags are plain data so they can be loaded from the YAML catalog and edited
// through the vendor console; Flag.Strategy turns them into a Strategy that is
// evaluated against the Subject found in the request context.
//
//	provider, _ := feature.NewMemoryProvider(flags...)
//	on, err := provider.IsEnabled(ctx, "qr_codes")
//
// Evaluation order: a disabled flag is off, then the deny list, then the allow
// list, then plans, then the percentage. A flag that is enabled without any
// targeting is on for everyone.
package feature
