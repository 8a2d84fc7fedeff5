// Package limits enforces plan quotas and plan features per account.
//
// Plans come from the YAML catalog (see YAMLSource) and define resource limits
// and the features an account on the plan may use:
//
//	plans:
//	  - id: free
//	    name: Free
//	    limits: {campaigns: 3, links: 50, members: 1}
//	    features: []
//	  - id: agency
//	    name: Agency
//	    limits: {campaigns: -1, links: -1, members: 25}
//	    features: [custom_params, qr_codes, wizard]
//
// Usage is counted by CounterFuncs registered per resource, normally backed by
// SQL COUNT queries in the owning service:
//
//	counters := limits.NewRegistry()
//	counters.Register(limits.ResourceCampaigns, campaignStore.CountByAccount)
//	svc, err := limits.NewService(ctx, limits.NewYAMLSource(file), counters, planResolver)
//
//	if err := svc.CanCreate(ctx, accountID, limits.ResourceLinks); err != nil {
//		// errors.Is(err, limits.ErrLimitExceeded)
//	}
//
// A limit of Unlimited (-1) disables the check. Plans are read once at
// construction and are immutable afterwards.
package limits
