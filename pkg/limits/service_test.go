package limits_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/limits"
)

const catalog = `
plans:
  - id: free
    name: Free
    default: true
    limits: {campaigns: 3, links: 50, members: 1}
    features: []
  - id: pro
    name: Pro
    limits: {campaigns: 25, links: 1000, members: 5}
    features: [custom_params, qr_codes]
  - id: agency
    name: Agency
    limits: {campaigns: -1, links: -1, members: 25}
    features: [custom_params, qr_codes, wizard]
`

func counters(usage map[limits.Resource]int64) limits.CounterRegistry {
	reg := limits.NewRegistry()
	for res, n := range usage {
		reg.Register(res, func(context.Context, uuid.UUID) (int64, error) { return n, nil })
	}
	return reg
}

func newService(t *testing.T, usage map[limits.Resource]int64) *limits.Service {
	t.Helper()
	svc, err := limits.NewService(context.Background(), limits.NewYAMLSource(strings.NewReader(catalog)), counters(usage), nil)
	require.NoError(t, err)
	return svc
}

func onPlan(planID string) context.Context {
	return limits.SetPlanIDToContext(context.Background(), planID)
}

func TestService_Catalog(t *testing.T) {
	t.Parallel()

	svc := newService(t, nil)

	plans := svc.Plans()
	require.Len(t, plans, 3)
	assert.Equal(t, "free", plans[0].ID)
	assert.Equal(t, "agency", plans[2].ID)
	assert.Equal(t, "free", svc.DefaultPlanID())

	p, err := svc.Plan("pro")
	require.NoError(t, err)
	assert.True(t, p.HasFeature(limits.FeatureQRCodes))
	assert.False(t, p.HasFeature(limits.FeatureWizard))

	_, err = svc.Plan("enterprise")
	assert.ErrorIs(t, err, limits.ErrPlanNotFound)
	assert.ErrorIs(t, svc.VerifyPlan(context.Background(), "enterprise"), limits.ErrPlanNotFound)
	assert.NoError(t, svc.VerifyPlan(context.Background(), "agency"))
}

func TestService_CanCreate(t *testing.T) {
	t.Parallel()

	account := uuid.New()

	tests := []struct {
		name    string
		plan    string
		usage   int64
		res     limits.Resource
		wantErr error
	}{
		{name: "under limit", plan: "free", usage: 2, res: limits.ResourceCampaigns},
		{name: "at limit", plan: "free", usage: 3, res: limits.ResourceCampaigns, wantErr: limits.ErrLimitExceeded},
		{name: "unlimited", plan: "agency", usage: 10_000, res: limits.ResourceCampaigns},
		{name: "unknown resource", plan: "free", res: "widgets", wantErr: limits.ErrInvalidResource},
		{name: "unknown plan", plan: "gold", res: limits.ResourceLinks, wantErr: limits.ErrPlanNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newService(t, map[limits.Resource]int64{tt.res: tt.usage})
			err := svc.CanCreate(onPlan(tt.plan), account, tt.res)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_CanCreate_NoPlanInContext(t *testing.T) {
	t.Parallel()

	svc := newService(t, nil)
	err := svc.CanCreate(context.Background(), uuid.New(), limits.ResourceLinks)
	assert.ErrorIs(t, err, limits.ErrPlanIDNotInContext)
}

func TestService_CounterErrors(t *testing.T) {
	t.Parallel()

	reg := limits.NewRegistry()
	boom := errors.New("db down")
	reg.Register(limits.ResourceLinks, func(context.Context, uuid.UUID) (int64, error) { return 0, boom })

	svc, err := limits.NewService(context.Background(), limits.NewYAMLSource(strings.NewReader(catalog)), reg, nil)
	require.NoError(t, err)

	err = svc.CanCreate(onPlan("free"), uuid.New(), limits.ResourceLinks)
	assert.ErrorIs(t, err, limits.ErrFailedToCountResourceUsage)
	assert.ErrorIs(t, err, boom)

	err = svc.CanCreate(onPlan("free"), uuid.New(), limits.ResourceCampaigns)
	assert.ErrorIs(t, err, limits.ErrNoCounterRegistered)

	usage, err := svc.GetAllUsage(onPlan("free"), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, limits.UsageInfo{Current: 0, Limit: 50}, usage[limits.ResourceLinks])
}

func TestService_Usage(t *testing.T) {
	t.Parallel()

	svc := newService(t, map[limits.Resource]int64{
		limits.ResourceCampaigns: 2,
		limits.ResourceLinks:     75,
		limits.ResourceMembers:   1,
	})
	account := uuid.New()

	used, limit, err := svc.GetUsage(onPlan("free"), account, limits.ResourceCampaigns)
	require.NoError(t, err)
	assert.Equal(t, int64(2), used)
	assert.Equal(t, int64(3), limit)

	assert.Equal(t, 66, svc.GetUsagePercentage(onPlan("free"), account, limits.ResourceCampaigns))
	assert.Equal(t, 100, svc.GetUsagePercentage(onPlan("free"), account, limits.ResourceLinks))
	assert.Equal(t, -1, svc.GetUsagePercentage(onPlan("agency"), account, limits.ResourceLinks))

	all, err := svc.GetAllUsage(onPlan("pro"), account)
	require.NoError(t, err)
	assert.Equal(t, map[limits.Resource]limits.UsageInfo{
		limits.ResourceCampaigns: {Current: 2, Limit: 25},
		limits.ResourceLinks:     {Current: 75, Limit: 1000},
		limits.ResourceMembers:   {Current: 1, Limit: 5},
	}, all)
}

func TestService_Features(t *testing.T) {
	t.Parallel()

	svc := newService(t, nil)
	account := uuid.New()

	assert.False(t, svc.HasFeature(onPlan("free"), account, limits.FeatureCustomParams))
	assert.True(t, svc.HasFeature(onPlan("pro"), account, limits.FeatureCustomParams))
	assert.True(t, svc.HasFeature(onPlan("agency"), account, limits.FeatureWizard))
	assert.False(t, svc.HasFeature(context.Background(), account, limits.FeatureWizard))

	assert.ErrorIs(t, svc.RequireFeature(onPlan("pro"), account, limits.FeatureWizard), limits.ErrFeatureNotAvailable)
	assert.NoError(t, svc.RequireFeature(onPlan("agency"), account, limits.FeatureWizard))
}

func TestService_CanDowngrade(t *testing.T) {
	t.Parallel()

	account := uuid.New()

	t.Run("usage fits", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, map[limits.Resource]int64{limits.ResourceCampaigns: 3, limits.ResourceLinks: 10, limits.ResourceMembers: 1})
		assert.NoError(t, svc.CanDowngrade(onPlan("agency"), account, "free"))
	})

	t.Run("usage exceeds target", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, map[limits.Resource]int64{limits.ResourceCampaigns: 4})
		assert.ErrorIs(t, svc.CanDowngrade(onPlan("pro"), account, "free"), limits.ErrDowngradeNotPossible)
	})

	t.Run("upgrade", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, map[limits.Resource]int64{limits.ResourceCampaigns: 100})
		assert.NoError(t, svc.CanDowngrade(onPlan("free"), account, "agency"))
	})

	t.Run("unknown target", func(t *testing.T) {
		t.Parallel()
		svc := newService(t, nil)
		assert.ErrorIs(t, svc.CanDowngrade(onPlan("free"), account, "gold"), limits.ErrPlanNotFound)
	})
}

func TestNewService_InvalidCatalog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		plans []limits.Plan
	}{
		{name: "missing id", plans: []limits.Plan{{Name: "x"}}},
		{name: "duplicate", plans: []limits.Plan{{ID: "a"}, {ID: "a"}}},
		{name: "negative limit", plans: []limits.Plan{{ID: "a", Limits: map[limits.Resource]int64{limits.ResourceLinks: -5}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := limits.NewService(context.Background(), limits.NewInMemSource(tt.plans...), nil, nil)
			assert.ErrorIs(t, err, limits.ErrInvalidPlanConfiguration)
		})
	}
}

func TestNewService_BadYAML(t *testing.T) {
	t.Parallel()

	_, err := limits.NewService(context.Background(), limits.NewYAMLSource(strings.NewReader("plans: [")), nil, nil)
	assert.ErrorIs(t, err, limits.ErrFailedToLoadPlans)
}

func TestService_CustomResolver(t *testing.T) {
	t.Parallel()

	account := uuid.New()
	resolver := func(_ context.Context, id uuid.UUID) (string, error) {
		if id == account {
			return "agency", nil
		}
		return "free", nil
	}
	svc, err := limits.NewService(context.Background(), limits.NewYAMLSource(strings.NewReader(catalog)), nil, resolver)
	require.NoError(t, err)

	assert.True(t, svc.HasFeature(context.Background(), account, limits.FeatureWizard))
	assert.False(t, svc.HasFeature(context.Background(), uuid.New(), limits.FeatureWizard))
}
