package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/feature"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/limits"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/rbac"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/tenant"
	"github.com/pawa80/utm-link-crafter-sub002/svc/account"
)

var testPlans = []limits.Plan{
	{
		ID:      "free",
		Name:    "Free",
		Default: true,
		Limits:  map[limits.Resource]int64{limits.ResourceMembers: 2},
	},
	{
		ID:       "pro",
		Name:     "Pro",
		Limits:   map[limits.Resource]int64{limits.ResourceMembers: limits.Unlimited},
		Features: []limits.Feature{limits.FeatureQRCodes, limits.FeatureWizard},
	},
}

type fixture struct {
	storage *memStorage
	plans   *limits.Service
	authz   rbac.Authorizer
	cache   *tenant.MemoryCache
	svc     *account.Service
}

func newFixture(t *testing.T, opts ...account.Option) *fixture {
	t.Helper()
	ctx := context.Background()

	storage := newMemStorage()
	counters := limits.NewRegistry()
	counters.Register(limits.ResourceMembers, storage.CountMembers)

	plans, err := limits.NewService(ctx, limits.NewInMemSource(testPlans...), counters, account.PlanIDResolver(storage))
	require.NoError(t, err)

	authz, err := rbac.NewAuthorizer(ctx, rbac.NewInMemRoleSource(rbac.DefaultRoles()))
	require.NoError(t, err)

	cache := tenant.NewMemoryCache(16, time.Minute)
	opts = append([]account.Option{account.WithCache(cache)}, opts...)

	return &fixture{
		storage: storage,
		plans:   plans,
		authz:   authz,
		cache:   cache,
		svc:     account.NewService(storage, authz, plans, opts...),
	}
}

func (f *fixture) createAccount(t *testing.T, name string) (*tenant.Account, account.Member) {
	t.Helper()
	ownerID := uuid.New()
	acc, err := f.svc.CreateAccount(context.Background(), account.CreateAccountInput{Name: name, OwnerID: ownerID})
	require.NoError(t, err)
	owner, err := f.svc.Member(context.Background(), acc.ID, ownerID)
	require.NoError(t, err)
	return acc, *owner
}

func TestService_CreateAccount(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	acc, owner := f.createAccount(t, "  Acme <b>Marketing</b> ")
	assert.Equal(t, "Acme Marketing", acc.Name)
	assert.Equal(t, "acme-marketing", acc.Slug)
	assert.Equal(t, "free", acc.PlanID)
	assert.True(t, acc.Active)
	assert.Equal(t, rbac.RoleOwner, owner.Role)

	again, err := f.svc.CreateAccount(ctx, account.CreateAccountInput{Name: "Acme Marketing", OwnerID: uuid.New()})
	require.NoError(t, err)
	assert.NotEqual(t, acc.Slug, again.Slug)
	assert.Regexp(t, `^acme-marketing-[a-z0-9]{4}$`, again.Slug)

	_, err = f.svc.CreateAccount(ctx, account.CreateAccountInput{Name: "<script>x</script>", OwnerID: uuid.New()})
	assert.ErrorIs(t, err, account.ErrInvalidName)

	_, err = f.svc.CreateAccount(ctx, account.CreateAccountInput{Name: "Beta"})
	assert.ErrorIs(t, err, account.ErrMissingUser)

	_, err = f.svc.CreateAccount(ctx, account.CreateAccountInput{Name: "Beta", PlanID: "gold", OwnerID: uuid.New()})
	assert.ErrorIs(t, err, limits.ErrPlanNotFound)
}

func TestService_GetByIdentifier(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	acc, _ := f.createAccount(t, "Acme")

	byID, err := f.svc.GetByIdentifier(ctx, acc.ID.String())
	require.NoError(t, err)
	assert.Equal(t, acc.ID, byID.ID)

	bySlug, err := f.svc.GetByIdentifier(ctx, " ACME ")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, bySlug.ID)

	_, err = f.svc.GetByIdentifier(ctx, "missing")
	assert.ErrorIs(t, err, tenant.ErrAccountNotFound)

	_, err = f.svc.GetByIdentifier(ctx, "  ")
	assert.ErrorIs(t, err, tenant.ErrInvalidIdentifier)
}

func TestService_AddMember(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	acc, owner := f.createAccount(t, "Acme")

	admin, err := f.svc.AddMember(ctx, acc.ID, owner, account.AddMemberInput{
		UserID: uuid.New(), Email: " Ada@Example.com ", Role: rbac.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", admin.Email)

	tests := []struct {
		name  string
		actor account.Member
		in    account.AddMemberInput
		err   error
	}{
		{"unknown role", owner, account.AddMemberInput{UserID: uuid.New(), Role: "superuser"}, rbac.ErrInvalidRole},
		{"above own role", *admin, account.AddMemberInput{UserID: uuid.New(), Role: rbac.RoleOwner}, account.ErrRoleTooHigh},
		{"missing user", owner, account.AddMemberInput{Role: rbac.RoleViewer}, account.ErrMissingUser},
		{"plan quota", owner, account.AddMemberInput{UserID: uuid.New(), Role: rbac.RoleViewer}, limits.ErrLimitExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.AddMember(ctx, acc.ID, tt.actor, tt.in)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	pro := "pro"
	_, err = f.svc.UpdateAccount(ctx, acc.ID, account.UpdateAccountInput{PlanID: &pro})
	require.NoError(t, err)

	_, err = f.svc.AddMember(ctx, acc.ID, owner, account.AddMemberInput{UserID: admin.UserID, Role: rbac.RoleViewer})
	assert.ErrorIs(t, err, account.ErrMemberExists)

	_, err = f.svc.AddMember(ctx, acc.ID, owner, account.AddMemberInput{UserID: uuid.New(), Role: rbac.RoleViewer})
	assert.NoError(t, err)
}

func TestService_LastOwner(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	acc, owner := f.createAccount(t, "Acme")

	_, err := f.svc.ChangeRole(ctx, acc.ID, owner, owner.UserID, rbac.RoleAdmin)
	assert.ErrorIs(t, err, account.ErrLastOwner)

	err = f.svc.RemoveMember(ctx, acc.ID, owner, owner.UserID)
	assert.ErrorIs(t, err, account.ErrLastOwner)

	second, err := f.svc.AddMember(ctx, acc.ID, owner, account.AddMemberInput{UserID: uuid.New(), Role: rbac.RoleOwner})
	require.NoError(t, err)

	demoted, err := f.svc.ChangeRole(ctx, acc.ID, owner, owner.UserID, rbac.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleAdmin, demoted.Role)

	// The remaining owner is now the last one.
	err = f.svc.RemoveMember(ctx, acc.ID, *second, second.UserID)
	assert.ErrorIs(t, err, account.ErrLastOwner)

	// An admin cannot touch an owner.
	err = f.svc.RemoveMember(ctx, acc.ID, *demoted, second.UserID)
	assert.ErrorIs(t, err, account.ErrRoleTooHigh)

	// Members may always leave.
	err = f.svc.RemoveMember(ctx, acc.ID, *demoted, demoted.UserID)
	require.NoError(t, err)
	_, err = f.svc.Member(ctx, acc.ID, demoted.UserID)
	assert.ErrorIs(t, err, account.ErrMemberNotFound)
}

func TestService_UpdateAccount(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	acc, owner := f.createAccount(t, "Acme")

	pro, free := "pro", "free"
	_, err := f.svc.UpdateAccount(ctx, acc.ID, account.UpdateAccountInput{PlanID: &pro})
	require.NoError(t, err)
	for range 2 {
		_, err := f.svc.AddMember(ctx, acc.ID, owner, account.AddMemberInput{UserID: uuid.New(), Role: rbac.RoleViewer})
		require.NoError(t, err)
	}

	f.cache.Set(ctx, acc.Slug, acc)

	_, err = f.svc.UpdateAccount(ctx, acc.ID, account.UpdateAccountInput{PlanID: &free})
	assert.ErrorIs(t, err, limits.ErrDowngradeNotPossible)

	inactive, name := false, "Acme Inc."
	updated, err := f.svc.UpdateAccount(ctx, acc.ID, account.UpdateAccountInput{Name: &name, Active: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc.", updated.Name)
	assert.Equal(t, "pro", updated.PlanID)
	assert.False(t, updated.Active)

	_, cached := f.cache.Get(ctx, acc.Slug)
	assert.False(t, cached, "update must evict the cached account")

	_, err = f.svc.UpdateAccount(ctx, uuid.New(), account.UpdateAccountInput{Name: &name})
	assert.ErrorIs(t, err, tenant.ErrAccountNotFound)
}

func TestService_Usage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	acc, _ := f.createAccount(t, "Acme")

	usage, err := f.svc.Usage(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, limits.UsageInfo{Current: 1, Limit: 2}, usage[limits.ResourceMembers])
}

func TestEntitlements(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	acc, _ := f.createAccount(t, "Acme")
	pro := "pro"
	_, err := f.svc.UpdateAccount(ctx, acc.ID, account.UpdateAccountInput{PlanID: &pro})
	require.NoError(t, err)

	flags, err := feature.NewMemoryProvider([]*feature.Flag{
		{Name: string(limits.FeatureQRCodes), Enabled: false},
	})
	require.NoError(t, err)

	ent := account.NewEntitlements(flags, f.plans)
	assert.ErrorIs(t, ent.Require(ctx, acc.ID, limits.FeatureQRCodes), account.ErrFeatureDisabled)
	assert.NoError(t, ent.Require(ctx, acc.ID, limits.FeatureWizard))
	assert.ErrorIs(t, ent.Require(ctx, acc.ID, limits.FeatureCustomParams), limits.ErrFeatureNotAvailable)

	assert.Equal(t, map[limits.Feature]bool{
		limits.FeatureCustomParams: false,
		limits.FeatureQRCodes:      false,
		limits.FeatureWizard:       true,
	}, ent.Features(ctx, acc.ID))

	plansOnly := account.NewEntitlements(nil, f.plans)
	assert.True(t, plansOnly.Allowed(ctx, acc.ID, limits.FeatureQRCodes))
}
