package account

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/feature"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/limits"
)

// Entitlements combines global feature flags with plan features. A flag named
// after a plan feature acts as a kill switch: when it exists and evaluates to
// false the feature is off for everyone, whatever the plan says.
type Entitlements struct {
	flags feature.Provider
	plans *limits.Service
}

// NewEntitlements returns Entitlements; a nil flags provider checks plans only.
func NewEntitlements(flags feature.Provider, plans *limits.Service) *Entitlements {
	return &Entitlements{flags: flags, plans: plans}
}

// Require returns ErrFeatureDisabled when the kill switch is off and
// limits.ErrFeatureNotAvailable when the plan lacks f.
func (e *Entitlements) Require(ctx context.Context, accountID uuid.UUID, f limits.Feature) error {
	if e.flags != nil {
		enabled, err := e.flags.IsEnabled(ctx, string(f))
		switch {
		case errors.Is(err, feature.ErrFlagNotFound):
		case err != nil:
			return err
		case !enabled:
			return ErrFeatureDisabled
		}
	}
	return e.plans.RequireFeature(ctx, accountID, f)
}

// Allowed is Require as a boolean.
func (e *Entitlements) Allowed(ctx context.Context, accountID uuid.UUID, f limits.Feature) bool {
	return e.Require(ctx, accountID, f) == nil
}

// Features reports every known plan feature for the account.
func (e *Entitlements) Features(ctx context.Context, accountID uuid.UUID) map[limits.Feature]bool {
	all := []limits.Feature{limits.FeatureCustomParams, limits.FeatureQRCodes, limits.FeatureWizard}
	result := make(map[limits.Feature]bool, len(all))
	for _, f := range all {
		result[f] = e.Allowed(ctx, accountID, f)
	}
	return result
}
