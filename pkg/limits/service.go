package limits

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// PlanIDResolver resolves the plan of an account.
type PlanIDResolver func(ctx context.Context, accountID uuid.UUID) (string, error)

// Service checks plan quotas and features for accounts. The plan set is
// immutable after NewService, so a Service is safe for concurrent use.
type Service struct {
	plans          map[string]Plan
	order          []string
	defaultPlan    string
	counters       CounterRegistry
	planIDResolver PlanIDResolver
}

// NewService loads plans from src. A nil counters registry means no counters;
// a nil resolver means PlanIDContextResolver.
func NewService(ctx context.Context, src Source, counters CounterRegistry, planIDResolver PlanIDResolver) (*Service, error) {
	list, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}
	if err := validatePlans(list); err != nil {
		return nil, err
	}

	if counters == nil {
		counters = NewRegistry()
	}
	if planIDResolver == nil {
		planIDResolver = PlanIDContextResolver
	}

	s := &Service{
		plans:          make(map[string]Plan, len(list)),
		order:          make([]string, 0, len(list)),
		counters:       counters,
		planIDResolver: planIDResolver,
	}
	for _, p := range list {
		s.plans[p.ID] = p.clone()
		s.order = append(s.order, p.ID)
		if p.Default && s.defaultPlan == "" {
			s.defaultPlan = p.ID
		}
	}
	if s.defaultPlan == "" && len(s.order) > 0 {
		s.defaultPlan = s.order[0]
	}
	return s, nil
}

// Plans returns the catalog in declaration order.
func (s *Service) Plans() []Plan {
	out := make([]Plan, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.plans[id].clone())
	}
	return out
}

// Plan returns the plan with the given id.
func (s *Service) Plan(planID string) (Plan, error) {
	p, ok := s.plans[planID]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return p.clone(), nil
}

// DefaultPlanID returns the plan assigned to new accounts: the first plan
// marked default, or the first plan in the catalog.
func (s *Service) DefaultPlanID() string {
	return s.defaultPlan
}

// VerifyPlan checks that planID exists.
func (s *Service) VerifyPlan(_ context.Context, planID string) error {
	if _, ok := s.plans[planID]; !ok {
		return ErrPlanNotFound
	}
	return nil
}

func (s *Service) accountPlan(ctx context.Context, accountID uuid.UUID) (Plan, error) {
	planID, err := s.planIDResolver(ctx, accountID)
	if err != nil {
		return Plan{}, err
	}
	p, ok := s.plans[planID]
	if !ok {
		return Plan{}, ErrPlanNotFound
	}
	return p, nil
}

func (s *Service) count(ctx context.Context, accountID uuid.UUID, res Resource) (int64, error) {
	counter, ok := s.counters[res]
	if !ok {
		return 0, ErrNoCounterRegistered
	}
	n, err := counter(ctx, accountID)
	if err != nil {
		return 0, errors.Join(ErrFailedToCountResourceUsage, err)
	}
	return n, nil
}

// CanCreate returns ErrLimitExceeded when the account already uses its full
// quota of res.
func (s *Service) CanCreate(ctx context.Context, accountID uuid.UUID, res Resource) error {
	plan, err := s.accountPlan(ctx, accountID)
	if err != nil {
		return err
	}

	limit, ok := plan.Limits[res]
	if !ok {
		return ErrInvalidResource
	}
	if limit == Unlimited {
		return nil
	}

	current, err := s.count(ctx, accountID, res)
	if err != nil {
		return err
	}
	if current >= limit {
		return ErrLimitExceeded
	}
	return nil
}

// GetUsage returns the current usage and the plan limit for res.
func (s *Service) GetUsage(ctx context.Context, accountID uuid.UUID, res Resource) (used, limit int64, err error) {
	plan, err := s.accountPlan(ctx, accountID)
	if err != nil {
		return 0, 0, err
	}

	limit, ok := plan.Limits[res]
	if !ok {
		return 0, 0, ErrInvalidResource
	}

	used, err = s.count(ctx, accountID, res)
	if err != nil {
		return 0, 0, err
	}
	return used, limit, nil
}

// GetUsagePercentage returns usage as 0-100, or -1 for unlimited resources.
// Errors yield 0.
func (s *Service) GetUsagePercentage(ctx context.Context, accountID uuid.UUID, res Resource) int {
	used, limit, err := s.GetUsage(ctx, accountID, res)
	if err != nil {
		return 0
	}
	switch limit {
	case Unlimited:
		return -1
	case 0:
		return 100
	}
	return min(int(used*100/limit), 100)
}

// HasFeature reports whether the account's plan grants f. Resolution errors
// yield false.
func (s *Service) HasFeature(ctx context.Context, accountID uuid.UUID, f Feature) bool {
	plan, err := s.accountPlan(ctx, accountID)
	if err != nil {
		return false
	}
	return plan.HasFeature(f)
}

// RequireFeature is HasFeature returning ErrFeatureNotAvailable.
func (s *Service) RequireFeature(ctx context.Context, accountID uuid.UUID, f Feature) error {
	if !s.HasFeature(ctx, accountID, f) {
		return ErrFeatureNotAvailable
	}
	return nil
}

// CanDowngrade returns ErrDowngradeNotPossible when the account's usage of any
// resource exceeds the target plan's limit. Resources without a counter are
// not checked.
func (s *Service) CanDowngrade(ctx context.Context, accountID uuid.UUID, targetPlanID string) error {
	target, ok := s.plans[targetPlanID]
	if !ok {
		return ErrPlanNotFound
	}
	current, err := s.accountPlan(ctx, accountID)
	if err != nil {
		return err
	}

	for res, targetLimit := range target.Limits {
		if targetLimit == Unlimited {
			continue
		}
		currentLimit, ok := current.Limits[res]
		if !ok || !exceeds(currentLimit, targetLimit) {
			continue
		}
		if _, ok := s.counters[res]; !ok {
			continue
		}
		used, err := s.count(ctx, accountID, res)
		if err != nil {
			return err
		}
		if used > targetLimit {
			return errors.Join(ErrDowngradeNotPossible,
				fmt.Errorf("%s: %d in use, target plan allows %d", res, used, targetLimit))
		}
	}
	return nil
}

// GetAllUsage returns usage for every resource of the account's plan. Counter
// failures are reported as zero usage.
func (s *Service) GetAllUsage(ctx context.Context, accountID uuid.UUID) (map[Resource]UsageInfo, error) {
	plan, err := s.accountPlan(ctx, accountID)
	if err != nil {
		return nil, err
	}

	result := make(map[Resource]UsageInfo, len(plan.Limits))
	for res, limit := range plan.Limits {
		usage := UsageInfo{Limit: limit}
		if n, err := s.count(ctx, accountID, res); err == nil {
			usage.Current = n
		}
		result[res] = usage
	}
	return result, nil
}

func validatePlans(plans []Plan) error {
	seen := make(map[string]struct{}, len(plans))
	for _, p := range plans {
		if p.ID == "" {
			return errors.Join(ErrInvalidPlanConfiguration, errors.New("plan without id"))
		}
		if _, dup := seen[p.ID]; dup {
			return errors.Join(ErrInvalidPlanConfiguration, fmt.Errorf("duplicate plan %q", p.ID))
		}
		seen[p.ID] = struct{}{}

		resources := make([]Resource, 0, len(p.Limits))
		for r := range p.Limits {
			resources = append(resources, r)
		}
		slices.SortFunc(resources, func(a, b Resource) int { return cmp.Compare(a, b) })
		for _, r := range resources {
			if v := p.Limits[r]; v < Unlimited {
				return errors.Join(ErrInvalidPlanConfiguration,
					fmt.Errorf("plan %q: negative limit %d for %s", p.ID, v, r))
			}
		}
	}
	return nil
}
