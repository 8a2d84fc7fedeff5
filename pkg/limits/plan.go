package limits

import (
	"maps"
	"slices"
)

// Plan describes a pricing tier.
type Plan struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	Limits      map[Resource]int64 `json:"limits" yaml:"limits"`
	Features    []Feature          `json:"features" yaml:"features"`
	// Default marks the plan given to new accounts.
	Default bool `json:"default,omitempty" yaml:"default,omitempty"`
}

// HasFeature reports whether the plan grants f.
func (p Plan) HasFeature(f Feature) bool {
	return slices.Contains(p.Features, f)
}

func (p Plan) clone() Plan {
	p.Limits = maps.Clone(p.Limits)
	p.Features = slices.Clone(p.Features)
	return p
}

// PlanComparison lists what changes when moving between two plans.
type PlanComparison struct {
	NewFeatures     []Feature                   `json:"new_features"`
	LostFeatures    []Feature                   `json:"lost_features"`
	IncreasedLimits map[Resource]ResourceChange `json:"increased_limits"`
	DecreasedLimits map[Resource]ResourceChange `json:"decreased_limits"`
}

// ResourceChange is a limit before and after a plan change.
type ResourceChange struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// IsDowngrade reports whether any feature or limit is lost.
func (c *PlanComparison) IsDowngrade() bool {
	return len(c.LostFeatures) > 0 || len(c.DecreasedLimits) > 0
}

// ComparePlans returns the differences from current to target. A resource
// missing from a plan counts as limit 0.
func ComparePlans(current, target Plan) *PlanComparison {
	c := &PlanComparison{
		NewFeatures:     []Feature{},
		LostFeatures:    []Feature{},
		IncreasedLimits: map[Resource]ResourceChange{},
		DecreasedLimits: map[Resource]ResourceChange{},
	}

	for _, f := range target.Features {
		if !current.HasFeature(f) {
			c.NewFeatures = append(c.NewFeatures, f)
		}
	}
	for _, f := range current.Features {
		if !target.HasFeature(f) {
			c.LostFeatures = append(c.LostFeatures, f)
		}
	}

	resources := maps.Keys(current.Limits)
	all := slices.Collect(resources)
	for r := range target.Limits {
		if !slices.Contains(all, r) {
			all = append(all, r)
		}
	}
	for _, r := range all {
		from, to := current.Limits[r], target.Limits[r]
		if from == to {
			continue
		}
		change := ResourceChange{From: from, To: to}
		if exceeds(to, from) {
			c.IncreasedLimits[r] = change
		} else {
			c.DecreasedLimits[r] = change
		}
	}
	return c
}

// exceeds reports whether limit a allows more than limit b.
func exceeds(a, b int64) bool {
	switch {
	case a == b:
		return false
	case a == Unlimited:
		return true
	case b == Unlimited:
		return false
	}
	return a > b
}
