package feature

import (
	"context"
	"errors"
	"hash/fnv"
	"slices"
)

// Strategy decides whether an enabled flag applies to the context's subject.
type Strategy interface {
	Evaluate(ctx context.Context) (bool, error)
}

// AlwaysStrategy returns Value for every context.
type AlwaysStrategy struct {
	Value bool
}

func (s AlwaysStrategy) Evaluate(context.Context) (bool, error) {
	return s.Value, nil
}

func NewAlwaysOnStrategy() Strategy  { return AlwaysStrategy{Value: true} }
func NewAlwaysOffStrategy() Strategy { return AlwaysStrategy{Value: false} }

// TargetedStrategy evaluates Targeting for the subject in the context.
type TargetedStrategy struct {
	Targeting Targeting
	subject   SubjectExtractor
}

// NewTargetedStrategy builds a TargetedStrategy. A nil extractor uses
// SubjectFromContext.
func NewTargetedStrategy(t Targeting, extract SubjectExtractor) *TargetedStrategy {
	if extract == nil {
		extract = SubjectFromContext
	}
	return &TargetedStrategy{Targeting: t, subject: extract}
}

func (s *TargetedStrategy) Evaluate(ctx context.Context) (bool, error) {
	t := s.Targeting
	sub := s.subject(ctx)

	if len(t.Deny) > 0 {
		// Without an account the deny list cannot be checked, fail closed.
		if sub.AccountID == "" || slices.Contains(t.Deny, sub.AccountID) {
			return false, nil
		}
	}
	if sub.AccountID != "" && slices.Contains(t.Accounts, sub.AccountID) {
		return true, nil
	}
	if sub.PlanID != "" && slices.Contains(t.Plans, sub.PlanID) {
		return true, nil
	}
	if t.Percentage != nil {
		return percentage(*t.Percentage, sub.AccountID)
	}
	return false, nil
}

func percentage(pct int, accountID string) (bool, error) {
	switch {
	case pct < 0 || pct > 100:
		return false, errors.Join(ErrInvalidStrategy, errors.New("percentage must be between 0 and 100"))
	case pct == 0:
		return false, nil
	case pct == 100:
		return true, nil
	case accountID == "":
		return false, nil
	}
	return Bucket(accountID) < pct, nil
}

// Bucket maps id to a stable value in [0, 100).
func Bucket(id string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % 100)
}

// CompositeStrategy combines strategies with "and" or "or".
type CompositeStrategy struct {
	Strategies []Strategy
	Operator   string
}

func (s *CompositeStrategy) Evaluate(ctx context.Context) (bool, error) {
	if len(s.Strategies) == 0 {
		return false, ErrInvalidStrategy
	}
	var want bool
	switch s.Operator {
	case "and":
		want = false
	case "or":
		want = true
	default:
		return false, errors.Join(ErrInvalidStrategy, errors.New("composite operator must be 'and' or 'or'"))
	}
	for _, st := range s.Strategies {
		ok, err := st.Evaluate(ctx)
		if err != nil {
			return false, err
		}
		if ok == want {
			return want, nil
		}
	}
	return !want, nil
}

func NewAndStrategy(strategies ...Strategy) Strategy {
	return &CompositeStrategy{Strategies: strategies, Operator: "and"}
}

func NewOrStrategy(strategies ...Strategy) Strategy {
	return &CompositeStrategy{Strategies: strategies, Operator: "or"}
}

// Strategy returns the evaluation strategy described by the flag.
func (f *Flag) Strategy(extract SubjectExtractor) Strategy {
	if !f.Enabled {
		return NewAlwaysOffStrategy()
	}
	if f.Targeting == nil {
		return NewAlwaysOnStrategy()
	}
	return NewTargetedStrategy(*f.Targeting, extract)
}
