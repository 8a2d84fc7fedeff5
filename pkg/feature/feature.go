package feature

import (
	"context"
	"errors"
	"regexp"
	"slices"
	"time"
)

// Flag is a named switch with optional account targeting.
type Flag struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Enabled     bool       `json:"enabled" yaml:"enabled"`
	Targeting   *Targeting `json:"targeting,omitempty" yaml:"targeting,omitempty"`
	Tags        []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitzero" yaml:"-"`
	UpdatedAt   time.Time  `json:"updated_at,omitzero" yaml:"-"`
}

// Targeting narrows an enabled flag to a subset of accounts.
type Targeting struct {
	// Accounts always get the flag unless denied.
	Accounts []string `json:"accounts,omitempty" yaml:"accounts,omitempty"`
	// Deny wins over every other rule.
	Deny []string `json:"deny,omitempty" yaml:"deny,omitempty"`
	// Plans enables the flag for accounts on one of these plans.
	Plans []string `json:"plans,omitempty" yaml:"plans,omitempty"`
	// Percentage of accounts, 0 to 100, chosen by a stable hash of the id.
	Percentage *int `json:"percentage,omitempty" yaml:"percentage,omitempty"`
}

var flagName = regexp.MustCompile(`^[a-z][a-z0-9_.-]{0,63}$`)

// Validate checks the name and the percentage range.
func (f *Flag) Validate() error {
	if f == nil {
		return errors.Join(ErrInvalidFlag, errors.New("flag is nil"))
	}
	if !flagName.MatchString(f.Name) {
		return errors.Join(ErrInvalidFlag, errors.New("name must be lower-case letters, digits, '_', '.' or '-'"))
	}
	if t := f.Targeting; t != nil && t.Percentage != nil && (*t.Percentage < 0 || *t.Percentage > 100) {
		return errors.Join(ErrInvalidFlag, ErrInvalidStrategy, errors.New("percentage must be between 0 and 100"))
	}
	return nil
}

func (f *Flag) clone() *Flag {
	c := *f
	c.Tags = slices.Clone(f.Tags)
	if f.Targeting != nil {
		t := *f.Targeting
		t.Accounts = slices.Clone(f.Targeting.Accounts)
		t.Deny = slices.Clone(f.Targeting.Deny)
		t.Plans = slices.Clone(f.Targeting.Plans)
		if f.Targeting.Percentage != nil {
			p := *f.Targeting.Percentage
			t.Percentage = &p
		}
		c.Targeting = &t
	}
	return &c
}

// Subject is what a flag is evaluated for.
type Subject struct {
	AccountID string
	PlanID    string
}

// SubjectExtractor reads the Subject from a request context.
type SubjectExtractor func(ctx context.Context) Subject

type subjectKey struct{}

// WithSubject stores s in ctx for the default extractor.
func WithSubject(ctx context.Context, s Subject) context.Context {
	return context.WithValue(ctx, subjectKey{}, s)
}

// SubjectFromContext is the default SubjectExtractor.
func SubjectFromContext(ctx context.Context) Subject {
	s, _ := ctx.Value(subjectKey{}).(Subject)
	return s
}

// Provider stores flags and evaluates them.
type Provider interface {
	// IsEnabled evaluates flagName for the subject in ctx. Unknown flags
	// return false and ErrFlagNotFound.
	IsEnabled(ctx context.Context, flagName string) (bool, error)
	GetFlag(ctx context.Context, flagName string) (*Flag, error)
	// ListFlags returns flags sorted by name, filtered by any of tags.
	ListFlags(ctx context.Context, tags ...string) ([]*Flag, error)
	CreateFlag(ctx context.Context, flag *Flag) error
	// SaveFlag creates or replaces a flag.
	SaveFlag(ctx context.Context, flag *Flag) error
	DeleteFlag(ctx context.Context, flagName string) error
}
