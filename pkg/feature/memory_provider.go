package feature

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryProvider keeps flags in process memory. It is safe for concurrent use.
type MemoryProvider struct {
	mu      sync.RWMutex
	flags   map[string]*Flag
	subject SubjectExtractor
	now     func() time.Time
}

// MemoryOption configures a MemoryProvider.
type MemoryOption func(*MemoryProvider)

// WithSubjectExtractor replaces SubjectFromContext.
func WithSubjectExtractor(fn SubjectExtractor) MemoryOption {
	return func(m *MemoryProvider) {
		if fn != nil {
			m.subject = fn
		}
	}
}

// NewMemoryProvider creates a provider seeded with flags.
func NewMemoryProvider(flags []*Flag, opts ...MemoryOption) (*MemoryProvider, error) {
	m := &MemoryProvider{
		flags:   make(map[string]*Flag, len(flags)),
		subject: SubjectFromContext,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, f := range flags {
		if err := m.SaveFlag(context.Background(), f); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *MemoryProvider) IsEnabled(ctx context.Context, flagName string) (bool, error) {
	m.mu.RLock()
	f, ok := m.flags[flagName]
	m.mu.RUnlock()
	if !ok {
		return false, ErrFlagNotFound
	}
	return f.Strategy(m.subject).Evaluate(ctx)
}

func (m *MemoryProvider) GetFlag(_ context.Context, flagName string) (*Flag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.flags[flagName]
	if !ok {
		return nil, ErrFlagNotFound
	}
	return f.clone(), nil
}

func (m *MemoryProvider) ListFlags(_ context.Context, tags ...string) ([]*Flag, error) {
	m.mu.RLock()
	out := make([]*Flag, 0, len(m.flags))
	for _, f := range m.flags {
		if len(tags) == 0 || slices.ContainsFunc(tags, func(t string) bool { return slices.Contains(f.Tags, t) }) {
			out = append(out, f.clone())
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Flag) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (m *MemoryProvider) CreateFlag(ctx context.Context, flag *Flag) error {
	if err := flag.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.flags[flag.Name]; ok {
		return ErrFlagExists
	}
	m.store(flag)
	return nil
}

func (m *MemoryProvider) SaveFlag(_ context.Context, flag *Flag) error {
	if err := flag.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store(flag)
	return nil
}

// store must be called with mu held.
func (m *MemoryProvider) store(flag *Flag) {
	c := flag.clone()
	now := m.now()
	if prev, ok := m.flags[flag.Name]; ok {
		c.CreatedAt = prev.CreatedAt
	} else if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	m.flags[c.Name] = c
}

func (m *MemoryProvider) DeleteFlag(_ context.Context, flagName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.flags[flagName]; !ok {
		return ErrFlagNotFound
	}
	delete(m.flags, flagName)
	return nil
}
