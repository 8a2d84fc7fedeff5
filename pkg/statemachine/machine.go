package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// machine is safe for concurrent use; Fire calls are serialized.
type machine struct {
	def     *Definition
	mu      sync.RWMutex
	current State
}

func (m *machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

func (m *machine) Fire(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.def.find(ctx, m.current, event, data)
	if err != nil {
		return err
	}
	for _, action := range t.Actions {
		if err := action(ctx, m.current, t.To, event, data); err != nil {
			return fmt.Errorf("action failed: %w", err)
		}
	}
	m.current = t.To
	return nil
}

func (m *machine) CanFire(ctx context.Context, event Event, data any) bool {
	if event == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, err := m.def.find(ctx, m.current, event, data)
	return err == nil
}

func (m *machine) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.def.eventsFrom(m.current)
}

func (m *machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.def.initial
}
