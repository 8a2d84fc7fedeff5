package statemachine

import (
	"context"
	"fmt"
	"slices"
)

// Definition is an immutable transition table with an initial state.
type Definition struct {
	initial     State
	states      map[string]State
	transitions map[string]map[string][]Transition
	events      map[string][]Event
}

// NewDefinition builds a Definition from opts.
func NewDefinition(initial State, opts ...Option) (*Definition, error) {
	if initial == nil {
		return nil, ErrNilInitialState
	}
	d := &Definition{
		initial:     initial,
		states:      map[string]State{initial.Name(): initial},
		transitions: make(map[string]map[string][]Transition),
		events:      make(map[string][]Event),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// MustDefine is NewDefinition that panics on error.
func MustDefine(initial State, opts ...Option) *Definition {
	d, err := NewDefinition(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("statemachine: %v", err))
	}
	return d
}

func (d *Definition) add(t Transition) error {
	if t.From == nil || t.To == nil || t.Event == nil {
		return ErrInvalidTransition
	}
	from, ev := t.From.Name(), t.Event.Name()
	d.states[from] = t.From
	d.states[t.To.Name()] = t.To

	byEvent, ok := d.transitions[from]
	if !ok {
		byEvent = make(map[string][]Transition)
		d.transitions[from] = byEvent
	}
	if len(byEvent[ev]) == 0 {
		d.events[from] = append(d.events[from], t.Event)
	}
	// Several transitions per pair allow guard-based branching in declaration order.
	byEvent[ev] = append(byEvent[ev], t)
	return nil
}

// Initial returns the initial state.
func (d *Definition) Initial() State {
	return d.initial
}

// State looks up a state by name.
func (d *Definition) State(name string) (State, bool) {
	s, ok := d.states[name]
	return s, ok
}

// Start returns a machine at the initial state.
func (d *Definition) Start() StateMachine {
	return &machine{def: d, current: d.initial}
}

// Resume returns a machine at current, which must be a state of d.
func (d *Definition) Resume(current State) (StateMachine, error) {
	if current == nil {
		return nil, ErrUnknownState
	}
	s, ok := d.states[current.Name()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownState, current.Name())
	}
	return &machine{def: d, current: s}, nil
}

// find returns the first allowed transition for event in state from.
func (d *Definition) find(ctx context.Context, from State, event Event, data any) (*Transition, error) {
	candidates := d.transitions[from.Name()][event.Name()]
	if len(candidates) == 0 {
		return nil, &ErrNoTransitionAvailable{StateName: from.Name(), EventName: event.Name()}
	}
	for i := range candidates {
		if candidates[i].allowed(ctx, from, event, data) {
			return &candidates[i], nil
		}
	}
	return nil, &ErrTransitionRejected{StateName: from.Name(), EventName: event.Name()}
}

func (d *Definition) eventsFrom(s State) []Event {
	return slices.Clone(d.events[s.Name()])
}
