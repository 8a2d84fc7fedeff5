package statemachine

import (
	"context"
)

// State is a node of the machine.
type State interface {
	Name() string
}

// Event triggers transitions.
type Event interface {
	Name() string
}

// Action runs a side effect during a transition. An error aborts it.
type Action func(ctx context.Context, from, to State, event Event, data any) error

// Guard decides whether a transition may be taken.
type Guard func(ctx context.Context, from State, event Event, data any) bool

// Transition is a state change triggered by an event.
type Transition struct {
	From    State
	To      State
	Event   Event
	Guards  []Guard
	Actions []Action
}

func (t Transition) allowed(ctx context.Context, current State, event Event, data any) bool {
	for _, guard := range t.Guards {
		if !guard(ctx, current, event, data) {
			return false
		}
	}
	return true
}

// StateMachine is a running instance of a Definition.
type StateMachine interface {
	Current() State
	Fire(ctx context.Context, event Event, data any) error
	CanFire(ctx context.Context, event Event, data any) bool
	// Events lists the events defined for the current state, guards not evaluated.
	Events() []Event
	Reset()
}

// StringState is a State named by its value.
type StringState string

func (s StringState) Name() string {
	return string(s)
}

// StringEvent is an Event named by its value.
type StringEvent string

func (e StringEvent) Name() string {
	return string(e)
}
