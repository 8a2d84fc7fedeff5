// Package statemachine implements small finite state machines whose
// transition table is defined once and whose current state can be persisted
// and resumed.
//
// A Definition holds the transitions. It is immutable after NewDefinition and
// safe to share; Start and Resume return a StateMachine positioned at the
// initial or a stored state:
//
//	const (
//		Draft  = statemachine.StringState("draft")
//		Review = statemachine.StringState("review")
//		Submit = statemachine.StringEvent("submit")
//	)
//
//	def := statemachine.MustDefine(Draft,
//		statemachine.WithTransition(Draft, Review, Submit,
//			statemachine.WithGuard(hasTitle),
//			statemachine.WithAction(saveDraft),
//		),
//	)
//
//	m, err := def.Resume(statemachine.StringState(session.Step))
//	err = m.Fire(ctx, Submit, payload)
//	session.Step = m.Current().Name()
//
// For a given state and event the first transition whose guards all pass is
// taken. Actions run in order before the state changes; an action error
// leaves the state unchanged. Use IsNoTransitionAvailableError and
// IsTransitionRejectedError to tell an undefined transition from one vetoed
// by guards.
package statemachine
