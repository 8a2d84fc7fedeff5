package wizard

import (
	"context"
	"errors"
	"strings"

	"github.com/pawa80/utm-link-crafter-sub002/pkg/sanitizer"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/statemachine"
)

const (
	StateTargetURL = statemachine.StringState("target_url")
	StateCampaign  = statemachine.StringState("campaign")
	StateSource    = statemachine.StringState("source")
	StateMedium    = statemachine.StringState("medium")
	StateContent   = statemachine.StringState("content")
	StateTerm      = statemachine.StringState("term")
	StateReview    = statemachine.StringState("review")
	StateDone      = statemachine.StringState("done")
)

const (
	EventAnswer  = statemachine.StringEvent("answer")
	EventSkip    = statemachine.StringEvent("skip")
	EventConfirm = statemachine.StringEvent("confirm")
	EventRestart = statemachine.StringEvent("restart")
)

// step is one question of the conversation.
type step struct {
	state    statemachine.StringState
	next     statemachine.StringState
	prompt   string
	optional bool
	parse    func(string) (string, error)
	apply    func(*Draft, string)
}

var steps = []step{
	{
		state:  StateTargetURL,
		next:   StateCampaign,
		prompt: "Which page should the link point to? Paste the destination URL.",
		parse:  parseTarget,
		apply:  func(d *Draft, v string) { d.TargetURL = v },
	},
	{
		state:  StateCampaign,
		next:   StateSource,
		prompt: `What is the campaign called? For example "Spring Sale 2025".`,
		parse:  parseCampaign,
		apply:  func(d *Draft, v string) { d.CampaignName = v },
	},
	{
		state:  StateSource,
		next:   StateMedium,
		prompt: "Where will the link be shared? This becomes utm_source, e.g. newsletter, google or facebook.",
		parse:  parseUTM("the source"),
		apply:  func(d *Draft, v string) { d.Source = v },
	},
	{
		state:  StateMedium,
		next:   StateContent,
		prompt: "What kind of traffic is it? This becomes utm_medium, e.g. email, cpc or social.",
		parse:  parseUTM("the medium"),
		apply:  func(d *Draft, v string) { d.Medium = v },
	},
	{
		state:    StateContent,
		next:     StateTerm,
		prompt:   "What sets this link apart from others in the campaign (utm_content)? Reply skip to leave it out.",
		optional: true,
		parse:    parseUTM("the content value"),
		apply:    func(d *Draft, v string) { d.Content = v },
	},
	{
		state:    StateTerm,
		next:     StateReview,
		prompt:   "Any paid search keyword (utm_term)? Reply skip to leave it out.",
		optional: true,
		parse:    parseUTM("the term"),
		apply:    func(d *Draft, v string) { d.Term = v },
	},
}

func stepFor(state string) (step, bool) {
	for _, st := range steps {
		if st.state.Name() == state {
			return st, true
		}
	}
	return step{}, false
}

func parseTarget(text string) (string, error) {
	text = strings.TrimSpace(text)
	if !sanitizer.HasScheme(text) {
		text = sanitizer.EnsureScheme(text)
	}
	v := sanitizer.ValidateURL(text)
	if !v.Valid {
		return "", errors.New("that is not a usable link: " + strings.ToLower(v.Error))
	}
	return v.Sanitized, nil
}

func parseCampaign(text string) (string, error) {
	name := sanitizer.CampaignName(text)
	if name == "" || sanitizer.UTMParameter(name) == "" {
		return "", errors.New("the campaign name needs at least one letter or digit")
	}
	return name, nil
}

func parseUTM(what string) func(string) (string, error) {
	return func(text string) (string, error) {
		v := sanitizer.UTMParameter(text)
		if v == "" {
			return "", errors.New(what + " needs at least one letter or digit")
		}
		return v, nil
	}
}

// turn is the event payload seen by guards and actions.
type turn struct {
	session *Session
	text    string
}

func turnOf(data any) (*turn, error) {
	t, ok := data.(*turn)
	if !ok || t == nil || t.session == nil {
		return nil, errInvalidTurn
	}
	return t, nil
}

// newFlow builds the conversation definition. confirm runs when the review
// step is accepted; its error keeps the session on review.
func newFlow(confirm statemachine.Action) *statemachine.Definition {
	var opts []statemachine.Option
	for _, st := range steps {
		valid := func(_ context.Context, _ statemachine.State, _ statemachine.Event, data any) bool {
			t, err := turnOf(data)
			if err != nil {
				return false
			}
			_, err = st.parse(t.text)
			return err == nil
		}
		record := func(_ context.Context, _, _ statemachine.State, _ statemachine.Event, data any) error {
			t, err := turnOf(data)
			if err != nil {
				return err
			}
			v, err := st.parse(t.text)
			if err != nil {
				return err
			}
			st.apply(&t.session.Draft, v)
			return nil
		}
		opts = append(opts, statemachine.WithTransition(st.state, st.next, EventAnswer,
			statemachine.WithGuard(valid), statemachine.WithAction(record)))

		if st.optional {
			skipped := func(_ context.Context, _, _ statemachine.State, _ statemachine.Event, data any) error {
				t, err := turnOf(data)
				if err != nil {
					return err
				}
				st.apply(&t.session.Draft, "")
				return nil
			}
			opts = append(opts, statemachine.WithTransition(st.state, st.next, EventSkip, statemachine.WithAction(skipped)))
		}
	}

	opts = append(opts, statemachine.WithTransition(StateReview, StateDone, EventConfirm, statemachine.WithAction(confirm)))

	reset := func(_ context.Context, _, _ statemachine.State, _ statemachine.Event, data any) error {
		t, err := turnOf(data)
		if err != nil {
			return err
		}
		t.session.Draft = Draft{}
		t.session.Result = nil
		return nil
	}
	for _, from := range []statemachine.StringState{
		StateTargetURL, StateCampaign, StateSource, StateMedium,
		StateContent, StateTerm, StateReview, StateDone,
	} {
		opts = append(opts, statemachine.WithTransition(from, StateTargetURL, EventRestart, statemachine.WithAction(reset)))
	}

	return statemachine.MustDefine(StateTargetURL, opts...)
}

// eventFor maps a message to an event. Without an explicit action the bare
// words skip, confirm and restart act as commands; anything else is an answer.
func eventFor(action, text string) (statemachine.Event, error) {
	action = strings.ToLower(strings.TrimSpace(action))
	if action == "" {
		switch word := strings.ToLower(strings.TrimSpace(text)); word {
		case EventSkip.Name(), EventConfirm.Name(), EventRestart.Name():
			action = word
		default:
			action = EventAnswer.Name()
		}
	}
	switch action {
	case EventAnswer.Name():
		return EventAnswer, nil
	case EventSkip.Name():
		return EventSkip, nil
	case EventConfirm.Name():
		return EventConfirm, nil
	case EventRestart.Name():
		return EventRestart, nil
	}
	return nil, ErrInvalidAction
}
