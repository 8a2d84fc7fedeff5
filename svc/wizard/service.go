package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pawa80/utm-link-crafter-sub002/handler"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/limits"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/logger"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/rbac"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/sanitizer"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/statemachine"
	"github.com/pawa80/utm-link-crafter-sub002/pkg/utm"
	"github.com/pawa80/utm-link-crafter-sub002/svc/account"
	"github.com/pawa80/utm-link-crafter-sub002/svc/campaign"
	"github.com/pawa80/utm-link-crafter-sub002/svc/link"
)

// MaxMessageLength caps a stored user message.
const MaxMessageLength = 2000

// LinkLabel labels links saved by the wizard.
const LinkLabel = "Created with the wizard"

type CampaignFinder interface {
	FindOrCreate(ctx context.Context, accountID, userID uuid.UUID, in campaign.CreateInput) (*campaign.Campaign, bool, error)
}

type LinkCreator interface {
	Create(ctx context.Context, accountID, userID, campaignID uuid.UUID, in link.Input) (*link.Link, error)
}

type FeatureChecker interface {
	Require(ctx context.Context, accountID uuid.UUID, f limits.Feature) error
}

type Service struct {
	store        Store
	campaigns    CampaignFinder
	links        LinkCreator
	features     FeatureChecker
	authz        rbac.Authorizer
	flow         *statemachine.Definition
	generator    *utm.Generator
	log          *slog.Logger
	errorHandler handler.ErrorHandler[account.Context]
	now          func() time.Time
}

type Option func(*Service)

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithErrorHandler(h handler.ErrorHandler[account.Context]) Option {
	return func(s *Service) {
		if h != nil {
			s.errorHandler = h
		}
	}
}

func NewService(store Store, campaigns CampaignFinder, links LinkCreator, features FeatureChecker, authz rbac.Authorizer, opts ...Option) *Service {
	s := &Service{
		store:     store,
		campaigns: campaigns,
		links:     links,
		features:  features,
		authz:     authz,
		log:       slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.errorHandler == nil {
		mappings := append(ErrorMappings(), link.ErrorMappings()...)
		mappings = append(mappings, campaign.ErrorMappings()...)
		s.errorHandler = handler.NewErrorHandler[account.Context](s.log,
			handler.WithMappings(append(mappings, account.ErrorMappings()...)...))
	}
	s.log = s.log.With(logger.Component("wizard"))
	s.generator = utm.NewGenerator(utm.WithLogger(s.log))
	s.flow = newFlow(s.confirm)
	return s
}

// Reply is what the client renders after every turn.
type Reply struct {
	Session *Session `json:"session"`
	// Prompt is the assistant's latest message.
	Prompt string `json:"prompt"`
	// Preview is the link built from the draft once every required value is known.
	Preview string `json:"preview,omitempty"`
	// Actions lists the events the current step understands.
	Actions []string `json:"actions"`
	// Accepted is false when the last message did not move the conversation.
	Accepted bool `json:"accepted"`
}

// Start opens a session for the user.
func (s *Service) Start(ctx context.Context, accountID, userID uuid.UUID) (*Reply, error) {
	if err := s.features.Require(ctx, accountID, limits.FeatureWizard); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess := &Session{
		ID:        uuid.New(),
		AccountID: accountID,
		UserID:    userID,
		State:     s.flow.Initial().Name(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	prompt := "Let's build a tracking link. " + s.prompt(sess)
	sess.say(RoleAssistant, prompt, now)

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "wizard started",
		logger.AccountID(accountID), logger.UserID(userID), logger.SessionID(sess.ID))
	return s.reply(sess, prompt, true)
}

// Get returns the user's session with the current prompt.
func (s *Service) Get(ctx context.Context, accountID, userID, id uuid.UUID) (*Reply, error) {
	sess, err := s.load(ctx, accountID, userID, id)
	if err != nil {
		return nil, err
	}
	return s.reply(sess, s.prompt(sess), true)
}

// Discard deletes the user's session.
func (s *Service) Discard(ctx context.Context, accountID, userID, id uuid.UUID) error {
	if _, err := s.load(ctx, accountID, userID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// Input is one user message. Action is optional, see eventFor.
type Input struct {
	Action string
	Text   string
}

// Send applies a user message. Answers that fail validation and commands the
// current step does not know are answered by the assistant and leave the
// step unchanged. Failures while saving the link are returned as errors and
// the session is not updated. Turns on one session never overlap: a message
// arriving while another is in flight fails with ErrSessionBusy.
func (s *Service) Send(ctx context.Context, accountID, userID, id uuid.UUID, in Input) (*Reply, error) {
	if err := s.features.Require(ctx, accountID, limits.FeatureWizard); err != nil {
		return nil, err
	}
	event, err := eventFor(in.Action, in.Text)
	if err != nil {
		return nil, err
	}
	unlock, err := s.store.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sess, err := s.load(ctx, accountID, userID, id)
	if err != nil {
		return nil, err
	}
	m, err := s.flow.Resume(statemachine.StringState(sess.State))
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess.say(RoleUser, userText(event, in.Text), now)

	var answer string
	fireErr := m.Fire(ctx, event, &turn{session: sess, text: in.Text})
	switch {
	case fireErr == nil:
		sess.State = m.Current().Name()
		answer = s.prompt(sess)
	case statemachine.IsTransitionRejectedError(fireErr):
		answer = s.rejected(sess, in.Text)
	case statemachine.IsNoTransitionAvailableError(fireErr):
		answer = s.unavailable(sess, event)
	default:
		s.log.WarnContext(ctx, "wizard step failed",
			logger.AccountID(accountID), logger.SessionID(id), slog.String("state", sess.State), logger.Error(fireErr))
		return nil, fireErr
	}
	sess.say(RoleAssistant, answer, now)
	sess.UpdatedAt = now

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	if fireErr == nil && sess.Done() {
		s.log.InfoContext(ctx, "wizard completed",
			logger.AccountID(accountID), logger.SessionID(id),
			logger.CampaignID(sess.Result.CampaignID), logger.LinkID(sess.Result.LinkID))
	}
	return s.reply(sess, answer, fireErr == nil)
}

// confirm saves the drafted link. The campaign is looked up by name and
// created when missing.
func (s *Service) confirm(ctx context.Context, _, _ statemachine.State, _ statemachine.Event, data any) error {
	t, err := turnOf(data)
	if err != nil {
		return err
	}
	sess := t.session

	c, created, err := s.campaigns.FindOrCreate(ctx, sess.AccountID, sess.UserID,
		campaign.CreateInput{Name: sess.Draft.CampaignName})
	if err != nil {
		return err
	}
	l, err := s.links.Create(ctx, sess.AccountID, sess.UserID, c.ID, link.Input{
		Label:     LinkLabel,
		TargetURL: sess.Draft.TargetURL,
		Campaign:  sess.Draft.CampaignName,
		Source:    sess.Draft.Source,
		Medium:    sess.Draft.Medium,
		Content:   sess.Draft.Content,
		Term:      sess.Draft.Term,
	})
	if err != nil {
		return err
	}

	sess.Result = &Result{CampaignID: c.ID, CampaignCreated: created, LinkID: l.ID, FullURL: l.FullURL}
	return nil
}

func (s *Service) load(ctx context.Context, accountID, userID, id uuid.UUID) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.AccountID != accountID || sess.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *Service) preview(sess *Session) string {
	if !sess.Draft.Ready() {
		return ""
	}
	return s.generator.Generate(sess.Draft.Params())
}

// prompt is the question for the session's current step.
func (s *Service) prompt(sess *Session) string {
	if st, ok := stepFor(sess.State); ok {
		return st.prompt
	}
	switch sess.State {
	case StateReview.Name():
		return fmt.Sprintf("Here is your link:\n%s\nReply confirm to save it or restart to start over.", s.preview(sess))
	case StateDone.Name():
		if sess.Result != nil {
			return fmt.Sprintf("Saved to campaign %q. Your link is ready:\n%s", sess.Draft.CampaignName, sess.Result.FullURL)
		}
	}
	return "Reply restart to build a new link."
}

func (s *Service) rejected(sess *Session, text string) string {
	st, ok := stepFor(sess.State)
	if !ok {
		return s.prompt(sess)
	}
	_, err := st.parse(text)
	if err == nil {
		return s.prompt(sess)
	}
	return "Sorry, " + err.Error() + ". " + st.prompt
}

func (s *Service) unavailable(sess *Session, event statemachine.Event) string {
	switch {
	case sess.Done():
		return "This link is already saved. Reply restart to build another one."
	case event.Name() == EventSkip.Name():
		return "This step is required. " + s.prompt(sess)
	case sess.State == StateReview.Name():
		return "Reply confirm to save the link or restart to start over."
	default:
		return "Let's finish this step first. " + s.prompt(sess)
	}
}

func (s *Service) reply(sess *Session, prompt string, accepted bool) (*Reply, error) {
	m, err := s.flow.Resume(statemachine.StringState(sess.State))
	if err != nil {
		return nil, err
	}
	events := m.Events()
	actions := make([]string, 0, len(events))
	for _, e := range events {
		actions = append(actions, e.Name())
	}
	return &Reply{
		Session:  sess,
		Prompt:   prompt,
		Preview:  s.preview(sess),
		Actions:  actions,
		Accepted: accepted,
	}, nil
}

// userText is the stored form of a user message.
func userText(event statemachine.Event, text string) string {
	if clean := sanitizer.PlainText(text, MaxMessageLength); clean != "" {
		return clean
	}
	return event.Name()
}
