package suggest

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/m-mizutani/namer/pkg/utils/logging"
)

// CardState is the lifecycle of one enrichment of one card.
type CardState string

const (
	CardNotRequested CardState = "NOT_REQUESTED"
	CardPending      CardState = "PENDING"
	CardDone         CardState = "DONE"
)

// CardView is a snapshot of a card's enrichments.
type CardView struct {
	Handle        string                  `json:"handle"`
	AnalysisState CardState               `json:"analysisState"`
	Analysis      *model.IdentityAnalysis `json:"analysis"`
	AvatarState   CardState               `json:"avatarState"`
	Avatar        *model.Avatar           `json:"-"`
}

// slot memoizes one backend call. done is closed when state becomes Done.
type slot[T any] struct {
	state CardState
	value T
	done  chan struct{}
}

func (x *slot[T]) stateOrDefault() CardState {
	if x.state == "" {
		return CardNotRequested
	}
	return x.state
}

type card struct {
	analysis slot[*model.IdentityAnalysis]
	avatar   slot[*model.Avatar]
}

// cardOf must be called with s.mu held.
func (s *Session) cardOf(handle string) *card {
	c, ok := s.cards[handle]
	if !ok {
		c = &card{}
		s.cards[handle] = c
	}
	return c
}

// acquire moves a slot to Pending when it was not requested. It reports
// whether the caller owns the backend call; otherwise done is the channel to
// wait on, nil when the value is already there. Must be called with s.mu held.
func acquire[T any](x *slot[T]) (owner bool, done chan struct{}) {
	switch x.stateOrDefault() {
	case CardDone:
		return false, nil
	case CardPending:
		return false, x.done
	default:
		x.state = CardPending
		x.done = make(chan struct{})
		return true, nil
	}
}

func (s *Session) wait(ctx context.Context, done chan struct{}) error {
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return goerr.Wrap(ctx.Err(), "gave up waiting for card")
	}
}

// Analyze returns the availability analysis of handle. The backend is asked
// once per handle for the lifetime of the session; concurrent callers share
// the pending call.
func (s *Session) Analyze(ctx context.Context, handle string) (*model.IdentityAnalysis, error) {
	if handle == "" {
		return nil, goerr.Wrap(model.ErrUnknownHandle, "handle is empty")
	}

	s.mu.Lock()
	c := s.cardOf(handle)
	owner, done := acquire(&c.analysis)
	s.mu.Unlock()

	if !owner {
		if err := s.wait(ctx, done); err != nil {
			return nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		return c.analysis.value, nil
	}

	// The call outlives a cancelled caller so the result is still memoized.
	analysis := s.backend.CheckIdentityPresence(context.WithoutCancel(ctx), handle)
	if analysis == nil {
		analysis = model.NewUnknownAnalysis(handle, "")
	}
	s.recorder.RecordAnalysis(analysis.Degraded)

	s.mu.Lock()
	c.analysis.value = analysis
	c.analysis.state = CardDone
	close(c.analysis.done)
	s.mu.Unlock()

	return analysis, nil
}

// Avatar returns the preview image of idea, or nil when none could be
// produced. Backend failures are logged and memoized as no image; use
// RetryAvatar to allow another attempt.
func (s *Session) Avatar(ctx context.Context, idea *model.IdentityIdea) (*model.Avatar, error) {
	if idea == nil || idea.Handle == "" {
		return nil, goerr.Wrap(model.ErrUnknownHandle, "idea has no handle")
	}

	s.mu.Lock()
	c := s.cardOf(idea.Handle)
	owner, done := acquire(&c.avatar)
	s.mu.Unlock()

	if !owner {
		if err := s.wait(ctx, done); err != nil {
			return nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		return c.avatar.value, nil
	}

	avatar, err := s.backend.GenerateAvatar(context.WithoutCancel(ctx), idea.Handle, idea.Vibe, idea.Category)
	switch {
	case err != nil:
		logging.From(ctx).Warn("avatar unavailable", "handle", idea.Handle, logging.ErrAttr(err))
		avatar = nil
		s.recorder.RecordAvatar(AvatarFailed)
	case avatar == nil:
		s.recorder.RecordAvatar(AvatarAbsent)
	default:
		s.recorder.RecordAvatar(AvatarGenerated)
	}

	s.mu.Lock()
	c.avatar.value = avatar
	c.avatar.state = CardDone
	close(c.avatar.done)
	s.mu.Unlock()

	return avatar, nil
}

// RetryAvatar re-offers the avatar action of a card that ended without an
// image. It reports whether the card was reset.
func (s *Session) RetryAvatar(handle string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cards[handle]
	if !ok || c.avatar.state != CardDone || c.avatar.value != nil {
		return false
	}
	c.avatar = slot[*model.Avatar]{}
	return true
}

func (s *Session) Card(handle string) CardView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := CardView{
		Handle:        handle,
		AnalysisState: CardNotRequested,
		AvatarState:   CardNotRequested,
	}
	if c, ok := s.cards[handle]; ok {
		view.AnalysisState = c.analysis.stateOrDefault()
		view.Analysis = c.analysis.value
		view.AvatarState = c.avatar.stateOrDefault()
		view.Avatar = c.avatar.value
	}
	return view
}
