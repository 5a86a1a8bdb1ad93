package suggest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/m-mizutani/namer/pkg/service/identity"
	"github.com/m-mizutani/namer/pkg/utils/logging"
)

// State is the top-level state of a suggestion session.
type State string

const (
	StateIdle       State = "IDLE"
	StateGenerating State = "GENERATING"
	StateResults    State = "RESULTS"
	StateError      State = "ERROR"
	StateSaved      State = "SAVED"
)

// Outcomes passed to Recorder.
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeStale   = "stale"

	AvatarGenerated = "generated"
	AvatarAbsent    = "absent"
	AvatarFailed    = "failed"
)

// Recorder observes rounds and card enrichments.
type Recorder interface {
	RecordRound(outcome string, elapsed time.Duration)
	RecordAnalysis(degraded bool)
	RecordAvatar(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) RecordRound(string, time.Duration) {}
func (nopRecorder) RecordAnalysis(bool)               {}
func (nopRecorder) RecordAvatar(string)               {}

// View is a snapshot of the top-level state.
type View struct {
	State   State                 `json:"state"`
	Prompt  string                `json:"prompt"`
	Results []*model.IdentityIdea `json:"results"`
	Error   string                `json:"error,omitempty"`
	Round   string                `json:"round,omitempty"`
}

// Session drives one user's suggestion flow: rounds of generation and the
// per-card analysis and avatar lookups.
type Session struct {
	backend  identity.Backend
	recorder Recorder

	mu      sync.Mutex
	state   State
	prompt  string
	results []*model.IdentityIdea
	errMsg  string
	round   string
	// token identifies the latest round; a response carrying an older token
	// is discarded.
	token uint64
	cards map[string]*card
}

type Option func(*Session)

func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		if r != nil {
			s.recorder = r
		}
	}
}

func New(backend identity.Backend, opts ...Option) *Session {
	s := &Session{
		backend:  backend,
		recorder: nopRecorder{},
		state:    StateIdle,
		results:  []*model.IdentityIdea{},
		cards:    make(map[string]*card),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit starts a new round for prompt and blocks until the backend
// answers. A round superseded by Submit, Reset or ShowSaved while waiting
// leaves the state alone and returns model.ErrStaleRound.
func (s *Session) Submit(ctx context.Context, prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return goerr.Wrap(model.ErrEmptyPrompt, "can not submit")
	}

	s.mu.Lock()
	s.token++
	token := s.token
	round := uuid.NewString()
	s.state = StateGenerating
	s.prompt = prompt
	s.results = []*model.IdentityIdea{}
	s.errMsg = ""
	s.round = round
	s.mu.Unlock()

	logger := logging.From(ctx).With("round", round)
	logger.Info("generating identities", "prompt", prompt)

	start := time.Now()
	ideas, err := s.backend.GenerateIdentities(ctx, prompt)
	elapsed := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token {
		logger.Info("discarding superseded round")
		s.recorder.RecordRound(OutcomeStale, elapsed)
		return goerr.Wrap(model.ErrStaleRound, "round was superseded", goerr.V("round", round))
	}

	if err != nil {
		logger.Warn("generation failed", logging.ErrAttr(err))
		s.state = StateError
		s.errMsg = err.Error()
		s.recorder.RecordRound(OutcomeFailed, elapsed)
		return err
	}

	s.state = StateResults
	s.results = model.CopyIdeas(ideas)
	s.recorder.RecordRound(OutcomeSuccess, elapsed)
	logger.Info("generated identities", "count", len(ideas))
	return nil
}

// Reset returns to Idle from any state and invalidates an in-flight round.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token++
	s.state = StateIdle
	s.prompt = ""
	s.results = []*model.IdentityIdea{}
	s.errMsg = ""
	s.round = ""
}

// ShowSaved switches to the saved-items view. Results of the last round
// are kept; an in-flight round is invalidated.
func (s *Session) ShowSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateGenerating {
		s.token++
		s.round = ""
	}
	s.state = StateSaved
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return View{
		State:   s.state,
		Prompt:  s.prompt,
		Results: model.CopyIdeas(s.results),
		Error:   s.errMsg,
		Round:   s.round,
	}
}

// Idea returns the idea with handle from the current results.
func (s *Session) Idea(handle string) (*model.IdentityIdea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, idea := range s.results {
		if idea.Handle == handle {
			return idea.Copy(), nil
		}
	}
	return nil, goerr.Wrap(model.ErrUnknownHandle, "idea is not in the current results", goerr.V("handle", handle))
}
