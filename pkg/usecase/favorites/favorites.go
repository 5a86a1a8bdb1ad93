package favorites

import (
	"context"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/m-mizutani/namer/pkg/repository"
	"github.com/m-mizutani/namer/pkg/utils/logging"
)

// Recorder observes toggles.
type Recorder interface {
	RecordToggle(saved bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordToggle(bool) {}

// Store is the saved ideas of the active namespace. Every mutation is
// written through to the repository.
type Store struct {
	repo     repository.Repository
	recorder Recorder

	// writeMu keeps repository writes in mutation order.
	writeMu sync.Mutex

	mu    sync.RWMutex
	ns    model.Namespace
	ideas []*model.IdentityIdea
}

type Option func(*Store)

func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// New returns a store on the guest namespace holding nothing. Call
// SwitchNamespace to load a collection.
func New(repo repository.Repository, opts ...Option) *Store {
	s := &Store{
		repo:     repo,
		recorder: nopRecorder{},
		ns:       model.GuestNamespace,
		ideas:    []*model.IdentityIdea{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Toggle removes the idea with the same handle if present, otherwise
// appends it, and persists the collection. saved reports membership after
// the call. A write failure is returned but the in-memory change stands.
func (s *Store) Toggle(ctx context.Context, idea *model.IdentityIdea) (bool, error) {
	if err := idea.Validate(); err != nil {
		return false, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	idx := slices.IndexFunc(s.ideas, func(x *model.IdentityIdea) bool { return x.Handle == idea.Handle })
	saved := idx < 0
	if saved {
		s.ideas = append(s.ideas, idea.Copy())
	} else {
		s.ideas = slices.Delete(s.ideas, idx, idx+1)
	}
	ns := s.ns
	snapshot := model.CopyIdeas(s.ideas)
	s.mu.Unlock()

	s.recorder.RecordToggle(saved)

	if err := s.repo.PutFavorites(ctx, ns, snapshot); err != nil {
		err = goerr.Wrap(err, "failed to persist favorites",
			goerr.V("namespace", ns),
			goerr.V("handle", idea.Handle))
		logging.From(ctx).Error("favorites write failed", logging.ErrAttr(err))
		return saved, err
	}

	return saved, nil
}

func (s *Store) Contains(handle string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.ideas, func(x *model.IdentityIdea) bool { return x.Handle == handle })
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []*model.IdentityIdea {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CopyIdeas(s.ideas)
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ideas)
}

func (s *Store) Namespace() model.Namespace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ns
}

// SwitchNamespace replaces the collection with the one stored under ns.
// A missing, unreadable or corrupt record yields an empty collection.
func (s *Store) SwitchNamespace(ctx context.Context, ns model.Namespace) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ideas, err := s.repo.GetFavorites(ctx, ns)
	if err != nil {
		logging.From(ctx).Warn("failed to load favorites, starting empty",
			"namespace", ns, logging.ErrAttr(err))
		ideas = []*model.IdentityIdea{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ns = ns
	s.ideas = ideas
}
