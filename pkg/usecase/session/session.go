package session

import (
	"context"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/m-mizutani/namer/pkg/repository"
	"github.com/m-mizutani/namer/pkg/utils/logging"
)

// NamespaceSwitcher is the part of the favorites store a session drives.
type NamespaceSwitcher interface {
	SwitchNamespace(ctx context.Context, ns model.Namespace)
}

// Context holds the signed-in user. Signing in is a non-verifying identity
// claim: no credential is accepted or checked.
type Context struct {
	repo        repository.Repository
	favorites   NamespaceSwitcher
	namespaceOf func(*model.User) model.Namespace

	mu   sync.RWMutex
	user *model.User
}

type Option func(*Context)

// WithNamespaceFunc replaces the user to namespace mapping.
func WithNamespaceFunc(fn func(*model.User) model.Namespace) Option {
	return func(c *Context) {
		if fn != nil {
			c.namespaceOf = fn
		}
	}
}

// New restores the persisted session user, if any, and switches favorites
// to that user's namespace. An unreadable record means anonymous.
func New(ctx context.Context, repo repository.Repository, favorites NamespaceSwitcher, opts ...Option) *Context {
	c := &Context{
		repo:        repo,
		favorites:   favorites,
		namespaceOf: model.NamespaceOf,
	}
	for _, opt := range opts {
		opt(c)
	}

	user, err := repo.GetCurrentUser(ctx)
	if err != nil {
		logging.From(ctx).Warn("failed to restore session, continuing anonymously", logging.ErrAttr(err))
		user = nil
	}
	c.user = user

	c.favorites.SwitchNamespace(ctx, c.namespaceOf(user))
	return c
}

// SignIn makes email the current user, persists the session and loads that
// user's favorites. A persistence failure is logged, not returned.
func (c *Context) SignIn(ctx context.Context, email, name string) (*model.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, goerr.Wrap(model.ErrInvalidEmail, "can not sign in")
	}
	user := model.NewUser(email, name)

	c.mu.Lock()
	c.user = user
	c.mu.Unlock()

	if err := c.repo.PutCurrentUser(ctx, user); err != nil {
		logging.From(ctx).Error("failed to persist session", "email", user.Email, logging.ErrAttr(err))
	}

	c.favorites.SwitchNamespace(ctx, c.namespaceOf(user))
	logging.From(ctx).Info("signed in", "email", user.Email)

	return user, nil
}

// SignOut clears the session record and returns favorites to the guest
// namespace. Namespaced collections are left in place.
func (c *Context) SignOut(ctx context.Context) {
	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()

	if err := c.repo.DeleteCurrentUser(ctx); err != nil {
		logging.From(ctx).Error("failed to clear session", logging.ErrAttr(err))
	}

	c.favorites.SwitchNamespace(ctx, c.namespaceOf(nil))
}

// Current returns a copy of the signed-in user, or nil.
func (c *Context) Current() *model.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

func (c *Context) Namespace() model.Namespace {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.namespaceOf(c.user)
}
