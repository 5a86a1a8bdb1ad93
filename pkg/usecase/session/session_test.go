package session_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/m-mizutani/namer/pkg/repository"
	"github.com/m-mizutani/namer/pkg/usecase/favorites"
	"github.com/m-mizutani/namer/pkg/usecase/session"
)

type failingRepo struct {
	repository.Repository
}

func (r *failingRepo) PutCurrentUser(ctx context.Context, user *model.User) error {
	return errors.New("read-only")
}

func knitCraft() *model.IdentityIdea {
	return &model.IdentityIdea{Handle: "KnitCraft.io", Category: "Creative", AvailabilityScore: 7}
}

func TestSignInAndOut(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	favs := favorites.New(repo)
	sess := session.New(ctx, repo, favs)

	gt.Nil(t, sess.Current())
	gt.Equal(t, sess.Namespace(), model.GuestNamespace)

	_, err := favs.Toggle(ctx, knitCraft())
	gt.NoError(t, err)

	user, err := sess.SignIn(ctx, "a@b.com", "")
	gt.NoError(t, err)
	gt.Equal(t, user.Name, "a")
	gt.Equal(t, user.Email, "a@b.com")
	gt.Equal(t, sess.Namespace(), model.Namespace("a@b.com"))
	gt.Equal(t, favs.Namespace(), model.Namespace("a@b.com"))
	gt.Equal(t, favs.Count(), 0)

	stored, err := repo.GetCurrentUser(ctx)
	gt.NoError(t, err)
	gt.Equal(t, stored.Email, "a@b.com")

	_, err = favs.Toggle(ctx, &model.IdentityIdea{Handle: "PurlPals.co", AvailabilityScore: 5})
	gt.NoError(t, err)

	sess.SignOut(ctx)
	gt.Nil(t, sess.Current())
	gt.Equal(t, favs.Namespace(), model.GuestNamespace)
	gt.True(t, favs.Contains("KnitCraft.io"))

	stored, err = repo.GetCurrentUser(ctx)
	gt.NoError(t, err)
	gt.Nil(t, stored)

	userFavs, err := repo.GetFavorites(ctx, "a@b.com")
	gt.NoError(t, err)
	gt.A(t, userFavs).Length(1)
}

func TestSignInKeepsName(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	sess := session.New(ctx, repo, favorites.New(repo))

	user, err := sess.SignIn(ctx, "  knit@example.com ", "Knitter")
	gt.NoError(t, err)
	gt.Equal(t, user.Name, "Knitter")
	gt.Equal(t, user.Email, "knit@example.com")
}

func TestSignInRequiresEmail(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	sess := session.New(ctx, repo, favorites.New(repo))

	_, err := sess.SignIn(ctx, "  ", "x")
	gt.True(t, errors.Is(err, model.ErrInvalidEmail))
	gt.Nil(t, sess.Current())
}

func TestRestoreSession(t *testing.T) {
	ctx := context.Background()

	t.Run("persisted user", func(t *testing.T) {
		repo := repository.NewMemory()
		gt.NoError(t, repo.PutCurrentUser(ctx, model.NewUser("a@b.com", "")))
		gt.NoError(t, repo.PutFavorites(ctx, "a@b.com", []*model.IdentityIdea{knitCraft()}))

		favs := favorites.New(repo)
		sess := session.New(ctx, repo, favs)
		gt.Equal(t, sess.Current().Email, "a@b.com")
		gt.True(t, favs.Contains("KnitCraft.io"))
	})

	t.Run("corrupt user record", func(t *testing.T) {
		repo := repository.NewMemory()
		repo.PutRaw(repository.CurrentUserKey, []byte("{{{"))
		gt.NoError(t, repo.PutFavorites(ctx, model.GuestNamespace, []*model.IdentityIdea{knitCraft()}))

		favs := favorites.New(repo)
		sess := session.New(ctx, repo, favs)
		gt.Nil(t, sess.Current())
		gt.Equal(t, favs.Namespace(), model.GuestNamespace)
		gt.Equal(t, favs.Count(), 1)
	})
}

func TestSignInPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	repo := &failingRepo{Repository: repository.NewMemory()}
	favs := favorites.New(repo)
	sess := session.New(ctx, repo, favs)

	user, err := sess.SignIn(ctx, "a@b.com", "")
	gt.NoError(t, err)
	gt.NotNil(t, user)
	gt.Equal(t, favs.Namespace(), model.Namespace("a@b.com"))
}

func TestNamespaceFunc(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemory()
	favs := favorites.New(repo)
	sess := session.New(ctx, repo, favs, session.WithNamespaceFunc(func(u *model.User) model.Namespace {
		if u == nil {
			return "anon"
		}
		return model.Namespace("user-" + strings.ToUpper(u.Email))
	}))

	gt.Equal(t, favs.Namespace(), model.Namespace("anon"))

	_, err := sess.SignIn(ctx, "a@b.com", "")
	gt.NoError(t, err)
	gt.Equal(t, favs.Namespace(), model.Namespace("user-A@B.COM"))
}
