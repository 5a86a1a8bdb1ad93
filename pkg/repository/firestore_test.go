package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/m-mizutani/namer/pkg/repository"
)

func setupFirestore(t *testing.T) *repository.Firestore {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	if projectID == "" || databaseID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID and TEST_FIRESTORE_DATABASE_ID must be set to run Firestore tests")
	}

	repo, err := repository.New(context.Background(), projectID, databaseID)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func TestFirestoreFavorites(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	ns := model.Namespace(uuid.NewString() + "@example.com")
	ideas, err := repo.GetFavorites(ctx, ns)
	gt.NoError(t, err)
	gt.A(t, ideas).Length(0)

	gt.NoError(t, repo.PutFavorites(ctx, ns, []*model.IdentityIdea{knitCraft()}))

	ideas, err = repo.GetFavorites(ctx, ns)
	gt.NoError(t, err)
	gt.A(t, ideas).Length(1)
	gt.Equal(t, ideas[0].Handle, "KnitCraft.io")
	gt.Equal(t, ideas[0].AvailabilityScore, 7)

	namespaces, err := repo.ListNamespaces(ctx)
	gt.NoError(t, err)
	found := false
	for _, n := range namespaces {
		if n == ns {
			found = true
		}
	}
	gt.True(t, found)

	gt.NoError(t, repo.PutFavorites(ctx, ns, nil))
	ideas, err = repo.GetFavorites(ctx, ns)
	gt.NoError(t, err)
	gt.A(t, ideas).Length(0)
}

func TestFirestoreCurrentUser(t *testing.T) {
	repo := setupFirestore(t)
	ctx := context.Background()

	email := uuid.NewString() + "@example.com"
	gt.NoError(t, repo.PutCurrentUser(ctx, model.NewUser(email, "")))

	user, err := repo.GetCurrentUser(ctx)
	gt.NoError(t, err)
	gt.Equal(t, user.Email, email)

	gt.NoError(t, repo.DeleteCurrentUser(ctx))
	user, err = repo.GetCurrentUser(ctx)
	gt.NoError(t, err)
	gt.Nil(t, user)
}
