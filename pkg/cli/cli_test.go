package cli_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/namer/pkg/cli"
	"github.com/m-mizutani/namer/pkg/model"
	"github.com/m-mizutani/namer/pkg/repository"
)

func run(t *testing.T, dbPath string, args ...string) *cli.Error {
	t.Helper()
	argv := append([]string{"namer", "--log-level", "error", "--db", dbPath}, args...)
	return cli.Run(context.Background(), argv)
}

func openDB(t *testing.T, path string) *repository.SQLite {
	t.Helper()
	repo, err := repository.NewSQLite(context.Background(), path)
	gt.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSavedToggleFollowsLogin(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "namer.db")

	gt.Nil(t, run(t, dbPath, "saved", "toggle", "--handle", "GuestPick.io", "--score", "6"))
	gt.Nil(t, run(t, dbPath, "login", "--email", "Alice@Example.com"))
	gt.Nil(t, run(t, dbPath, "saved", "toggle", "--handle", "KnitCraft.io", "--category", "Creative", "--score", "8"))
	gt.Nil(t, run(t, dbPath, "whoami"))
	gt.Nil(t, run(t, dbPath, "saved", "list"))

	repo := openDB(t, dbPath)

	user, err := repo.GetCurrentUser(ctx)
	gt.NoError(t, err)
	gt.NotNil(t, user)
	gt.Equal(t, user.Email, "Alice@Example.com")
	gt.Equal(t, user.Name, "Alice")

	guest, err := repo.GetFavorites(ctx, model.GuestNamespace)
	gt.NoError(t, err)
	gt.A(t, guest).Length(1)
	gt.Equal(t, guest[0].Handle, "GuestPick.io")

	alice, err := repo.GetFavorites(ctx, model.Namespace("alice@example.com"))
	gt.NoError(t, err)
	gt.A(t, alice).Length(1)
	gt.Equal(t, alice[0].Handle, "KnitCraft.io")
	gt.Equal(t, alice[0].Category, "Creative")
	gt.Equal(t, alice[0].AvailabilityScore, 8)
}

func TestSavedToggleRemovesByHandle(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "namer.db")

	gt.Nil(t, run(t, dbPath, "saved", "toggle", "--handle", "KnitCraft.io", "--score", "8"))
	// a bare handle removes the saved idea regardless of the other flags
	gt.Nil(t, run(t, dbPath, "saved", "toggle", "--handle", "KnitCraft.io", "--score", "0"))

	ideas, err := openDB(t, dbPath).GetFavorites(ctx, model.GuestNamespace)
	gt.NoError(t, err)
	gt.A(t, ideas).Length(0)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "namer.db")

	gt.Nil(t, run(t, dbPath, "login", "--email", "bob@example.com", "--name", "Bob"))
	gt.Nil(t, run(t, dbPath, "logout"))

	user, err := openDB(t, dbPath).GetCurrentUser(ctx)
	gt.NoError(t, err)
	gt.Nil(t, user)
}

func TestCommandErrors(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "namer.db")

	t.Run("invalid score", func(t *testing.T) {
		err := run(t, dbPath, "saved", "toggle", "--handle", "KnitCraft.io", "--score", "11")
		gt.NotNil(t, err)
		gt.Equal(t, err.Code, 1)
	})

	t.Run("links without handle", func(t *testing.T) {
		gt.NotNil(t, run(t, dbPath, "links"))
	})

	t.Run("links", func(t *testing.T) {
		gt.Nil(t, run(t, dbPath, "links", "--explanation", "Cozy", "KnitCraft.io"))
	})

	t.Run("generate without backend", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "")
		t.Setenv("GEMINI_PROJECT_ID", "")
		gt.NotNil(t, run(t, dbPath, "generate", "knitting shop"))
	})
}
