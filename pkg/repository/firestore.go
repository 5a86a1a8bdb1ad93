package repository

import (
	"context"
	"net/url"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionFavorites = "namer_favorites"
	collectionSessions  = "namer_sessions"
	currentSessionDocID = "current"
)

// Firestore stores favorites and the session user in Firestore. One document
// per namespace keeps every write a single-document replace.
type Firestore struct {
	client *firestore.Client
}

type favoritesRecord struct {
	Namespace string                `firestore:"namespace"`
	Ideas     []*model.IdentityIdea `firestore:"ideas"`
	UpdatedAt time.Time             `firestore:"updated_at"`
}

type sessionRecord struct {
	User      *model.User `firestore:"user"`
	UpdatedAt time.Time   `firestore:"updated_at"`
}

// New creates a Firestore repository
func New(ctx context.Context, projectID, databaseID string) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project", projectID),
			goerr.V("database", databaseID))
	}
	return &Firestore{client: client}, nil
}

// Close releases the client.
func (r *Firestore) Close() error {
	return r.client.Close()
}

// namespaceDocID escapes characters Firestore does not allow in IDs.
func namespaceDocID(ns model.Namespace) string {
	return url.PathEscape(string(ns))
}

func (r *Firestore) GetFavorites(ctx context.Context, ns model.Namespace) ([]*model.IdentityIdea, error) {
	doc, err := r.client.Collection(collectionFavorites).Doc(namespaceDocID(ns)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return []*model.IdentityIdea{}, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get favorites", goerr.V("namespace", ns))
	}

	var rec favoritesRecord
	if err := doc.DataTo(&rec); err != nil {
		return nil, goerr.Wrap(ErrCorruptRecord, "failed to decode favorites",
			goerr.V("namespace", ns),
			goerr.V("cause", err.Error()))
	}

	ideas := make([]*model.IdentityIdea, 0, len(rec.Ideas))
	for _, idea := range rec.Ideas {
		if idea != nil {
			ideas = append(ideas, idea)
		}
	}
	return ideas, nil
}

func (r *Firestore) PutFavorites(ctx context.Context, ns model.Namespace, ideas []*model.IdentityIdea) error {
	if ideas == nil {
		ideas = []*model.IdentityIdea{}
	}
	rec := favoritesRecord{
		Namespace: string(ns),
		Ideas:     ideas,
		UpdatedAt: time.Now(),
	}
	if _, err := r.client.Collection(collectionFavorites).Doc(namespaceDocID(ns)).Set(ctx, rec); err != nil {
		return goerr.Wrap(err, "failed to put favorites", goerr.V("namespace", ns))
	}
	return nil
}

func (r *Firestore) ListNamespaces(ctx context.Context) ([]model.Namespace, error) {
	iter := r.client.Collection(collectionFavorites).Documents(ctx)
	defer iter.Stop()

	var namespaces []model.Namespace
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate favorites")
		}

		var rec favoritesRecord
		if err := doc.DataTo(&rec); err != nil || rec.Namespace == "" {
			continue
		}
		namespaces = append(namespaces, model.Namespace(rec.Namespace))
	}
	return namespaces, nil
}

func (r *Firestore) GetCurrentUser(ctx context.Context) (*model.User, error) {
	doc, err := r.client.Collection(collectionSessions).Doc(currentSessionDocID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get current session")
	}

	var rec sessionRecord
	if err := doc.DataTo(&rec); err != nil {
		return nil, goerr.Wrap(ErrCorruptRecord, "failed to decode current session", goerr.V("cause", err.Error()))
	}
	if rec.User == nil || rec.User.Email == "" {
		return nil, goerr.Wrap(ErrCorruptRecord, "current session has no user")
	}
	return rec.User, nil
}

func (r *Firestore) PutCurrentUser(ctx context.Context, user *model.User) error {
	rec := sessionRecord{User: user, UpdatedAt: time.Now()}
	if _, err := r.client.Collection(collectionSessions).Doc(currentSessionDocID).Set(ctx, rec); err != nil {
		return goerr.Wrap(err, "failed to put current session")
	}
	return nil
}

func (r *Firestore) DeleteCurrentUser(ctx context.Context) error {
	if _, err := r.client.Collection(collectionSessions).Doc(currentSessionDocID).Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete current session")
	}
	return nil
}
