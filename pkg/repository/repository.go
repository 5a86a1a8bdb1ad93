package repository

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
)

// Repository persists favorites per namespace and the current session user.
type Repository interface {
	// GetFavorites returns the collection of ns. A namespace that was never
	// written yields an empty slice.
	GetFavorites(ctx context.Context, ns model.Namespace) ([]*model.IdentityIdea, error)

	// PutFavorites replaces the collection of ns.
	PutFavorites(ctx context.Context, ns model.Namespace, ideas []*model.IdentityIdea) error

	// ListNamespaces returns every namespace holding a collection.
	ListNamespaces(ctx context.Context) ([]model.Namespace, error)

	// GetCurrentUser returns nil without error when nobody is signed in.
	GetCurrentUser(ctx context.Context) (*model.User, error)

	PutCurrentUser(ctx context.Context, user *model.User) error

	DeleteCurrentUser(ctx context.Context) error
}

// ErrCorruptRecord is wrapped by read errors caused by a stored record that
// can not be decoded. Callers treat it as "no data".
var ErrCorruptRecord = goerr.New("stored record is corrupt")

const (
	CurrentUserKey     = "namer_user"
	favoritesKeyPrefix = "namer_saved_ids_"
)

// FavoritesKey is the storage key of a namespace's collection.
func FavoritesKey(ns model.Namespace) string {
	return favoritesKeyPrefix + string(ns)
}

func namespaceFromKey(key string) (model.Namespace, bool) {
	ns, ok := strings.CutPrefix(key, favoritesKeyPrefix)
	if !ok || ns == "" {
		return "", false
	}
	return model.Namespace(ns), true
}

func encodeFavorites(ideas []*model.IdentityIdea) ([]byte, error) {
	if ideas == nil {
		ideas = []*model.IdentityIdea{}
	}
	data, err := json.Marshal(ideas)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal favorites")
	}
	return data, nil
}

func decodeFavorites(key string, data []byte) ([]*model.IdentityIdea, error) {
	var ideas []*model.IdentityIdea
	if err := json.Unmarshal(data, &ideas); err != nil {
		return nil, goerr.Wrap(ErrCorruptRecord, "failed to unmarshal favorites",
			goerr.V("key", key),
			goerr.V("cause", err.Error()))
	}

	out := make([]*model.IdentityIdea, 0, len(ideas))
	for _, idea := range ideas {
		if idea == nil {
			continue
		}
		out = append(out, idea)
	}
	return out, nil
}

func encodeUser(user *model.User) ([]byte, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal user")
	}
	return data, nil
}

func decodeUser(data []byte) (*model.User, error) {
	var user *model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, goerr.Wrap(ErrCorruptRecord, "failed to unmarshal user",
			goerr.V("key", CurrentUserKey),
			goerr.V("cause", err.Error()))
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		return nil, goerr.Wrap(ErrCorruptRecord, "stored user has no email", goerr.V("key", CurrentUserKey))
	}
	return user, nil
}
