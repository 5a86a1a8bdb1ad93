package repository

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/namer/pkg/model"
)

// kvStore is a flat string-keyed byte store, the shape of browser local
// storage. Memory and SQLite implement it.
type kvStore interface {
	get(ctx context.Context, key string) ([]byte, bool, error)
	put(ctx context.Context, key string, value []byte) error
	delete(ctx context.Context, key string) error
	keys(ctx context.Context, prefix string) ([]string, error)
}

// kvRepository implements Repository on top of a kvStore.
type kvRepository struct {
	kv kvStore
}

func (r *kvRepository) GetFavorites(ctx context.Context, ns model.Namespace) ([]*model.IdentityIdea, error) {
	key := FavoritesKey(ns)
	data, ok, err := r.kv.get(ctx, key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get favorites", goerr.V("namespace", ns))
	}
	if !ok {
		return []*model.IdentityIdea{}, nil
	}
	return decodeFavorites(key, data)
}

func (r *kvRepository) PutFavorites(ctx context.Context, ns model.Namespace, ideas []*model.IdentityIdea) error {
	data, err := encodeFavorites(ideas)
	if err != nil {
		return err
	}
	if err := r.kv.put(ctx, FavoritesKey(ns), data); err != nil {
		return goerr.Wrap(err, "failed to put favorites", goerr.V("namespace", ns))
	}
	return nil
}

func (r *kvRepository) ListNamespaces(ctx context.Context) ([]model.Namespace, error) {
	keys, err := r.kv.keys(ctx, favoritesKeyPrefix)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list favorites keys")
	}

	namespaces := make([]model.Namespace, 0, len(keys))
	for _, key := range keys {
		if ns, ok := namespaceFromKey(key); ok {
			namespaces = append(namespaces, ns)
		}
	}
	return namespaces, nil
}

func (r *kvRepository) GetCurrentUser(ctx context.Context) (*model.User, error) {
	data, ok, err := r.kv.get(ctx, CurrentUserKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get current user")
	}
	if !ok {
		return nil, nil
	}
	return decodeUser(data)
}

func (r *kvRepository) PutCurrentUser(ctx context.Context, user *model.User) error {
	data, err := encodeUser(user)
	if err != nil {
		return err
	}
	if err := r.kv.put(ctx, CurrentUserKey, data); err != nil {
		return goerr.Wrap(err, "failed to put current user")
	}
	return nil
}

func (r *kvRepository) DeleteCurrentUser(ctx context.Context) error {
	if err := r.kv.delete(ctx, CurrentUserKey); err != nil {
		return goerr.Wrap(err, "failed to delete current user")
	}
	return nil
}
