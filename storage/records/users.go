package records

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/user"
)

type UserRepository struct {
	store core.RecordStore
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(store core.RecordStore) *UserRepository {
	return &UserRepository{store: store}
}

func (repo *UserRepository) QueryAll(ctx context.Context) ([]user.User, error) {
	recs, err := repo.store.Get(ctx, core.CollectionUsers)
	if err != nil {
		return nil, err
	}
	users := make([]user.User, 0, len(recs))
	for _, r := range recs {
		u, err := unboilUser(r)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (repo *UserRepository) find(ctx context.Context, match func(u user.User) bool) (user.User, error) {
	users, err := repo.QueryAll(ctx)
	if err != nil {
		return user.User{}, err
	}
	for _, u := range users {
		if match(u) {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *UserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	return repo.find(ctx, func(u user.User) bool { return u.ID == id })
}

func (repo *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.find(ctx, func(u user.User) bool { return u.Email == email })
}

func (repo *UserRepository) Create(ctx context.Context, usr user.User) (user.User, error) {
	id, err := repo.store.Add(ctx, core.CollectionUsers, boilUser(usr))
	if err != nil {
		return user.User{}, errors.Wrap(err, "adding user")
	}
	usr.ID = id
	return usr, nil
}

func (repo *UserRepository) Update(ctx context.Context, usr user.User) (user.User, error) {
	ok, err := repo.store.Replace(ctx, core.CollectionUsers, usr.ID, boilUser(usr))
	if err != nil {
		return user.User{}, errors.Wrap(err, "replacing user")
	}
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	ok, err := repo.store.Replace(ctx, core.CollectionUsers, id, core.Record{"lastLogin": timeStr(at)})
	if err != nil {
		return errors.Wrap(err, "replacing user last login")
	}
	if !ok {
		return user.ErrNotFound
	}
	return nil
}

func (repo *UserRepository) Delete(ctx context.Context, id string) error {
	_, err := repo.store.Remove(ctx, core.CollectionUsers, id)
	return errors.Wrap(err, "removing user")
}
