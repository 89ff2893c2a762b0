package records

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/schedule"
)

type SessionRepository struct {
	store core.RecordStore
}

var _ schedule.Repository = (*SessionRepository)(nil)

func NewSessionRepository(store core.RecordStore) *SessionRepository {
	return &SessionRepository{store: store}
}

func (repo *SessionRepository) QueryAll(ctx context.Context) ([]schedule.Session, error) {
	recs, err := repo.store.Get(ctx, core.CollectionClasses)
	if err != nil {
		return nil, err
	}
	sessions := make([]schedule.Session, 0, len(recs))
	for _, r := range recs {
		s, err := unboilSession(r)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (repo *SessionRepository) GetByID(ctx context.Context, id string) (schedule.Session, error) {
	sessions, err := repo.QueryAll(ctx)
	if err != nil {
		return schedule.Session{}, err
	}
	for _, s := range sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return schedule.Session{}, schedule.ErrNotFound
}

func (repo *SessionRepository) Create(ctx context.Context, s schedule.Session) (schedule.Session, error) {
	id, err := repo.store.Add(ctx, core.CollectionClasses, boilSession(s))
	if err != nil {
		return schedule.Session{}, errors.Wrap(err, "adding class")
	}
	s.ID = id
	return s, nil
}

func (repo *SessionRepository) Update(ctx context.Context, s schedule.Session) (schedule.Session, error) {
	ok, err := repo.store.Replace(ctx, core.CollectionClasses, s.ID, boilSession(s))
	if err != nil {
		return schedule.Session{}, errors.Wrap(err, "replacing class")
	}
	if !ok {
		return schedule.Session{}, schedule.ErrNotFound
	}
	return s, nil
}

func (repo *SessionRepository) Delete(ctx context.Context, id string) error {
	_, err := repo.store.Remove(ctx, core.CollectionClasses, id)
	return errors.Wrap(err, "removing class")
}
