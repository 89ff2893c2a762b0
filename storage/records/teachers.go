package records

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/core/teacher"
)

type TeacherRepository struct {
	store core.RecordStore
}

var _ teacher.Repository = (*TeacherRepository)(nil)

func NewTeacherRepository(store core.RecordStore) *TeacherRepository {
	return &TeacherRepository{store: store}
}

func (repo *TeacherRepository) QueryAll(ctx context.Context) ([]teacher.Teacher, error) {
	recs, err := repo.store.Get(ctx, core.CollectionTeachers)
	if err != nil {
		return nil, err
	}
	teachers := make([]teacher.Teacher, 0, len(recs))
	for _, r := range recs {
		teachers = append(teachers, unboilTeacher(r))
	}
	return teachers, nil
}

func (repo *TeacherRepository) GetByID(ctx context.Context, id string) (teacher.Teacher, error) {
	teachers, err := repo.QueryAll(ctx)
	if err != nil {
		return teacher.Teacher{}, err
	}
	for _, t := range teachers {
		if t.ID == id {
			return t, nil
		}
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *TeacherRepository) Create(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	id, err := repo.store.Add(ctx, core.CollectionTeachers, boilTeacher(t))
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "adding teacher")
	}
	t.ID = id
	return t, nil
}

func (repo *TeacherRepository) Update(ctx context.Context, t teacher.Teacher) (teacher.Teacher, error) {
	ok, err := repo.store.Replace(ctx, core.CollectionTeachers, t.ID, boilTeacher(t))
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "replacing teacher")
	}
	if !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return t, nil
}

func (repo *TeacherRepository) Delete(ctx context.Context, id string) error {
	_, err := repo.store.Remove(ctx, core.CollectionTeachers, id)
	return errors.Wrap(err, "removing teacher")
}
