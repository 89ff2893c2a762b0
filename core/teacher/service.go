package teacher

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
)

var (
	// errors
	ErrNotFound = errors.New("teacher not found")
)

type (
	Repository interface {
		QueryAll(ctx context.Context) ([]Teacher, error)
		GetByID(ctx context.Context, id string) (Teacher, error)
		Create(ctx context.Context, t Teacher) (Teacher, error)
		Update(ctx context.Context, t Teacher) (Teacher, error)
		// Delete does not cascade to the teacher's sessions, nor fail on a missing id.
		Delete(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryAll(ctx)
}

// Search does a case-insensitive match on one of name, email, department or specialization.
func (svc *Service) Search(ctx context.Context, search string) ([]Teacher, error) {
	teachers, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	search = core.CleanString(search)
	res := make([]Teacher, 0, len(teachers))
	for _, t := range teachers {
		if core.ContainsFold(search, t.Name, t.Email, t.Department, t.Specialization) {
			res = append(res, t)
		}
	}
	return res, nil
}

func (svc *Service) Directory(ctx context.Context) (Directory, error) {
	teachers, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewDirectory(teachers), nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetByID(ctx, id)
}

func (svc *Service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	nt.clean()
	if err := svc.validate.Struct(nt); err != nil {
		return Teacher{}, err
	}
	return svc.repo.Create(ctx, nt.teacher(""))
}

func (svc *Service) Update(ctx context.Context, id string, ut UpdateTeacher) (Teacher, error) {
	orig, err := svc.repo.GetByID(ctx, id)
	if err != nil {
		return Teacher{}, err
	}
	nt := ut.Merge(orig)
	nt.clean()
	if err := svc.validate.Struct(nt); err != nil {
		return Teacher{}, err
	}
	return svc.repo.Update(ctx, nt.teacher(orig.ID))
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.repo.Delete(ctx, id)
}
