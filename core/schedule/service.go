package schedule

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
)

var (
	// errors
	ErrNotFound = errors.New("class not found")
	ErrConflict = errors.New("session overlaps another session in the same room or with the same teacher")
)

type (
	Repository interface {
		// QueryAll returns every session in store order.
		QueryAll(ctx context.Context) ([]Session, error)
		GetByID(ctx context.Context, id string) (Session, error)
		Create(ctx context.Context, s Session) (Session, error)
		// Update fails with ErrNotFound if no session has s.ID.
		Update(ctx context.Context, s Session) (Session, error)
		// Delete does not fail if the id does not exist.
		Delete(ctx context.Context, id string) error
	}

	Service struct {
		mu              sync.Mutex // held from the conflict check to the write
		repo            Repository
		validate        *validator.Validate
		notifier        Notifier
		rejectConflicts bool
	}

	Option func(svc *Service)
)

// WithNotifier sends an Event to n on every successful create, update or delete.
func WithNotifier(n Notifier) Option {
	return func(svc *Service) {
		if n != nil {
			svc.notifier = n
		}
	}
}

// WithConflictRejection makes create and update fail with ErrConflict when a session would overlap
// another one in the same room or with the same teacher.
func WithConflictRejection(reject bool) Option {
	return func(svc *Service) { svc.rejectConflicts = reject }
}

func NewService(repo Repository, validate *validator.Validate, opts ...Option) *Service {
	svc := &Service{
		repo:     repo,
		validate: validate,
		notifier: nopNotifier{},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (svc *Service) QueryAll(ctx context.Context) ([]Session, error) {
	return svc.repo.QueryAll(ctx)
}

func (svc *Service) Filter(ctx context.Context, scope Scope) ([]Session, error) {
	sessions, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(sessions, scope), nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Session, error) {
	return svc.repo.GetByID(ctx, id)
}

func (svc *Service) Current(ctx context.Context, scope Scope, at Instant) (Session, bool, error) {
	sessions, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return Session{}, false, err
	}
	s, ok := FindCurrent(sessions, scope, at)
	return s, ok, nil
}

func (svc *Service) Today(ctx context.Context, scope Scope, day Day) ([]Session, error) {
	sessions, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	return Today(sessions, scope, day), nil
}

func (svc *Service) Week(ctx context.Context, scope Scope) ([]DaySchedule, error) {
	sessions, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	return Week(sessions, scope), nil
}

func (svc *Service) CountActive(ctx context.Context, at Instant) (int, error) {
	sessions, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return 0, err
	}
	return CountActive(sessions, at), nil
}

func (svc *Service) Conflicts(ctx context.Context) ([]Conflict, error) {
	sessions, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	return FindConflicts(sessions), nil
}

func (svc *Service) checkConflicts(ctx context.Context, candidate Session) error {
	if !svc.rejectConflicts {
		return nil
	}
	sessions, err := svc.repo.QueryAll(ctx)
	if err != nil {
		return err
	}
	if len(ConflictsWith(candidate, sessions)) > 0 {
		return core.NewValidationError(ErrConflict, core.FieldError{Field: "start_time", Error: ErrConflict.Error()})
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, ns NewSession) (Session, error) {
	ns.clean()
	if err := svc.validate.Struct(ns); err != nil {
		return Session{}, err
	}
	s, err := svc.create(ctx, ns.session(""))
	if err != nil {
		return Session{}, err
	}
	svc.notifier.Notify(ctx, Event{Action: ActionCreated, Session: s})
	return s, nil
}

func (svc *Service) create(ctx context.Context, s Session) (Session, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err := svc.checkConflicts(ctx, s); err != nil {
		return Session{}, err
	}
	return svc.repo.Create(ctx, s)
}

// Update merges the non-nil fields of us over the session and validates the result.
func (svc *Service) Update(ctx context.Context, id string, us UpdateSession) (Session, error) {
	orig, err := svc.repo.GetByID(ctx, id)
	if err != nil {
		return Session{}, err
	}

	ns := us.Merge(orig)
	ns.clean()
	if err := svc.validate.Struct(ns); err != nil {
		return Session{}, err
	}
	s, err := svc.update(ctx, ns.session(orig.ID))
	if err != nil {
		return Session{}, err
	}
	svc.notifier.Notify(ctx, Event{Action: ActionUpdated, Session: s, Previous: &orig})
	return s, nil
}

func (svc *Service) update(ctx context.Context, s Session) (Session, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if err := svc.checkConflicts(ctx, s); err != nil {
		return Session{}, err
	}
	return svc.repo.Update(ctx, s)
}

// Delete removes the session. Deleting a missing session is not an error.
func (svc *Service) Delete(ctx context.Context, id string) error {
	s, err := svc.repo.GetByID(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return svc.repo.Delete(ctx, id)
	case err != nil:
		return err
	}

	if err := svc.repo.Delete(ctx, id); err != nil {
		return err
	}
	svc.notifier.Notify(ctx, Event{Action: ActionDeleted, Session: s})
	return nil
}
