package class

import (
	"context"
	"errors"

	"github.com/kat-co/vala"

	"github.com/hsandamith/School-Management-System/core"
)

var (
	// errors
	ErrNotFound         = core.NewNotFoundError("class")
	ErrHasPupils        = errors.New("class still has pupils assigned")
	ErrCapacityTooSmall = errors.New("capacity cannot be lower than the number of pupils already in the class")
)

type (
	Repository interface {
		CreateClass(ctx context.Context, cls Class, exec ...core.DBExecutor) (Class, error)
		GetClass(ctx context.Context, id int64, exec ...core.DBExecutor) (Class, error)
		QueryClasses(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Class, error)
		UpdateClass(ctx context.Context, cls Class, exec ...core.DBExecutor) (Class, error)
		// DeleteClass also unassigns its teacher and removes its teaching assistant assignments.
		DeleteClass(ctx context.Context, id int64, exec ...core.DBExecutor) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, nc NewClass) (Class, error)
		Get(ctx context.Context, id int64) (Class, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Class, error)
		Update(ctx context.Context, id int64, uc UpdateClass) (Class, error)
		Delete(ctx context.Context, id int64) error
	}

	Service struct {
		db   core.DB
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(db core.DB, repo Repository) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(db, "db"),
		vala.IsNotNil(repo, "repo"),
	).CheckAndPanic()

	return &Service{db: db, repo: repo}
}

func (svc *Service) Create(ctx context.Context, nc NewClass) (Class, error) {
	cls, err := svc.repo.CreateClass(ctx, Class{Name: nc.Name, Capacity: nc.Capacity})
	return cls, core.SaveFailed("creating class", err)
}

func (svc *Service) Get(ctx context.Context, id int64) (Class, error) {
	return svc.repo.GetClass(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Class, error) {
	return svc.repo.QueryClasses(ctx, filter, ordering)
}

func (svc *Service) Update(ctx context.Context, id int64, uc UpdateClass) (Class, error) {
	var updated Class
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		cls, err := svc.repo.GetClass(ctx, id, tx)
		if err != nil {
			return err
		}
		if uc.Capacity < cls.PupilCount {
			return core.NewRuleError(ErrCapacityTooSmall, "capacity")
		}
		cls.Name = uc.Name
		cls.Capacity = uc.Capacity
		updated, err = svc.repo.UpdateClass(ctx, cls, tx)
		return err
	})
	return updated, core.SaveFailed("updating class", err)
}

func (svc *Service) Delete(ctx context.Context, id int64) error {
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		cls, err := svc.repo.GetClass(ctx, id, tx)
		if err != nil {
			return err
		}
		if cls.PupilCount > 0 {
			return core.NewValidationError(ErrHasPupils)
		}
		return svc.repo.DeleteClass(ctx, id, tx)
	})
	return core.SaveFailed("deleting class", err)
}
