package guardian

import (
	"context"

	"github.com/kat-co/vala"
	"github.com/volatiletech/null/v8"

	"github.com/hsandamith/School-Management-System/core"
)

var ErrNotFound = core.NewNotFoundError("parent/guardian")

type (
	Repository interface {
		CreateGuardian(ctx context.Context, g Guardian, exec ...core.DBExecutor) (Guardian, error)
		GetGuardian(ctx context.Context, id int64, exec ...core.DBExecutor) (Guardian, error)
		// QueryGuardians orders by last name then first name unless told otherwise.
		QueryGuardians(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Guardian, error)
		UpdateGuardian(ctx context.Context, g Guardian, exec ...core.DBExecutor) (Guardian, error)
		// DeleteGuardian removes the guardian and its pupil links.
		DeleteGuardian(ctx context.Context, id int64, exec ...core.DBExecutor) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, ng NewGuardian) (Guardian, error)
		Get(ctx context.Context, id int64) (Guardian, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Guardian, error)
		Update(ctx context.Context, id int64, ug UpdateGuardian) (Guardian, error)
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

func (svc *Service) Create(ctx context.Context, ng NewGuardian) (Guardian, error) {
	g, err := svc.repo.CreateGuardian(ctx, Guardian{
		FirstName:           ng.FirstName,
		LastName:            ng.LastName,
		Address:             ng.Address,
		PhoneNumber:         ng.PhoneNumber,
		Email:               null.NewString(ng.Email, ng.Email != ""),
		RelationshipToPupil: ng.RelationshipToPupil,
	})
	return g, core.SaveFailed("creating parent/guardian", err)
}

func (svc *Service) Get(ctx context.Context, id int64) (Guardian, error) {
	return svc.repo.GetGuardian(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Guardian, error) {
	return svc.repo.QueryGuardians(ctx, filter, ordering)
}

func (svc *Service) Update(ctx context.Context, id int64, ug UpdateGuardian) (Guardian, error) {
	var updated Guardian
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		g, err := svc.repo.GetGuardian(ctx, id, tx)
		if err != nil {
			return err
		}
		g.FirstName = ug.FirstName
		g.LastName = ug.LastName
		g.Address = ug.Address
		g.PhoneNumber = ug.PhoneNumber
		g.Email = null.NewString(ug.Email, ug.Email != "")
		g.RelationshipToPupil = ug.RelationshipToPupil
		updated, err = svc.repo.UpdateGuardian(ctx, g, tx)
		return err
	})
	return updated, core.SaveFailed("updating parent/guardian", err)
}

func (svc *Service) Delete(ctx context.Context, id int64) error {
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if _, err := svc.repo.GetGuardian(ctx, id, tx); err != nil {
			return err
		}
		return svc.repo.DeleteGuardian(ctx, id, tx)
	})
	return core.SaveFailed("deleting parent/guardian", err)
}
