package payroll

import (
	"context"
	"errors"

	"github.com/kat-co/vala"

	"github.com/hsandamith/School-Management-System/core"
)

var (
	// errors
	ErrNotFound         = core.NewNotFoundError("salary record")
	ErrEmployeeNotFound = errors.New("employee does not exist")
)

type (
	Repository interface {
		CreateSalary(ctx context.Context, s Salary, exec ...core.DBExecutor) (Salary, error)
		// GetSalary resolves the employee name from the table matching the employee type.
		GetSalary(ctx context.Context, id int64, exec ...core.DBExecutor) (Salary, error)
		// QuerySalaries orders by payment date, newest first, unless told otherwise.
		QuerySalaries(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Salary, error)
		UpdateSalary(ctx context.Context, s Salary, exec ...core.DBExecutor) (Salary, error)
		DeleteSalary(ctx context.Context, id int64, exec ...core.DBExecutor) error
		EmployeeExists(ctx context.Context, typ EmployeeType, id int64, exec ...core.DBExecutor) (bool, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, form SalaryForm) (Salary, error)
		Get(ctx context.Context, id int64) (Salary, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Salary, error)
		Update(ctx context.Context, id int64, form SalaryForm) (Salary, error)
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

func (svc *Service) checkEmployee(ctx context.Context, form SalaryForm, tx core.DBExecutor) error {
	ok, err := svc.repo.EmployeeExists(ctx, form.EmployeeType, form.EmployeeID, tx)
	if err != nil {
		return err
	}
	if !ok {
		return core.NewRuleError(ErrEmployeeNotFound, "employee_id")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, form SalaryForm) (Salary, error) {
	var created Salary
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if err := svc.checkEmployee(ctx, form, tx); err != nil {
			return err
		}
		s, err := svc.repo.CreateSalary(ctx, form.salary(), tx)
		if err != nil {
			return err
		}
		created, err = svc.repo.GetSalary(ctx, s.ID, tx)
		return err
	})
	return created, core.SaveFailed("recording salary", err)
}

func (svc *Service) Get(ctx context.Context, id int64) (Salary, error) {
	return svc.repo.GetSalary(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Salary, error) {
	return svc.repo.QuerySalaries(ctx, filter, ordering)
}

func (svc *Service) Update(ctx context.Context, id int64, form SalaryForm) (Salary, error) {
	var updated Salary
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		orig, err := svc.repo.GetSalary(ctx, id, tx)
		if err != nil {
			return err
		}
		if err = svc.checkEmployee(ctx, form, tx); err != nil {
			return err
		}
		s := form.salary()
		s.ID = orig.ID
		if _, err = svc.repo.UpdateSalary(ctx, s, tx); err != nil {
			return err
		}
		updated, err = svc.repo.GetSalary(ctx, orig.ID, tx)
		return err
	})
	return updated, core.SaveFailed("updating salary", err)
}

func (svc *Service) Delete(ctx context.Context, id int64) error {
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if _, err := svc.repo.GetSalary(ctx, id, tx); err != nil {
			return err
		}
		return svc.repo.DeleteSalary(ctx, id, tx)
	})
	return core.SaveFailed("deleting salary", err)
}
