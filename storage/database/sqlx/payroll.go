package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/payroll"
)

var salaryOrderings = map[string]string{
	"id":            "s.id",
	"amount":        "s.amount",
	"payment_date":  "s.payment_date",
	"employee_type": "s.employee_type",
}

var employeeTables = map[payroll.EmployeeType]string{
	payroll.EmployeeTeacher:   "teacher",
	payroll.EmployeeAssistant: "teaching_assistant",
}

type payrollRepository struct {
	repository
}

var _ payroll.Repository = (*payrollRepository)(nil) // interface compliance check

func NewPayrollRepository(db core.DBExecutor) *payrollRepository {
	return &payrollRepository{repository{db: db}}
}

func (repo payrollRepository) selectSalaries() sq.SelectBuilder {
	return sq.Select(
		"s.id", "s.employee_id", "s.employee_type", "s.amount", "s.payment_date", "s.tax_information", "s.payment_period",
		"COALESCE("+fullName("t")+", "+fullName("ta")+") AS employee_name",
	).
		From("salary s").
		LeftJoin("teacher t ON s.employee_type = ? AND t.id = s.employee_id", payroll.EmployeeTeacher).
		LeftJoin("teaching_assistant ta ON s.employee_type = ? AND ta.id = s.employee_id", payroll.EmployeeAssistant)
}

func (repo payrollRepository) salaryValues(s payroll.Salary) map[string]interface{} {
	return map[string]interface{}{
		"employee_id":     s.EmployeeID,
		"employee_type":   s.EmployeeType,
		"amount":          s.Amount,
		"payment_date":    s.PaymentDate,
		"tax_information": s.TaxInformation,
		"payment_period":  s.PaymentPeriod,
	}
}

func (repo payrollRepository) CreateSalary(ctx context.Context, s payroll.Salary, exec ...core.DBExecutor) (payroll.Salary, error) {
	db := repo.getExec(exec)
	id, err := repo.insert(ctx, db, sq.Insert("salary").SetMap(repo.salaryValues(s)))
	if err != nil {
		return payroll.Salary{}, errors.Wrap(err, "inserting salary")
	}
	return repo.GetSalary(ctx, id, db)
}

func (repo payrollRepository) GetSalary(ctx context.Context, id int64, exec ...core.DBExecutor) (payroll.Salary, error) {
	var s payroll.Salary
	err := repo.get(ctx, repo.getExec(exec), &s, repo.selectSalaries().Where(sq.Eq{"s.id": id}))
	return s, trapNoRowsErr(err, payroll.ErrNotFound, "selecting salary")
}

func (repo payrollRepository) QuerySalaries(ctx context.Context, filter *payroll.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]payroll.Salary, error) {
	q := repo.selectSalaries()
	if filter != nil {
		filter.Clean()
		if filter.EmployeeType != "" {
			q = q.Where(sq.Eq{"s.employee_type": filter.EmployeeType})
		}
		if filter.EmployeeID != 0 {
			q = q.Where(sq.Eq{"s.employee_id": filter.EmployeeID})
		}
	}
	q = q.OrderBy(core.OrderBy(ordering, salaryOrderings, "s.payment_date DESC", "s.id DESC")...)

	salaries := make([]payroll.Salary, 0)
	if err := repo.selectAll(ctx, repo.getExec(exec), &salaries, q); err != nil {
		return nil, errors.Wrap(err, "selecting salaries")
	}
	return salaries, nil
}

func (repo payrollRepository) UpdateSalary(ctx context.Context, s payroll.Salary, exec ...core.DBExecutor) (payroll.Salary, error) {
	db := repo.getExec(exec)
	n, err := repo.run(ctx, db, sq.Update("salary").SetMap(repo.salaryValues(s)).Where(sq.Eq{"id": s.ID}))
	if err != nil {
		return payroll.Salary{}, errors.Wrap(err, "updating salary")
	}
	if n == 0 {
		return payroll.Salary{}, payroll.ErrNotFound
	}
	return repo.GetSalary(ctx, s.ID, db)
}

func (repo payrollRepository) DeleteSalary(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	n, err := repo.run(ctx, repo.getExec(exec), sq.Delete("salary").Where(sq.Eq{"id": id}))
	if err != nil {
		return errors.Wrap(err, "deleting salary")
	}
	if n == 0 {
		return payroll.ErrNotFound
	}
	return nil
}

func (repo payrollRepository) EmployeeExists(ctx context.Context, typ payroll.EmployeeType, id int64, exec ...core.DBExecutor) (bool, error) {
	table, ok := employeeTables[typ]
	if !ok {
		return false, nil
	}
	n, err := repo.count(ctx, repo.getExec(exec), sq.Select().From(table).Where(sq.Eq{"id": id}))
	return n > 0, errors.Wrap(err, "checking employee")
}
