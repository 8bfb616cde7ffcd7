package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/dashboard"
)

type dashboardRepository struct {
	repository
}

var _ dashboard.Repository = (*dashboardRepository)(nil) // interface compliance check

func NewDashboardRepository(db core.DBExecutor) *dashboardRepository {
	return &dashboardRepository{repository{db: db}}
}

func (repo dashboardRepository) Counts(ctx context.Context, today core.Date, exec ...core.DBExecutor) (dashboard.Counts, error) {
	q := sq.Select(
		"(SELECT COUNT(*) FROM teacher) AS teachers",
		"(SELECT COUNT(*) FROM class) AS classes",
		"(SELECT COUNT(*) FROM pupil) AS pupils",
		"(SELECT COUNT(*) FROM parent_guardian) AS guardians",
		"(SELECT COUNT(*) FROM book_checkout_record WHERE return_date IS NULL) AS books_on_loan",
	).
		Column("(SELECT COUNT(*) FROM book_checkout_record WHERE return_date IS NULL AND due_date < ?) AS overdue_checkouts", today)

	var counts dashboard.Counts
	err := repo.get(ctx, repo.getExec(exec), &counts, q)
	return counts, errors.Wrap(err, "counting dashboard totals")
}

func (repo dashboardRepository) RecentPupils(ctx context.Context, limit int, exec ...core.DBExecutor) ([]dashboard.RecentPupil, error) {
	q := sq.Select("p.id", "p.first_name", "p.last_name", "c.name AS class_name", "p.enrollment_date").
		From("pupil p").
		Join("class c ON c.id = p.class_id").
		OrderBy("p.enrollment_date DESC", "p.id DESC").
		Limit(uint64(limit))

	pupils := make([]dashboard.RecentPupil, 0, limit)
	if err := repo.selectAll(ctx, repo.getExec(exec), &pupils, q); err != nil {
		return nil, errors.Wrap(err, "selecting recent pupils")
	}
	return pupils, nil
}
