package dashboard

import (
	"context"

	"github.com/kat-co/vala"

	"github.com/hsandamith/School-Management-System/core"
)

const recentPupilsLimit = 5

// Counts are the headline totals shown on the dashboard.
type Counts struct {
	Teachers         int `json:"teachers" db:"teachers"`
	Classes          int `json:"classes" db:"classes"`
	Pupils           int `json:"pupils" db:"pupils"`
	Guardians        int `json:"guardians" db:"guardians"`
	BooksOnLoan      int `json:"books_on_loan" db:"books_on_loan"`
	OverdueCheckouts int `json:"overdue_checkouts" db:"overdue_checkouts"`
}

// RecentPupil is a newly enrolled pupil.
type RecentPupil struct {
	ID             int64     `json:"id" db:"id"`
	FirstName      string    `json:"first_name" db:"first_name"`
	LastName       string    `json:"last_name" db:"last_name"`
	ClassName      string    `json:"class_name" db:"class_name"`
	EnrollmentDate core.Date `json:"enrollment_date" db:"enrollment_date"`
}

type Summary struct {
	Counts
	RecentPupils []RecentPupil `json:"recent_pupils"`
}

type (
	Repository interface {
		// Counts computes the totals; checkouts open past today are overdue.
		Counts(ctx context.Context, today core.Date, exec ...core.DBExecutor) (Counts, error)
		// RecentPupils returns the latest enrollments, newest first.
		RecentPupils(ctx context.Context, limit int, exec ...core.DBExecutor) ([]RecentPupil, error)
	}

	ServiceInterface interface {
		Summary(ctx context.Context) (Summary, error)
	}

	Service struct {
		conf *core.Config
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(conf *core.Config, repo Repository) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(conf, "conf"),
		vala.IsNotNil(repo, "repo"),
	).CheckAndPanic()

	return &Service{conf: conf, repo: repo}
}

func (svc *Service) Summary(ctx context.Context) (Summary, error) {
	counts, err := svc.repo.Counts(ctx, core.Today(core.NowFunc(), svc.conf.Location()))
	if err != nil {
		return Summary{}, err
	}
	recent, err := svc.repo.RecentPupils(ctx, recentPupilsLimit)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Counts: counts, RecentPupils: recent}, nil
}
