package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/pupil"
)

var pupilOrderings = map[string]string{
	"id":              "p.id",
	"first_name":      "p.first_name",
	"last_name":       "p.last_name",
	"date_of_birth":   "p.date_of_birth",
	"enrollment_date": "p.enrollment_date",
	"class_name":      "c.name",
}

type pupilRepository struct {
	repository
}

var _ pupil.Repository = (*pupilRepository)(nil) // interface compliance check

func NewPupilRepository(db core.DBExecutor) *pupilRepository {
	return &pupilRepository{repository{db: db}}
}

func (repo pupilRepository) CreateRegistration(ctx context.Context, reg pupil.Registration, exec ...core.DBExecutor) (pupil.Registration, error) {
	db := repo.getExec(exec)
	id, err := repo.insert(ctx, db, sq.Insert("school_registration").
		Columns("registration_date", "status", "application_form_reference", "interview_date", "enrollment_date").
		Values(reg.RegistrationDate, reg.Status, reg.ApplicationFormReference, reg.InterviewDate, reg.EnrollmentDate))
	if err != nil {
		return pupil.Registration{}, errors.Wrap(err, "inserting registration")
	}
	return repo.GetRegistration(ctx, id, db)
}

func (repo pupilRepository) GetRegistration(ctx context.Context, id int64, exec ...core.DBExecutor) (pupil.Registration, error) {
	var reg pupil.Registration
	q := sq.Select("id", "registration_date", "status", "application_form_reference", "interview_date", "enrollment_date").
		From("school_registration").
		Where(sq.Eq{"id": id})
	err := repo.get(ctx, repo.getExec(exec), &reg, q)
	return reg, trapNoRowsErr(err, pupil.ErrRegistrationNotFound, "selecting registration")
}

func (repo pupilRepository) UpdateRegistration(ctx context.Context, reg pupil.Registration, exec ...core.DBExecutor) (pupil.Registration, error) {
	db := repo.getExec(exec)
	n, err := repo.run(ctx, db, sq.Update("school_registration").
		SetMap(map[string]interface{}{
			"registration_date":          reg.RegistrationDate,
			"status":                     reg.Status,
			"application_form_reference": reg.ApplicationFormReference,
			"interview_date":             reg.InterviewDate,
			"enrollment_date":            reg.EnrollmentDate,
		}).
		Where(sq.Eq{"id": reg.ID}))
	if err != nil {
		return pupil.Registration{}, errors.Wrap(err, "updating registration")
	}
	if n == 0 {
		return pupil.Registration{}, pupil.ErrRegistrationNotFound
	}
	return repo.GetRegistration(ctx, reg.ID, db)
}

func (repo pupilRepository) selectPupils() sq.SelectBuilder {
	return sq.Select(
		"p.id", "p.first_name", "p.last_name", "p.date_of_birth", "p.address", "p.medical_information",
		"p.enrollment_date", "p.dinner_money_balance", "p.class_id", "p.registration_id",
		"c.name AS class_name", "r.status AS registration_status",
	).
		From("pupil p").
		Join("class c ON c.id = p.class_id").
		Join("school_registration r ON r.id = p.registration_id")
}

func (repo pupilRepository) CreatePupil(ctx context.Context, p pupil.Pupil, exec ...core.DBExecutor) (pupil.Pupil, error) {
	db := repo.getExec(exec)
	id, err := repo.insert(ctx, db, sq.Insert("pupil").
		Columns(
			"first_name", "last_name", "date_of_birth", "address", "medical_information",
			"enrollment_date", "dinner_money_balance", "class_id", "registration_id",
		).
		Values(
			p.FirstName, p.LastName, p.DateOfBirth, p.Address, p.MedicalInformation,
			p.EnrollmentDate, p.DinnerMoneyBalance, p.ClassID, p.RegistrationID,
		))
	if err != nil {
		return pupil.Pupil{}, errors.Wrap(err, "inserting pupil")
	}
	return repo.GetPupil(ctx, id, db)
}

func (repo pupilRepository) GetPupil(ctx context.Context, id int64, exec ...core.DBExecutor) (pupil.Pupil, error) {
	var p pupil.Pupil
	err := repo.get(ctx, repo.getExec(exec), &p, repo.selectPupils().Where(sq.Eq{"p.id": id}))
	return p, trapNoRowsErr(err, pupil.ErrNotFound, "selecting pupil")
}

func (repo pupilRepository) QueryPupils(ctx context.Context, filter *pupil.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]pupil.Pupil, error) {
	q := repo.selectPupils()
	if filter != nil {
		filter.Clean()
		if filter.Search != "" {
			pattern := contains(filter.Search)
			q = q.Where(sq.Or{
				sq.Expr("LOWER(p.first_name) LIKE ?", pattern),
				sq.Expr("LOWER(p.last_name) LIKE ?", pattern),
			})
		}
		if filter.ClassID != 0 {
			q = q.Where(sq.Eq{"p.class_id": filter.ClassID})
		}
	}
	q = q.OrderBy(core.OrderBy(ordering, pupilOrderings, "p.last_name ASC", "p.first_name ASC")...)

	pupils := make([]pupil.Pupil, 0)
	if err := repo.selectAll(ctx, repo.getExec(exec), &pupils, q); err != nil {
		return nil, errors.Wrap(err, "selecting pupils")
	}
	return pupils, nil
}

func (repo pupilRepository) UpdatePupil(ctx context.Context, p pupil.Pupil, exec ...core.DBExecutor) (pupil.Pupil, error) {
	db := repo.getExec(exec)
	n, err := repo.run(ctx, db, sq.Update("pupil").
		SetMap(map[string]interface{}{
			"first_name":           p.FirstName,
			"last_name":            p.LastName,
			"date_of_birth":        p.DateOfBirth,
			"address":              p.Address,
			"medical_information":  p.MedicalInformation,
			"enrollment_date":      p.EnrollmentDate,
			"dinner_money_balance": p.DinnerMoneyBalance,
			"class_id":             p.ClassID,
		}).
		Where(sq.Eq{"id": p.ID}))
	if err != nil {
		return pupil.Pupil{}, errors.Wrap(err, "updating pupil")
	}
	if n == 0 {
		return pupil.Pupil{}, pupil.ErrNotFound
	}
	return repo.GetPupil(ctx, p.ID, db)
}

func (repo pupilRepository) DeletePupil(ctx context.Context, p pupil.Pupil, exec ...core.DBExecutor) error {
	db := repo.getExec(exec)
	stmts := []struct {
		q   sq.Sqlizer
		msg string
	}{
		{sq.Delete("book_checkout_record").Where("pupil_id = ? AND return_date IS NOT NULL", p.ID), "deleting checkout history"},
		{sq.Delete("pupil_parent_guardian").Where(sq.Eq{"pupil_id": p.ID}), "unlinking parent/guardians"},
		{sq.Delete("pupil").Where(sq.Eq{"id": p.ID}), "deleting pupil"},
		{sq.Delete("school_registration").Where(sq.Eq{"id": p.RegistrationID}), "deleting registration"},
	}
	for _, stmt := range stmts {
		if _, err := repo.run(ctx, db, stmt.q); err != nil {
			return errors.Wrap(err, stmt.msg)
		}
	}
	return nil
}

func (repo pupilRepository) GetClassOccupancy(ctx context.Context, classID int64, exec ...core.DBExecutor) (pupil.Occupancy, error) {
	db := repo.getExec(exec)
	q := sq.Select("c.capacity", "(SELECT COUNT(*) FROM pupil p WHERE p.class_id = c.id) AS enrolled").
		From("class c").
		Where(sq.Eq{"c.id": classID})
	if lock := lockClause(db); lock != "" {
		q = q.Suffix(lock)
	}

	var occ pupil.Occupancy
	err := repo.get(ctx, db, &occ, q)
	return occ, trapNoRowsErr(err, pupil.ErrClassNotFound, "selecting class occupancy")
}

func (repo pupilRepository) CountOpenCheckouts(ctx context.Context, pupilID int64, exec ...core.DBExecutor) (int, error) {
	n, err := repo.count(ctx, repo.getExec(exec), sq.Select().
		From("book_checkout_record").
		Where("pupil_id = ? AND return_date IS NULL", pupilID))
	return n, errors.Wrap(err, "counting open checkouts")
}

func (repo pupilRepository) LinkGuardian(ctx context.Context, pupilID, guardianID int64, relationship string, exec ...core.DBExecutor) error {
	_, err := repo.run(ctx, repo.getExec(exec), sq.Insert("pupil_parent_guardian").
		Columns("pupil_id", "parent_guardian_id", "relationship_type").
		Values(pupilID, guardianID, relationship))
	return errors.Wrap(err, "linking parent/guardian")
}

func (repo pupilRepository) UnlinkGuardians(ctx context.Context, pupilID int64, exec ...core.DBExecutor) error {
	_, err := repo.run(ctx, repo.getExec(exec), sq.Delete("pupil_parent_guardian").Where(sq.Eq{"pupil_id": pupilID}))
	return errors.Wrap(err, "unlinking parent/guardians")
}

func (repo pupilRepository) QueryLinkedGuardians(ctx context.Context, pupilID int64, exec ...core.DBExecutor) ([]pupil.LinkedGuardian, error) {
	columns := append(guardianColumns[:len(guardianColumns):len(guardianColumns)], "ppg.relationship_type")
	q := sq.Select(columns...).
		From("pupil_parent_guardian ppg").
		Join("parent_guardian g ON g.id = ppg.parent_guardian_id").
		Where(sq.Eq{"ppg.pupil_id": pupilID}).
		OrderBy("g.last_name ASC", "g.first_name ASC")

	guardians := make([]pupil.LinkedGuardian, 0)
	if err := repo.selectAll(ctx, repo.getExec(exec), &guardians, q); err != nil {
		return nil, errors.Wrap(err, "selecting linked parent/guardians")
	}
	return guardians, nil
}
