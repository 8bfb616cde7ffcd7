package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/guardian"
)

var guardianColumns = []string{
	"g.id", "g.first_name", "g.last_name", "g.address", "g.phone_number", "g.email", "g.relationship_to_pupil",
	"(SELECT COUNT(*) FROM pupil_parent_guardian l WHERE l.parent_guardian_id = g.id) AS pupil_count",
}

var guardianOrderings = map[string]string{
	"id":         "g.id",
	"first_name": "g.first_name",
	"last_name":  "g.last_name",
	"email":      "g.email",
}

type guardianRepository struct {
	repository
}

var _ guardian.Repository = (*guardianRepository)(nil) // interface compliance check

func NewGuardianRepository(db core.DBExecutor) *guardianRepository {
	return &guardianRepository{repository{db: db}}
}

func (repo guardianRepository) CreateGuardian(ctx context.Context, g guardian.Guardian, exec ...core.DBExecutor) (guardian.Guardian, error) {
	db := repo.getExec(exec)
	id, err := repo.insert(ctx, db, sq.Insert("parent_guardian").
		Columns("first_name", "last_name", "address", "phone_number", "email", "relationship_to_pupil").
		Values(g.FirstName, g.LastName, g.Address, g.PhoneNumber, g.Email, g.RelationshipToPupil))
	if err != nil {
		return guardian.Guardian{}, errors.Wrap(err, "inserting parent/guardian")
	}
	return repo.GetGuardian(ctx, id, db)
}

func (repo guardianRepository) GetGuardian(ctx context.Context, id int64, exec ...core.DBExecutor) (guardian.Guardian, error) {
	var g guardian.Guardian
	q := sq.Select(guardianColumns...).From("parent_guardian g").Where(sq.Eq{"g.id": id})
	err := repo.get(ctx, repo.getExec(exec), &g, q)
	return g, trapNoRowsErr(err, guardian.ErrNotFound, "selecting parent/guardian")
}

func (repo guardianRepository) QueryGuardians(ctx context.Context, filter *guardian.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]guardian.Guardian, error) {
	q := sq.Select(guardianColumns...).From("parent_guardian g")
	if filter != nil {
		filter.Clean()
		if filter.Search != "" {
			pattern := contains(filter.Search)
			q = q.Where(sq.Or{
				sq.Expr("LOWER(g.first_name) LIKE ?", pattern),
				sq.Expr("LOWER(g.last_name) LIKE ?", pattern),
				sq.Expr("LOWER(g.email) LIKE ?", pattern),
				sq.Expr("g.phone_number LIKE ?", pattern),
			})
		}
		if filter.PupilID != 0 {
			q = q.Where("g.id IN (SELECT parent_guardian_id FROM pupil_parent_guardian WHERE pupil_id = ?)", filter.PupilID)
		}
	}
	q = q.OrderBy(core.OrderBy(ordering, guardianOrderings, "g.last_name ASC", "g.first_name ASC")...)

	guardians := make([]guardian.Guardian, 0)
	if err := repo.selectAll(ctx, repo.getExec(exec), &guardians, q); err != nil {
		return nil, errors.Wrap(err, "selecting parent/guardians")
	}
	return guardians, nil
}

func (repo guardianRepository) UpdateGuardian(ctx context.Context, g guardian.Guardian, exec ...core.DBExecutor) (guardian.Guardian, error) {
	db := repo.getExec(exec)
	n, err := repo.run(ctx, db, sq.Update("parent_guardian").
		SetMap(map[string]interface{}{
			"first_name":            g.FirstName,
			"last_name":             g.LastName,
			"address":               g.Address,
			"phone_number":          g.PhoneNumber,
			"email":                 g.Email,
			"relationship_to_pupil": g.RelationshipToPupil,
		}).
		Where(sq.Eq{"id": g.ID}))
	if err != nil {
		return guardian.Guardian{}, errors.Wrap(err, "updating parent/guardian")
	}
	if n == 0 {
		return guardian.Guardian{}, guardian.ErrNotFound
	}
	return repo.GetGuardian(ctx, g.ID, db)
}

func (repo guardianRepository) DeleteGuardian(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	db := repo.getExec(exec)
	if _, err := repo.run(ctx, db, sq.Delete("pupil_parent_guardian").Where(sq.Eq{"parent_guardian_id": id})); err != nil {
		return errors.Wrap(err, "unlinking parent/guardian")
	}
	n, err := repo.run(ctx, db, sq.Delete("parent_guardian").Where(sq.Eq{"id": id}))
	if err != nil {
		return errors.Wrap(err, "deleting parent/guardian")
	}
	if n == 0 {
		return guardian.ErrNotFound
	}
	return nil
}
