package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/class"
)

var classOrderings = map[string]string{
	"id":          "c.id",
	"name":        "c.name",
	"capacity":    "c.capacity",
	"pupil_count": "pupil_count",
}

type classRepository struct {
	repository
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db core.DBExecutor) *classRepository {
	return &classRepository{repository{db: db}}
}

func (repo classRepository) selectClasses() sq.SelectBuilder {
	return sq.Select(
		"c.id", "c.name", "c.capacity",
		"(SELECT COUNT(*) FROM pupil p WHERE p.class_id = c.id) AS pupil_count",
		"t.id AS teacher_id",
		fullName("t")+" AS teacher_name",
	).
		From("class c").
		LeftJoin("teacher t ON t.class_id = c.id")
}

func (repo classRepository) CreateClass(ctx context.Context, cls class.Class, exec ...core.DBExecutor) (class.Class, error) {
	db := repo.getExec(exec)
	id, err := repo.insert(ctx, db, sq.Insert("class").
		Columns("name", "capacity").
		Values(cls.Name, cls.Capacity))
	if err != nil {
		return class.Class{}, errors.Wrap(err, "inserting class")
	}
	return repo.GetClass(ctx, id, db)
}

func (repo classRepository) GetClass(ctx context.Context, id int64, exec ...core.DBExecutor) (class.Class, error) {
	var cls class.Class
	err := repo.get(ctx, repo.getExec(exec), &cls, repo.selectClasses().Where(sq.Eq{"c.id": id}))
	return cls, trapNoRowsErr(err, class.ErrNotFound, "selecting class")
}

func (repo classRepository) QueryClasses(ctx context.Context, filter *class.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]class.Class, error) {
	q := repo.selectClasses()
	if filter != nil {
		filter.Clean()
		if filter.Search != "" {
			q = q.Where("LOWER(c.name) LIKE ?", contains(filter.Search))
		}
		if filter.WithoutTeacher {
			q = q.Where("t.id IS NULL")
		}
	}
	q = q.OrderBy(core.OrderBy(ordering, classOrderings, "c.id ASC")...)

	classes := make([]class.Class, 0)
	if err := repo.selectAll(ctx, repo.getExec(exec), &classes, q); err != nil {
		return nil, errors.Wrap(err, "selecting classes")
	}
	return classes, nil
}

func (repo classRepository) UpdateClass(ctx context.Context, cls class.Class, exec ...core.DBExecutor) (class.Class, error) {
	db := repo.getExec(exec)
	n, err := repo.run(ctx, db, sq.Update("class").
		Set("name", cls.Name).
		Set("capacity", cls.Capacity).
		Where(sq.Eq{"id": cls.ID}))
	if err != nil {
		return class.Class{}, errors.Wrap(err, "updating class")
	}
	if n == 0 {
		return class.Class{}, class.ErrNotFound
	}
	return repo.GetClass(ctx, cls.ID, db)
}

func (repo classRepository) DeleteClass(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	db := repo.getExec(exec)
	if _, err := repo.run(ctx, db, sq.Update("teacher").Set("class_id", nil).Where(sq.Eq{"class_id": id})); err != nil {
		return errors.Wrap(err, "unassigning class teacher")
	}
	if _, err := repo.run(ctx, db, sq.Delete("class_teaching_assistant").Where(sq.Eq{"class_id": id})); err != nil {
		return errors.Wrap(err, "removing class teaching assistants")
	}
	n, err := repo.run(ctx, db, sq.Delete("class").Where(sq.Eq{"id": id}))
	if err != nil {
		return errors.Wrap(err, "deleting class")
	}
	if n == 0 {
		return class.ErrNotFound
	}
	return nil
}
