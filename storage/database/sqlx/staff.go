package sqlxrepos

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/staff"
	"github.com/hsandamith/School-Management-System/storage/database"
)

var staffOrderings = map[string]string{
	"id":         "s.id",
	"first_name": "s.first_name",
	"last_name":  "s.last_name",
	"email":      "s.email",
}

var teacherOrderings = map[string]string{
	"id":            "s.id",
	"first_name":    "s.first_name",
	"last_name":     "s.last_name",
	"email":         "s.email",
	"annual_salary": "s.annual_salary",
	"class_name":    "c.name",
}

type staffRepository struct {
	repository
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db core.DBExecutor) *staffRepository {
	return &staffRepository{repository{db: db}}
}

func contactValues(c staff.Contact, check staff.BackgroundCheck) map[string]interface{} {
	return map[string]interface{}{
		"first_name":              c.FirstName,
		"last_name":               c.LastName,
		"address":                 c.Address,
		"phone_number":            c.PhoneNumber,
		"email":                   c.Email,
		"background_check_status": check.BackgroundCheckStatus,
		"background_check_date":   check.BackgroundCheckDate,
	}
}

func searchStaff(q sq.SelectBuilder, search string) sq.SelectBuilder {
	if search == "" {
		return q
	}
	pattern := contains(search)
	return q.Where(sq.Or{
		sq.Expr("LOWER(s.first_name) LIKE ?", pattern),
		sq.Expr("LOWER(s.last_name) LIKE ?", pattern),
		sq.Expr("LOWER(s.email) LIKE ?", pattern),
	})
}

// trapClassTakenErr turns a lost race on the teacher.class_id unique index into staff.ErrClassTaken.
func trapClassTakenErr(err error, msg string) error {
	if database.IsUniqueViolation(err) {
		return core.NewRuleError(staff.ErrClassTaken, "class_id")
	}
	return errors.Wrap(err, msg)
}

// teachers

func (repo staffRepository) selectTeachers() sq.SelectBuilder {
	return sq.Select(
		"s.id", "s.first_name", "s.last_name", "s.address", "s.phone_number", "s.email", "s.annual_salary",
		"s.background_check_status", "s.background_check_date", "s.class_id", "c.name AS class_name",
	).
		From("teacher s").
		LeftJoin("class c ON c.id = s.class_id")
}

func (repo staffRepository) CreateTeacher(ctx context.Context, t staff.Teacher, exec ...core.DBExecutor) (staff.Teacher, error) {
	db := repo.getExec(exec)
	values := contactValues(t.Contact, t.BackgroundCheck)
	values["annual_salary"] = t.AnnualSalary
	values["class_id"] = t.ClassID

	id, err := repo.insert(ctx, db, sq.Insert("teacher").SetMap(values))
	if err != nil {
		return staff.Teacher{}, trapClassTakenErr(err, "inserting teacher")
	}
	return repo.GetTeacher(ctx, id, db)
}

func (repo staffRepository) GetTeacher(ctx context.Context, id int64, exec ...core.DBExecutor) (staff.Teacher, error) {
	var t staff.Teacher
	err := repo.get(ctx, repo.getExec(exec), &t, repo.selectTeachers().Where(sq.Eq{"s.id": id}))
	return t, trapNoRowsErr(err, staff.ErrTeacherNotFound, "selecting teacher")
}

func (repo staffRepository) QueryTeachers(ctx context.Context, filter *staff.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]staff.Teacher, error) {
	q := repo.selectTeachers()
	if filter != nil {
		filter.Clean()
		q = searchStaff(q, filter.Search)
		if filter.ClassID != 0 {
			q = q.Where(sq.Eq{"s.class_id": filter.ClassID})
		}
	}
	q = q.OrderBy(core.OrderBy(ordering, teacherOrderings, "s.last_name ASC", "s.first_name ASC")...)

	teachers := make([]staff.Teacher, 0)
	if err := repo.selectAll(ctx, repo.getExec(exec), &teachers, q); err != nil {
		return nil, errors.Wrap(err, "selecting teachers")
	}
	return teachers, nil
}

func (repo staffRepository) UpdateTeacher(ctx context.Context, t staff.Teacher, exec ...core.DBExecutor) (staff.Teacher, error) {
	db := repo.getExec(exec)
	values := contactValues(t.Contact, t.BackgroundCheck)
	values["annual_salary"] = t.AnnualSalary
	values["class_id"] = t.ClassID

	n, err := repo.run(ctx, db, sq.Update("teacher").SetMap(values).Where(sq.Eq{"id": t.ID}))
	if err != nil {
		return staff.Teacher{}, trapClassTakenErr(err, "updating teacher")
	}
	if n == 0 {
		return staff.Teacher{}, staff.ErrTeacherNotFound
	}
	return repo.GetTeacher(ctx, t.ID, db)
}

func (repo staffRepository) DeleteTeacher(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	n, err := repo.run(ctx, repo.getExec(exec), sq.Delete("teacher").Where(sq.Eq{"id": id}))
	if err != nil {
		return errors.Wrap(err, "deleting teacher")
	}
	if n == 0 {
		return staff.ErrTeacherNotFound
	}
	return nil
}

func (repo staffRepository) ClassTeacherID(ctx context.Context, classID int64, exec ...core.DBExecutor) (int64, bool, error) {
	var id int64
	err := repo.get(ctx, repo.getExec(exec), &id, sq.Select("id").From("teacher").Where(sq.Eq{"class_id": classID}))
	if errors.Cause(err) == sql.ErrNoRows {
		return 0, false, nil
	} else if err != nil {
		return 0, false, errors.Wrap(err, "selecting class teacher")
	}
	return id, true, nil
}

// teaching assistants

type assignmentRow struct {
	AssistantID int64 `db:"teaching_assistant_id"`
	staff.AssignedClass
}

func (repo staffRepository) selectAssistants() sq.SelectBuilder {
	return sq.Select(
		"s.id", "s.first_name", "s.last_name", "s.address", "s.phone_number", "s.email", "s.hourly_rate",
		"s.background_check_status", "s.background_check_date",
	).
		From("teaching_assistant s")
}

// loadClasses fills in the class assignments of assistants.
func (repo staffRepository) loadClasses(ctx context.Context, db core.DBExecutor, assistants []staff.TeachingAssistant) error {
	if len(assistants) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(assistants))
	for _, ta := range assistants {
		ids = append(ids, ta.ID)
	}

	rows := make([]assignmentRow, 0)
	q := sq.Select("cta.teaching_assistant_id", "c.id", "c.name").
		From("class_teaching_assistant cta").
		Join("class c ON c.id = cta.class_id").
		Where(sq.Eq{"cta.teaching_assistant_id": ids}).
		OrderBy("c.id ASC")
	if err := repo.selectAll(ctx, db, &rows, q); err != nil {
		return errors.Wrap(err, "selecting class assignments")
	}

	byAssistant := make(map[int64][]staff.AssignedClass, len(assistants))
	for _, row := range rows {
		byAssistant[row.AssistantID] = append(byAssistant[row.AssistantID], row.AssignedClass)
	}
	for i := range assistants {
		classes := byAssistant[assistants[i].ID]
		if classes == nil {
			classes = make([]staff.AssignedClass, 0)
		}
		assistants[i].Classes = classes
	}
	return nil
}

func (repo staffRepository) CreateAssistant(ctx context.Context, ta staff.TeachingAssistant, exec ...core.DBExecutor) (staff.TeachingAssistant, error) {
	db := repo.getExec(exec)
	values := contactValues(ta.Contact, ta.BackgroundCheck)
	values["hourly_rate"] = ta.HourlyRate

	id, err := repo.insert(ctx, db, sq.Insert("teaching_assistant").SetMap(values))
	if err != nil {
		return staff.TeachingAssistant{}, errors.Wrap(err, "inserting teaching assistant")
	}
	return repo.GetAssistant(ctx, id, db)
}

func (repo staffRepository) GetAssistant(ctx context.Context, id int64, exec ...core.DBExecutor) (staff.TeachingAssistant, error) {
	db := repo.getExec(exec)
	var ta staff.TeachingAssistant
	err := repo.get(ctx, db, &ta, repo.selectAssistants().Where(sq.Eq{"s.id": id}))
	if err != nil {
		return ta, trapNoRowsErr(err, staff.ErrAssistantNotFound, "selecting teaching assistant")
	}
	assistants := []staff.TeachingAssistant{ta}
	if err = repo.loadClasses(ctx, db, assistants); err != nil {
		return staff.TeachingAssistant{}, err
	}
	return assistants[0], nil
}

func (repo staffRepository) QueryAssistants(ctx context.Context, filter *staff.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]staff.TeachingAssistant, error) {
	db := repo.getExec(exec)
	q := repo.selectAssistants()
	if filter != nil {
		filter.Clean()
		q = searchStaff(q, filter.Search)
		if filter.ClassID != 0 {
			q = q.Where("s.id IN (SELECT teaching_assistant_id FROM class_teaching_assistant WHERE class_id = ?)", filter.ClassID)
		}
	}
	q = q.OrderBy(core.OrderBy(ordering, staffOrderings, "s.last_name ASC", "s.first_name ASC")...)

	assistants := make([]staff.TeachingAssistant, 0)
	if err := repo.selectAll(ctx, db, &assistants, q); err != nil {
		return nil, errors.Wrap(err, "selecting teaching assistants")
	}
	if err := repo.loadClasses(ctx, db, assistants); err != nil {
		return nil, err
	}
	return assistants, nil
}

func (repo staffRepository) UpdateAssistant(ctx context.Context, ta staff.TeachingAssistant, exec ...core.DBExecutor) (staff.TeachingAssistant, error) {
	db := repo.getExec(exec)
	values := contactValues(ta.Contact, ta.BackgroundCheck)
	values["hourly_rate"] = ta.HourlyRate

	n, err := repo.run(ctx, db, sq.Update("teaching_assistant").SetMap(values).Where(sq.Eq{"id": ta.ID}))
	if err != nil {
		return staff.TeachingAssistant{}, errors.Wrap(err, "updating teaching assistant")
	}
	if n == 0 {
		return staff.TeachingAssistant{}, staff.ErrAssistantNotFound
	}
	return repo.GetAssistant(ctx, ta.ID, db)
}

func (repo staffRepository) DeleteAssistant(ctx context.Context, id int64, exec ...core.DBExecutor) error {
	db := repo.getExec(exec)
	if _, err := repo.run(ctx, db, sq.Delete("class_teaching_assistant").Where(sq.Eq{"teaching_assistant_id": id})); err != nil {
		return errors.Wrap(err, "removing class assignments")
	}
	n, err := repo.run(ctx, db, sq.Delete("teaching_assistant").Where(sq.Eq{"id": id}))
	if err != nil {
		return errors.Wrap(err, "deleting teaching assistant")
	}
	if n == 0 {
		return staff.ErrAssistantNotFound
	}
	return nil
}

func (repo staffRepository) SetAssistantClasses(ctx context.Context, assistantID int64, classIDs []int64, exec ...core.DBExecutor) error {
	db := repo.getExec(exec)
	if _, err := repo.run(ctx, db, sq.Delete("class_teaching_assistant").Where(sq.Eq{"teaching_assistant_id": assistantID})); err != nil {
		return errors.Wrap(err, "removing class assignments")
	}
	if len(classIDs) == 0 {
		return nil
	}

	q := sq.Insert("class_teaching_assistant").Columns("class_id", "teaching_assistant_id")
	for _, classID := range classIDs {
		q = q.Values(classID, assistantID)
	}
	_, err := repo.run(ctx, db, q)
	return errors.Wrap(err, "assigning classes")
}

func (repo staffRepository) CountClasses(ctx context.Context, classIDs []int64, exec ...core.DBExecutor) (int, error) {
	n, err := repo.count(ctx, repo.getExec(exec), sq.Select().From("class").Where(sq.Eq{"id": classIDs}))
	return n, errors.Wrap(err, "counting classes")
}
