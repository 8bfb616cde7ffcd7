package staff

import (
	"context"
	"errors"

	"github.com/kat-co/vala"

	"github.com/hsandamith/School-Management-System/core"
)

var (
	// errors
	ErrTeacherNotFound   = core.NewNotFoundError("teacher")
	ErrAssistantNotFound = core.NewNotFoundError("teaching assistant")
	ErrClassNotFound     = errors.New("class does not exist")
	ErrClassTaken        = errors.New("class already has a teacher")
)

type (
	Repository interface {
		CreateTeacher(ctx context.Context, t Teacher, exec ...core.DBExecutor) (Teacher, error)
		GetTeacher(ctx context.Context, id int64, exec ...core.DBExecutor) (Teacher, error)
		// QueryTeachers left-joins the class name and orders by last name then first name by default.
		QueryTeachers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Teacher, error)
		UpdateTeacher(ctx context.Context, t Teacher, exec ...core.DBExecutor) (Teacher, error)
		DeleteTeacher(ctx context.Context, id int64, exec ...core.DBExecutor) error
		// ClassTeacherID returns the id of the teacher assigned to the class, if any.
		ClassTeacherID(ctx context.Context, classID int64, exec ...core.DBExecutor) (int64, bool, error)

		CreateAssistant(ctx context.Context, ta TeachingAssistant, exec ...core.DBExecutor) (TeachingAssistant, error)
		GetAssistant(ctx context.Context, id int64, exec ...core.DBExecutor) (TeachingAssistant, error)
		QueryAssistants(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]TeachingAssistant, error)
		UpdateAssistant(ctx context.Context, ta TeachingAssistant, exec ...core.DBExecutor) (TeachingAssistant, error)
		// DeleteAssistant removes the assistant's class assignments, then the assistant.
		DeleteAssistant(ctx context.Context, id int64, exec ...core.DBExecutor) error
		// SetAssistantClasses replaces the assistant's class assignments.
		SetAssistantClasses(ctx context.Context, assistantID int64, classIDs []int64, exec ...core.DBExecutor) error

		CountClasses(ctx context.Context, classIDs []int64, exec ...core.DBExecutor) (int, error)
	}

	ServiceInterface interface {
		CreateTeacher(ctx context.Context, form TeacherForm) (Teacher, error)
		GetTeacher(ctx context.Context, id int64) (Teacher, error)
		QueryTeachers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Teacher, error)
		UpdateTeacher(ctx context.Context, id int64, form TeacherForm) (Teacher, error)
		DeleteTeacher(ctx context.Context, id int64) error

		CreateAssistant(ctx context.Context, form TeachingAssistantForm) (TeachingAssistant, error)
		GetAssistant(ctx context.Context, id int64) (TeachingAssistant, error)
		QueryAssistants(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]TeachingAssistant, error)
		UpdateAssistant(ctx context.Context, id int64, form TeachingAssistantForm) (TeachingAssistant, error)
		DeleteAssistant(ctx context.Context, id int64) error
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

// checkClasses verifies that every class exists.
func (svc *Service) checkClasses(ctx context.Context, field string, classIDs []int64, tx core.DBExecutor) error {
	if len(classIDs) == 0 {
		return nil
	}
	n, err := svc.repo.CountClasses(ctx, classIDs, tx)
	if err != nil {
		return err
	}
	if n != len(classIDs) {
		return core.NewRuleError(ErrClassNotFound, field)
	}
	return nil
}

// checkClassFree rejects a class that already has a teacher other than teacherID.
func (svc *Service) checkClassFree(ctx context.Context, classID, teacherID int64, tx core.DBExecutor) error {
	if classID == 0 {
		return nil
	}
	if err := svc.checkClasses(ctx, "class_id", []int64{classID}, tx); err != nil {
		return err
	}
	current, ok, err := svc.repo.ClassTeacherID(ctx, classID, tx)
	if err != nil {
		return err
	}
	if ok && current != teacherID {
		return core.NewRuleError(ErrClassTaken, "class_id")
	}
	return nil
}

func (svc *Service) CreateTeacher(ctx context.Context, form TeacherForm) (Teacher, error) {
	var created Teacher
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if err := svc.checkClassFree(ctx, form.ClassID, 0, tx); err != nil {
			return err
		}
		t, err := svc.repo.CreateTeacher(ctx, form.teacher(), tx)
		if err != nil {
			return err
		}
		created, err = svc.repo.GetTeacher(ctx, t.ID, tx)
		return err
	})
	return created, core.SaveFailed("creating teacher", err)
}

func (svc *Service) GetTeacher(ctx context.Context, id int64) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, id)
}

func (svc *Service) QueryTeachers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx, filter, ordering)
}

func (svc *Service) UpdateTeacher(ctx context.Context, id int64, form TeacherForm) (Teacher, error) {
	var updated Teacher
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		orig, err := svc.repo.GetTeacher(ctx, id, tx)
		if err != nil {
			return err
		}
		if err = svc.checkClassFree(ctx, form.ClassID, orig.ID, tx); err != nil {
			return err
		}
		t := form.teacher()
		t.ID = orig.ID
		if _, err = svc.repo.UpdateTeacher(ctx, t, tx); err != nil {
			return err
		}
		updated, err = svc.repo.GetTeacher(ctx, orig.ID, tx)
		return err
	})
	return updated, core.SaveFailed("updating teacher", err)
}

func (svc *Service) DeleteTeacher(ctx context.Context, id int64) error {
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if _, err := svc.repo.GetTeacher(ctx, id, tx); err != nil {
			return err
		}
		return svc.repo.DeleteTeacher(ctx, id, tx)
	})
	return core.SaveFailed("deleting teacher", err)
}

// CreateAssistant inserts the assistant and its class assignments in one transaction.
func (svc *Service) CreateAssistant(ctx context.Context, form TeachingAssistantForm) (TeachingAssistant, error) {
	var created TeachingAssistant
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if err := svc.checkClasses(ctx, "class_ids", form.ClassIDs, tx); err != nil {
			return err
		}
		ta, err := svc.repo.CreateAssistant(ctx, form.assistant(), tx)
		if err != nil {
			return err
		}
		if err = svc.repo.SetAssistantClasses(ctx, ta.ID, form.ClassIDs, tx); err != nil {
			return err
		}
		created, err = svc.repo.GetAssistant(ctx, ta.ID, tx)
		return err
	})
	return created, core.SaveFailed("creating teaching assistant", err)
}

func (svc *Service) GetAssistant(ctx context.Context, id int64) (TeachingAssistant, error) {
	return svc.repo.GetAssistant(ctx, id)
}

func (svc *Service) QueryAssistants(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]TeachingAssistant, error) {
	return svc.repo.QueryAssistants(ctx, filter, ordering)
}

// UpdateAssistant rewrites the assistant and replaces its class assignments in one transaction.
func (svc *Service) UpdateAssistant(ctx context.Context, id int64, form TeachingAssistantForm) (TeachingAssistant, error) {
	var updated TeachingAssistant
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		orig, err := svc.repo.GetAssistant(ctx, id, tx)
		if err != nil {
			return err
		}
		if err = svc.checkClasses(ctx, "class_ids", form.ClassIDs, tx); err != nil {
			return err
		}
		ta := form.assistant()
		ta.ID = orig.ID
		if _, err = svc.repo.UpdateAssistant(ctx, ta, tx); err != nil {
			return err
		}
		if err = svc.repo.SetAssistantClasses(ctx, orig.ID, form.ClassIDs, tx); err != nil {
			return err
		}
		updated, err = svc.repo.GetAssistant(ctx, orig.ID, tx)
		return err
	})
	return updated, core.SaveFailed("updating teaching assistant", err)
}

func (svc *Service) DeleteAssistant(ctx context.Context, id int64) error {
	err := core.InTx(ctx, svc.db, func(tx core.DBExecutor) error {
		if _, err := svc.repo.GetAssistant(ctx, id, tx); err != nil {
			return err
		}
		return svc.repo.DeleteAssistant(ctx, id, tx)
	})
	return core.SaveFailed("deleting teaching assistant", err)
}
