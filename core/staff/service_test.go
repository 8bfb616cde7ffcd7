package staff_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/class"
	"github.com/hsandamith/School-Management-System/core/staff"
	"github.com/hsandamith/School-Management-System/storage/database/dbtest"
	sqlxrepos "github.com/hsandamith/School-Management-System/storage/database/sqlx"
)

func contact(first, last string) staff.ContactForm {
	return staff.ContactForm{FirstName: first, LastName: last, PhoneNumber: "0161 496 0100", Email: " " + first + "@School.test"}
}

func TestBackgroundCheckForm(t *testing.T) {
	validate := core.NewValidator(core.NewTranslator())
	checked := core.NewDate(2024, time.January, 10)

	tests := []struct {
		name    string
		form    staff.TeacherForm
		wantErr bool
	}{
		{name: "pending needs no date", form: staff.TeacherForm{ContactForm: contact("a", "b"), AnnualSalary: 1}},
		{
			name: "complete with date",
			form: staff.TeacherForm{ContactForm: contact("a", "b"), AnnualSalary: 1,
				BackgroundCheckForm: staff.BackgroundCheckForm{BackgroundCheckStatus: "Complete", BackgroundCheckDate: &checked}},
		},
		{
			name: "failed without date",
			form: staff.TeacherForm{ContactForm: contact("a", "b"), AnnualSalary: 1,
				BackgroundCheckForm: staff.BackgroundCheckForm{BackgroundCheckStatus: staff.CheckFailed}},
			wantErr: true,
		},
		{
			name: "unknown status",
			form: staff.TeacherForm{ContactForm: contact("a", "b"), AnnualSalary: 1,
				BackgroundCheckForm: staff.BackgroundCheckForm{BackgroundCheckStatus: "cleared", BackgroundCheckDate: &checked}},
			wantErr: true,
		},
		{name: "no salary", form: staff.TeacherForm{ContactForm: contact("a", "b")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate(validate)
			if tt.wantErr {
				var vErrs validator.ValidationErrors
				assert.ErrorAs(t, err, &vErrs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	validate := core.NewValidator(core.NewTranslator())
	svc := staff.NewService(db, sqlxrepos.NewStaffRepository(db))
	classSvc := class.NewService(db, sqlxrepos.NewClassRepository(db))

	yearFive, err := classSvc.Create(ctx, class.NewClass{Name: class.YearFive, Capacity: 30})
	require.NoError(t, err)
	yearSix, err := classSvc.Create(ctx, class.NewClass{Name: class.YearSix, Capacity: 30})
	require.NoError(t, err)

	form := staff.TeacherForm{ContactForm: contact("Cerys", "Morgan"), AnnualSalary: core.MoneyFromMajor(34000), ClassID: yearFive.ID}
	require.NoError(t, form.Validate(validate))
	cerys, err := svc.CreateTeacher(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, "cerys@school.test", cerys.Email.String)
	assert.Equal(t, "Year Five", cerys.ClassName.String)
	assert.Equal(t, staff.CheckPending, cerys.BackgroundCheckStatus)

	t.Run("teachers", func(t *testing.T) {
		other := staff.TeacherForm{ContactForm: contact("Dylan", "Ashby"), AnnualSalary: core.MoneyFromMajor(30000), ClassID: yearFive.ID}
		_, err := svc.CreateTeacher(ctx, other)
		assert.ErrorIs(t, err, staff.ErrClassTaken)

		other.ClassID = 999
		_, err = svc.CreateTeacher(ctx, other)
		assert.ErrorIs(t, err, staff.ErrClassNotFound)

		other.ClassID = 0
		dylan, err := svc.CreateTeacher(ctx, other)
		require.NoError(t, err)
		assert.False(t, dylan.ClassID.Valid)

		// keeping your own class is not a clash
		form.AnnualSalary = core.MoneyFromMajor(35000)
		cerys, err = svc.UpdateTeacher(ctx, cerys.ID, form)
		require.NoError(t, err)
		assert.Equal(t, core.MoneyFromMajor(35000), cerys.AnnualSalary)

		teachers, err := svc.QueryTeachers(ctx, nil, nil)
		require.NoError(t, err)
		require.Len(t, teachers, 2)
		assert.Equal(t, "Ashby", teachers[0].LastName)

		teachers, err = svc.QueryTeachers(ctx, &staff.QueryFilter{ClassID: yearFive.ID}, nil)
		require.NoError(t, err)
		require.Len(t, teachers, 1)
		assert.Equal(t, cerys.ID, teachers[0].ID)

		require.NoError(t, svc.DeleteTeacher(ctx, dylan.ID))
		_, err = svc.GetTeacher(ctx, dylan.ID)
		assert.Equal(t, staff.ErrTeacherNotFound, err)
	})

	t.Run("teaching assistants", func(t *testing.T) {
		taForm := staff.TeachingAssistantForm{
			ContactForm: contact("Ffion", "Rees"),
			HourlyRate:  core.Money(1175),
			ClassIDs:    []int64{yearSix.ID, yearFive.ID, yearSix.ID},
		}
		require.NoError(t, taForm.Validate(validate))
		assert.Equal(t, []int64{yearSix.ID, yearFive.ID}, taForm.ClassIDs)

		ta, err := svc.CreateAssistant(ctx, taForm)
		require.NoError(t, err)
		assert.Len(t, ta.Classes, 2)

		tas, err := svc.QueryAssistants(ctx, &staff.QueryFilter{ClassID: yearSix.ID}, nil)
		require.NoError(t, err)
		require.Len(t, tas, 1)

		bad := taForm
		bad.ClassIDs = []int64{yearSix.ID, 999}
		_, err = svc.UpdateAssistant(ctx, ta.ID, bad)
		assert.ErrorIs(t, err, staff.ErrClassNotFound)

		// the failed update changed nothing
		got, err := svc.GetAssistant(ctx, ta.ID)
		require.NoError(t, err)
		assert.Len(t, got.Classes, 2)

		// deleting a class drops the assignment
		require.NoError(t, classSvc.Delete(ctx, yearSix.ID))
		got, err = svc.GetAssistant(ctx, ta.ID)
		require.NoError(t, err)
		require.Len(t, got.Classes, 1)
		assert.Equal(t, "Year Five", got.Classes[0].Name)

		require.NoError(t, svc.DeleteAssistant(ctx, ta.ID))
		assert.Equal(t, staff.ErrAssistantNotFound, svc.DeleteAssistant(ctx, ta.ID))
	})
}
