package class_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsandamith/School-Management-System/core"
	"github.com/hsandamith/School-Management-System/core/class"
	"github.com/hsandamith/School-Management-System/core/pupil"
	"github.com/hsandamith/School-Management-System/core/staff"
	emailsvc "github.com/hsandamith/School-Management-System/services/email"
	logsvc "github.com/hsandamith/School-Management-System/services/logger"
	"github.com/hsandamith/School-Management-System/storage/database/dbtest"
	sqlxrepos "github.com/hsandamith/School-Management-System/storage/database/sqlx"
)

func TestNewClass_Validate(t *testing.T) {
	validate := core.NewValidator(core.NewTranslator())

	nc := class.NewClass{Name: " Year Two ", Capacity: 30}
	require.NoError(t, nc.Validate(validate))
	assert.Equal(t, class.YearTwo, nc.Name)

	for _, bad := range []class.NewClass{
		{Name: "Year Seven", Capacity: 30},
		{Name: "year two", Capacity: 30},
		{Name: class.YearTwo},
		{Name: class.YearTwo, Capacity: -1},
	} {
		bad := bad
		err := bad.Validate(validate)
		var vErrs validator.ValidationErrors
		assert.ErrorAs(t, err, &vErrs, "%+v", bad)
	}

	orig := class.Class{Name: class.YearOne, Capacity: 20}
	uc := class.UpdateClass{Capacity: 25}
	require.NoError(t, uc.Validate(orig, validate))
	assert.Equal(t, class.YearOne, uc.Name)
	assert.Equal(t, 25, uc.Capacity)
}

func TestService(t *testing.T) {
	ctx := context.Background()
	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(zerolog.Nop(), conf)
	logger.Enable(false)
	db := dbtest.Open(t)
	validate := core.NewValidator(core.NewTranslator())

	svc := class.NewService(db, sqlxrepos.NewClassRepository(db))
	pupilSvc := pupil.NewService(
		conf, logger, db,
		sqlxrepos.NewPupilRepository(db), sqlxrepos.NewGuardianRepository(db),
		emailsvc.NewConsoleServiceMock(conf, logger), validate,
	)
	staffSvc := staff.NewService(db, sqlxrepos.NewStaffRepository(db))

	reception, err := svc.Create(ctx, class.NewClass{Name: class.Reception, Capacity: 2})
	require.NoError(t, err)
	yearOne, err := svc.Create(ctx, class.NewClass{Name: class.YearOne, Capacity: 30})
	require.NoError(t, err)

	for _, first := range []string{"Isla", "Finn"} {
		_, err := pupilSvc.Enroll(ctx, pupil.EnrollmentForm{
			FirstName:   first,
			LastName:    "Walsh",
			DateOfBirth: core.NewDate(2020, time.June, 1),
			Address:     "5 Harbour View, Whitby",
			ClassID:     reception.ID,
			Guardians:   []pupil.GuardianEntry{{FirstName: "Orla", LastName: "Walsh", PhoneNumber: "07700 900300"}},
		})
		require.NoError(t, err)
	}

	cls, err := svc.Get(ctx, reception.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, cls.PupilCount)
	assert.True(t, cls.IsFull())

	_, err = svc.Update(ctx, reception.ID, class.UpdateClass{Name: class.Reception, Capacity: 1})
	assert.ErrorIs(t, err, class.ErrCapacityTooSmall)

	updated, err := svc.Update(ctx, reception.ID, class.UpdateClass{Name: class.Reception, Capacity: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Capacity)

	assert.ErrorIs(t, svc.Delete(ctx, reception.ID), class.ErrHasPupils)
	assert.Equal(t, class.ErrNotFound, svc.Delete(ctx, 999))

	t.Run("teacher assignment", func(t *testing.T) {
		teacher, err := staffSvc.CreateTeacher(ctx, staff.TeacherForm{
			ContactForm:  staff.ContactForm{FirstName: "Aled", LastName: "Jones", PhoneNumber: "07700 900301"},
			AnnualSalary: core.MoneyFromMajor(31000),
			ClassID:      yearOne.ID,
		})
		require.NoError(t, err)

		free, err := svc.Query(ctx, &class.QueryFilter{WithoutTeacher: true}, nil)
		require.NoError(t, err)
		require.Len(t, free, 1)
		assert.Equal(t, reception.ID, free[0].ID)

		require.NoError(t, svc.Delete(ctx, yearOne.ID))

		got, err := staffSvc.GetTeacher(ctx, teacher.ID)
		require.NoError(t, err)
		assert.False(t, got.ClassID.Valid)
	})
}
